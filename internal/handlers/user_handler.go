package handlers

import (
	"encoding/json"
	"net/http"
	"order_manager/internal/models"
	"order_manager/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the customer and salesman directory.
type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(r gin.IRouter) {
	r.POST("/add-user", h.AddUser)
	r.POST("/salesman-create", h.CreateSalesman)
	r.POST("/salesman-update", h.UpdateSalesman)
	r.GET("/salesman-read", h.GetSalesman)
	r.GET("/salesman-fetch", h.ListSalesmen)
	r.POST("/update-auto-order-preferences", h.UpdateAutoOrderPreferences)
	r.GET("/block-status/:customer_id", h.BlockStatus)
	r.POST("/update-block-status", h.UpdateBlockStatus)
	r.DELETE("/delete-customer/:customer_id", h.DeleteCustomer)
	r.POST("/update-user-location", h.UpdateLocation)
	r.GET("/get-user-location/:customerId", h.GetLocation)
	r.GET("/user_price_mode", h.PriceMode)
}

type addUserRequest struct {
	CustomerID   string   `json:"customer_id" binding:"required"`
	Username     string   `json:"username" binding:"required"`
	Name         string   `json:"name"`
	Alias        string   `json:"alias"`
	Phone        string   `json:"phone" binding:"required"`
	Route        string   `json:"route"`
	PriceMode    string   `json:"price_mode" binding:"required"`
	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Zip          string   `json:"zip"`
	GSTNumber    string   `json:"gst_number"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

func (h *UserHandler) AddUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.users.AddUser(c.Request.Context(), services.NewUserInput{
		CustomerID:   req.CustomerID,
		Username:     req.Username,
		Name:         req.Name,
		Alias:        req.Alias,
		Phone:        req.Phone,
		Route:        req.Route,
		PriceMode:    req.PriceMode,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		GSTNumber:    req.GSTNumber,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	})
	if err != nil {
		respondError(c, "AddUser", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User added successfully", "data": user})
}

// routeList accepts "R1,R2" or ["R1","R2"].
type routeList []string

func (r *routeList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = services.ParseRoutes(strings.Join(list, ","))
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = services.ParseRoutes(raw)
	return nil
}

type createSalesmanRequest struct {
	CustomerID   string    `json:"customer_id" binding:"required"`
	Username     string    `json:"username" binding:"required"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line1"`
	Designation  string    `json:"designation"`
	Route        routeList `json:"route"`
	AadharNumber string    `json:"aadhar_number"`
	PanNumber    string    `json:"pan_number"`
	DLNumber     string    `json:"dl_number"`
	Notes        string    `json:"notes"`
}

func (h *UserHandler) CreateSalesman(c *gin.Context) {
	var req createSalesmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	salesman, err := h.users.CreateSalesman(c.Request.Context(), services.NewSalesmanInput{
		CustomerID:   req.CustomerID,
		Username:     req.Username,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		Designation:  req.Designation,
		Routes:       req.Route,
		AadharNumber: req.AadharNumber,
		PanNumber:    req.PanNumber,
		DLNumber:     req.DLNumber,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, "CreateSalesman", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Salesman created successfully", "data": gin.H{"id": salesman.ID}})
}

// UpdateSalesman takes a free-form body; unknown keys are ignored by the service.
func (h *UserHandler) UpdateSalesman(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}
	customerID, _ := body["customer_id"].(string)
	delete(body, "customer_id")

	salesman, err := h.users.UpdateSalesman(c.Request.Context(), customerID, body)
	if err != nil {
		respondError(c, "UpdateSalesman", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Salesman updated successfully", "data": salesman})
}

func (h *UserHandler) GetSalesman(c *gin.Context) {
	salesman, err := h.users.GetSalesman(c.Request.Context(), c.Query("customer_id"))
	if err != nil {
		respondError(c, "GetSalesman", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": salesman})
}

func (h *UserHandler) ListSalesmen(c *gin.Context) {
	salesmen, err := h.users.ListSalesmen(c.Request.Context())
	if err != nil {
		respondError(c, "ListSalesmen", err)
		return
	}
	if salesmen == nil {
		salesmen = []models.User{}
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Admin users fetched successfully", "data": salesmen})
}

func (h *UserHandler) UpdateAutoOrderPreferences(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	var in services.AutoOrderPreferences
	if raw, ok := body["customer_id"]; ok {
		if err := json.Unmarshal(raw, &in.CustomerID); err != nil {
			respondBadRequest(c, "customer_id must be a string")
			return
		}
	}
	var ok bool
	if in.AutoAM, in.ClearAM, ok = autoFlag(c, body, "auto_am_order"); !ok {
		return
	}
	if in.AutoPM, in.ClearPM, ok = autoFlag(c, body, "auto_pm_order"); !ok {
		return
	}

	if err := h.users.UpdateAutoOrderPreferences(c.Request.Context(), in); err != nil {
		respondError(c, "UpdateAutoOrderPreferences", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Auto order preferences updated successfully"})
}

// autoFlag distinguishes an absent key from an explicit null, which clears the flag.
func autoFlag(c *gin.Context, body map[string]json.RawMessage, key string) (*string, bool, bool) {
	raw, present := body[key]
	if !present {
		return nil, false, true
	}
	if string(raw) == "null" {
		return nil, true, true
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		respondBadRequest(c, key+" must be Yes, No or null")
		return nil, false, false
	}
	return &v, false, true
}

func (h *UserHandler) BlockStatus(c *gin.Context) {
	user, err := h.users.BlockStatus(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, "BlockStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "User status retrieved successfully",
		"data":    gin.H{"customer_id": user.CustomerID, "name": user.Name, "status": user.Status},
	})
}

type blockStatusRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Status     string `json:"status" binding:"required,oneof=active blocked"`
}

func (h *UserHandler) UpdateBlockStatus(c *gin.Context) {
	var req blockStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.users.UpdateBlockStatus(c.Request.Context(), req.CustomerID, req.Status); err != nil {
		respondError(c, "UpdateBlockStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "User status updated successfully to " + req.Status,
		"data":    gin.H{"customer_id": req.CustomerID, "status": req.Status},
	})
}

func (h *UserHandler) DeleteCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")
	if err := h.users.DeleteCustomer(c.Request.Context(), customerID); err != nil {
		respondError(c, "DeleteCustomer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Customer deleted successfully"})
}

type locationRequest struct {
	CustomerID string   `json:"customer_id" binding:"required"`
	Latitude   *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

func (h *UserHandler) UpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.users.UpdateLocation(c.Request.Context(), req.CustomerID, *req.Latitude, *req.Longitude); err != nil {
		respondError(c, "UpdateLocation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User location updated successfully",
		"data":    gin.H{"customer_id": req.CustomerID, "latitude": *req.Latitude, "longitude": *req.Longitude},
	})
}

func (h *UserHandler) GetLocation(c *gin.Context) {
	location, err := h.users.Location(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondError(c, "GetLocation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": location, "message": "User location fetched successfully"})
}

func (h *UserHandler) PriceMode(c *gin.Context) {
	customerID := c.Query("customer_id")
	mode, err := h.users.PriceMode(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, "PriceMode", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "customer_id": customerID, "price_mode": mode})
}
