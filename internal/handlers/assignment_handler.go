package handlers

import (
	"net/http"
	"order_manager/internal/repository"
	"order_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignments services.AssignmentService
}

func NewAssignmentHandler(assignments services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

func (h *AssignmentHandler) Register(r gin.IRouter) {
	r.POST("/save-assignment", h.SaveAssignment)
	r.POST("/get-all-assigned-routes", h.AssignedRoutes)
	r.GET("/get-unique-routes", h.UniqueRoutes)
	r.POST("/assign-users-to-admin", h.AssignUsers)
	r.GET("/assigned-users/:adminId", h.AssignedUsers)
}

type saveAssignmentRequest struct {
	CustomerID string   `json:"customerId" binding:"required"`
	Routes     []string `json:"routes" binding:"required,min=1"`
}

func (h *AssignmentHandler) SaveAssignment(c *gin.Context) {
	var req saveAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	added, err := h.assignments.SaveAssignment(c.Request.Context(), req.CustomerID, req.Routes)
	if err != nil {
		respondError(c, "SaveAssignment", err)
		return
	}
	if added == nil {
		added = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "Routes updated successfully!",
		"newlyAssignedRoutes": added,
	})
}

func (h *AssignmentHandler) AssignedRoutes(c *gin.Context) {
	routes, err := h.assignments.AssignedRoutes(c.Request.Context())
	if err != nil {
		respondError(c, "AssignedRoutes", err)
		return
	}
	if routes == nil {
		routes = []repository.AssignedRoute{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "assignedRoutes": routes})
}

func (h *AssignmentHandler) UniqueRoutes(c *gin.Context) {
	routes, err := h.assignments.UniqueRoutes(c.Request.Context())
	if err != nil {
		respondError(c, "UniqueRoutes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "routes": routes})
}

type assignUsersRequest struct {
	AdminID uint   `json:"adminId" binding:"required"`
	Users   []uint `json:"users" binding:"required,min=1"`
}

func (h *AssignmentHandler) AssignUsers(c *gin.Context) {
	var req assignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.assignments.AssignUsers(c.Request.Context(), req.AdminID, req.Users); err != nil {
		respondError(c, "AssignUsers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Users successfully assigned to the admin.",
		"assignedUsers": req.Users,
	})
}

func (h *AssignmentHandler) AssignedUsers(c *gin.Context) {
	adminID, ok := parseUintParam(c, "adminId")
	if !ok {
		return
	}
	users, err := h.assignments.AssignedUsers(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, "AssignedUsers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "assignedUsers": users})
}
