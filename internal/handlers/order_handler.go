package handlers

import (
	"fmt"
	"net/http"
	"order_manager/internal/models"
	"order_manager/internal/repository"
	"order_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orders services.OrderService
}

func NewOrderHandler(orders services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Register(r gin.IRouter) {
	r.POST("/on-behalf", h.PlaceOnBehalf)
	r.POST("/on-behalf-2", h.PlaceCustom)
	r.POST("/order_update", h.UpdateOrder)
	r.POST("/add-product-to-order", h.AddProduct)
	r.PUT("/update_order_price/:orderId/product/:productId", h.UpdateProductPrice)
	r.DELETE("/delete_order_product/:orderId/:productId", h.RemoveProduct)
	r.POST("/cancel_order/:orderId", h.Cancel)
	r.POST("/update-order-status", h.UpdateStatus)
	r.POST("/update-delivery-status", h.UpdateDeliveryStatus)
	r.POST("/update-loading-slip-status", h.MarkLoadingSlip)

	r.GET("/get-orders/:customer_id", h.GetOrders)
	r.GET("/get-orders-sa", h.GetAllOrders)
	r.GET("/get-all-orders", h.GetAllOrders)
	r.GET("/get-admin-orders/:admin_id", h.GetAdminOrders)
	r.GET("/order-by-date-shift", h.GetOrderByShift)
	r.GET("/order-products", h.GetOrderProducts)
	r.GET("/most-recent-order", h.GetMostRecentOrder)
	r.GET("/latest-product-price", h.GetLatestProductPrice)
	r.GET("/allowed-shift", h.AllowedShift)
}

type onBehalfRequest struct {
	CustomerID       string `json:"customer_id" binding:"required"`
	OrderType        string `json:"order_type" binding:"required"`
	ReferenceOrderID uint   `json:"reference_order_id" binding:"required"`
}

func (h *OrderHandler) PlaceOnBehalf(c *gin.Context) {
	var req onBehalfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.orders.PlaceOnBehalf(c.Request.Context(), services.PlaceOnBehalfInput{
		CustomerID:       req.CustomerID,
		OrderType:        req.OrderType,
		ReferenceOrderID: req.ReferenceOrderID,
	})
	if err != nil {
		respondError(c, "PlaceOnBehalf", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       fmt.Sprintf("Order placed successfully on behalf of customer %s.", req.CustomerID),
		"new_order_id":  res.Order.ID,
		"product_count": res.ProductCount,
	})
}

type customOrderLine struct {
	ProductID uint             `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	Price     *decimal.Decimal `json:"price" binding:"required"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	GSTRate   *decimal.Decimal `json:"gst_rate"`
}

type customOrderRequest struct {
	CustomerID string            `json:"customer_id" binding:"required"`
	OrderType  string            `json:"order_type" binding:"required"`
	Products   []customOrderLine `json:"products" binding:"required,min=1,dive"`
}

func (h *OrderHandler) PlaceCustom(c *gin.Context) {
	var req customOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lines := make([]services.CustomOrderLine, len(req.Products))
	for i, p := range req.Products {
		lines[i] = services.CustomOrderLine{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     *p.Price,
			Name:      p.Name,
			Category:  p.Category,
			GSTRate:   p.GSTRate,
		}
	}

	res, err := h.orders.PlaceCustom(c.Request.Context(), services.CustomOrderInput{
		CustomerID: req.CustomerID,
		OrderType:  req.OrderType,
		Products:   lines,
	})
	if err != nil {
		respondError(c, "PlaceCustom", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Custom order placed successfully.",
		"new_order_id":  res.Order.ID,
		"product_count": res.ProductCount,
	})
}

type orderUpdateLine struct {
	OrderID   uint            `json:"order_id" binding:"required"`
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"gte=0"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	GSTRate   decimal.Decimal `json:"gst_rate"`
	IsNew     bool            `json:"is_new"`
}

type orderUpdateRequest struct {
	OrderID     uint              `json:"orderId" binding:"required"`
	Products    []orderUpdateLine `json:"products" binding:"required,dive"`
	TotalAmount *decimal.Decimal  `json:"totalAmount" binding:"required"`
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req orderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lines := make([]services.OrderUpdateLine, len(req.Products))
	for i, p := range req.Products {
		lines[i] = services.OrderUpdateLine{
			OrderID:   p.OrderID,
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Name:      p.Name,
			Category:  p.Category,
			GSTRate:   p.GSTRate,
			IsNew:     p.IsNew,
		}
	}

	res, err := h.orders.UpdateOrder(c.Request.Context(), services.OrderUpdateInput{
		OrderID:     req.OrderID,
		Products:    lines,
		TotalAmount: *req.TotalAmount,
	})
	if err != nil {
		respondError(c, "UpdateOrder", err)
		return
	}

	cancelled := "No"
	if res.Cancelled {
		cancelled = "Yes"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           "Order updated successfully. Status: " + cancelled,
		"cancelled":         cancelled,
		"totalAmount":       res.TotalAmount,
		"clientTotalAmount": res.ClientTotalAmount,
	})
}

type addProductRequest struct {
	OrderID    uint             `json:"orderId" binding:"required"`
	ProductID  uint             `json:"productId" binding:"required"`
	Quantity   int              `json:"quantity" binding:"required"`
	Price      *decimal.Decimal `json:"price" binding:"required"`
	GSTRate    *decimal.Decimal `json:"gst_rate"`
	CustomerID string           `json:"customerId"`
}

func (h *OrderHandler) AddProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.orders.AddProduct(c.Request.Context(), services.AddProductInput{
		OrderID:    req.OrderID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Price:      *req.Price,
		GSTRate:    req.GSTRate,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		respondError(c, "AddProduct", err)
		return
	}

	if res.Created {
		c.JSON(http.StatusCreated, gin.H{
			"success":           true,
			"message":           "Product added to order successfully.",
			"newOrderProductId": res.OrderProductID,
			"totalAmount":       res.TotalAmount,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Product quantity updated successfully.",
		"totalAmount": res.TotalAmount,
	})
}

type updatePriceRequest struct {
	NewPrice *decimal.Decimal `json:"newPrice" binding:"required"`
}

func (h *OrderHandler) UpdateProductPrice(c *gin.Context) {
	orderID, ok := parseUintParam(c, "orderId")
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "productId")
	if !ok {
		return
	}
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	total, err := h.orders.UpdateProductPrice(c.Request.Context(), orderID, productID, *req.NewPrice)
	if err != nil {
		respondError(c, "UpdateProductPrice", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order price updated successfully", "totalAmount": total})
}

func (h *OrderHandler) RemoveProduct(c *gin.Context) {
	orderID, ok := parseUintParam(c, "orderId")
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "productId")
	if !ok {
		return
	}

	total, err := h.orders.RemoveProduct(c.Request.Context(), orderID, productID)
	if err != nil {
		respondError(c, "RemoveProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order product deleted successfully", "totalAmount": total})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := parseUintParam(c, "orderId")
	if !ok {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), orderID); err != nil {
		respondError(c, "Cancel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Order cancelled successfully for order ID: %d", orderID)})
}

type updateStatusRequest struct {
	ID            uint   `json:"id" binding:"required"`
	ApproveStatus string `json:"approve_status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), req.ID, req.ApproveStatus)
	if err != nil {
		respondError(c, "UpdateStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "status": order.Status})
}

type deliveryStatusRequest struct {
	OrderID        uint   `json:"order_id" binding:"required"`
	CustomerID     string `json:"customer_id"`
	DeliveryStatus string `json:"delivery_status" binding:"required"`
}

func (h *OrderHandler) UpdateDeliveryStatus(c *gin.Context) {
	var req deliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.orders.UpdateDeliveryStatus(c.Request.Context(), req.OrderID, req.CustomerID, req.DeliveryStatus)
	if err != nil {
		respondError(c, "UpdateDeliveryStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Delivery status updated successfully",
		"data":    gin.H{"order_id": order.ID, "delivery_status": order.DeliveryStatus},
	})
}

type loadingSlipRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

func (h *OrderHandler) MarkLoadingSlip(c *gin.Context) {
	var req loadingSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.orders.MarkLoadingSlip(c.Request.Context(), req.OrderID); err != nil {
		respondError(c, "MarkLoadingSlip", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Loading slip status updated successfully."})
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orders.GetOrdersByCustomer(c.Request.Context(), c.Param("customer_id"), c.Query("date"))
	if err != nil {
		respondError(c, "GetOrders", err)
		return
	}
	respondOrders(c, orders)
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, "GetAllOrders", err)
		return
	}
	respondOrders(c, orders)
}

func respondOrders(c *gin.Context, orders []models.Order) {
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "data": orders})
}

func (h *OrderHandler) GetAdminOrders(c *gin.Context) {
	adminID, ok := parseUintParam(c, "admin_id")
	if !ok {
		return
	}
	orders, err := h.orders.GetAdminOrders(c.Request.Context(), adminID, c.Query("date"))
	if err != nil {
		respondError(c, "GetAdminOrders", err)
		return
	}
	if orders == nil {
		orders = []repository.AdminOrder{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) GetOrderByShift(c *gin.Context) {
	customerID, date, orderType := c.Query("customerId"), c.Query("orderDate"), c.Query("orderType")
	if customerID == "" || date == "" || orderType == "" {
		respondBadRequest(c, "customerId, orderDate, and orderType are required")
		return
	}
	order, err := h.orders.GetOrderByShift(c.Request.Context(), customerID, date, orderType)
	if err != nil {
		respondError(c, "GetOrderByShift", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order fetched successfully", "order": order})
}

func (h *OrderHandler) GetOrderProducts(c *gin.Context) {
	orderID, ok := parseUintQuery(c, "orderId")
	if !ok {
		return
	}
	items, err := h.orders.GetOrderProducts(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, "GetOrderProducts", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) GetMostRecentOrder(c *gin.Context) {
	customerID := c.Query("customerId")
	if customerID == "" {
		respondBadRequest(c, "Customer ID is required")
		return
	}
	order, err := h.orders.GetMostRecentOrder(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, "GetMostRecentOrder", err)
		return
	}
	if order == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "order": nil, "message": "No previous orders found for this customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *OrderHandler) GetLatestProductPrice(c *gin.Context) {
	productID, ok := parseUintQuery(c, "productId")
	if !ok {
		return
	}
	price, err := h.orders.GetLatestProductPrice(c.Request.Context(), productID)
	if err != nil {
		respondError(c, "GetLatestProductPrice", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "price": price})
}

func (h *OrderHandler) AllowedShift(c *gin.Context) {
	shift := c.Query("shift")
	allowed, err := h.orders.ShiftAllowed(shift)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "allowed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": shift, "allowed": allowed})
}
