package handlers

import (
	"net/http"
	"order_manager/internal/models"
	"order_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Register(r gin.IRouter) {
	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.DELETE("/delete_product/:id", h.DeleteProduct)
	r.GET("/customer-product-price", h.EffectivePrice)
	r.POST("/customer_price_update", h.UpsertCustomerPrice)
	r.GET("/customer_price_check", h.CustomerPrices)
	r.POST("/global-price-update", h.GlobalPriceUpdate)
}

type createProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Brand         string           `json:"brand"`
	Category      string           `json:"category"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	GSTRate       decimal.Decimal  `json:"gst_rate"`
	HSNCode       string           `json:"hsn_code"`
	Alias         string           `json:"alias"`
	PartNumber    string           `json:"part_number"`
	UOM           string           `json:"uom"`
	StockQuantity int              `json:"stock_quantity" binding:"gte=0"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product := &models.Product{
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      req.Category,
		Price:         *req.Price,
		GSTRate:       req.GSTRate,
		HSNCode:       req.HSNCode,
		Alias:         req.Alias,
		PartNumber:    req.PartNumber,
		UOM:           req.UOM,
		StockQuantity: req.StockQuantity,
		CostPrice:     req.CostPrice,
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = decimal.NewNullDecimal(*req.DiscountPrice)
	}

	if err := h.catalog.CreateProduct(c.Request.Context(), product); err != nil {
		respondError(c, "CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product added successfully", "id": product.ID})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, "ListProducts", err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

func (h *CatalogHandler) EffectivePrice(c *gin.Context) {
	productID, ok := parseUintQuery(c, "product_id")
	if !ok {
		return
	}
	quote, err := h.catalog.EffectivePrice(c.Request.Context(), c.Query("customer_id"), productID)
	if err != nil {
		respondError(c, "EffectivePrice", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type customerPriceRequest struct {
	CustomerID    string           `json:"customer_id" binding:"required"`
	ProductID     uint             `json:"product_id" binding:"required"`
	CustomerPrice *decimal.Decimal `json:"customer_price" binding:"required"`
}

func (h *CatalogHandler) UpsertCustomerPrice(c *gin.Context) {
	var req customerPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	created, err := h.catalog.UpsertCustomerPrice(c.Request.Context(), req.CustomerID, req.ProductID, *req.CustomerPrice)
	if err != nil {
		respondError(c, "UpsertCustomerPrice", err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Customer price inserted successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer price updated successfully"})
}

func (h *CatalogHandler) CustomerPrices(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		respondBadRequest(c, "customer_id is required")
		return
	}
	prices, err := h.catalog.CustomerPrices(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, "CustomerPrices", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "prices": prices})
}

type globalPriceRequest struct {
	ProductID        uint             `json:"product_id" binding:"required"`
	NewDiscountPrice *decimal.Decimal `json:"new_discount_price" binding:"required"`
}

func (h *CatalogHandler) GlobalPriceUpdate(c *gin.Context) {
	var req globalPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.catalog.GlobalPriceUpdate(c.Request.Context(), req.ProductID, *req.NewDiscountPrice)
	if err != nil {
		respondError(c, "GlobalPriceUpdate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prices updated successfully", "result": res})
}
