package handlers

import (
	"io"
	"net/http"
	"order_manager/internal/models"
	"order_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Register(r gin.IRouter) {
	r.GET("/item-report", h.ItemReport)
	r.POST("/invoice", h.SaveInvoice)
	r.GET("/fetch-all-invoices", h.Invoices)
	r.POST("/remarks-update", h.AddRemark)
	r.GET("/fetch-remarks", h.Remarks)
}

func (h *ReportHandler) ItemReport(c *gin.Context) {
	rows, err := h.reports.ItemReport(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, "ItemReport", err)
		return
	}
	if wantsXLSX(c) {
		writeXLSX(c, "item-report.xlsx", func(w io.Writer) error {
			return services.WriteItemReportXLSX(w, rows)
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item report data fetched successfully", "itemReportData": rows})
}

type invoiceRequest struct {
	OrderID     uint   `json:"order_id" binding:"required"`
	InvoiceID   string `json:"invoice_id" binding:"required"`
	OrderDate   int64  `json:"order_date" binding:"required"`
	InvoiceDate int64  `json:"invoice_date" binding:"required"`
}

func (h *ReportHandler) SaveInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	created, err := h.reports.SaveInvoice(c.Request.Context(), models.Invoice{
		OrderID:     req.OrderID,
		InvoiceID:   req.InvoiceID,
		OrderDate:   req.OrderDate,
		InvoiceDate: req.InvoiceDate,
	})
	if err != nil {
		respondError(c, "SaveInvoice", err)
		return
	}
	verb := "updated"
	if created {
		verb = "inserted"
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice data " + verb + " successfully", "orderId": req.OrderID})
}

func (h *ReportHandler) Invoices(c *gin.Context) {
	groups, err := h.reports.Invoices(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, "Invoices", err)
		return
	}
	message := "Invoices fetched successfully"
	if len(groups) == 0 {
		message = "No invoices found"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "data": groups})
}

type remarkRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	OrderID    uint   `json:"order_id" binding:"required"`
	Remarks    string `json:"remarks" binding:"required"`
}

func (h *ReportHandler) AddRemark(c *gin.Context) {
	var req remarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	remark := &models.Remark{CustomerID: req.CustomerID, OrderID: req.OrderID, Remarks: req.Remarks}
	if err := h.reports.AddRemark(c.Request.Context(), remark); err != nil {
		respondError(c, "AddRemark", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Remarks updated successfully", "id": remark.ID})
}

func (h *ReportHandler) Remarks(c *gin.Context) {
	remarks, err := h.reports.Remarks(c.Request.Context())
	if err != nil {
		respondError(c, "Remarks", err)
		return
	}
	if remarks == nil {
		remarks = []models.Remark{}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Remarks fetched successfully", "remarks": remarks})
}
