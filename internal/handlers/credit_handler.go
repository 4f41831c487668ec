package handlers

import (
	"io"
	"net/http"
	"order_manager/internal/models"
	"order_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreditHandler struct {
	ledger services.LedgerService
}

func NewCreditHandler(ledger services.LedgerService) *CreditHandler {
	return &CreditHandler{ledger: ledger}
}

func (h *CreditHandler) Register(r gin.IRouter) {
	r.GET("/credit-limit", h.GetCreditLimit)
	r.POST("/credit-limit/deduct", h.Deduct)
	r.POST("/credit-limit/update-amount-due-on-order", h.UpdateAmountDueOnOrder)
	r.POST("/collect_cash", h.CollectCash)
	r.POST("/collect_online", h.CollectOnline)
	r.GET("/admin/total-amount-due", h.TotalAmountDue)
	r.GET("/admin/total-amount-paid", h.TotalAmountPaid)
	r.GET("/fetch_credit_data", h.FetchCreditData)
	r.GET("/amount_due", h.AmountDue)
	r.PUT("/update_credit_limit", h.UpdateCreditLimit)
	r.POST("/increase-credit-limit", h.IncreaseCreditLimit)
	r.GET("/get_customer_transaction_details", h.TransactionDetails)
	r.GET("/get_customer_credit_summaries", h.CreditSummaries)
	r.GET("/fetch-payment-transactions", h.PaymentTransactions)
	r.GET("/fetch-all-payment-transactions", h.AllPaymentTransactions)
	r.GET("/fetch-total-paid", h.TotalPaidForMonth)
	r.GET("/fetch-total-paid-by-day", h.TotalPaidForDay)
}

func (h *CreditHandler) GetCreditLimit(c *gin.Context) {
	customerID := c.Query("customerId")
	if customerID == "" {
		respondBadRequest(c, "Customer ID is required as a query parameter")
		return
	}
	row, err := h.ledger.GetCreditLimit(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, "GetCreditLimit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"creditLimit": row.CreditLimit})
}

type deductRequest struct {
	CustomerID   string           `json:"customerId" binding:"required"`
	AmountChange *decimal.Decimal `json:"amountChange" binding:"required"`
}

func (h *CreditHandler) Deduct(c *gin.Context) {
	var req deductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	row, err := h.ledger.Deduct(c.Request.Context(), req.CustomerID, *req.AmountChange)
	if err != nil {
		respondError(c, "Deduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credit limit updated successfully", "newCreditLimit": row.CreditLimit})
}

type amountDueRequest struct {
	CustomerID          string           `json:"customerId" binding:"required"`
	TotalOrderAmount    *decimal.Decimal `json:"totalOrderAmount" binding:"required"`
	OriginalOrderAmount *decimal.Decimal `json:"originalOrderAmount"`
}

func (h *CreditHandler) UpdateAmountDueOnOrder(c *gin.Context) {
	var req amountDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	row, err := h.ledger.UpdateAmountDueOnOrder(c.Request.Context(), req.CustomerID, *req.TotalOrderAmount, req.OriginalOrderAmount)
	if err != nil {
		respondError(c, "UpdateAmountDueOnOrder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Credit limit amount_due updated successfully.",
		"updatedAmountDue": row.AmountDue,
	})
}

type collectRequest struct {
	CustomerID string           `json:"customerId"`
	Cash       *decimal.Decimal `json:"cash"`
	Online     *decimal.Decimal `json:"online"`
}

func (h *CreditHandler) CollectCash(c *gin.Context) {
	h.collect(c, models.PaymentCash)
}

func (h *CreditHandler) CollectOnline(c *gin.Context) {
	h.collect(c, models.PaymentOnline)
}

// collect records a payment, or just reports the amount due when no amount was sent.
func (h *CreditHandler) collect(c *gin.Context, method models.PaymentMethod) {
	var req collectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			respondBindError(c, err)
			return
		}
	}
	customerID := c.Query("customerId")
	if customerID == "" {
		customerID = req.CustomerID
	}
	if customerID == "" {
		respondBadRequest(c, "Customer ID is required")
		return
	}

	amount := req.Cash
	if method == models.PaymentOnline {
		amount = req.Online
	}
	ctx := c.Request.Context()

	if amount == nil {
		row, err := h.ledger.GetCreditLimit(ctx, customerID)
		if err != nil {
			respondError(c, "collect", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"amountDue": row.AmountDue})
		return
	}

	row, err := h.ledger.CollectPayment(ctx, customerID, method, *amount)
	if err != nil {
		respondError(c, "collect", err)
		return
	}

	if method == models.PaymentCash {
		c.JSON(http.StatusOK, gin.H{
			"message":               "Cash collected and transaction recorded successfully",
			"updatedAmountPaidCash": row.AmountPaidCash,
			"updatedAmountDue":      row.AmountDue,
			"updatedCreditLimit":    row.CreditLimit,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":                  "Online payment collected and transaction recorded successfully",
		"updatedAmountPaidOnline":  row.AmountPaidOnline,
		"updatedAmountDue":         row.AmountDue,
		"updatedCreditLimit":       row.CreditLimit,
		"updatedOnlineCreditLimit": row.CreditLimit,
	})
}

func (h *CreditHandler) TotalAmountDue(c *gin.Context) {
	totals, err := h.ledger.Totals(c.Request.Context())
	if err != nil {
		respondError(c, "TotalAmountDue", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "totalAmountDue": totals.AmountDue})
}

func (h *CreditHandler) TotalAmountPaid(c *gin.Context) {
	totals, err := h.ledger.Totals(c.Request.Context())
	if err != nil {
		respondError(c, "TotalAmountPaid", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"totalAmountPaidCash":   totals.AmountPaidCash,
		"totalAmountPaidOnline": totals.AmountPaidOnline,
		"totalAmountPaid":       totals.AmountPaid(),
	})
}

func (h *CreditHandler) FetchCreditData(c *gin.Context) {
	rows, err := h.ledger.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, "FetchCreditData", err)
		return
	}
	if rows == nil {
		rows = []models.CreditLimit{}
	}
	c.JSON(http.StatusOK, gin.H{"creditData": rows})
}

// AmountDue lists every ledger row; an empty ledger is a 404.
func (h *CreditHandler) AmountDue(c *gin.Context) {
	rows, err := h.ledger.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, "AmountDue", err)
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No credit limit data found in the table"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All credit limit data fetched successfully", "creditLimitData": rows})
}

type setCreditLimitRequest struct {
	CustomerID  string           `json:"customerId" binding:"required"`
	CreditLimit *decimal.Decimal `json:"creditLimit" binding:"required"`
}

func (h *CreditHandler) UpdateCreditLimit(c *gin.Context) {
	var req setCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if _, err := h.ledger.SetCreditLimit(c.Request.Context(), req.CustomerID, *req.CreditLimit); err != nil {
		respondError(c, "UpdateCreditLimit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credit limit updated successfully"})
}

type increaseCreditLimitRequest struct {
	CustomerID       string           `json:"customerId" binding:"required"`
	AmountToIncrease *decimal.Decimal `json:"amountToIncrease" binding:"required"`
}

func (h *CreditHandler) IncreaseCreditLimit(c *gin.Context) {
	var req increaseCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	row, err := h.ledger.IncreaseCreditLimit(c.Request.Context(), req.CustomerID, *req.AmountToIncrease)
	if err != nil {
		respondError(c, "IncreaseCreditLimit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credit limit increased successfully", "creditLimit": row.CreditLimit})
}

func (h *CreditHandler) TransactionDetails(c *gin.Context) {
	rows, err := h.ledger.TransactionDetails(c.Request.Context())
	if err != nil {
		respondError(c, "TransactionDetails", err)
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No customers found"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *CreditHandler) CreditSummaries(c *gin.Context) {
	rows, err := h.ledger.Summaries(c.Request.Context())
	if err != nil {
		respondError(c, "CreditSummaries", err)
		return
	}
	if wantsXLSX(c) {
		writeXLSX(c, "credit-summaries.xlsx", func(w io.Writer) error {
			return services.WriteCreditSummariesXLSX(w, rows)
		})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No customers found"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *CreditHandler) PaymentTransactions(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		respondBadRequest(c, "Customer ID is required")
		return
	}
	h.respondPayments(c, customerID)
}

func (h *CreditHandler) AllPaymentTransactions(c *gin.Context) {
	h.respondPayments(c, "")
}

func (h *CreditHandler) respondPayments(c *gin.Context, customerID string) {
	payments, err := h.ledger.Payments(c.Request.Context(), customerID, c.Query("date"), c.Query("payment_method"))
	if err != nil {
		respondError(c, "Payments", err)
		return
	}
	if payments == nil {
		payments = []models.PaymentTransaction{}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment transactions fetched successfully", "transactions": payments})
}

func (h *CreditHandler) TotalPaidForMonth(c *gin.Context) {
	customerID, month := c.Query("customer_id"), c.Query("month")
	if customerID == "" || month == "" {
		respondBadRequest(c, "Customer ID and month are required")
		return
	}
	total, err := h.ledger.TotalPaidForMonth(c.Request.Context(), customerID, month)
	if err != nil {
		respondError(c, "TotalPaidForMonth", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "month": month, "total_paid": total})
}

func (h *CreditHandler) TotalPaidForDay(c *gin.Context) {
	customerID, date := c.Query("customer_id"), c.Query("date")
	if customerID == "" || date == "" {
		respondBadRequest(c, "Customer ID and date are required")
		return
	}
	total, err := h.ledger.TotalPaidForDay(c.Request.Context(), customerID, date)
	if err != nil {
		respondError(c, "TotalPaidForDay", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "date": date, "total_paid": total})
}
