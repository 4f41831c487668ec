package repository

import (
	"context"
	"order_manager/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	GetByOrderID(ctx context.Context, orderID uint) (*models.Invoice, error)
	Save(ctx context.Context, invoice *models.Invoice) error
	GetLines(ctx context.Context, from, to *int64) ([]InvoiceLine, error)
	CreateRemark(ctx context.Context, remark *models.Remark) error
	GetRemarks(ctx context.Context) ([]models.Remark, error)
}

// InvoiceLine is one line item joined with its invoice, order, customer and product.
type InvoiceLine struct {
	InvoiceNo      string
	ID             uint
	InvoiceDate    int64
	CustomerName   string
	CustomerMobile string
	ProductName    string
	StockGroup     string
	StockCategory  string
	Rate           decimal.Decimal
	Quantity       int
	Amount         decimal.Decimal
	HSN            string
	GSTRate        decimal.Decimal
	OrderID        uint
	OrderDate      int64
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) GetByOrderID(ctx context.Context, orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Save(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) GetLines(ctx context.Context, from, to *int64) ([]InvoiceLine, error) {
	q := r.db.WithContext(ctx).Table("invoice AS i").
		Select(`i.invoice_id AS invoice_no, i.id AS id, i.invoice_date AS invoice_date,
			COALESCE(u.name, '') AS customer_name, COALESCE(u.phone, '') AS customer_mobile,
			op.name AS product_name, COALESCE(p.brand, '') AS stock_group, op.category AS stock_category,
			op.price AS rate, op.quantity AS quantity, (op.price * op.quantity) AS amount,
			COALESCE(p.hsn_code, '') AS hsn, op.gst_rate AS gst_rate,
			o.id AS order_id, o.placed_on AS order_date`).
		Joins("JOIN orders o ON o.id = i.order_id").
		Joins("LEFT JOIN users u ON u.customer_id = o.customer_id").
		Joins("JOIN order_products op ON op.order_id = o.id").
		Joins("LEFT JOIN products p ON p.id = op.product_id")
	if from != nil {
		q = q.Where("i.invoice_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("i.invoice_date <= ?", *to)
	}

	var lines []InvoiceLine
	err := q.Order("i.invoice_date DESC, i.invoice_id, op.product_id").Scan(&lines).Error
	return lines, err
}

func (r *invoiceRepository) CreateRemark(ctx context.Context, remark *models.Remark) error {
	return r.db.WithContext(ctx).Create(remark).Error
}

func (r *invoiceRepository) GetRemarks(ctx context.Context) ([]models.Remark, error) {
	var remarks []models.Remark
	err := r.db.WithContext(ctx).Order("id DESC").Find(&remarks).Error
	return remarks, err
}
