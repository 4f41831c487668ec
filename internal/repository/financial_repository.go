package repository

import (
	"context"
	"order_manager/internal/models"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository interface {
	GetByCustomer(ctx context.Context, customerID string) (*models.CreditLimit, error)
	GetForUpdate(ctx context.Context, customerID string) (*models.CreditLimit, error)
	Create(ctx context.Context, credit *models.CreditLimit) error
	Save(ctx context.Context, credit *models.CreditLimit) error
	GetAll(ctx context.Context) ([]models.CreditLimit, error)
	TotalAmountDue(ctx context.Context) (decimal.Decimal, error)
	TotalAmountPaid(ctx context.Context) (cash, online decimal.Decimal, err error)
	Summaries(ctx context.Context) ([]CreditSummary, error)
	TransactionDetails(ctx context.Context) ([]TransactionDetail, error)

	CreatePayment(ctx context.Context, payment *models.PaymentTransaction) error
	GetPayments(ctx context.Context, filter PaymentFilter) ([]models.PaymentTransaction, error)
	SumPayments(ctx context.Context, customerID string, from, to time.Time) (decimal.Decimal, error)
}

type CreditSummary struct {
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	TotalAmountPaid decimal.Decimal `json:"total_amount_paid"`
}

type TransactionDetail struct {
	CustomerID       string          `json:"customer_id"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	AmountPaidCash   decimal.Decimal `json:"amount_paid_cash"`
	AmountPaidOnline decimal.Decimal `json:"amount_paid_online"`
	TotalPayments    decimal.Decimal `json:"total_payments"`
	PaymentCount     int64           `json:"payment_count"`
}

type PaymentFilter struct {
	CustomerID string
	Method     models.PaymentMethod
	From       *time.Time
	To         *time.Time
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) GetByCustomer(ctx context.Context, customerID string) (*models.CreditLimit, error) {
	var credit models.CreditLimit
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&credit).Error
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepository) GetForUpdate(ctx context.Context, customerID string) (*models.CreditLimit, error) {
	var credit models.CreditLimit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		First(&credit).Error
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepository) Create(ctx context.Context, credit *models.CreditLimit) error {
	return r.db.WithContext(ctx).Create(credit).Error
}

func (r *creditRepository) Save(ctx context.Context, credit *models.CreditLimit) error {
	return r.db.WithContext(ctx).Save(credit).Error
}

func (r *creditRepository) GetAll(ctx context.Context) ([]models.CreditLimit, error) {
	var credits []models.CreditLimit
	err := r.db.WithContext(ctx).Order("customer_id").Find(&credits).Error
	return credits, err
}

func (r *creditRepository) TotalAmountDue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.CreditLimit{}).
		Select("COALESCE(SUM(amount_due), 0)").
		Row().Scan(&total)
	return total, err
}

func (r *creditRepository) TotalAmountPaid(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var cash, online decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.CreditLimit{}).
		Select("COALESCE(SUM(amount_paid_cash), 0), COALESCE(SUM(amount_paid_online), 0)").
		Row().Scan(&cash, &online)
	return cash, online, err
}

func (r *creditRepository) Summaries(ctx context.Context) ([]CreditSummary, error) {
	var rows []CreditSummary
	err := r.db.WithContext(ctx).Table("credit_limit AS c").
		Select(`c.customer_id,
			COALESCE(NULLIF(c.customer_name, ''), u.name, '') AS customer_name,
			c.credit_limit,
			c.amount_due,
			(c.amount_paid_cash + c.amount_paid_online) AS total_amount_paid`).
		Joins("LEFT JOIN users u ON u.customer_id = c.customer_id").
		Order("customer_name").
		Scan(&rows).Error
	return rows, err
}

func (r *creditRepository) TransactionDetails(ctx context.Context) ([]TransactionDetail, error) {
	var rows []TransactionDetail
	err := r.db.WithContext(ctx).Table("credit_limit AS c").
		Select(`c.customer_id, c.credit_limit, c.amount_due, c.amount_paid_cash, c.amount_paid_online,
			COALESCE(SUM(p.payment_amount), 0) AS total_payments,
			COUNT(p.id) AS payment_count`).
		Joins("LEFT JOIN payment_transactions p ON p.customer_id = c.customer_id").
		Group("c.customer_id, c.credit_limit, c.amount_due, c.amount_paid_cash, c.amount_paid_online").
		Order("c.customer_id").
		Scan(&rows).Error
	return rows, err
}

func (r *creditRepository) CreatePayment(ctx context.Context, payment *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *creditRepository) GetPayments(ctx context.Context, filter PaymentFilter) ([]models.PaymentTransaction, error) {
	q := r.db.WithContext(ctx)
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Method != "" {
		q = q.Where("payment_method = ?", filter.Method)
	}
	if filter.From != nil {
		q = q.Where("payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("payment_date < ?", *filter.To)
	}

	var payments []models.PaymentTransaction
	err := q.Order("payment_date DESC").Find(&payments).Error
	return payments, err
}

// SumPayments totals payments in [from, to).
func (r *creditRepository) SumPayments(ctx context.Context, customerID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Select("COALESCE(SUM(payment_amount), 0)").
		Where("customer_id = ? AND payment_date >= ? AND payment_date < ?", customerID, from, to).
		Row().Scan(&total)
	return total, err
}
