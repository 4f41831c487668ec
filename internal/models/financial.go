package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditLimit is the per-customer ledger row. Only the ledger service writes it.
type CreditLimit struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	CustomerID       string          `json:"customer_id" gorm:"size:64;not null;uniqueIndex"`
	CustomerName     string          `json:"customer_name" gorm:"size:128"`
	CreditLimit      decimal.Decimal `json:"credit_limit" gorm:"type:decimal(12,2);not null;default:0"`
	AmountDue        decimal.Decimal `json:"amount_due" gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaidCash   decimal.Decimal `json:"amount_paid_cash" gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaidOnline decimal.Decimal `json:"amount_paid_online" gorm:"type:decimal(12,2);not null;default:0"`
	CashPaidDate     *int64          `json:"cash_paid_date"`
	OnlinePaidDate   *int64          `json:"online_paid_date"`
	Version          uint            `json:"version" gorm:"not null;default:0"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (CreditLimit) TableName() string {
	return "credit_limit"
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// PaymentTransaction is append-only.
type PaymentTransaction struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CustomerID    string          `json:"customer_id" gorm:"size:64;not null;index"`
	PaymentMethod PaymentMethod   `json:"payment_method" gorm:"size:16;not null"`
	PaymentAmount decimal.Decimal `json:"payment_amount" gorm:"type:decimal(12,2);not null"`
	PaymentDate   time.Time       `json:"payment_date" gorm:"not null;index"`
}
