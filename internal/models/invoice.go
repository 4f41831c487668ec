package models

import "time"

type Invoice struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderID     uint   `json:"order_id" gorm:"not null;uniqueIndex"`
	InvoiceID   string `json:"invoice_id" gorm:"size:64;not null;index"`
	OrderDate   int64  `json:"order_date"`
	InvoiceDate int64  `json:"invoice_date" gorm:"index"`
}

func (Invoice) TableName() string {
	return "invoice"
}

type Remark struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID string    `json:"customer_id" gorm:"size:64;not null;index"`
	OrderID    uint      `json:"order_id" gorm:"not null;index"`
	Remarks    string    `json:"remarks" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}
