package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint                `json:"id" gorm:"primaryKey"`
	Name          string              `json:"name" gorm:"size:255;not null;index"`
	Brand         string              `json:"brand" gorm:"size:128"`
	Category      string              `json:"category" gorm:"size:128"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice" gorm:"column:discount_price;type:decimal(12,2)"`
	GSTRate       decimal.Decimal     `json:"gst_rate" gorm:"type:decimal(5,2);default:0"`
	HSNCode       string              `json:"hsn_code" gorm:"size:32"`
	Alias         string              `json:"alias" gorm:"size:128"`
	PartNumber    string              `json:"part_number" gorm:"size:128"`
	UOM           string              `json:"uom" gorm:"size:32"`
	StockQuantity int                 `json:"stock_quantity"`
	CostPrice     decimal.Decimal     `json:"cost_price" gorm:"type:decimal(12,2);default:0"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CustomerProductPrice overrides the unit price of one product for one customer.
type CustomerProductPrice struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CustomerID    string          `json:"customer_id" gorm:"size:64;not null;uniqueIndex:idx_customer_product"`
	ProductID     uint            `json:"product_id" gorm:"not null;uniqueIndex:idx_customer_product"`
	CustomerPrice decimal.Decimal `json:"customer_price" gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EffectivePrice resolves customer override, then discount price, then list price.
func (p *Product) EffectivePrice(override *CustomerProductPrice) decimal.Decimal {
	if override != nil {
		return override.CustomerPrice
	}
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}
