package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderProduct is a line item. Price, name and category are snapshots taken when the row is written.
type OrderProduct struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderID        uint            `json:"order_id" gorm:"not null;uniqueIndex:idx_order_product"`
	ProductID      uint            `json:"product_id" gorm:"not null;uniqueIndex:idx_order_product;index"`
	Quantity       int             `json:"quantity" gorm:"not null"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Name           string          `json:"name" gorm:"size:255"`
	Category       string          `json:"category" gorm:"size:128"`
	GSTRate        decimal.Decimal `json:"gst_rate" gorm:"type:decimal(5,2);default:0"`
	Altered        bool            `json:"altered" gorm:"not null;default:false"`
	QuantityChange *string         `json:"quantity_change" gorm:"size:16"`
}

func (op OrderProduct) LineTotal() decimal.Decimal {
	return op.Price.Mul(decimal.NewFromInt(int64(op.Quantity)))
}

// OrderTotal is Σ(price*quantity) over the given line items.
func OrderTotal(items []OrderProduct) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// QuantityChange renders the signed delta between two quantities, nil when unchanged.
func QuantityChange(previous, current int) *string {
	delta := current - previous
	if delta == 0 {
		return nil
	}
	s := strconv.Itoa(delta)
	return &s
}

var excludedCopyCategories = []string{"others", "paneer", "ghee", "butter", "butter milk"}

// EligibleForCopy reports whether a line item may be carried into an auto-placed order.
func EligibleForCopy(category string) bool {
	c := strings.ToLower(category)
	for _, excluded := range excludedCopyCategories {
		if strings.Contains(c, excluded) {
			return false
		}
	}
	return true
}
