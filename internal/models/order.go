package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	CustomerID     string          `json:"customer_id" gorm:"size:64;not null;index:idx_orders_customer_placed"`
	OrderType      OrderType       `json:"order_type" gorm:"size:2;not null"`
	PlacedOn       int64           `json:"placed_on" gorm:"not null;index:idx_orders_customer_placed"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Status         OrderStatus     `json:"status" gorm:"size:16;not null;default:'Placed'"`
	DeliveryStatus DeliveryStatus  `json:"delivery_status" gorm:"size:32;not null;default:'pending'"`
	LoadingSlip    bool            `json:"loading_slip" gorm:"not null;default:false"`
	Products       []OrderProduct  `json:"products,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type OrderType string

const (
	OrderTypeAM OrderType = "AM"
	OrderTypePM OrderType = "PM"
)

func ParseOrderType(s string) (OrderType, bool) {
	switch OrderType(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderTypeAM:
		return OrderTypeAM, true
	case OrderTypePM:
		return OrderTypePM, true
	}
	return "", false
}

// OrderStatus is the approval lifecycle of an order. Cancelled is terminal.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "Placed"
	OrderAltered   OrderStatus = "Altered"
	OrderAccepted  OrderStatus = "Accepted"
	OrderCancelled OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPlaced:   {OrderAltered, OrderAccepted, OrderCancelled},
	OrderAltered:  {OrderAltered, OrderAccepted, OrderCancelled},
	OrderAccepted: {OrderAltered, OrderCancelled},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Mutable reports whether line items may still change.
func (s OrderStatus) Mutable() bool {
	return s != OrderCancelled
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, status := range []OrderStatus{OrderPlaced, OrderAltered, OrderAccepted, OrderCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, true
		}
	}
	return "", false
}

type DeliveryStatus string

const (
	DeliveryPending        DeliveryStatus = "pending"
	DeliveryProcessing     DeliveryStatus = "processing"
	DeliveryOutForDelivery DeliveryStatus = "out for delivery"
	DeliveryDelivered      DeliveryStatus = "delivered"
	DeliveryObjection      DeliveryStatus = "objection"
)

func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	switch DeliveryStatus(strings.ToLower(strings.TrimSpace(s))) {
	case DeliveryPending:
		return DeliveryPending, true
	case DeliveryProcessing:
		return DeliveryProcessing, true
	case DeliveryOutForDelivery:
		return DeliveryOutForDelivery, true
	case DeliveryDelivered:
		return DeliveryDelivered, true
	case DeliveryObjection:
		return DeliveryObjection, true
	}
	return "", false
}
