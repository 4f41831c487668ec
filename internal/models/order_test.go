package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderPlaced, OrderAltered, true},
		{OrderPlaced, OrderAccepted, true},
		{OrderPlaced, OrderCancelled, true},
		{OrderPlaced, OrderPlaced, false},
		{OrderAltered, OrderAltered, true},
		{OrderAltered, OrderAccepted, true},
		{OrderAccepted, OrderAltered, true},
		{OrderAccepted, OrderAccepted, false},
		{OrderAccepted, OrderCancelled, true},
		{OrderCancelled, OrderAltered, false},
		{OrderCancelled, OrderAccepted, false},
		{OrderCancelled, OrderCancelled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, ok := ParseOrderStatus(" accepted "); !ok || s != OrderAccepted {
		t.Errorf("ParseOrderStatus(accepted) = %q, %v", s, ok)
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Error("unknown status should not parse")
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	for _, in := range []string{"pending", "Processing", "OUT FOR DELIVERY", "delivered", "objection"} {
		if _, ok := ParseDeliveryStatus(in); !ok {
			t.Errorf("ParseDeliveryStatus(%q) should succeed", in)
		}
	}
	if _, ok := ParseDeliveryStatus("lost"); ok {
		t.Error("lost is not a delivery status")
	}
}

func TestParseOrderType(t *testing.T) {
	if ot, ok := ParseOrderType("pm"); !ok || ot != OrderTypePM {
		t.Errorf("ParseOrderType(pm) = %q, %v", ot, ok)
	}
	if _, ok := ParseOrderType("NOON"); ok {
		t.Error("NOON is not an order type")
	}
}

func TestOrderTotal(t *testing.T) {
	items := []OrderProduct{
		{ProductID: 1, Quantity: 3, Price: decimal.NewFromInt(10)},
		{ProductID: 2, Quantity: 1, Price: decimal.NewFromInt(5)},
	}
	if got := OrderTotal(items); !got.Equal(decimal.NewFromInt(35)) {
		t.Errorf("OrderTotal = %s, want 35", got)
	}
	if got := OrderTotal(nil); !got.IsZero() {
		t.Errorf("OrderTotal(nil) = %s, want 0", got)
	}
}

func TestQuantityChange(t *testing.T) {
	if QuantityChange(2, 2) != nil {
		t.Error("unchanged quantity should yield nil")
	}
	if got := QuantityChange(2, 5); got == nil || *got != "3" {
		t.Errorf("QuantityChange(2,5) = %v, want 3", got)
	}
	if got := QuantityChange(5, 2); got == nil || *got != "-3" {
		t.Errorf("QuantityChange(5,2) = %v, want -3", got)
	}
}

func TestEligibleForCopy(t *testing.T) {
	tests := map[string]bool{
		"Milk":         true,
		"Curd":         true,
		"Ghee":         false,
		"Butter Milk":  false,
		"Fresh Paneer": false,
		"OTHERS":       false,
		"":             true,
	}
	for category, want := range tests {
		if got := EligibleForCopy(category); got != want {
			t.Errorf("EligibleForCopy(%q) = %v, want %v", category, got, want)
		}
	}
}
