package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(50)}
	if got := p.EffectivePrice(nil); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("list price: got %s", got)
	}

	p.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(45))
	if got := p.EffectivePrice(nil); !got.Equal(decimal.NewFromInt(45)) {
		t.Errorf("discount price: got %s", got)
	}

	override := &CustomerProductPrice{CustomerPrice: decimal.NewFromInt(40)}
	if got := p.EffectivePrice(override); !got.Equal(decimal.NewFromInt(40)) {
		t.Errorf("customer override: got %s", got)
	}
}

func TestAmountsMarshalAsNumbers(t *testing.T) {
	b, err := json.Marshal(CreditLimit{AmountDue: decimal.NewFromInt(300)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := out["amount_due"].(float64); !ok || v != 300 {
		t.Errorf("amount_due = %#v, want number 300", out["amount_due"])
	}
}

func TestAutoOrderEnabled(t *testing.T) {
	yes, no := "YES", "No"
	u := User{AutoAMOrder: &yes, AutoPMOrder: &no}
	if !u.AutoOrderEnabled(OrderTypeAM) {
		t.Error("AM should be enabled")
	}
	if u.AutoOrderEnabled(OrderTypePM) {
		t.Error("PM should be disabled")
	}
	if (&User{}).AutoOrderEnabled(OrderTypeAM) {
		t.Error("nil flag should be disabled")
	}
}
