package services

import (
	"context"
	"order_manager/internal/models"
	"testing"
)

func TestDeduct(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()
	if err := store.Credits.Create(ctx, &models.CreditLimit{CustomerID: "C1", CreditLimit: d("1000"), AmountDue: d("500")}); err != nil {
		t.Fatalf("create credit row: %v", err)
	}
	ledger := NewLedgerService(store, LedgerOptions{})

	// Steps run in order against the same row.
	steps := []struct {
		name      string
		change    string
		wantLimit string
	}{
		{"deduct", "400", "600"},
		{"negative change raises the limit", "-250", "850"},
		{"no floor", "2000", "-1150"},
	}
	for i, step := range steps {
		row, err := ledger.Deduct(ctx, "C1", d(step.change))
		if err != nil {
			t.Fatalf("%s: Deduct: %v", step.name, err)
		}
		if !row.CreditLimit.Equal(d(step.wantLimit)) {
			t.Errorf("%s: credit limit = %s, want %s", step.name, row.CreditLimit, step.wantLimit)
		}
		if !row.AmountDue.Equal(d("500")) {
			t.Errorf("%s: amount due changed to %s", step.name, row.AmountDue)
		}
		if row.Version != uint(i+1) {
			t.Errorf("%s: version = %d, want %d", step.name, row.Version, i+1)
		}
	}

	stored, err := ledger.GetCreditLimit(ctx, "C1")
	if err != nil {
		t.Fatalf("GetCreditLimit: %v", err)
	}
	if !stored.CreditLimit.Equal(d("-1150")) {
		t.Errorf("stored credit limit = %s, want -1150", stored.CreditLimit)
	}

	if _, err := ledger.Deduct(ctx, "nobody", d("1")); KindOf(err) != KindNotFound {
		t.Errorf("unknown customer: got %v, want not found", err)
	}
	if _, err := ledger.Deduct(ctx, "", d("1")); KindOf(err) != KindInvalid {
		t.Errorf("empty customer: got %v, want invalid", err)
	}
}

func TestCollectPaymentAppendsTransaction(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()
	if err := store.Credits.Create(ctx, &models.CreditLimit{CustomerID: "C1", CreditLimit: d("1000"), AmountDue: d("500")}); err != nil {
		t.Fatalf("create credit row: %v", err)
	}
	cache := newMapCache()
	ledger := NewLedgerService(store, LedgerOptions{Cache: cache})

	if _, err := ledger.Totals(ctx); err != nil {
		t.Fatalf("Totals: %v", err)
	}
	row, err := ledger.CollectPayment(ctx, "C1", models.PaymentCash, d("200"))
	if err != nil {
		t.Fatalf("CollectPayment: %v", err)
	}
	if !row.AmountPaidCash.Equal(d("200")) || !row.AmountDue.Equal(d("300")) || !row.CreditLimit.Equal(d("1200")) {
		t.Errorf("row = paid %s due %s limit %s", row.AmountPaidCash, row.AmountDue, row.CreditLimit)
	}

	payments, err := ledger.Payments(ctx, "C1", "", "cash")
	if err != nil {
		t.Fatalf("Payments: %v", err)
	}
	if len(payments) != 1 || !payments[0].PaymentAmount.Equal(d("200")) {
		t.Errorf("payments = %+v", payments)
	}

	totals, err := ledger.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if !totals.AmountDue.Equal(d("300")) {
		t.Errorf("cached totals not refreshed: due = %s", totals.AmountDue)
	}
}
