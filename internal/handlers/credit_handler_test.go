package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"order_manager/internal/models"
	"order_manager/internal/repository"
	"order_manager/internal/services"

	"github.com/shopspring/decimal"
)

type fakeLedger struct {
	services.LedgerService

	rows      map[string]*models.CreditLimit
	collected []decimal.Decimal
	summaries []repository.CreditSummary
}

func (f *fakeLedger) GetCreditLimit(_ context.Context, customerID string) (*models.CreditLimit, error) {
	row, ok := f.rows[customerID]
	if !ok {
		return nil, services.NotFound("Credit limit not found for customer %s", customerID)
	}
	return row, nil
}

func (f *fakeLedger) CollectPayment(_ context.Context, customerID string, method models.PaymentMethod, amount decimal.Decimal) (*models.CreditLimit, error) {
	row, ok := f.rows[customerID]
	if !ok {
		return nil, services.NotFound("Credit limit not found for customer %s", customerID)
	}
	f.collected = append(f.collected, amount)
	row.AmountDue = row.AmountDue.Sub(amount)
	row.CreditLimit = row.CreditLimit.Add(amount)
	if method == models.PaymentCash {
		row.AmountPaidCash = row.AmountPaidCash.Add(amount)
	} else {
		row.AmountPaidOnline = row.AmountPaidOnline.Add(amount)
	}
	return row, nil
}

func (f *fakeLedger) Deduct(_ context.Context, customerID string, amount decimal.Decimal) (*models.CreditLimit, error) {
	row := f.rows[customerID]
	if row.CreditLimit.LessThan(amount) {
		return nil, services.Invalid("Insufficient credit limit")
	}
	row.CreditLimit = row.CreditLimit.Sub(amount)
	return row, nil
}

func (f *fakeLedger) GetAll(context.Context) ([]models.CreditLimit, error) {
	rows := make([]models.CreditLimit, 0, len(f.rows))
	for _, row := range f.rows {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (f *fakeLedger) Summaries(context.Context) ([]repository.CreditSummary, error) {
	return f.summaries, nil
}

func (f *fakeLedger) Totals(context.Context) (*services.LedgerTotals, error) {
	return &services.LedgerTotals{
		AmountDue:        decimal.NewFromInt(300),
		AmountPaidCash:   decimal.NewFromInt(50),
		AmountPaidOnline: decimal.NewFromInt(25),
	}, nil
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: map[string]*models.CreditLimit{
		"C1": {CustomerID: "C1", CreditLimit: decimal.NewFromInt(1000), AmountDue: decimal.NewFromInt(500)},
	}}
}

func TestCollectCash(t *testing.T) {
	ledger := newFakeLedger()
	r := newRouter(NewCreditHandler(ledger))

	w := perform(t, r, http.MethodPost, "/collect_cash?customerId=C1", map[string]interface{}{"cash": 200})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["updatedAmountDue"] != float64(300) || body["updatedCreditLimit"] != float64(1200) || body["updatedAmountPaidCash"] != float64(200) {
		t.Errorf("body = %v", body)
	}
}

func TestCollectWithoutAmountReportsDue(t *testing.T) {
	ledger := newFakeLedger()
	r := newRouter(NewCreditHandler(ledger))

	w := perform(t, r, http.MethodPost, "/collect_online?customerId=C1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if got := decode(t, w)["amountDue"]; got != float64(500) {
		t.Errorf("amountDue = %v, want 500", got)
	}
	if len(ledger.collected) != 0 {
		t.Errorf("payment recorded without an amount: %v", ledger.collected)
	}
}

func TestCollectCustomerFromBody(t *testing.T) {
	ledger := newFakeLedger()
	r := newRouter(NewCreditHandler(ledger))

	w := perform(t, r, http.MethodPost, "/collect_online", map[string]interface{}{"customerId": "C1", "online": "75.50"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if got := decode(t, w)["updatedAmountPaidOnline"]; got != 75.5 {
		t.Errorf("updatedAmountPaidOnline = %v", got)
	}
}

func TestCollectRequiresCustomer(t *testing.T) {
	r := newRouter(NewCreditHandler(newFakeLedger()))
	w := perform(t, r, http.MethodPost, "/collect_cash", map[string]interface{}{"cash": 10})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreditLimitLookup(t *testing.T) {
	r := newRouter(NewCreditHandler(newFakeLedger()))

	if w := perform(t, r, http.MethodGet, "/credit-limit?customerId=C1", nil); decode(t, w)["creditLimit"] != float64(1000) {
		t.Errorf("body = %s", w.Body.String())
	}
	if w := perform(t, r, http.MethodGet, "/credit-limit?customerId=nobody", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w := perform(t, r, http.MethodGet, "/credit-limit", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeduct(t *testing.T) {
	r := newRouter(NewCreditHandler(newFakeLedger()))

	w := perform(t, r, http.MethodPost, "/credit-limit/deduct", map[string]interface{}{"customerId": "C1", "amountChange": 400})
	if got := decode(t, w)["newCreditLimit"]; got != float64(600) {
		t.Errorf("newCreditLimit = %v", got)
	}

	w = perform(t, r, http.MethodPost, "/credit-limit/deduct", map[string]interface{}{"customerId": "C1", "amountChange": 4000})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = perform(t, r, http.MethodPost, "/credit-limit/deduct", map[string]interface{}{"customerId": "C1"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing amountChange: status = %d, want 400", w.Code)
	}
}

func TestTotalAmountPaid(t *testing.T) {
	r := newRouter(NewCreditHandler(newFakeLedger()))
	body := decode(t, perform(t, r, http.MethodGet, "/admin/total-amount-paid", nil))
	if body["totalAmountPaid"] != float64(75) {
		t.Errorf("totalAmountPaid = %v, want 75", body["totalAmountPaid"])
	}
}

func TestCreditSummariesXLSX(t *testing.T) {
	ledger := newFakeLedger()
	ledger.summaries = []repository.CreditSummary{{CustomerID: "C1", CustomerName: "Ravi", CreditLimit: decimal.NewFromInt(1000)}}
	r := newRouter(NewCreditHandler(ledger))

	w := perform(t, r, http.MethodGet, "/get_customer_credit_summaries?format=xlsx", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != services.XLSXContentType {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "credit-summaries.xlsx") {
		t.Errorf("content disposition = %q", w.Header().Get("Content-Disposition"))
	}
	// xlsx files are zip archives.
	if !strings.HasPrefix(w.Body.String(), "PK") {
		t.Error("body is not a zip archive")
	}
}

func TestCreditSummariesEmpty(t *testing.T) {
	r := newRouter(NewCreditHandler(newFakeLedger()))
	if w := perform(t, r, http.MethodGet, "/get_customer_credit_summaries", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAmountDue(t *testing.T) {
	r := newRouter(NewCreditHandler(newFakeLedger()))
	w := perform(t, r, http.MethodGet, "/amount_due", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if rows, _ := decode(t, w)["creditLimitData"].([]interface{}); len(rows) != 1 {
		t.Errorf("creditLimitData = %v", rows)
	}

	r = newRouter(NewCreditHandler(&fakeLedger{}))
	if w := perform(t, r, http.MethodGet, "/amount_due", nil); w.Code != http.StatusNotFound {
		t.Errorf("empty ledger: status = %d, want 404", w.Code)
	}
}
