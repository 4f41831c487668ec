package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"order_manager/internal/models"
	"order_manager/internal/repository"
	"order_manager/internal/services"
)

type fakeReports struct {
	services.ReportService

	rows     []repository.ItemReportRow
	invoices map[uint]models.Invoice
}

func (f *fakeReports) ItemReport(_ context.Context, date string) ([]repository.ItemReportRow, error) {
	if len(f.rows) == 0 {
		return nil, services.NotFound("No data found for the given date")
	}
	return f.rows, nil
}

func (f *fakeReports) SaveInvoice(_ context.Context, invoice models.Invoice) (bool, error) {
	if f.invoices == nil {
		f.invoices = map[uint]models.Invoice{}
	}
	_, exists := f.invoices[invoice.OrderID]
	f.invoices[invoice.OrderID] = invoice
	return !exists, nil
}

func (f *fakeReports) Invoices(context.Context, string, string) ([]services.InvoiceGroup, error) {
	return []services.InvoiceGroup{}, nil
}

type fakeAssignments struct {
	services.AssignmentService
}

func (fakeAssignments) SaveAssignment(_ context.Context, customerID string, routes []string) ([]string, error) {
	return nil, nil
}

func (fakeAssignments) AssignUsers(_ context.Context, adminID uint, userIDs []uint) error {
	return services.Invalid("User %d is already assigned to another admin", userIDs[0])
}

func TestItemReport(t *testing.T) {
	reports := &fakeReports{rows: []repository.ItemReportRow{{Route: "North", ProductName: "Paneer 200g", TotalQuantity: 12}}}
	r := newRouter(NewReportHandler(reports))

	w := perform(t, r, http.MethodGet, "/item-report?date=2024-05-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if rows, _ := decode(t, w)["itemReportData"].([]interface{}); len(rows) != 1 {
		t.Errorf("itemReportData = %v", rows)
	}

	w = perform(t, r, http.MethodGet, "/item-report?date=2024-05-01&format=xlsx", nil)
	if w.Header().Get("Content-Type") != services.XLSXContentType || !strings.HasPrefix(w.Body.String(), "PK") {
		t.Errorf("xlsx response: %q", w.Header().Get("Content-Type"))
	}
}

func TestItemReportEmpty(t *testing.T) {
	r := newRouter(NewReportHandler(&fakeReports{}))
	if w := perform(t, r, http.MethodGet, "/item-report?date=2024-05-01", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSaveInvoiceUpserts(t *testing.T) {
	reports := &fakeReports{}
	r := newRouter(NewReportHandler(reports))
	invoice := map[string]interface{}{"order_id": 4, "invoice_id": "INV-4", "order_date": 1714500000, "invoice_date": 1714550000}

	if msg := decode(t, perform(t, r, http.MethodPost, "/invoice", invoice))["message"]; msg != "Invoice data inserted successfully" {
		t.Errorf("first save: %v", msg)
	}
	if msg := decode(t, perform(t, r, http.MethodPost, "/invoice", invoice))["message"]; msg != "Invoice data updated successfully" {
		t.Errorf("second save: %v", msg)
	}
}

func TestFetchInvoicesEmpty(t *testing.T) {
	r := newRouter(NewReportHandler(&fakeReports{}))
	body := decode(t, perform(t, r, http.MethodGet, "/fetch-all-invoices", nil))
	if body["message"] != "No invoices found" {
		t.Errorf("body = %v", body)
	}
}

func TestSaveAssignmentReturnsEmptyList(t *testing.T) {
	r := newRouter(NewAssignmentHandler(fakeAssignments{}))
	w := perform(t, r, http.MethodPost, "/save-assignment", map[string]interface{}{"customerId": "S1", "routes": []string{"North"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if added, ok := decode(t, w)["newlyAssignedRoutes"].([]interface{}); !ok || len(added) != 0 {
		t.Errorf("newlyAssignedRoutes = %v", added)
	}

	if w := perform(t, r, http.MethodPost, "/save-assignment", map[string]interface{}{"customerId": "S1", "routes": []string{}}); w.Code != http.StatusBadRequest {
		t.Errorf("empty routes: status = %d, want 400", w.Code)
	}
}

func TestAssignUsersConflict(t *testing.T) {
	r := newRouter(NewAssignmentHandler(fakeAssignments{}))
	w := perform(t, r, http.MethodPost, "/assign-users-to-admin", map[string]interface{}{"adminId": 1, "users": []int{5}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	r := newRouter(NewHealthHandler(map[string]HealthCheck{"database": ok}))
	if w := perform(t, r, http.MethodGet, "/health", nil); w.Code != http.StatusOK || decode(t, w)["status"] != "ok" {
		t.Errorf("healthy: %d %s", w.Code, w.Body.String())
	}

	r = newRouter(NewHealthHandler(map[string]HealthCheck{"database": ok, "redis": down}))
	w := perform(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	checks, _ := decode(t, w)["checks"].(map[string]interface{})
	if checks["database"] != "ok" || checks["redis"] == "ok" {
		t.Errorf("checks = %v", checks)
	}
}
