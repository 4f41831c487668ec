package services

import (
	"order_manager/internal/repository"
	"testing"
)

func TestGroupInvoiceLines(t *testing.T) {
	lines := []repository.InvoiceLine{
		{InvoiceNo: "INV-2", ID: 2, InvoiceDate: 200, CustomerName: "B", ProductName: "Milk", Quantity: 2, Rate: d("25"), Amount: d("50"), OrderID: 20},
		{InvoiceNo: "INV-1", ID: 1, InvoiceDate: 100, ProductName: "Curd", Quantity: 1, Rate: d("40"), Amount: d("40"), OrderID: 10},
		{InvoiceNo: "INV-2", ID: 2, InvoiceDate: 200, CustomerName: "B", ProductName: "", Quantity: 3, Rate: d("10"), Amount: d("30"), OrderID: 20},
	}

	groups := GroupInvoiceLines(lines)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].InvoiceID != "INV-2" || len(groups[0].Items) != 2 {
		t.Errorf("first group = %+v", groups[0])
	}
	if groups[0].Items[1].ProductDescription != "-" {
		t.Errorf("empty product name should render as -, got %q", groups[0].Items[1].ProductDescription)
	}
	if groups[1].CustomerName != "Unknown" || groups[1].CustomerMobile != "-" {
		t.Errorf("missing customer fields not defaulted: %+v", groups[1])
	}
	if groups[1].VoucherDate != 100 {
		t.Errorf("voucher date = %d, want 100", groups[1].VoucherDate)
	}
}

func TestGroupInvoiceLinesEmpty(t *testing.T) {
	groups := GroupInvoiceLines(nil)
	if groups == nil || len(groups) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", groups)
	}
}

func TestItemReportKey(t *testing.T) {
	if itemReportKey("") != "report:items:all" {
		t.Error("empty date should map to the all key")
	}
	if itemReportKey("2024-05-01") != "report:items:2024-05-01" {
		t.Error("unexpected dated key")
	}
}
