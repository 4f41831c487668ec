package services

import (
	"bytes"
	"order_manager/internal/repository"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteItemReportXLSX(t *testing.T) {
	rows := []repository.ItemReportRow{
		{Route: "R1", ProductName: "Milk 500ml", TotalQuantity: 42},
		{Route: "R2", ProductName: "Curd 1kg", TotalQuantity: 7},
	}

	var buf bytes.Buffer
	if err := WriteItemReportXLSX(&buf, rows); err != nil {
		t.Fatalf("WriteItemReportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "Route",
		"C1": "Total Quantity",
		"A2": "R1",
		"B2": "Milk 500ml",
		"C2": "42",
		"B3": "Curd 1kg",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(exportSheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestWriteCreditSummariesXLSX(t *testing.T) {
	rows := []repository.CreditSummary{
		{CustomerID: "C1", CustomerName: "Store One", CreditLimit: d("1200"), AmountDue: d("300.5"), TotalAmountPaid: d("200")},
	}

	var buf bytes.Buffer
	if err := WriteCreditSummariesXLSX(&buf, rows); err != nil {
		t.Fatalf("WriteCreditSummariesXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue(exportSheet, "D2")
	if got != "300.5" {
		t.Errorf("amount due cell = %q, want 300.5", got)
	}
	got, _ = f.GetCellValue(exportSheet, "B2")
	if got != "Store One" {
		t.Errorf("name cell = %q", got)
	}
}
