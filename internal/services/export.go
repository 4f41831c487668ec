package services

import (
	"fmt"
	"io"
	"order_manager/internal/repository"

	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Sheet1"
)

// writeSheet writes headings into row 1 and one row per record below it.
func writeSheet(w io.Writer, headings []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, h := range headings {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}
	for r, values := range rows {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func WriteItemReportXLSX(w io.Writer, rows []repository.ItemReportRow) error {
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{r.Route, r.ProductName, r.TotalQuantity}
	}
	return writeSheet(w, []string{"Route", "Product", "Total Quantity"}, data)
}

func WriteCreditSummariesXLSX(w io.Writer, rows []repository.CreditSummary) error {
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{
			r.CustomerID,
			r.CustomerName,
			r.CreditLimit.InexactFloat64(),
			r.AmountDue.InexactFloat64(),
			r.TotalAmountPaid.InexactFloat64(),
		}
	}
	return writeSheet(w, []string{"Customer ID", "Customer Name", "Credit Limit", "Amount Due", "Total Amount Paid"}, data)
}
