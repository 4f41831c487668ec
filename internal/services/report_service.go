package services

import (
	"context"
	"errors"
	"fmt"
	applog "order_manager/internal/logger"
	"order_manager/internal/models"
	"order_manager/internal/redis"
	"order_manager/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ReportService interface {
	ItemReport(ctx context.Context, date string) ([]repository.ItemReportRow, error)
	SaveInvoice(ctx context.Context, invoice models.Invoice) (bool, error)
	Invoices(ctx context.Context, startDate, endDate string) ([]InvoiceGroup, error)
	AddRemark(ctx context.Context, remark *models.Remark) error
	Remarks(ctx context.Context) ([]models.Remark, error)
}

type InvoiceItem struct {
	ProductDescription string          `json:"product_description"`
	StockGroup         string          `json:"stock_group"`
	StockCategory      string          `json:"stock_category"`
	Rate               decimal.Decimal `json:"rate"`
	Quantity           int             `json:"quantity"`
	Amount             decimal.Decimal `json:"amount"`
	HSN                string          `json:"hsn"`
	GSTPercentage      decimal.Decimal `json:"gst_percentage"`
}

type InvoiceGroup struct {
	InvoiceID      string        `json:"invoice_id"`
	ID             uint          `json:"id"`
	VoucherDate    int64         `json:"voucher_date"`
	InvoiceDate    int64         `json:"invoice_date"`
	CustomerName   string        `json:"customer_name"`
	CustomerMobile string        `json:"customer_mobile"`
	OrderID        uint          `json:"order_id"`
	OrderDate      int64         `json:"order_date"`
	Items          []InvoiceItem `json:"items"`
}

type reportService struct {
	store    *repository.Store
	cache    Cache
	cacheTTL time.Duration
	loc      *time.Location
	log      *logrus.Logger
}

func NewReportService(store *repository.Store, cache Cache, cacheTTL time.Duration, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{store: store, cache: cache, cacheTTL: cacheTTL, loc: loc, log: applog.Get()}
}

func itemReportKey(date string) string {
	if date == "" {
		return "report:items:all"
	}
	return "report:items:" + date
}

func (s *reportService) ItemReport(ctx context.Context, date string) ([]repository.ItemReportRow, error) {
	day, err := optionalDayRange(date, s.loc)
	if err != nil {
		return nil, err
	}

	key := itemReportKey(date)
	var rows []repository.ItemReportRow
	if s.cache != nil {
		if err := s.cache.GetJSON(ctx, key, &rows); err == nil {
			return rows, nil
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			applog.LogError(s.log, "report", "ItemReport", "reading cached report", date, err)
		}
	}

	rows, err = s.store.Reports.ItemReport(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to build item report: %w", err)
	}
	if len(rows) == 0 {
		return nil, NotFound("No item report data found for the selected date")
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, rows, s.cacheTTL); err != nil {
			applog.LogError(s.log, "report", "ItemReport", "caching report", date, err)
		}
	}
	return rows, nil
}

// invalidateItemReport drops the cached report for the order's day and the undated one.
func invalidateItemReport(ctx context.Context, cache Cache, log *logrus.Logger, loc *time.Location, placedOn int64) {
	if cache == nil {
		return
	}
	day := time.Unix(placedOn, 0).In(loc).Format(dayLayout)
	if err := cache.Delete(ctx, itemReportKey(day), itemReportKey("")); err != nil {
		applog.LogError(log, "report", "invalidateItemReport", "deleting cached report", day, err)
	}
}

// SaveInvoice upserts by order id and reports whether a new row was inserted.
func (s *reportService) SaveInvoice(ctx context.Context, invoice models.Invoice) (bool, error) {
	if invoice.OrderID == 0 || invoice.InvoiceID == "" || invoice.OrderDate == 0 || invoice.InvoiceDate == 0 {
		return false, Invalid("Missing required fields: order_id, invoice_id, order_date, and invoice_date are all mandatory.")
	}

	created := false
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Invoices.GetByOrderID(ctx, invoice.OrderID)
		switch {
		case err == nil:
			invoice.ID = existing.ID
		case isNotFound(err):
			created = true
		default:
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		return tx.Invoices.Save(ctx, &invoice)
	})
	return created, err
}

func (s *reportService) Invoices(ctx context.Context, startDate, endDate string) ([]InvoiceGroup, error) {
	var from, to *int64
	if startDate != "" {
		day, err := dayRange(startDate, s.loc)
		if err != nil {
			return nil, Invalid("Invalid startDate format. Use YYYY-MM-DD")
		}
		from = &day.Start
	}
	if endDate != "" {
		day, err := dayRange(endDate, s.loc)
		if err != nil {
			return nil, Invalid("Invalid endDate format. Use YYYY-MM-DD")
		}
		to = &day.End
	}

	lines, err := s.store.Invoices.GetLines(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	return GroupInvoiceLines(lines), nil
}

// GroupInvoiceLines folds joined invoice rows into one entry per invoice number, keeping row order.
func GroupInvoiceLines(lines []repository.InvoiceLine) []InvoiceGroup {
	groups := make([]InvoiceGroup, 0)
	index := make(map[string]int)
	for _, line := range lines {
		i, ok := index[line.InvoiceNo]
		if !ok {
			group := InvoiceGroup{
				InvoiceID:      line.InvoiceNo,
				ID:             line.ID,
				VoucherDate:    line.InvoiceDate,
				InvoiceDate:    line.InvoiceDate,
				CustomerName:   orDefault(line.CustomerName, "Unknown"),
				CustomerMobile: orDefault(line.CustomerMobile, "-"),
				OrderID:        line.OrderID,
				OrderDate:      line.OrderDate,
			}
			groups = append(groups, group)
			i = len(groups) - 1
			index[line.InvoiceNo] = i
		}
		groups[i].Items = append(groups[i].Items, InvoiceItem{
			ProductDescription: orDefault(line.ProductName, "-"),
			StockGroup:         orDefault(line.StockGroup, "-"),
			StockCategory:      orDefault(line.StockCategory, "-"),
			Rate:               line.Rate,
			Quantity:           line.Quantity,
			Amount:             line.Amount,
			HSN:                orDefault(line.HSN, "-"),
			GSTPercentage:      line.GSTRate,
		})
	}
	return groups
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (s *reportService) AddRemark(ctx context.Context, remark *models.Remark) error {
	if remark.CustomerID == "" || remark.OrderID == 0 || remark.Remarks == "" {
		return Invalid("customer_id, order_id, and remarks are required")
	}
	if _, err := s.store.Orders.GetByID(ctx, remark.OrderID); err != nil {
		return notFoundOr(err, "order", "Order %d not found", remark.OrderID)
	}
	return s.store.Invoices.CreateRemark(ctx, remark)
}

func (s *reportService) Remarks(ctx context.Context) ([]models.Remark, error) {
	return s.store.Invoices.GetRemarks(ctx)
}
