package repository

import (
	"context"
	"order_manager/internal/models"

	"gorm.io/gorm"
)

type ReportRepository interface {
	ItemReport(ctx context.Context, day *DayRange) ([]ItemReportRow, error)
}

type ItemReportRow struct {
	Route         string `json:"route"`
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) ItemReport(ctx context.Context, day *DayRange) ([]ItemReportRow, error) {
	q := r.db.WithContext(ctx).Table("orders AS o").
		Select("u.route AS route, op.name AS product_name, SUM(op.quantity) AS total_quantity").
		Joins("JOIN users u ON u.customer_id = o.customer_id").
		Joins("JOIN order_products op ON op.order_id = o.id").
		Where("o.status <> ?", models.OrderCancelled)
	if day != nil {
		q = q.Where("o.placed_on BETWEEN ? AND ?", day.Start, day.End)
	}

	var rows []ItemReportRow
	err := q.Group("u.route, op.name").Order("u.route, op.name").Scan(&rows).Error
	return rows, err
}
