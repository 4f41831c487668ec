package repository

import (
	"context"
	"order_manager/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	ExistsForDay(ctx context.Context, customerID string, orderType models.OrderType, day DayRange) (bool, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	GetByCustomer(ctx context.Context, customerID string, day *DayRange) ([]models.Order, error)
	GetAll(ctx context.Context, day *DayRange) ([]models.Order, error)
	GetForAdmin(ctx context.Context, adminID uint, day *DayRange) ([]AdminOrder, error)
	FindByShift(ctx context.Context, customerID string, orderType models.OrderType, day DayRange) (*models.Order, error)
	MostRecent(ctx context.Context, customerID string) (*models.Order, error)
}

// AdminOrder is an order of a customer covered by a salesman, with its summed line amount.
type AdminOrder struct {
	models.Order
	Amount decimal.Decimal `json:"amount"`
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetForUpdate reads the order with a row lock; only meaningful inside a transaction.
func (r *orderRepository) GetForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Products").Save(order).Error
}

func (r *orderRepository) ExistsForDay(ctx context.Context, customerID string, orderType models.OrderType, day DayRange) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("customer_id = ? AND order_type = ? AND placed_on BETWEEN ? AND ?", customerID, orderType, day.Start, day.End).
		Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *orderRepository) GetByCustomer(ctx context.Context, customerID string, day *DayRange) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if day != nil {
		q = q.Where("placed_on BETWEEN ? AND ?", day.Start, day.End)
	}
	err := q.Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAll(ctx context.Context, day *DayRange) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx)
	if day != nil {
		q = q.Where("placed_on BETWEEN ? AND ?", day.Start, day.End)
	}
	err := q.Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetForAdmin(ctx context.Context, adminID uint, day *DayRange) ([]AdminOrder, error) {
	covered := r.db.WithContext(ctx).Model(&models.AdminAssign{}).Select("customer_id").Where("admin_id = ?", adminID)

	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("orders.*, COALESCE(SUM(op.price * op.quantity), 0) AS amount").
		Joins("LEFT JOIN order_products op ON op.order_id = orders.id").
		Where("orders.customer_id IN (?)", covered)
	if day != nil {
		q = q.Where("orders.placed_on BETWEEN ? AND ?", day.Start, day.End)
	}

	var orders []AdminOrder
	err := q.Group("orders.id").Order("orders.id DESC").Scan(&orders).Error
	return orders, err
}

func (r *orderRepository) FindByShift(ctx context.Context, customerID string, orderType models.OrderType, day DayRange) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND order_type = ? AND placed_on BETWEEN ? AND ?", customerID, orderType, day.Start, day.End).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) MostRecent(ctx context.Context, customerID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id DESC").First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
