package repository

import (
	"context"
	"order_manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	SalesmanRoutes(ctx context.Context, salesmanID uint) ([]string, error)
	AddSalesmanRoutes(ctx context.Context, salesmanID uint, routes []string) error
	RemoveSalesmanRoutes(ctx context.Context, salesmanID uint, routes []string) error
	Coverage(ctx context.Context, filter CoverageFilter) ([]models.AdminAssign, error)
	DeleteStale(ctx context.Context, adminID uint, keepRoutes []string) (int64, error)
	InsertMissing(ctx context.Context, rows []models.AdminAssign) error
	GetAssignedRoutes(ctx context.Context) ([]AssignedRoute, error)
	GetByCustomers(ctx context.Context, customerIDs []string) ([]models.AdminAssign, error)
	AssignedUsers(ctx context.Context, adminID uint) ([]models.User, error)
}

// CoverageFilter narrows the coverage relation to one salesman or one customer.
type CoverageFilter struct {
	SalesmanID *uint
	CustomerID *string
}

type AssignedRoute struct {
	Route      string `json:"route"`
	AdminID    uint   `json:"admin_id"`
	Username   string `json:"username"`
	CustomerID string `json:"customer_id"`
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) SalesmanRoutes(ctx context.Context, salesmanID uint) ([]string, error) {
	var routes []string
	err := r.db.WithContext(ctx).Model(&models.SalesmanRoute{}).
		Where("salesman_id = ?", salesmanID).
		Order("route").
		Pluck("route", &routes).Error
	return routes, err
}

func (r *assignmentRepository) AddSalesmanRoutes(ctx context.Context, salesmanID uint, routes []string) error {
	if len(routes) == 0 {
		return nil
	}
	rows := make([]models.SalesmanRoute, 0, len(routes))
	for _, route := range routes {
		rows = append(rows, models.SalesmanRoute{SalesmanID: salesmanID, Route: route})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *assignmentRepository) RemoveSalesmanRoutes(ctx context.Context, salesmanID uint, routes []string) error {
	if len(routes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("salesman_id = ? AND route IN ?", salesmanID, routes).
		Delete(&models.SalesmanRoute{}).Error
}

// Coverage is the single definition of "salesman S covers customer C on route R":
// S lists R in salesman_routes and C is a customer-role user whose route is R.
func (r *assignmentRepository) Coverage(ctx context.Context, filter CoverageFilter) ([]models.AdminAssign, error) {
	q := r.db.WithContext(ctx).Table("salesman_routes AS sr").
		Select("sr.salesman_id AS admin_id, u.customer_id AS customer_id, sr.route AS route").
		Joins("JOIN users u ON u.route = sr.route AND LOWER(u.role) = ?", string(models.Customer)).
		Where("sr.route <> ''")
	if filter.SalesmanID != nil {
		q = q.Where("sr.salesman_id = ?", *filter.SalesmanID)
	}
	if filter.CustomerID != nil {
		q = q.Where("u.customer_id = ?", *filter.CustomerID)
	}

	var rows []models.AdminAssign
	err := q.Order("sr.route, u.customer_id").Scan(&rows).Error
	return rows, err
}

// DeleteStale removes the admin's assignments on routes outside keepRoutes (all of them when empty).
func (r *assignmentRepository) DeleteStale(ctx context.Context, adminID uint, keepRoutes []string) (int64, error) {
	q := r.db.WithContext(ctx).Where("admin_id = ?", adminID)
	if len(keepRoutes) > 0 {
		q = q.Where("route NOT IN ?", keepRoutes)
	}
	res := q.Delete(&models.AdminAssign{})
	return res.RowsAffected, res.Error
}

func (r *assignmentRepository) InsertMissing(ctx context.Context, rows []models.AdminAssign) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *assignmentRepository) GetAssignedRoutes(ctx context.Context) ([]AssignedRoute, error) {
	var rows []AssignedRoute
	err := r.db.WithContext(ctx).Table("salesman_routes AS sr").
		Select("sr.route, sr.salesman_id AS admin_id, u.username, u.customer_id").
		Joins("JOIN users u ON u.id = sr.salesman_id").
		Order("sr.route, u.username").
		Scan(&rows).Error
	return rows, err
}

func (r *assignmentRepository) GetByCustomers(ctx context.Context, customerIDs []string) ([]models.AdminAssign, error) {
	var rows []models.AdminAssign
	err := r.db.WithContext(ctx).Where("customer_id IN ?", customerIDs).Find(&rows).Error
	return rows, err
}

func (r *assignmentRepository) AssignedUsers(ctx context.Context, adminID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("customer_id IN (?)", r.db.WithContext(ctx).Model(&models.AdminAssign{}).Select("customer_id").Where("admin_id = ?", adminID)).
		Order("name").
		Find(&users).Error
	return users, err
}
