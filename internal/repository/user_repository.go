package repository

import (
	"context"
	"order_manager/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByCustomerID(ctx context.Context, customerID string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	ExistsByField(ctx context.Context, column, value string, exceptID uint) (bool, error)
	UpdateFields(ctx context.Context, customerID string, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, customerID string) (int64, error)
	DistinctRoutes(ctx context.Context) ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("LOWER(role) = ?", string(role)).Order("name").Find(&users).Error
	return users, err
}

var uniqueUserColumns = map[string]bool{
	"customer_id": true,
	"phone":       true,
	"username":    true,
	"name":        true,
	"alias":       true,
}

// ExistsByField checks one of the globally unique user columns. A non-zero exceptID
// leaves that user's own row out of the check.
func (r *userRepository) ExistsByField(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	if !uniqueUserColumns[column] || value == "" {
		return false, nil
	}
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdateFields(ctx context.Context, customerID string, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("customer_id = ?", customerID).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *userRepository) Delete(ctx context.Context, customerID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.User{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) DistinctRoutes(ctx context.Context) ([]string, error) {
	var routes []string
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("route <> ''").
		Distinct("route").
		Order("route").
		Pluck("route", &routes).Error
	return routes, err
}
