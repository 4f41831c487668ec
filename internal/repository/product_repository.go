package repository

import (
	"context"
	"order_manager/internal/models"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	FindConflicting(ctx context.Context, name, alias, partNumber string) (*models.Product, error)
	SetDiscountPrice(ctx context.Context, id uint, price decimal.Decimal) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("name").Find(&products).Error
	return products, err
}

// FindConflicting returns a product whose name, alias or part number collides (case-insensitive).
func (r *productRepository) FindConflicting(ctx context.Context, name, alias, partNumber string) (*models.Product, error) {
	q := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name))
	if alias != "" {
		q = q.Or("LOWER(alias) = ?", strings.ToLower(alias))
	}
	if partNumber != "" {
		q = q.Or("LOWER(part_number) = ?", strings.ToLower(partNumber))
	}

	var product models.Product
	err := q.First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) SetDiscountPrice(ctx context.Context, id uint, price decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("discount_price", price)
	return res.RowsAffected, res.Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected, res.Error
}
