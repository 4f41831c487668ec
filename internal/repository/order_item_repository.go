package repository

import (
	"context"
	"order_manager/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderProductRepository interface {
	Create(ctx context.Context, item *models.OrderProduct) error
	CreateBatch(ctx context.Context, items []models.OrderProduct) error
	Get(ctx context.Context, orderID, productID uint) (*models.OrderProduct, error)
	GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderProduct, error)
	Update(ctx context.Context, item *models.OrderProduct) error
	UpdatePrice(ctx context.Context, orderID, productID uint, price decimal.Decimal) (int64, error)
	Delete(ctx context.Context, orderID, productID uint) (int64, error)
	CountByProduct(ctx context.Context, productID uint) (int64, error)
	LatestForProduct(ctx context.Context, productID uint) (*models.OrderProduct, error)
}

type orderProductRepository struct {
	db *gorm.DB
}

func NewOrderProductRepository(db *gorm.DB) OrderProductRepository {
	return &orderProductRepository{db: db}
}

func (r *orderProductRepository) Create(ctx context.Context, item *models.OrderProduct) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *orderProductRepository) CreateBatch(ctx context.Context, items []models.OrderProduct) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderProductRepository) Get(ctx context.Context, orderID, productID uint) (*models.OrderProduct, error) {
	var item models.OrderProduct
	err := r.db.WithContext(ctx).Where("order_id = ? AND product_id = ?", orderID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderProductRepository) GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderProduct, error) {
	var items []models.OrderProduct
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

func (r *orderProductRepository) Update(ctx context.Context, item *models.OrderProduct) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *orderProductRepository) UpdatePrice(ctx context.Context, orderID, productID uint, price decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.OrderProduct{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Update("price", price)
	return res.RowsAffected, res.Error
}

func (r *orderProductRepository) Delete(ctx context.Context, orderID, productID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&models.OrderProduct{})
	return res.RowsAffected, res.Error
}

func (r *orderProductRepository) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderProduct{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *orderProductRepository) LatestForProduct(ctx context.Context, productID uint) (*models.OrderProduct, error) {
	var item models.OrderProduct
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id DESC").First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
