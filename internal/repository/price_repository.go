package repository

import (
	"context"
	"order_manager/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PriceRepository interface {
	Get(ctx context.Context, customerID string, productID uint) (*models.CustomerProductPrice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.CustomerProductPrice, error)
	Save(ctx context.Context, price *models.CustomerProductPrice) error
	ShiftForProduct(ctx context.Context, productID uint, delta decimal.Decimal) (int64, error)
}

type priceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) Get(ctx context.Context, customerID string, productID uint) (*models.CustomerProductPrice, error) {
	var price models.CustomerProductPrice
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.CustomerProductPrice, error) {
	var prices []models.CustomerProductPrice
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("product_id").Find(&prices).Error
	return prices, err
}

func (r *priceRepository) Save(ctx context.Context, price *models.CustomerProductPrice) error {
	return r.db.WithContext(ctx).Save(price).Error
}

// ShiftForProduct adds delta to every customer override of the product.
func (r *priceRepository) ShiftForProduct(ctx context.Context, productID uint, delta decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.CustomerProductPrice{}).
		Where("product_id = ?", productID).
		Update("customer_price", gorm.Expr("customer_price + ?", delta))
	return res.RowsAffected, res.Error
}
