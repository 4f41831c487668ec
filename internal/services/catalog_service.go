package services

import (
	"context"
	"fmt"
	"order_manager/internal/models"
	"order_manager/internal/repository"
	"strings"

	"github.com/shopspring/decimal"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	EffectivePrice(ctx context.Context, customerID string, productID uint) (*PriceQuote, error)
	UpsertCustomerPrice(ctx context.Context, customerID string, productID uint, price decimal.Decimal) (bool, error)
	CustomerPrices(ctx context.Context, customerID string) ([]models.CustomerProductPrice, error)
	GlobalPriceUpdate(ctx context.Context, productID uint, newDiscountPrice decimal.Decimal) (*GlobalPriceResult, error)
}

type PriceQuote struct {
	ProductID      uint            `json:"product_id"`
	CustomerID     string          `json:"customer_id"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Source         string          `json:"source"`
}

type GlobalPriceResult struct {
	ProductID        uint            `json:"product_id"`
	Delta            decimal.Decimal `json:"delta"`
	NewDiscountPrice decimal.Decimal `json:"new_discount_price"`
	UpdatedOverrides int64           `json:"updated_customer_prices"`
}

const (
	priceSourceCustomer = "customer"
	priceSourceDiscount = "discount"
	priceSourceList     = "list"
)

type catalogService struct {
	store *repository.Store
}

func NewCatalogService(store *repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return Invalid("name is required")
	}
	if product.Price.IsNegative() {
		return Invalid("price must not be negative")
	}

	existing, err := s.store.Products.FindConflicting(ctx, product.Name, product.Alias, product.PartNumber)
	if err == nil {
		return Conflict("Product conflicts with existing product %d (%s)", existing.ID, existing.Name)
	} else if !isNotFound(err) {
		return fmt.Errorf("failed to check product uniqueness: %w", err)
	}

	if err := s.store.Products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.Products.GetAll(ctx)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.store.Products.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "product", "Product not found")
	}
	used, err := s.store.OrderProducts.CountByProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check product usage: %w", err)
	}
	if used > 0 {
		return Invalid("Cannot delete product as it is being used in orders")
	}
	if _, err := s.store.Products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *catalogService) EffectivePrice(ctx context.Context, customerID string, productID uint) (*PriceQuote, error) {
	product, err := s.store.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product", "Product not found")
	}

	var override *models.CustomerProductPrice
	if customerID != "" {
		override, err = s.store.Prices.Get(ctx, customerID, productID)
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to load customer price: %w", err)
		}
	}

	quote := &PriceQuote{
		ProductID:      productID,
		CustomerID:     customerID,
		EffectivePrice: product.EffectivePrice(override),
		Source:         priceSourceList,
	}
	switch {
	case override != nil:
		quote.Source = priceSourceCustomer
	case product.DiscountPrice.Valid:
		quote.Source = priceSourceDiscount
	}
	return quote, nil
}

// UpsertCustomerPrice reports created=true when a new override row was inserted.
func (s *catalogService) UpsertCustomerPrice(ctx context.Context, customerID string, productID uint, price decimal.Decimal) (bool, error) {
	if customerID == "" || productID == 0 {
		return false, Invalid("customer_id and product_id are required")
	}
	if price.IsNegative() {
		return false, Invalid("customer_price must not be negative")
	}
	if _, err := s.store.Products.GetByID(ctx, productID); err != nil {
		return false, notFoundOr(err, "product", "Product not found")
	}

	created := false
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		row, err := tx.Prices.Get(ctx, customerID, productID)
		if isNotFound(err) {
			row = &models.CustomerProductPrice{CustomerID: customerID, ProductID: productID}
			created = true
		} else if err != nil {
			return fmt.Errorf("failed to load customer price: %w", err)
		}
		row.CustomerPrice = price
		return tx.Prices.Save(ctx, row)
	})
	return created, err
}

func (s *catalogService) CustomerPrices(ctx context.Context, customerID string) ([]models.CustomerProductPrice, error) {
	prices, err := s.store.Prices.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, NotFound("No customer prices found for %s", customerID)
	}
	return prices, nil
}

// GlobalPriceUpdate shifts every override of the product by (new discount - list price)
// and stores the new discount price.
func (s *catalogService) GlobalPriceUpdate(ctx context.Context, productID uint, newDiscountPrice decimal.Decimal) (*GlobalPriceResult, error) {
	if newDiscountPrice.IsNegative() {
		return nil, Invalid("new_discount_price must not be negative")
	}

	result := &GlobalPriceResult{ProductID: productID, NewDiscountPrice: newDiscountPrice}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		product, err := tx.Products.GetByID(ctx, productID)
		if err != nil {
			return notFoundOr(err, "product", "Product not found")
		}
		result.Delta = newDiscountPrice.Sub(product.Price)

		if result.UpdatedOverrides, err = tx.Prices.ShiftForProduct(ctx, productID, result.Delta); err != nil {
			return fmt.Errorf("failed to shift customer prices: %w", err)
		}
		if _, err := tx.Products.SetDiscountPrice(ctx, productID, newDiscountPrice); err != nil {
			return fmt.Errorf("failed to update discount price: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
