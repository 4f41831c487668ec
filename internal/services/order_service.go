package services

import (
	"context"
	"fmt"
	applog "order_manager/internal/logger"
	"order_manager/internal/models"
	"order_manager/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderService interface {
	PlaceOnBehalf(ctx context.Context, in PlaceOnBehalfInput) (*PlacementResult, error)
	PlaceCustom(ctx context.Context, in CustomOrderInput) (*PlacementResult, error)
	UpdateOrder(ctx context.Context, in OrderUpdateInput) (*OrderUpdateResult, error)
	AddProduct(ctx context.Context, in AddProductInput) (*AddProductResult, error)
	RemoveProduct(ctx context.Context, orderID, productID uint) (decimal.Decimal, error)
	UpdateProductPrice(ctx context.Context, orderID, productID uint, price decimal.Decimal) (decimal.Decimal, error)
	Cancel(ctx context.Context, orderID uint) error
	UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error)
	UpdateDeliveryStatus(ctx context.Context, orderID uint, customerID, status string) (*models.Order, error)
	MarkLoadingSlip(ctx context.Context, orderID uint) error

	GetOrdersByCustomer(ctx context.Context, customerID, date string) ([]models.Order, error)
	GetAllOrders(ctx context.Context, date string) ([]models.Order, error)
	GetAdminOrders(ctx context.Context, adminID uint, date string) ([]repository.AdminOrder, error)
	GetOrderByShift(ctx context.Context, customerID, date, orderType string) (*models.Order, error)
	GetOrderProducts(ctx context.Context, orderID uint) ([]models.OrderProduct, error)
	GetMostRecentOrder(ctx context.Context, customerID string) (*models.Order, error)
	GetLatestProductPrice(ctx context.Context, productID uint) (decimal.Decimal, error)
	ShiftAllowed(shift string) (bool, error)
}

type PlaceOnBehalfInput struct {
	CustomerID       string
	OrderType        string
	ReferenceOrderID uint
}

type CustomOrderLine struct {
	ProductID uint
	Quantity  int
	Price     decimal.Decimal
	Name      string
	Category  string
	GSTRate   *decimal.Decimal
}

type CustomOrderInput struct {
	CustomerID string
	OrderType  string
	Products   []CustomOrderLine
}

type PlacementResult struct {
	Order        *models.Order
	ProductCount int
}

type OrderUpdateLine struct {
	OrderID   uint
	ProductID uint
	Quantity  int
	Price     decimal.Decimal
	Name      string
	Category  string
	GSTRate   decimal.Decimal
	IsNew     bool
}

type OrderUpdateInput struct {
	OrderID     uint
	Products    []OrderUpdateLine
	TotalAmount decimal.Decimal
}

type OrderUpdateResult struct {
	Cancelled         bool
	TotalAmount       decimal.Decimal
	ClientTotalAmount decimal.Decimal
}

type AddProductInput struct {
	OrderID    uint
	ProductID  uint
	Quantity   int
	Price      decimal.Decimal
	GSTRate    *decimal.Decimal
	CustomerID string
}

type AddProductResult struct {
	Created        bool
	OrderProductID uint
	TotalAmount    decimal.Decimal
}

type ShiftWindow struct {
	OpenHour  int
	CloseHour int
}

type orderService struct {
	store    *repository.Store
	notifier OrderNotifier
	cache    Cache
	loc      *time.Location
	shift    ShiftWindow
	now      func() time.Time
	log      *logrus.Logger
}

// NewOrderService wires the order desk. cache may be nil; when set, cached item reports
// are dropped after every order write.
func NewOrderService(store *repository.Store, notifier OrderNotifier, cache Cache, loc *time.Location, shift ShiftWindow) OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &orderService{
		store:    store,
		notifier: notifier,
		cache:    cache,
		loc:      loc,
		shift:    shift,
		now:      time.Now,
		log:      applog.Get(),
	}
}

func (s *orderService) PlaceOnBehalf(ctx context.Context, in PlaceOnBehalfInput) (*PlacementResult, error) {
	orderType, ok := models.ParseOrderType(in.OrderType)
	if !ok {
		return nil, Invalid("order_type must be AM or PM")
	}

	now := s.now().In(s.loc)
	exists, err := s.store.Orders.ExistsForDay(ctx, in.CustomerID, orderType, rangeOf(now))
	if err != nil {
		return nil, fmt.Errorf("failed to check existing orders: %w", err)
	}
	if exists {
		return nil, Invalid("An %s order already exists for customer %s today.", orderType, in.CustomerID)
	}

	customer, err := s.store.Users.GetByCustomerID(ctx, in.CustomerID)
	if err != nil {
		return nil, notFoundOr(err, "customer", "Customer not found.")
	}
	if !customer.AutoOrderEnabled(orderType) {
		return nil, Invalid("Automatic %s orders are disabled for customer %s.", orderType, in.CustomerID)
	}

	if _, err := s.store.Orders.GetByID(ctx, in.ReferenceOrderID); err != nil {
		return nil, notFoundOr(err, "reference order", "Reference order %d not found.", in.ReferenceOrderID)
	}
	refItems, err := s.store.OrderProducts.GetByOrderID(ctx, in.ReferenceOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference items: %w", err)
	}

	var eligible []models.OrderProduct
	for _, item := range refItems {
		if models.EligibleForCopy(item.Category) {
			eligible = append(eligible, models.OrderProduct{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Name:      item.Name,
				Category:  item.Category,
				GSTRate:   item.GSTRate,
			})
		}
	}
	if len(eligible) == 0 {
		return nil, Invalid("No eligible products found in reference order %d for %s order.", in.ReferenceOrderID, orderType)
	}

	order := &models.Order{CustomerID: in.CustomerID, OrderType: orderType, PlacedOn: now.Unix()}
	if err := s.createWithItems(ctx, order, eligible); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderPlaced(customer, order, len(eligible))
	}
	return &PlacementResult{Order: order, ProductCount: len(eligible)}, nil
}

func (s *orderService) PlaceCustom(ctx context.Context, in CustomOrderInput) (*PlacementResult, error) {
	orderType, ok := models.ParseOrderType(in.OrderType)
	if !ok {
		return nil, Invalid("order_type must be AM or PM")
	}
	if len(in.Products) == 0 {
		return nil, Invalid("products must not be empty")
	}
	if _, err := s.store.Users.GetByCustomerID(ctx, in.CustomerID); err != nil {
		return nil, notFoundOr(err, "customer", "Customer not found.")
	}

	seen := make(map[uint]bool, len(in.Products))
	items := make([]models.OrderProduct, 0, len(in.Products))
	for _, line := range in.Products {
		if seen[line.ProductID] {
			return nil, Invalid("Product %d appears more than once", line.ProductID)
		}
		seen[line.ProductID] = true

		item := models.OrderProduct{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Name:      line.Name,
			Category:  line.Category,
		}
		if line.GSTRate != nil {
			item.GSTRate = *line.GSTRate
		}
		if item.Name == "" || item.Category == "" || line.GSTRate == nil {
			product, err := s.store.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return nil, notFoundOr(err, "product", "Product %d not found", line.ProductID)
			}
			if item.Name == "" {
				item.Name = product.Name
			}
			if item.Category == "" {
				item.Category = product.Category
			}
			if line.GSTRate == nil {
				item.GSTRate = product.GSTRate
			}
		}
		items = append(items, item)
	}

	order := &models.Order{CustomerID: in.CustomerID, OrderType: orderType, PlacedOn: s.now().Unix()}
	if err := s.createWithItems(ctx, order, items); err != nil {
		return nil, err
	}
	return &PlacementResult{Order: order, ProductCount: len(items)}, nil
}

// createWithItems inserts the order, its items and the recomputed total in one transaction.
func (s *orderService) createWithItems(ctx context.Context, order *models.Order, items []models.OrderProduct) error {
	order.Status = models.OrderPlaced
	order.DeliveryStatus = models.DeliveryPending
	order.TotalAmount = decimal.Zero

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.OrderProducts.CreateBatch(ctx, items); err != nil {
			return fmt.Errorf("failed to insert order products: %w", err)
		}
		_, err := recomputeTotal(ctx, tx, order)
		return err
	})
	if err != nil {
		return err
	}
	s.ordersChanged(ctx, order.PlacedOn)
	return nil
}

func (s *orderService) ordersChanged(ctx context.Context, placedOn int64) {
	invalidateItemReport(ctx, s.cache, s.log, s.loc, placedOn)
}

// recomputeTotal writes Σ(price*quantity) of the order's items back to the order.
func recomputeTotal(ctx context.Context, tx *repository.Store, order *models.Order) (int, error) {
	items, err := tx.OrderProducts.GetByOrderID(ctx, order.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load order products: %w", err)
	}
	order.TotalAmount = models.OrderTotal(items)
	if err := tx.Orders.Update(ctx, order); err != nil {
		return 0, fmt.Errorf("failed to update order total: %w", err)
	}
	return len(items), nil
}

// lockMutable loads an order under a row lock and rejects cancelled orders.
func lockMutable(ctx context.Context, tx *repository.Store, orderID uint) (*models.Order, error) {
	order, err := tx.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "order", "Order %d not found", orderID)
	}
	if !order.Status.Mutable() {
		return nil, Conflict("Order %d is cancelled and can no longer be changed", orderID)
	}
	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, in OrderUpdateInput) (*OrderUpdateResult, error) {
	for _, line := range in.Products {
		if line.OrderID != in.OrderID {
			return nil, Invalid("Product %d does not belong to order %d", line.ProductID, in.OrderID)
		}
		if line.Quantity < 0 {
			return nil, Invalid("Quantity for product %d must not be negative", line.ProductID)
		}
	}

	result := &OrderUpdateResult{ClientTotalAmount: in.TotalAmount}
	var placedOn int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := lockMutable(ctx, tx, in.OrderID)
		if err != nil {
			return err
		}

		for _, line := range in.Products {
			if err := applyUpdateLine(ctx, tx, line); err != nil {
				return err
			}
		}

		count, err := recomputeTotal(ctx, tx, order)
		if err != nil {
			return err
		}

		next := models.OrderAltered
		if len(in.Products) == 0 || count == 0 {
			next = models.OrderCancelled
		}
		if !order.Status.CanTransition(next) {
			return Conflict("Order %d cannot move from %s to %s", order.ID, order.Status, next)
		}
		order.Status = next
		if err := tx.Orders.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		result.Cancelled = next == models.OrderCancelled
		result.TotalAmount = order.TotalAmount
		placedOn = order.PlacedOn
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.ordersChanged(ctx, placedOn)

	if !result.TotalAmount.Equal(result.ClientTotalAmount) {
		s.log.WithFields(logrus.Fields{
			"order_id":     in.OrderID,
			"client_total": result.ClientTotalAmount.String(),
			"stored_total": result.TotalAmount.String(),
		}).Warn("client total differs from recomputed order total")
	}
	return result, nil
}

func applyUpdateLine(ctx context.Context, tx *repository.Store, line OrderUpdateLine) error {
	existing, err := tx.OrderProducts.Get(ctx, line.OrderID, line.ProductID)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to load order product: %w", err)
	}

	if existing == nil {
		if !line.IsNew {
			return NotFound("Product %d is not part of order %d", line.ProductID, line.OrderID)
		}
		return tx.OrderProducts.Create(ctx, &models.OrderProduct{
			OrderID:   line.OrderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Name:      line.Name,
			Category:  line.Category,
			GSTRate:   line.GSTRate,
		})
	}

	existing.QuantityChange = models.QuantityChange(existing.Quantity, line.Quantity)
	existing.Altered = existing.Quantity != line.Quantity || !existing.GSTRate.Equal(line.GSTRate)
	existing.Quantity = line.Quantity
	existing.Price = line.Price
	existing.GSTRate = line.GSTRate
	if line.Name != "" {
		existing.Name = line.Name
	}
	if line.Category != "" {
		existing.Category = line.Category
	}
	return tx.OrderProducts.Update(ctx, existing)
}

func (s *orderService) AddProduct(ctx context.Context, in AddProductInput) (*AddProductResult, error) {
	if in.Quantity <= 0 {
		return nil, Invalid("quantity must be a positive number")
	}
	if in.Price.IsNegative() {
		return nil, Invalid("price must not be negative")
	}
	if in.GSTRate != nil && in.GSTRate.IsNegative() {
		return nil, Invalid("gst_rate must not be negative")
	}

	result := &AddProductResult{}
	var placedOn int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := lockMutable(ctx, tx, in.OrderID)
		if err != nil {
			return err
		}
		product, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return notFoundOr(err, "product", "Product %d not found", in.ProductID)
		}
		gst := product.GSTRate
		if in.GSTRate != nil {
			gst = *in.GSTRate
		}

		existing, err := tx.OrderProducts.Get(ctx, in.OrderID, in.ProductID)
		switch {
		case err == nil:
			if existing.Quantity == in.Quantity {
				return Conflict("Product already exists with same quantity")
			}
			existing.QuantityChange = models.QuantityChange(existing.Quantity, in.Quantity)
			existing.Altered = true
			existing.Quantity = in.Quantity
			existing.Price = in.Price
			existing.GSTRate = gst
			if err := tx.OrderProducts.Update(ctx, existing); err != nil {
				return fmt.Errorf("failed to update order product: %w", err)
			}
			result.OrderProductID = existing.ID
		case isNotFound(err):
			price := in.Price
			if in.CustomerID != "" {
				override, err := tx.Prices.Get(ctx, in.CustomerID, in.ProductID)
				if err != nil && !isNotFound(err) {
					return fmt.Errorf("failed to load customer price: %w", err)
				}
				if override != nil {
					price = override.CustomerPrice
				}
			}
			item := &models.OrderProduct{
				OrderID:   in.OrderID,
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				Price:     price,
				Name:      product.Name,
				Category:  product.Category,
				GSTRate:   gst,
			}
			if err := tx.OrderProducts.Create(ctx, item); err != nil {
				return fmt.Errorf("failed to insert order product: %w", err)
			}
			result.Created = true
			result.OrderProductID = item.ID
		default:
			return fmt.Errorf("failed to load order product: %w", err)
		}

		if _, err := recomputeTotal(ctx, tx, order); err != nil {
			return err
		}
		result.TotalAmount = order.TotalAmount
		placedOn = order.PlacedOn
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.ordersChanged(ctx, placedOn)
	return result, nil
}

func (s *orderService) RemoveProduct(ctx context.Context, orderID, productID uint) (decimal.Decimal, error) {
	var (
		total    decimal.Decimal
		placedOn int64
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := lockMutable(ctx, tx, orderID)
		if err != nil {
			return err
		}
		affected, err := tx.OrderProducts.Delete(ctx, orderID, productID)
		if err != nil {
			return fmt.Errorf("failed to delete order product: %w", err)
		}
		if affected == 0 {
			return NotFound("Order product not found")
		}
		if _, err := recomputeTotal(ctx, tx, order); err != nil {
			return err
		}
		total = order.TotalAmount
		placedOn = order.PlacedOn
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	s.ordersChanged(ctx, placedOn)
	return total, nil
}

func (s *orderService) UpdateProductPrice(ctx context.Context, orderID, productID uint, price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, Invalid("newPrice must not be negative")
	}

	var (
		total    decimal.Decimal
		placedOn int64
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := lockMutable(ctx, tx, orderID)
		if err != nil {
			return err
		}
		affected, err := tx.OrderProducts.UpdatePrice(ctx, orderID, productID, price)
		if err != nil {
			return fmt.Errorf("failed to update price: %w", err)
		}
		// MySQL reports zero affected rows when the price is unchanged.
		if affected == 0 {
			if _, err := tx.OrderProducts.Get(ctx, orderID, productID); err != nil {
				return notFoundOr(err, "order product", "Order product not found")
			}
		}
		if _, err := recomputeTotal(ctx, tx, order); err != nil {
			return err
		}
		total = order.TotalAmount
		placedOn = order.PlacedOn
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	s.ordersChanged(ctx, placedOn)
	return total, nil
}

// Cancel keeps the line items; the order just becomes Cancelled.
func (s *orderService) Cancel(ctx context.Context, orderID uint) error {
	var placedOn int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := lockMutable(ctx, tx, orderID)
		if err != nil {
			return err
		}
		order.Status = models.OrderCancelled
		placedOn = order.PlacedOn
		return tx.Orders.Update(ctx, order)
	})
	if err != nil {
		return err
	}
	s.ordersChanged(ctx, placedOn)
	return nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, Invalid("Unknown approve_status %q", status)
	}

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		order, err = tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return notFoundOr(err, "order", "Order %d not found", orderID)
		}
		if !order.Status.CanTransition(next) {
			return Conflict("Order %d cannot move from %s to %s", orderID, order.Status, next)
		}
		order.Status = next
		return tx.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.ordersChanged(ctx, order.PlacedOn)
	return order, nil
}

func (s *orderService) UpdateDeliveryStatus(ctx context.Context, orderID uint, customerID, status string) (*models.Order, error) {
	delivery, ok := models.ParseDeliveryStatus(status)
	if !ok {
		return nil, Invalid("Invalid delivery_status %q", status)
	}

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		order, err = tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return notFoundOr(err, "order", "Order %d not found", orderID)
		}
		if customerID != "" && order.CustomerID != customerID {
			return NotFound("Order %d not found for customer %s", orderID, customerID)
		}
		if order.Status == models.OrderCancelled {
			return Conflict("Order %d is cancelled", orderID)
		}
		order.DeliveryStatus = delivery
		return tx.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) MarkLoadingSlip(ctx context.Context, orderID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := lockMutable(ctx, tx, orderID)
		if err != nil {
			return err
		}
		order.LoadingSlip = true
		return tx.Orders.Update(ctx, order)
	})
}

func (s *orderService) GetOrdersByCustomer(ctx context.Context, customerID, date string) ([]models.Order, error) {
	day, err := optionalDayRange(date, s.loc)
	if err != nil {
		return nil, err
	}
	return s.store.Orders.GetByCustomer(ctx, customerID, day)
}

func (s *orderService) GetAllOrders(ctx context.Context, date string) ([]models.Order, error) {
	day, err := optionalDayRange(date, s.loc)
	if err != nil {
		return nil, err
	}
	return s.store.Orders.GetAll(ctx, day)
}

func (s *orderService) GetAdminOrders(ctx context.Context, adminID uint, date string) ([]repository.AdminOrder, error) {
	day, err := optionalDayRange(date, s.loc)
	if err != nil {
		return nil, err
	}
	return s.store.Orders.GetForAdmin(ctx, adminID, day)
}

func (s *orderService) GetOrderByShift(ctx context.Context, customerID, date, orderType string) (*models.Order, error) {
	ot, ok := models.ParseOrderType(orderType)
	if !ok {
		return nil, Invalid("orderType must be AM or PM")
	}
	day, err := dayRange(date, s.loc)
	if err != nil {
		return nil, err
	}
	order, err := s.store.Orders.FindByShift(ctx, customerID, ot, day)
	if err != nil {
		return nil, notFoundOr(err, "order", "Order not found")
	}
	return order, nil
}

func (s *orderService) GetOrderProducts(ctx context.Context, orderID uint) ([]models.OrderProduct, error) {
	items, err := s.store.OrderProducts.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NotFound("No products found for orderId: %d", orderID)
	}
	return items, nil
}

// GetMostRecentOrder returns nil without error when the customer has never ordered.
func (s *orderService) GetMostRecentOrder(ctx context.Context, customerID string) (*models.Order, error) {
	order, err := s.store.Orders.MostRecent(ctx, customerID)
	if isNotFound(err) {
		return nil, nil
	}
	return order, err
}

func (s *orderService) GetLatestProductPrice(ctx context.Context, productID uint) (decimal.Decimal, error) {
	item, err := s.store.OrderProducts.LatestForProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, notFoundOr(err, "order product", "No price found for this product in order_products.")
	}
	return item.Price, nil
}

func (s *orderService) ShiftAllowed(shift string) (bool, error) {
	if _, ok := models.ParseOrderType(shift); !ok {
		return false, Invalid("Invalid shift parameter. Must be 'AM' or 'PM'.")
	}
	hour := s.now().In(s.loc).Hour()
	return hour >= s.shift.OpenHour && hour < s.shift.CloseHour, nil
}
