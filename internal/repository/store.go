package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one *gorm.DB, so a transaction can hand
// every repository the same tx handle.
type Store struct {
	db            *gorm.DB
	Users         UserRepository
	Products      ProductRepository
	Prices        PriceRepository
	Orders        OrderRepository
	OrderProducts OrderProductRepository
	Credits       CreditRepository
	Assignments   AssignmentRepository
	Invoices      InvoiceRepository
	Reports       ReportRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Products:      NewProductRepository(db),
		Prices:        NewPriceRepository(db),
		Orders:        NewOrderRepository(db),
		OrderProducts: NewOrderProductRepository(db),
		Credits:       NewCreditRepository(db),
		Assignments:   NewAssignmentRepository(db),
		Invoices:      NewInvoiceRepository(db),
		Reports:       NewReportRepository(db),
	}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DayRange is an inclusive window of unix seconds.
type DayRange struct {
	Start int64
	End   int64
}
