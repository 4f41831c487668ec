package services

import (
	"context"
	"errors"
	"fmt"
	applog "order_manager/internal/logger"
	"order_manager/internal/models"
	"order_manager/internal/redis"
	"order_manager/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const ledgerTotalsKey = "ledger:totals"

type LedgerService interface {
	GetCreditLimit(ctx context.Context, customerID string) (*models.CreditLimit, error)
	Deduct(ctx context.Context, customerID string, amountChange decimal.Decimal) (*models.CreditLimit, error)
	UpdateAmountDueOnOrder(ctx context.Context, customerID string, total decimal.Decimal, original *decimal.Decimal) (*models.CreditLimit, error)
	CollectPayment(ctx context.Context, customerID string, method models.PaymentMethod, amount decimal.Decimal) (*models.CreditLimit, error)
	SetCreditLimit(ctx context.Context, customerID string, limit decimal.Decimal) (*models.CreditLimit, error)
	IncreaseCreditLimit(ctx context.Context, customerID string, amount decimal.Decimal) (*models.CreditLimit, error)

	Totals(ctx context.Context) (*LedgerTotals, error)
	GetAll(ctx context.Context) ([]models.CreditLimit, error)
	Summaries(ctx context.Context) ([]repository.CreditSummary, error)
	TransactionDetails(ctx context.Context) ([]repository.TransactionDetail, error)
	Payments(ctx context.Context, customerID, date, method string) ([]models.PaymentTransaction, error)
	TotalPaidForMonth(ctx context.Context, customerID, month string) (decimal.Decimal, error)
	TotalPaidForDay(ctx context.Context, customerID, date string) (decimal.Decimal, error)
}

type LedgerTotals struct {
	AmountDue        decimal.Decimal `json:"amount_due"`
	AmountPaidCash   decimal.Decimal `json:"amount_paid_cash"`
	AmountPaidOnline decimal.Decimal `json:"amount_paid_online"`
}

func (t LedgerTotals) AmountPaid() decimal.Decimal {
	return t.AmountPaidCash.Add(t.AmountPaidOnline)
}

type ledgerService struct {
	store    *repository.Store
	cache    Cache
	locker   Locker
	lockTTL  time.Duration
	cacheTTL time.Duration
	loc      *time.Location
	now      func() time.Time
	log      *logrus.Logger
}

type LedgerOptions struct {
	Cache    Cache
	Locker   Locker
	LockTTL  time.Duration
	CacheTTL time.Duration
	Location *time.Location
}

func NewLedgerService(store *repository.Store, opts LedgerOptions) LedgerService {
	if opts.LockTTL == 0 {
		opts.LockTTL = 10 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &ledgerService{
		store:    store,
		cache:    opts.Cache,
		locker:   opts.Locker,
		lockTTL:  opts.LockTTL,
		cacheTTL: opts.CacheTTL,
		loc:      opts.Location,
		now:      time.Now,
		log:      applog.Get(),
	}
}

func (s *ledgerService) GetCreditLimit(ctx context.Context, customerID string) (*models.CreditLimit, error) {
	credit, err := s.store.Credits.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, notFoundOr(err, "credit limit", "Credit limit not found for customer %s", customerID)
	}
	return credit, nil
}

func (s *ledgerService) Deduct(ctx context.Context, customerID string, amountChange decimal.Decimal) (*models.CreditLimit, error) {
	return s.mutate(ctx, customerID, "Deduct", false, func(tx *repository.Store, row *models.CreditLimit) error {
		row.CreditLimit = row.CreditLimit.Sub(amountChange)
		return nil
	})
}

func (s *ledgerService) UpdateAmountDueOnOrder(ctx context.Context, customerID string, total decimal.Decimal, original *decimal.Decimal) (*models.CreditLimit, error) {
	return s.mutate(ctx, customerID, "UpdateAmountDueOnOrder", true, func(tx *repository.Store, row *models.CreditLimit) error {
		row.AmountDue = AdjustAmountDue(row.AmountDue, total, original)
		return nil
	})
}

func (s *ledgerService) CollectPayment(ctx context.Context, customerID string, method models.PaymentMethod, amount decimal.Decimal) (*models.CreditLimit, error) {
	if amount.IsNegative() {
		return nil, Invalid("Invalid payment amount")
	}
	if method != models.PaymentCash && method != models.PaymentOnline {
		return nil, Invalid("Unsupported payment method %q", method)
	}

	return s.mutate(ctx, customerID, "CollectPayment", false, func(tx *repository.Store, row *models.CreditLimit) error {
		paid := row.AmountPaidCash
		if method == models.PaymentOnline {
			paid = row.AmountPaidOnline
		}
		outcome := ApplyPayment(row.AmountDue, paid, row.CreditLimit, amount)

		now := s.now()
		paidAt := now.Unix()
		row.AmountDue = outcome.AmountDue
		row.CreditLimit = outcome.CreditLimit
		if method == models.PaymentCash {
			row.AmountPaidCash = outcome.AmountPaid
			row.CashPaidDate = &paidAt
		} else {
			row.AmountPaidOnline = outcome.AmountPaid
			row.OnlinePaidDate = &paidAt
		}

		return tx.Credits.CreatePayment(ctx, &models.PaymentTransaction{
			CustomerID:    customerID,
			PaymentMethod: method,
			PaymentAmount: amount,
			PaymentDate:   now,
		})
	})
}

func (s *ledgerService) SetCreditLimit(ctx context.Context, customerID string, limit decimal.Decimal) (*models.CreditLimit, error) {
	return s.mutate(ctx, customerID, "SetCreditLimit", false, func(tx *repository.Store, row *models.CreditLimit) error {
		row.CreditLimit = limit
		return nil
	})
}

func (s *ledgerService) IncreaseCreditLimit(ctx context.Context, customerID string, amount decimal.Decimal) (*models.CreditLimit, error) {
	if !amount.IsPositive() {
		return nil, Invalid("amountToIncrease must be a positive number")
	}
	return s.mutate(ctx, customerID, "IncreaseCreditLimit", false, func(tx *repository.Store, row *models.CreditLimit) error {
		row.CreditLimit = row.CreditLimit.Add(amount)
		return nil
	})
}

// mutate is the single write path for a customer's ledger row: distributed lock, then a
// transaction holding the row lock, then the change, then a version bump.
func (s *ledgerService) mutate(ctx context.Context, customerID, funcName string, createIfMissing bool, apply func(tx *repository.Store, row *models.CreditLimit) error) (*models.CreditLimit, error) {
	if customerID == "" {
		return nil, Invalid("customerId is required")
	}

	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, "ledger:"+customerID, s.lockTTL)
		if errors.Is(err, redis.ErrLockNotObtained) {
			return nil, Unavailable("Ledger for customer %s is busy, retry shortly", customerID)
		} else if err != nil {
			applog.LogError(s.log, "ledger", funcName, "obtaining ledger lock", customerID, err)
			return nil, err
		}
		defer release()
	}

	var result models.CreditLimit
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		row, err := tx.Credits.GetForUpdate(ctx, customerID)
		if isNotFound(err) && createIfMissing {
			row = &models.CreditLimit{CustomerID: customerID}
			if user, uerr := tx.Users.GetByCustomerID(ctx, customerID); uerr == nil {
				row.CustomerName = user.Name
			}
			if err := tx.Credits.Create(ctx, row); err != nil {
				return fmt.Errorf("failed to create credit row: %w", err)
			}
		} else if err != nil {
			return notFoundOr(err, "credit limit", "Credit limit not found for customer %s", customerID)
		}

		if err := apply(tx, row); err != nil {
			return err
		}
		row.Version++
		if err := tx.Credits.Save(ctx, row); err != nil {
			return fmt.Errorf("failed to save credit row: %w", err)
		}
		result = *row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTotals(ctx)
	return &result, nil
}

func (s *ledgerService) invalidateTotals(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ledgerTotalsKey); err != nil {
		applog.LogError(s.log, "ledger", "invalidateTotals", "deleting cached totals", nil, err)
	}
}

func (s *ledgerService) Totals(ctx context.Context) (*LedgerTotals, error) {
	var totals LedgerTotals
	if s.cache != nil {
		if err := s.cache.GetJSON(ctx, ledgerTotalsKey, &totals); err == nil {
			return &totals, nil
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			applog.LogError(s.log, "ledger", "Totals", "reading cached totals", nil, err)
		}
	}

	due, err := s.store.Credits.TotalAmountDue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum amount due: %w", err)
	}
	cash, online, err := s.store.Credits.TotalAmountPaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum amount paid: %w", err)
	}
	totals = LedgerTotals{AmountDue: due, AmountPaidCash: cash, AmountPaidOnline: online}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, ledgerTotalsKey, totals, s.cacheTTL); err != nil {
			applog.LogError(s.log, "ledger", "Totals", "caching totals", nil, err)
		}
	}
	return &totals, nil
}

func (s *ledgerService) GetAll(ctx context.Context) ([]models.CreditLimit, error) {
	return s.store.Credits.GetAll(ctx)
}

func (s *ledgerService) Summaries(ctx context.Context) ([]repository.CreditSummary, error) {
	rows, err := s.store.Credits.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CreditLimit = rows[i].CreditLimit.Round(2)
		rows[i].AmountDue = rows[i].AmountDue.Round(2)
		rows[i].TotalAmountPaid = rows[i].TotalAmountPaid.Round(2)
	}
	return rows, nil
}

func (s *ledgerService) TransactionDetails(ctx context.Context) ([]repository.TransactionDetail, error) {
	return s.store.Credits.TransactionDetails(ctx)
}

func (s *ledgerService) Payments(ctx context.Context, customerID, date, method string) ([]models.PaymentTransaction, error) {
	filter := repository.PaymentFilter{CustomerID: customerID}
	switch models.PaymentMethod(method) {
	case "":
	case models.PaymentCash, models.PaymentOnline:
		filter.Method = models.PaymentMethod(method)
	default:
		return nil, Invalid("payment_method must be cash or online")
	}
	if date != "" {
		from, to, err := dayBounds(date, s.loc)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = &from, &to
	}
	return s.store.Credits.GetPayments(ctx, filter)
}

func (s *ledgerService) TotalPaidForMonth(ctx context.Context, customerID, month string) (decimal.Decimal, error) {
	from, to, err := monthBounds(month, s.loc)
	if err != nil {
		return decimal.Zero, err
	}
	return s.store.Credits.SumPayments(ctx, customerID, from, to)
}

func (s *ledgerService) TotalPaidForDay(ctx context.Context, customerID, date string) (decimal.Decimal, error) {
	from, to, err := dayBounds(date, s.loc)
	if err != nil {
		return decimal.Zero, err
	}
	return s.store.Credits.SumPayments(ctx, customerID, from, to)
}
