package migrations

import (
	"context"
	"errors"
	"fmt"
	applog "order_manager/internal/logger"
	"order_manager/internal/models"
	"order_manager/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin is the superadmin account created on first boot. An empty
// Password skips seeding.
type DefaultAdmin struct {
	CustomerID string
	Password   string
}

// RunMigrations brings the schema up to date and seeds the default superadmin.
// Existing tables and rows are left in place.
func RunMigrations(ctx context.Context, db *gorm.DB, admin DefaultAdmin) error {
	log := applog.Get()
	log.Info("Running database migrations...")

	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := seedAdmin(ctx, repository.NewStore(db), admin); err != nil {
		applog.LogError(log, "migrations", "RunMigrations", "seeding default admin", admin.CustomerID, err)
	}

	log.Info("Database migrations completed")
	return nil
}

func seedAdmin(ctx context.Context, store *repository.Store, admin DefaultAdmin) error {
	log := applog.Get()
	if admin.CustomerID == "" || admin.Password == "" {
		log.Info("ADMIN_PASSWORD not set, skipping default admin")
		return nil
	}

	existing, err := store.Users.GetByCustomerID(ctx, admin.CustomerID)
	if err == nil && existing != nil {
		log.WithField("customer_id", admin.CustomerID).Info("Super admin user already exists")
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	superAdmin := &models.User{
		CustomerID: admin.CustomerID,
		Username:   admin.CustomerID,
		Name:       "Super Admin",
		Password:   string(hashed),
		Role:       string(models.SuperAdmin),
		Status:     string(models.UserActive),
	}
	if err := store.Users.Create(ctx, superAdmin); err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	log.WithField("customer_id", admin.CustomerID).Info("Super admin user created")
	return nil
}
