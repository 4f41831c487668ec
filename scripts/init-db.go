package main

import (
	"context"
	"fmt"

	"order_manager/internal/config"
	"order_manager/internal/database"
	applog "order_manager/internal/logger"
	"order_manager/internal/migrations"
	"order_manager/internal/models"
	"order_manager/internal/repository"
	"order_manager/internal/services"

	"github.com/shopspring/decimal"
)

// Seeds a small catalog, one salesman and two customers for local development.
// Rows that already exist are reported and skipped.
func main() {
	ctx := context.Background()
	cfg := config.Load()
	log := applog.Get()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	admin := migrations.DefaultAdmin{CustomerID: cfg.AdminCustomerID, Password: cfg.AdminPassword}
	if err := migrations.RunMigrations(ctx, db, admin); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	store := repository.NewStore(db)
	catalog := services.NewCatalogService(store)
	users := services.NewUserService(store, cfg.PhoneRegion)
	ledger := services.NewLedgerService(store, services.LedgerOptions{Location: cfg.Location()})

	products := []*models.Product{
		{Name: "Toned Milk 500ml", Category: "Milk", Price: decimal.RequireFromString("27"), UOM: "packet", StockQuantity: 500},
		{Name: "Paneer 200g", Category: "Paneer", Price: decimal.RequireFromString("90"), UOM: "pack", StockQuantity: 100},
		{Name: "Ghee 1L", Category: "Ghee", Price: decimal.RequireFromString("620"), UOM: "tin", StockQuantity: 40},
		{Name: "Butter Milk 200ml", Category: "Butter Milk", Price: decimal.RequireFromString("12"), UOM: "packet", StockQuantity: 300},
	}
	for _, p := range products {
		if err := catalog.CreateProduct(ctx, p); err != nil {
			report("product "+p.Name, err)
			continue
		}
		fmt.Printf("Created product %s (id %d)\n", p.Name, p.ID)
	}

	_, err = users.CreateSalesman(ctx, services.NewSalesmanInput{
		CustomerID:  "S001",
		Username:    "salesman1",
		Phone:       "9876500001",
		Designation: "Route Salesman",
		Routes:      []string{"North", "East"},
	})
	report("salesman S001", err)

	for i, route := range []string{"North", "East"} {
		customerID := fmt.Sprintf("C%03d", i+1)
		_, err := users.AddUser(ctx, services.NewUserInput{
			CustomerID: customerID,
			Username:   "customer" + customerID,
			Phone:      fmt.Sprintf("98765100%02d", i+1),
			Route:      route,
			PriceMode:  "mrp",
		})
		report("customer "+customerID, err)
		if err == nil {
			_, err = ledger.SetCreditLimit(ctx, customerID, decimal.NewFromInt(10000))
			report("credit limit "+customerID, err)
		}
	}

	fmt.Println("Database initialization completed")
}

func report(what string, err error) {
	switch {
	case err == nil:
		fmt.Printf("Seeded %s\n", what)
	case services.KindOf(err) == services.KindConflict || services.KindOf(err) == services.KindInvalid:
		fmt.Printf("Skipped %s: %v\n", what, err)
	default:
		applog.LogError(applog.Get(), "init-db", "main", "seeding "+what, nil, err)
	}
}
