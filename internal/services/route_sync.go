package services

import (
	"context"
	"fmt"
	"order_manager/internal/models"
	"order_manager/internal/repository"
	"sort"
	"strings"
	"time"
)

// ParseRoutes splits a comma-separated route list, trimming blanks and duplicates.
func ParseRoutes(raw string) []string {
	return normalizeRoutes(strings.Split(raw, ","))
}

func normalizeRoutes(routes []string) []string {
	seen := make(map[string]bool, len(routes))
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// RouteDiff returns which routes must be added to and removed from current to reach desired.
func RouteDiff(current, desired []string) (add, remove []string) {
	have := make(map[string]bool, len(current))
	for _, r := range current {
		have[r] = true
	}
	want := make(map[string]bool, len(desired))
	for _, r := range desired {
		want[r] = true
		if !have[r] {
			add = append(add, r)
		}
	}
	for _, r := range current {
		if !want[r] {
			remove = append(remove, r)
		}
	}
	return add, remove
}

// setSalesmanRoutes replaces a salesman's route set and reconciles admin_assign to it.
func setSalesmanRoutes(ctx context.Context, tx *repository.Store, salesmanID uint, desired []string, now time.Time) error {
	current, err := tx.Assignments.SalesmanRoutes(ctx, salesmanID)
	if err != nil {
		return fmt.Errorf("failed to load salesman routes: %w", err)
	}
	add, remove := RouteDiff(current, desired)
	if err := tx.Assignments.RemoveSalesmanRoutes(ctx, salesmanID, remove); err != nil {
		return fmt.Errorf("failed to remove salesman routes: %w", err)
	}
	if err := tx.Assignments.AddSalesmanRoutes(ctx, salesmanID, add); err != nil {
		return fmt.Errorf("failed to add salesman routes: %w", err)
	}
	return reconcileSalesman(ctx, tx, salesmanID, desired, now)
}

// reconcileSalesman makes the salesman's admin_assign rows equal to its coverage.
func reconcileSalesman(ctx context.Context, tx *repository.Store, salesmanID uint, routes []string, now time.Time) error {
	if _, err := tx.Assignments.DeleteStale(ctx, salesmanID, routes); err != nil {
		return fmt.Errorf("failed to delete stale assignments: %w", err)
	}
	rows, err := tx.Assignments.Coverage(ctx, repository.CoverageFilter{SalesmanID: &salesmanID})
	if err != nil {
		return fmt.Errorf("failed to compute coverage: %w", err)
	}
	return tx.Assignments.InsertMissing(ctx, stamp(rows, now))
}

// reconcileCustomer assigns a customer to every salesman covering its route.
func reconcileCustomer(ctx context.Context, tx *repository.Store, customerID string, now time.Time) error {
	rows, err := tx.Assignments.Coverage(ctx, repository.CoverageFilter{CustomerID: &customerID})
	if err != nil {
		return fmt.Errorf("failed to compute coverage: %w", err)
	}
	return tx.Assignments.InsertMissing(ctx, stamp(rows, now))
}

func stamp(rows []models.AdminAssign, now time.Time) []models.AdminAssign {
	for i := range rows {
		rows[i].AssignedDate = now
		rows[i].Status = models.AssignmentAssigned
	}
	return rows
}
