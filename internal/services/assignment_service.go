package services

import (
	"context"
	"fmt"
	"order_manager/internal/models"
	"order_manager/internal/repository"
	"time"
)

type AssignmentService interface {
	SaveAssignment(ctx context.Context, salesmanCustomerID string, routes []string) ([]string, error)
	AssignedRoutes(ctx context.Context) ([]repository.AssignedRoute, error)
	UniqueRoutes(ctx context.Context) ([]string, error)
	AssignUsers(ctx context.Context, adminID uint, userIDs []uint) error
	AssignedUsers(ctx context.Context, adminID uint) ([]models.User, error)
}

type assignmentService struct {
	store *repository.Store
	now   func() time.Time
}

func NewAssignmentService(store *repository.Store) AssignmentService {
	return &assignmentService{store: store, now: time.Now}
}

// SaveAssignment adds routes to a salesman's coverage and returns the routes that were new.
func (s *assignmentService) SaveAssignment(ctx context.Context, salesmanCustomerID string, routes []string) ([]string, error) {
	routes = normalizeRoutes(routes)
	if salesmanCustomerID == "" || len(routes) == 0 {
		return nil, Invalid("Customer ID or routes missing.")
	}

	var added []string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		salesman, err := tx.Users.GetByCustomerID(ctx, salesmanCustomerID)
		if err != nil {
			if isNotFound(err) {
				return Invalid("Customer ID does not exist in users table.")
			}
			return fmt.Errorf("failed to load salesman: %w", err)
		}

		current, err := tx.Assignments.SalesmanRoutes(ctx, salesman.ID)
		if err != nil {
			return fmt.Errorf("failed to load salesman routes: %w", err)
		}
		added, _ = RouteDiff(current, routes)
		return setSalesmanRoutes(ctx, tx, salesman.ID, normalizeRoutes(append(current, routes...)), s.now())
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *assignmentService) AssignedRoutes(ctx context.Context) ([]repository.AssignedRoute, error) {
	return s.store.Assignments.GetAssignedRoutes(ctx)
}

func (s *assignmentService) UniqueRoutes(ctx context.Context) ([]string, error) {
	routes, err := s.store.Users.DistinctRoutes(ctx)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, NotFound("No routes found.")
	}
	return routes, nil
}

// AssignUsers attaches customers to an admin directly, outside route coverage.
func (s *assignmentService) AssignUsers(ctx context.Context, adminID uint, userIDs []uint) error {
	if adminID == 0 || len(userIDs) == 0 {
		return Invalid("Admin ID or users missing.")
	}

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetByID(ctx, adminID); err != nil {
			if isNotFound(err) {
				return Invalid("Admin ID does not exist.")
			}
			return fmt.Errorf("failed to load admin: %w", err)
		}

		users, err := tx.Users.GetByIDs(ctx, userIDs)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		if len(users) != len(userIDs) {
			return Invalid("Some user IDs do not exist.")
		}

		customerIDs := make([]string, len(users))
		for i, u := range users {
			customerIDs[i] = u.CustomerID
		}
		existing, err := tx.Assignments.GetByCustomers(ctx, customerIDs)
		if err != nil {
			return fmt.Errorf("failed to load existing assignments: %w", err)
		}
		for _, a := range existing {
			if a.AdminID != adminID {
				return Invalid("Some users are already assigned to another admin.")
			}
		}

		now := s.now()
		rows := make([]models.AdminAssign, len(users))
		for i, u := range users {
			rows[i] = models.AdminAssign{AdminID: adminID, CustomerID: u.CustomerID, Route: u.Route}
		}
		return tx.Assignments.InsertMissing(ctx, stamp(rows, now))
	})
}

func (s *assignmentService) AssignedUsers(ctx context.Context, adminID uint) ([]models.User, error) {
	users, err := s.store.Assignments.AssignedUsers(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, NotFound("No users assigned to this admin.")
	}
	return users, nil
}
