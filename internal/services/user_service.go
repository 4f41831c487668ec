package services

import (
	"context"
	"fmt"
	applog "order_manager/internal/logger"
	"order_manager/internal/models"
	"order_manager/internal/repository"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ttacon/libphonenumber"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages customers and salesmen and keeps route assignments in sync with them.
type UserService interface {
	AddUser(ctx context.Context, in NewUserInput) (*models.User, error)
	CreateSalesman(ctx context.Context, in NewSalesmanInput) (*models.User, error)
	UpdateSalesman(ctx context.Context, customerID string, fields map[string]interface{}) (*models.User, error)
	GetSalesman(ctx context.Context, customerID string) (*SalesmanView, error)
	ListSalesmen(ctx context.Context) ([]models.User, error)
	UpdateAutoOrderPreferences(ctx context.Context, in AutoOrderPreferences) error
	BlockStatus(ctx context.Context, customerID string) (*models.User, error)
	UpdateBlockStatus(ctx context.Context, customerID, status string) error
	DeleteCustomer(ctx context.Context, customerID string) error
	UpdateLocation(ctx context.Context, customerID string, latitude, longitude float64) error
	Location(ctx context.Context, customerID string) (*UserLocation, error)
	PriceMode(ctx context.Context, customerID string) (string, error)
}

type NewUserInput struct {
	CustomerID   string
	Username     string
	Name         string
	Alias        string
	Phone        string
	Route        string
	PriceMode    string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Zip          string
	GSTNumber    string
	Latitude     *float64
	Longitude    *float64
}

type NewSalesmanInput struct {
	CustomerID   string
	Username     string
	Phone        string
	AddressLine1 string
	Designation  string
	Routes       []string
	AadharNumber string
	PanNumber    string
	DLNumber     string
	Notes        string
}

type UserLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type SalesmanView struct {
	models.User
	Routes []string `json:"routes"`
}

// AutoOrderPreferences holds the optional flags; a nil field leaves the column untouched
// unless the matching Clear flag is set.
type AutoOrderPreferences struct {
	CustomerID string
	AutoAM     *string
	AutoPM     *string
	ClearAM    bool
	ClearPM    bool
}

var salesmanUpdatableFields = map[string]bool{
	"username":      true,
	"name":          true,
	"phone":         true,
	"address_line1": true,
	"designation":   true,
	"route":         true,
	"aadhar_number": true,
	"pan_number":    true,
	"dl_number":     true,
	"notes":         true,
}

type userService struct {
	store  *repository.Store
	region string
	now    func() time.Time
	log    *logrus.Logger
}

func NewUserService(store *repository.Store, phoneRegion string) UserService {
	if phoneRegion == "" {
		phoneRegion = "IN"
	}
	return &userService{store: store, region: phoneRegion, now: time.Now, log: applog.Get()}
}

// normalizePhone validates a phone number for the configured region and returns it in E.164.
func normalizePhone(phone, region string) (string, error) {
	num, err := libphonenumber.Parse(phone, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return "", Invalid("Invalid phone number %q", phone)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func hashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// ensureUnique rejects identity values already held by another user. exceptID is the
// user being edited, or 0 on create.
func ensureUnique(ctx context.Context, users repository.UserRepository, fields map[string]string, exceptID uint) error {
	for _, column := range []string{"customer_id", "phone", "username", "name", "alias"} {
		value, ok := fields[column]
		if !ok || value == "" {
			continue
		}
		exists, err := users.ExistsByField(ctx, column, value, exceptID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", column, err)
		}
		if exists {
			return Conflict("User with this %s already exists", column)
		}
	}
	return nil
}

func (s *userService) AddUser(ctx context.Context, in NewUserInput) (*models.User, error) {
	if in.CustomerID == "" || in.Username == "" || in.Phone == "" {
		return nil, Invalid("customer_id, username and phone are required")
	}
	if in.PriceMode == "" {
		return nil, Invalid("price_mode is required")
	}
	phone, err := normalizePhone(in.Phone, s.region)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(ctx, s.store.Users, map[string]string{
		"customer_id": in.CustomerID,
		"phone":       phone,
		"username":    in.Username,
		"name":        in.Name,
		"alias":       in.Alias,
	}, 0); err != nil {
		return nil, err
	}

	password, err := hashSecret(in.Phone)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		CustomerID:   in.CustomerID,
		Username:     in.Username,
		Name:         in.Name,
		Alias:        in.Alias,
		Password:     password,
		Role:         string(models.Customer),
		Route:        strings.TrimSpace(in.Route),
		Status:       string(models.UserActive),
		Phone:        phone,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		Zip:          in.Zip,
		GSTNumber:    in.GSTNumber,
		PriceMode:    in.PriceMode,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
	}
	if user.Name == "" {
		user.Name = in.Username
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return reconcileCustomer(ctx, tx, user.CustomerID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"customer_id": user.CustomerID, "route": user.Route}).Info("customer created")
	return user, nil
}

func (s *userService) CreateSalesman(ctx context.Context, in NewSalesmanInput) (*models.User, error) {
	if in.CustomerID == "" || in.Username == "" {
		return nil, Invalid("customer_id and username are required")
	}
	if exists, err := s.store.Users.ExistsByField(ctx, "customer_id", in.CustomerID, 0); err != nil {
		return nil, fmt.Errorf("failed to check salesman: %w", err)
	} else if exists {
		return nil, Invalid("Salesman already exists")
	}

	phone := in.Phone
	if phone != "" {
		var err error
		if phone, err = normalizePhone(phone, s.region); err != nil {
			return nil, err
		}
	}
	// A salesman's display name starts out as the username.
	if err := ensureUnique(ctx, s.store.Users, map[string]string{
		"phone":    phone,
		"username": in.Username,
		"name":     in.Username,
	}, 0); err != nil {
		return nil, err
	}
	secret := in.Phone
	if secret == "" {
		secret = in.CustomerID
	}
	password, err := hashSecret(secret)
	if err != nil {
		return nil, err
	}

	routes := normalizeRoutes(in.Routes)
	salesman := &models.User{
		CustomerID:   in.CustomerID,
		Username:     in.Username,
		Name:         in.Username,
		Password:     password,
		Role:         string(models.Admin),
		Route:        strings.Join(routes, ","),
		Status:       string(models.UserActive),
		Phone:        phone,
		AddressLine1: in.AddressLine1,
		Designation:  in.Designation,
		AadharNumber: in.AadharNumber,
		PanNumber:    in.PanNumber,
		DLNumber:     in.DLNumber,
		Notes:        in.Notes,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, salesman); err != nil {
			return fmt.Errorf("failed to create salesman: %w", err)
		}
		return setSalesmanRoutes(ctx, tx, salesman.ID, routes, s.now())
	})
	if err != nil {
		return nil, err
	}
	return salesman, nil
}

func (s *userService) UpdateSalesman(ctx context.Context, customerID string, fields map[string]interface{}) (*models.User, error) {
	if customerID == "" {
		return nil, Invalid("Customer ID is required")
	}

	updates := make(map[string]interface{}, len(fields))
	identity := map[string]string{}
	var routes []string
	routeChanged := false
	for key, value := range fields {
		if !salesmanUpdatableFields[key] {
			continue
		}
		switch key {
		case "route":
			parsed, err := routesFromValue(value)
			if err != nil {
				return nil, err
			}
			routes = parsed
			routeChanged = true
			updates["route"] = strings.Join(routes, ",")
		case "phone":
			raw, ok := value.(string)
			if !ok {
				return nil, Invalid("phone must be a string")
			}
			phone := ""
			if strings.TrimSpace(raw) != "" {
				var err error
				if phone, err = normalizePhone(raw, s.region); err != nil {
					return nil, err
				}
			}
			updates["phone"] = phone
			identity["phone"] = phone
		case "username", "name":
			v, ok := value.(string)
			if !ok || strings.TrimSpace(v) == "" {
				return nil, Invalid("%s must be a non-empty string", key)
			}
			updates[key] = v
			identity[key] = v
		default:
			updates[key] = value
		}
	}
	if len(updates) == 0 {
		return nil, Invalid("No fields to update")
	}

	var salesman *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		salesman, err = tx.Users.GetByCustomerID(ctx, customerID)
		if err != nil {
			return notFoundOr(err, "salesman", "Salesman not found")
		}
		if !salesman.IsSalesman() {
			return NotFound("Salesman not found")
		}
		if err := ensureUnique(ctx, tx.Users, identity, salesman.ID); err != nil {
			return err
		}
		if _, err := tx.Users.UpdateFields(ctx, customerID, updates); err != nil {
			return fmt.Errorf("failed to update salesman: %w", err)
		}
		if routeChanged {
			if err := setSalesmanRoutes(ctx, tx, salesman.ID, routes, s.now()); err != nil {
				return err
			}
		}
		salesman, err = tx.Users.GetByCustomerID(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return salesman, nil
}

// routesFromValue accepts either a comma-separated string or a JSON array of strings.
func routesFromValue(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return ParseRoutes(v), nil
	case []string:
		return normalizeRoutes(v), nil
	case []interface{}:
		routes := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, Invalid("route must be a list of strings")
			}
			routes = append(routes, s)
		}
		return normalizeRoutes(routes), nil
	default:
		return nil, Invalid("route must be a string or a list of strings")
	}
}

func (s *userService) GetSalesman(ctx context.Context, customerID string) (*SalesmanView, error) {
	if customerID == "" {
		return nil, Invalid("customer_id is required")
	}
	user, err := s.store.Users.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, notFoundOr(err, "salesman", "Salesman not found")
	}
	if !user.IsSalesman() {
		return nil, NotFound("Salesman not found")
	}
	routes, err := s.store.Assignments.SalesmanRoutes(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load salesman routes: %w", err)
	}
	return &SalesmanView{User: *user, Routes: routes}, nil
}

func (s *userService) ListSalesmen(ctx context.Context) ([]models.User, error) {
	return s.store.Users.ListByRole(ctx, models.Admin)
}

func parseAutoFlag(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(*value)) {
	case "yes":
		yes := "Yes"
		return &yes, nil
	case "no":
		no := "No"
		return &no, nil
	default:
		return nil, Invalid("auto order flags must be Yes, No or null")
	}
}

func (s *userService) UpdateAutoOrderPreferences(ctx context.Context, in AutoOrderPreferences) error {
	if in.CustomerID == "" {
		return Invalid("customer_id is required")
	}

	updates := map[string]interface{}{}
	if in.ClearAM {
		updates["auto_am_order"] = nil
	} else if in.AutoAM != nil {
		flag, err := parseAutoFlag(in.AutoAM)
		if err != nil {
			return err
		}
		updates["auto_am_order"] = *flag
	}
	if in.ClearPM {
		updates["auto_pm_order"] = nil
	} else if in.AutoPM != nil {
		flag, err := parseAutoFlag(in.AutoPM)
		if err != nil {
			return err
		}
		updates["auto_pm_order"] = *flag
	}
	if len(updates) == 0 {
		return Invalid("No preferences to update")
	}

	if _, err := s.store.Users.GetByCustomerID(ctx, in.CustomerID); err != nil {
		return notFoundOr(err, "user", "User not found")
	}
	if _, err := s.store.Users.UpdateFields(ctx, in.CustomerID, updates); err != nil {
		return fmt.Errorf("failed to update auto order preferences: %w", err)
	}
	return nil
}

func (s *userService) BlockStatus(ctx context.Context, customerID string) (*models.User, error) {
	user, err := s.store.Users.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, notFoundOr(err, "user", "User not found")
	}
	if user.Status == "" {
		user.Status = string(models.UserActive)
	}
	return user, nil
}

func (s *userService) UpdateBlockStatus(ctx context.Context, customerID, status string) error {
	if customerID == "" {
		return Invalid("Customer ID is required")
	}
	switch models.UserStatus(status) {
	case models.UserActive, models.UserBlocked:
	default:
		return Invalid("Status must be either 'active' or 'blocked'")
	}

	if _, err := s.store.Users.GetByCustomerID(ctx, customerID); err != nil {
		return notFoundOr(err, "user", "User not found")
	}
	if _, err := s.store.Users.UpdateFields(ctx, customerID, map[string]interface{}{"status": status}); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}

func (s *userService) DeleteCustomer(ctx context.Context, customerID string) error {
	count, err := s.store.Orders.CountByCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to count orders: %w", err)
	}
	if count > 0 {
		return Conflict("Customer %s has %d orders and cannot be deleted", customerID, count)
	}

	affected, err := s.store.Users.Delete(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if affected == 0 {
		return NotFound("User not found")
	}
	return nil
}

func (s *userService) UpdateLocation(ctx context.Context, customerID string, latitude, longitude float64) error {
	if customerID == "" {
		return Invalid("Customer ID is required")
	}
	if latitude < -90 || latitude > 90 {
		return Invalid("Latitude must be between -90 and 90 degrees")
	}
	if longitude < -180 || longitude > 180 {
		return Invalid("Longitude must be between -180 and 180 degrees")
	}

	if _, err := s.store.Users.GetByCustomerID(ctx, customerID); err != nil {
		return notFoundOr(err, "user", "User not found")
	}
	if _, err := s.store.Users.UpdateFields(ctx, customerID, map[string]interface{}{
		"latitude":  latitude,
		"longitude": longitude,
	}); err != nil {
		return fmt.Errorf("failed to update user location: %w", err)
	}
	return nil
}

func (s *userService) Location(ctx context.Context, customerID string) (*UserLocation, error) {
	user, err := s.store.Users.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, notFoundOr(err, "user", "User not found or location data unavailable")
	}
	return &UserLocation{Latitude: user.Latitude, Longitude: user.Longitude}, nil
}

func (s *userService) PriceMode(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", Invalid("customer_id is required as a query parameter")
	}
	user, err := s.store.Users.GetByCustomerID(ctx, customerID)
	if err != nil {
		return "", notFoundOr(err, "user", "User not found for the given customer_id")
	}
	return user.PriceMode, nil
}
