package handlers

import (
	"context"
	"net/http"
	"testing"

	"order_manager/internal/models"
	"order_manager/internal/services"
)

type fakeUsers struct {
	services.UserService

	salesman      services.NewSalesmanInput
	updatedID     string
	updatedFields map[string]interface{}
	prefs         services.AutoOrderPreferences
	blocked       map[string]string
	location      *services.UserLocation
}

func (f *fakeUsers) CreateSalesman(_ context.Context, in services.NewSalesmanInput) (*models.User, error) {
	f.salesman = in
	return &models.User{ID: 9, CustomerID: in.CustomerID}, nil
}

func (f *fakeUsers) UpdateSalesman(_ context.Context, customerID string, fields map[string]interface{}) (*models.User, error) {
	if customerID == "" {
		return nil, services.Invalid("customer_id is required")
	}
	f.updatedID, f.updatedFields = customerID, fields
	return &models.User{CustomerID: customerID}, nil
}

func (f *fakeUsers) UpdateAutoOrderPreferences(_ context.Context, in services.AutoOrderPreferences) error {
	f.prefs = in
	return nil
}

func (f *fakeUsers) UpdateBlockStatus(_ context.Context, customerID, status string) error {
	if f.blocked == nil {
		f.blocked = map[string]string{}
	}
	f.blocked[customerID] = status
	return nil
}

func (f *fakeUsers) UpdateLocation(_ context.Context, customerID string, latitude, longitude float64) error {
	if customerID != "C1" {
		return services.NotFound("User not found")
	}
	f.location = &services.UserLocation{Latitude: &latitude, Longitude: &longitude}
	return nil
}

func (f *fakeUsers) Location(_ context.Context, customerID string) (*services.UserLocation, error) {
	if f.location == nil {
		return &services.UserLocation{}, nil
	}
	return f.location, nil
}

func (f *fakeUsers) PriceMode(_ context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", services.Invalid("customer_id is required as a query parameter")
	}
	return "mrp", nil
}

func (f *fakeUsers) DeleteCustomer(_ context.Context, customerID string) error {
	return services.Conflict("Customer %s has orders and cannot be deleted", customerID)
}

func TestCreateSalesmanAcceptsRouteString(t *testing.T) {
	tests := []struct {
		name  string
		route interface{}
	}{
		{"comma separated", "North, East"},
		{"array", []string{"North", "East"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{}
			r := newRouter(NewUserHandler(users))

			w := perform(t, r, http.MethodPost, "/salesman-create", map[string]interface{}{
				"customer_id": "S1", "username": "sales1", "route": tt.route,
			})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
			}
			if got := users.salesman.Routes; len(got) != 2 || got[0] != "East" || got[1] != "North" {
				t.Errorf("routes = %q", got)
			}
		})
	}
}

func TestUpdateSalesmanStripsCustomerID(t *testing.T) {
	users := &fakeUsers{}
	r := newRouter(NewUserHandler(users))

	w := perform(t, r, http.MethodPost, "/salesman-update", map[string]interface{}{
		"customer_id": "S1", "designation": "Lead",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if users.updatedID != "S1" {
		t.Errorf("customer id = %q", users.updatedID)
	}
	if _, ok := users.updatedFields["customer_id"]; ok || users.updatedFields["designation"] != "Lead" {
		t.Errorf("fields = %v", users.updatedFields)
	}

	if w := perform(t, r, http.MethodPost, "/salesman-update", map[string]interface{}{"designation": "Lead"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing customer_id: status = %d, want 400", w.Code)
	}
}

func TestAutoOrderPreferencesNullClears(t *testing.T) {
	users := &fakeUsers{}
	r := newRouter(NewUserHandler(users))

	w := perform(t, r, http.MethodPost, "/update-auto-order-preferences", `{"customer_id":"C1","auto_am_order":"Yes","auto_pm_order":null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	p := users.prefs
	if p.CustomerID != "C1" || p.AutoAM == nil || *p.AutoAM != "Yes" || p.ClearAM {
		t.Errorf("AM prefs = %+v", p)
	}
	if p.AutoPM != nil || !p.ClearPM {
		t.Errorf("PM prefs = %+v", p)
	}

	users.prefs = services.AutoOrderPreferences{}
	perform(t, r, http.MethodPost, "/update-auto-order-preferences", `{"customer_id":"C1","auto_pm_order":"No"}`)
	if users.prefs.AutoAM != nil || users.prefs.ClearAM {
		t.Errorf("absent AM key touched: %+v", users.prefs)
	}

	if w := perform(t, r, http.MethodPost, "/update-auto-order-preferences", `{"customer_id":"C1","auto_am_order":true}`); w.Code != http.StatusBadRequest {
		t.Errorf("non-string flag: status = %d, want 400", w.Code)
	}
}

func TestUpdateBlockStatus(t *testing.T) {
	users := &fakeUsers{}
	r := newRouter(NewUserHandler(users))

	if w := perform(t, r, http.MethodPost, "/update-block-status", map[string]string{"customer_id": "C1", "status": "blocked"}); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if users.blocked["C1"] != "blocked" {
		t.Errorf("blocked = %v", users.blocked)
	}

	w := perform(t, r, http.MethodPost, "/update-block-status", map[string]string{"customer_id": "C1", "status": "suspended"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if errs, _ := decode(t, w)["errors"].(map[string]interface{}); errs["status"] != "oneof" {
		t.Errorf("errors = %v", errs)
	}
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	r := newRouter(NewUserHandler(&fakeUsers{}))
	if w := perform(t, r, http.MethodDelete, "/delete-customer/C1", nil); w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestUserLocation(t *testing.T) {
	users := &fakeUsers{}
	r := newRouter(NewUserHandler(users))

	if w := perform(t, r, http.MethodGet, "/get-user-location/C1", nil); decode(t, w)["data"].(map[string]interface{})["latitude"] != nil {
		t.Errorf("unset location: %s", w.Body.String())
	}

	w := perform(t, r, http.MethodPost, "/update-user-location", map[string]interface{}{"customer_id": "C1", "latitude": 0, "longitude": 77.59})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	data, _ := decode(t, perform(t, r, http.MethodGet, "/get-user-location/C1", nil))["data"].(map[string]interface{})
	if data["latitude"] != float64(0) || data["longitude"] != 77.59 {
		t.Errorf("location = %v", data)
	}

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantField  string
	}{
		{"missing longitude", map[string]interface{}{"customer_id": "C1", "latitude": 10}, http.StatusBadRequest, "longitude"},
		{"latitude out of range", map[string]interface{}{"customer_id": "C1", "latitude": 91, "longitude": 10}, http.StatusBadRequest, "latitude"},
		{"unknown user", map[string]interface{}{"customer_id": "C9", "latitude": 1, "longitude": 1}, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(t, r, http.MethodPost, "/update-user-location", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantField == "" {
				return
			}
			if errs, _ := decode(t, w)["errors"].(map[string]interface{}); errs[tt.wantField] == nil {
				t.Errorf("errors = %v, want %s", errs, tt.wantField)
			}
		})
	}
}

func TestUserPriceMode(t *testing.T) {
	r := newRouter(NewUserHandler(&fakeUsers{}))

	body := decode(t, perform(t, r, http.MethodGet, "/user_price_mode?customer_id=C1", nil))
	if body["price_mode"] != "mrp" || body["customer_id"] != "C1" {
		t.Errorf("body = %v", body)
	}
	if w := perform(t, r, http.MethodGet, "/user_price_mode", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
