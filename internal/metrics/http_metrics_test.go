package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewHTTPMetrics("order-manager")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/get-orders/:customer_id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	for _, id := range []string{"C1", "C2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get-orders/"+id, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("order-manager", "GET", "/get-orders/:customer_id", "200"))
	if got != 2 {
		t.Fatalf("http_requests_total = %v, want 2", got)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "http_request_duration_seconds") {
		t.Error("metrics output missing duration histogram")
	}
}

func TestLedgerMiddlewareOutcomes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewHTTPMetrics("order-manager")

	r := gin.New()
	r.Use(m.LedgerMiddleware())
	r.POST("/credit-limit/deduct", func(c *gin.Context) { c.Status(http.StatusConflict) })
	r.GET("/credit-limit", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/credit-limit/deduct", nil),
		httptest.NewRequest(http.MethodGet, "/credit-limit", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(m.ledger.WithLabelValues("order-manager", "/credit-limit/deduct", "conflict")); got != 1 {
		t.Errorf("conflict count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.ledger); got != 1 {
		t.Errorf("ledger series = %d, want 1 (reads are not counted)", got)
	}
}

func TestStatusCategory(t *testing.T) {
	tests := map[int]string{200: "2xx", 201: "2xx", 304: "3xx", 404: "4xx", 409: "4xx", 503: "5xx"}
	for status, want := range tests {
		if got := statusCategory(status); got != want {
			t.Errorf("statusCategory(%d) = %q, want %q", status, got, want)
		}
	}
}
