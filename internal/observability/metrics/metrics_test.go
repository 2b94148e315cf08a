package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSettlementMetricsObserve(t *testing.T) {
	reg := NewIsolatedRegistry()
	m := NewSettlementMetrics(reg, Config{ServiceName: "pointsale", Environment: "test"})

	m.Observe("threshold_settle", OutcomeSuccess, 150, 200, 15)
	m.Observe("threshold_settle", OutcomeInsufficientFunds, 0, 300, 0)

	if got := testutil.ToFloat64(m.settlements.WithLabelValues("threshold_settle", OutcomeSuccess)); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.settlements.WithLabelValues("threshold_settle", OutcomeInsufficientFunds)); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.pointsEarned.WithLabelValues("threshold_settle")); got != 150 {
		t.Fatalf("expected 150 points earned, got %v", got)
	}
	if got := testutil.ToFloat64(m.pointsSpent.WithLabelValues("threshold_settle")); got != 200 {
		t.Fatalf("failed settlements must not count spent points, got %v", got)
	}
	if got := testutil.ToFloat64(m.cashPaid.WithLabelValues("threshold_settle")); got != 15 {
		t.Fatalf("expected 15 cash paid, got %v", got)
	}
}

func TestSettlementMetricsNilSafe(t *testing.T) {
	var m *SettlementMetrics
	m.Observe("redeem_then_pay", OutcomeSuccess, 1, 1, 1)
}

func TestRegisterReusesExistingCollector(t *testing.T) {
	reg := NewIsolatedRegistry()
	first := NewSettlementMetrics(reg, Config{})
	second := NewSettlementMetrics(reg, Config{})
	if first.settlements != second.settlements {
		t.Fatalf("expected the already registered collector to be reused")
	}
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewIsolatedRegistry()
	m := NewHTTPMetrics(reg, Config{ServiceName: "pointsale", Environment: "test"})

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(reg.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/health", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "pointsale_http_requests_total") {
		t.Fatalf("expected exposition to include request counter")
	}
}
