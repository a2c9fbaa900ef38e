package monitoring

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

func TestExtractHandlerName(t *testing.T) {
	cases := map[string]string{
		"/api/v1/cart/items/3":          "cart",
		"/api/v1/products":              "catalog",
		"/api/v1/categories":            "catalog",
		"/api/v1/admin/orders/1/status": "admin_orders",
		"/api/v1/orders/ORD-1/cancel":   "orders",
		"/health":                       "health",
		"/favicon.ico":                  "unknown",
	}
	for path, want := range cases {
		assert.Equal(t, want, extractHandlerName(path), path)
	}
}

func TestGetLockType(t *testing.T) {
	assert.Equal(t, "checkout", getLockType("checkout:abc"))
	assert.Equal(t, "other", getLockType("import:catalog"))
	assert.Equal(t, "unknown", getLockType("plain"))
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "empty_cart", FailureReason(domainErrors.ErrEmptyCart))
	assert.Equal(t, "store_failed", FailureReason(fmt.Errorf("%w: boom", domainErrors.ErrTransactionFailed)))
	assert.Equal(t, "internal", FailureReason(errors.New("boom")))
}

func TestCartObserver(t *testing.T) {
	o := NewCartObserver()
	before := testutil.ToFloat64(CartMutationsTotal.WithLabelValues("add", "persist_failed"))

	o.ObserveMutation("add", errors.New("redis down"))
	o.ObserveLoad("corrupt")

	assert.Equal(t, before+1, testutil.ToFloat64(CartMutationsTotal.WithLabelValues("add", "persist_failed")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(CartLoadsTotal.WithLabelValues("corrupt")), 1.0)
}

func TestHTTPMetricsLabelsByRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetrics)
	r.Post("/api/v1/orders/{id}/cancel", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	counter := HTTPRequestsTotal.WithLabelValues("orders", http.MethodPost, "409")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"ORD-1", "ORD-2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil))
	}
	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	unknown := HTTPRequestsTotal.WithLabelValues("unknown", http.MethodGet, "404")
	before = testutil.ToFloat64(unknown)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(unknown))
}
