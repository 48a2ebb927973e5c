package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_LabelsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/cart/:userId", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/api/cart/a", "/api/cart/b", "/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/cart/:userId", "200")))
	// ルート1つ + 未マッチ
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestCartMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.IncMerge("ok", 3)
	m.IncMerge("ok", 2)
	m.IncMerge("invalid", 0)
	m.IncMerge("", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.merges.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.merges.WithLabelValues("unknown")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.quantity))
}

func TestNilRegistererIsNoop(t *testing.T) {
	var cm *CartMetrics
	cm.IncMerge("ok", 1)
	NewCartMetrics(nil).IncMerge("ok", 1)

	e := echo.New()
	e.Use(NewHTTPMetrics(nil).Middleware())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
