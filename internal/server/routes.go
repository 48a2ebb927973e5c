package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Guards   handler.Guards
	Cart     *handler.CartHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	User     *handler.UserHandler
	Admin    *handler.AdminHandler
	Upload   *handler.UploadHandler
	// /healthz で確認する依存先（名前→疎通確認）
	Health map[string]HealthCheck
}

type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// /api 以下と /healthz, /metrics
func (s *Server) RegisterRoutes(h Handlers, gatherer prometheus.Gatherer) {
	e := s.e

	s.registerHealth(h.Health)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")
	h.Cart.RegisterRoutes(api)
	h.Category.RegisterRoutes(api, h.Guards)
	h.Product.RegisterRoutes(api, h.Guards)
	h.Order.RegisterRoutes(api, h.Guards)
	h.User.RegisterRoutes(api, h.Guards)
	h.Admin.RegisterRoutes(api, h.Guards)
	h.Upload.RegisterRoutes(api, h.Guards)
}

// 1つでも落ちていれば503
func (s *Server) registerHealth(checks map[string]HealthCheck) {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	s.e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				s.log.Warn(ctx, "health check failed: "+name, err)
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		body := map[string]any{"status": "ok", "checks": results}
		if status != http.StatusOK {
			body["status"] = "unavailable"
		}
		return c.JSON(status, body)
	})
}
