package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopcart/backend/pkg/health"
	"github.com/shopcart/backend/pkg/middleware"
)

const serviceName = "shopcart"

// RouterConfig collects the handlers and cross-cutting dependencies the HTTP
// router wires together.
type RouterConfig struct {
	Carts      *CartHandler
	Orders     *OrderHandler
	Products   *ProductHandler
	Categories *CategoryHandler
	Customers  *CustomerHandler
	Health     *health.Handler
	CORS       middleware.CORSConfig
	Logger     *slog.Logger
}

// NewRouter builds the HTTP router with all middleware and routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", cfg.Carts.CreateCart)
			r.Get("/{cartId}", cfg.Carts.GetCart)
			r.Post("/{cartId}/items", cfg.Carts.AddItem)
			r.Put("/{cartId}/items/{productId}", cfg.Carts.UpdateItemQuantity)
			r.Delete("/{cartId}/items/{productId}", cfg.Carts.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.Orders.CreateOrder)
			r.Get("/", cfg.Orders.ListOrders)
			r.Get("/{orderId}", cfg.Orders.GetOrder)
			r.Patch("/{orderId}/status", cfg.Orders.UpdateStatus)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", cfg.Products.CreateProduct)
			r.Get("/", cfg.Products.ListProducts)
			r.Get("/{productId}", cfg.Products.GetProduct)
			r.Patch("/{productId}", cfg.Products.UpdateProduct)
			r.Delete("/{productId}", cfg.Products.DeleteProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.Categories.CreateCategory)
			r.Get("/", cfg.Categories.ListCategories)
			r.Get("/{categoryId}", cfg.Categories.GetCategory)
			r.Patch("/{categoryId}", cfg.Categories.UpdateCategory)
			r.Delete("/{categoryId}", cfg.Categories.DeleteCategory)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.Customers.CreateCustomer)
			r.Get("/{customerId}", cfg.Customers.GetCustomer)
			r.Patch("/{customerId}", cfg.Customers.UpdateCustomer)
			r.Delete("/{customerId}", cfg.Customers.DeleteCustomer)
			r.Get("/{customerId}/cart", cfg.Carts.GetActiveCart)
			r.Get("/{customerId}/orders", cfg.Orders.ListCustomerOrders)
		})
	})

	return r
}
