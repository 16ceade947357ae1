package api

import (
	"log/slog"
	"net/http"

	"github.com/example/plant-shop/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(handlers *Handlers, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		// Products
		r.Get("/products/", handlers.GetProducts)
		r.Post("/products/create/", handlers.CreateProduct)
		r.Get("/products/{id}/", handlers.GetProduct)
		r.Put("/products/{id}/", handlers.UpdateProduct)
		r.Delete("/products/{id}/", handlers.DeleteProduct)

		// Orders
		r.Get("/orders/", handlers.GetOrders)
		r.Post("/orders/create/", handlers.PlaceOrder)
		r.Get("/orders/{id}/", handlers.GetOrder)
		r.Patch("/orders/{id}/", handlers.UpdateOrderStatus)
		r.Delete("/orders/{id}/", handlers.DeleteOrder)
	})

	return otelhttp.NewHandler(r, "shop-api")
}
