package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gnat1923/ecommerce/internal/app/handlers"
	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/jwt-new/jwtmiddleware"
	"github.com/gnat1923/ecommerce/internal/lib/logger/handlers/urllog"
	"github.com/gnat1923/ecommerce/internal/lib/session"
	"github.com/gnat1923/ecommerce/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services - набор сервисов, которые обслуживает HTTP-слой
type Services struct {
	Auth    service.AuthServiceInterface
	Catalog service.CatalogService
	Cart    service.CartService
	Orders  service.OrderService
}

// NewRouter собирает chi-роутер со всеми эндпоинтами
func NewRouter(log *slog.Logger, svc Services, jwtSecret string, sessionTTL time.Duration) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(session.Middleware(sessionTTL))

	router.Route("/customers", func(r chi.Router) {
		r.Get("/", handlers.ListCustomersHandler(log, svc.Catalog))
		r.Post("/", handlers.CreateCustomerHandler(log, svc.Catalog))
		r.Get("/{id}", handlers.GetCustomerHandler(log, svc.Catalog))
		r.Delete("/{id}", handlers.SoftDeleteHandler(log, svc.Catalog, models.KindCustomer))
		r.Post("/{id}/delete", handlers.SoftDeleteHandler(log, svc.Catalog, models.KindCustomer))
		r.Post("/{id}/restore", handlers.RestoreHandler(log, svc.Catalog, models.KindCustomer))
		r.Get("/{id}/orders", handlers.CustomerOrdersHandler(log, svc.Orders))
	})

	router.Route("/products", func(r chi.Router) {
		r.Get("/", handlers.ListProductsHandler(log, svc.Catalog))
		r.Post("/", handlers.CreateProductHandler(log, svc.Catalog))
		r.Get("/{id}", handlers.GetProductHandler(log, svc.Catalog))
		r.Delete("/{id}", handlers.SoftDeleteHandler(log, svc.Catalog, models.KindProduct))
		r.Post("/{id}/delete", handlers.SoftDeleteHandler(log, svc.Catalog, models.KindProduct))
		r.Post("/{id}/restore", handlers.RestoreHandler(log, svc.Catalog, models.KindProduct))
		r.Get("/{id}/orders", handlers.ProductOrdersHandler(log, svc.Orders))
	})

	router.Route("/orders", func(r chi.Router) {
		r.Get("/", handlers.ListOrdersHandler(log, svc.Orders))
		r.Post("/", handlers.CreateOrderHandler(log, svc.Orders))
		r.Get("/{id}", handlers.GetOrderHandler(log, svc.Orders))
	})

	router.Route("/cart", func(r chi.Router) {
		r.Get("/", handlers.GetCartHandler(log, svc.Cart))
		r.Delete("/", handlers.ClearCartHandler(log, svc.Cart))
		r.Post("/items", handlers.AddCartItemHandler(log, svc.Cart))
		r.Post("/checkout", handlers.CheckoutHandler(log, svc.Orders))
	})

	// эндпоинт для аутентификации
	router.Post("/auth/login", handlers.AuthHandler(log, svc.Auth))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(jwtSecret))
		r.Get("/me/orders", handlers.MyOrdersHandler(log, svc.Orders))
		r.Post("/me/checkout", handlers.MyCheckoutHandler(log, svc.Orders))
	})

	return router
}
