package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest - тело POST /customers
type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// CreateProductRequest - тело POST /products; цена принимается строкой или числом
type CreateProductRequest struct {
	Name  string           `json:"name" validate:"required"`
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// ActiveStateResponse - ответ на мягкое удаление и восстановление
type ActiveStateResponse struct {
	ID     int64  `json:"id"`
	Kind   string `json:"kind"`
	Active bool   `json:"active"`
}

func listingPath(kind models.EntityKind) string {
	if kind == models.KindProduct {
		return "/products"
	}
	return "/customers"
}

// idParam разбирает {id}; нечисловой id ведёт себя как несуществующая запись
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid id %q", service.ErrNotFound, raw)
	}
	return id, nil
}

// activeFilter: ?status=inactive показывает мягко удалённые записи, иначе активные
func activeFilter(r *http.Request) bool {
	return r.URL.Query().Get("status") != "inactive"
}

func ListCustomersHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCustomersHandler"
		logger := log.With(slog.String("op", op))

		customers, err := catalog.ListCustomers(r.Context(), activeFilter(r))
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, "Customers", toCustomerList(customers))
	}
}

func GetCustomerHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCustomerHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		customer, err := catalog.GetCustomer(r.Context(), id)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, "Customer "+customer.Name, toCustomerResponse(customer))
	}
}

func CreateCustomerHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateCustomerHandler"
		logger := log.With(slog.String("op", op))

		var req CreateCustomerRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondBadRequest(logger, w, r, err)
			return
		}

		customer, err := catalog.CreateCustomer(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respondMutation(logger, w, r, http.StatusCreated, "/customers", toCustomerResponse(customer))
	}
}

func ListProductsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := catalog.ListProducts(r.Context(), activeFilter(r))
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, "Products", toProductList(products))
	}
}

func GetProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		product, err := catalog.GetProduct(r.Context(), id)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, "Product "+product.Name, toProductResponse(product))
	}
}

func CreateProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req CreateProductRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondBadRequest(logger, w, r, err)
			return
		}

		// положительность цены проверяет сервис
		product, err := catalog.CreateProduct(r.Context(), req.Name, *req.Price)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respondMutation(logger, w, r, http.StatusCreated, "/products", toProductResponse(product))
	}
}

// SoftDeleteHandler обслуживает и POST /{id}/delete, и DELETE /{id}
func SoftDeleteHandler(log *slog.Logger, catalog service.CatalogService, kind models.EntityKind) http.HandlerFunc {
	return setActiveHandler(log, "handlers.SoftDeleteHandler", kind, false, catalog.SoftDelete)
}

func RestoreHandler(log *slog.Logger, catalog service.CatalogService, kind models.EntityKind) http.HandlerFunc {
	return setActiveHandler(log, "handlers.RestoreHandler", kind, true, catalog.Restore)
}

type setActiveFunc func(ctx context.Context, kind models.EntityKind, id int64) error

func setActiveHandler(log *slog.Logger, op string, kind models.EntityKind, active bool, apply setActiveFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", op), slog.String("kind", string(kind)))

		id, err := idParam(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		if err := apply(r.Context(), kind, id); err != nil {
			respondError(logger, w, r, err)
			return
		}
		respondMutation(logger, w, r, http.StatusOK, listingPath(kind),
			ActiveStateResponse{ID: id, Kind: string(kind), Active: active})
	}
}

func CustomerOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CustomerOrdersHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		list, err := orders.ListOrdersForCustomer(r.Context(), id)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, fmt.Sprintf("Orders of customer %d", id), toOrderList(list))
	}
}

func ProductOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductOrdersHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		list, err := orders.ListOrdersForProduct(r.Context(), id)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, fmt.Sprintf("Orders with product %d", id), toOrderList(list))
	}
}
