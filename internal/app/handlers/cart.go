package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gnat1923/ecommerce/internal/lib/session"
	"github.com/gnat1923/ecommerce/internal/service"
	"github.com/shopspring/decimal"
)

var errNoSession = errors.New("session id not found in context")

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"min=1,max=2147483647"`
}

type CheckoutRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required"`
}

func sessionID(r *http.Request) (string, error) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		return "", errNoSession
	}
	return id, nil
}

func GetCartHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		sid, err := sessionID(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		c, err := carts.Get(r.Context(), sid)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, "Cart", toCartResponse(c))
	}
}

func AddCartItemHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCartItemHandler"
		logger := log.With(slog.String("op", op))

		sid, err := sessionID(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}

		var req AddCartItemRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondBadRequest(logger, w, r, err)
			return
		}

		c, err := carts.AddItem(r.Context(), sid, req.ProductID, req.Quantity)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respondMutation(logger, w, r, http.StatusOK, "/cart", toCartResponse(c))
	}
}

func ClearCartHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		sid, err := sessionID(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		if err := carts.Clear(r.Context(), sid); err != nil {
			respondError(logger, w, r, err)
			return
		}
		respondMutation(logger, w, r, http.StatusOK, "/cart", CartResponse{SessionID: sid, Items: []CartItemResponse{}, Total: money(decimal.Zero)})
	}
}

// CheckoutHandler оформляет корзину сессии на покупателя из тела запроса
func CheckoutHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		sid, err := sessionID(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}

		var req CheckoutRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondBadRequest(logger, w, r, err)
			return
		}

		checkout(logger, w, r, orders, sid, req.CustomerID)
	}
}

func checkout(logger *slog.Logger, w http.ResponseWriter, r *http.Request, orders service.OrderService, sid string, customerID int64) {
	order, err := orders.Checkout(r.Context(), sid, customerID)
	if err != nil {
		respondError(logger, w, r, err)
		return
	}
	logger.Info("cart checked out", slog.Int64("orderID", order.ID))
	respondMutation(logger, w, r, http.StatusCreated, fmt.Sprintf("/orders/%d", order.ID), toOrderResponse(order))
}
