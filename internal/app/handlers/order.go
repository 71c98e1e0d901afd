package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gnat1923/ecommerce/internal/service"
)

type OrderLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"min=1,max=2147483647"`
}

// CreateOrderRequest - тело POST /orders, оформление без корзины
type CreateOrderRequest struct {
	CustomerID int64              `json:"customer_id" validate:"required"`
	Items      []OrderLineRequest `json:"items" validate:"dive"`
}

func ListOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		list, err := orders.ListOrders(r.Context())
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, "Orders", toOrderList(list))
	}
}

func GetOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		id, err := idParam(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		order, err := orders.GetOrder(r.Context(), id)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, fmt.Sprintf("Order %d", order.ID), toOrderResponse(order))
	}
}

func CreateOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req CreateOrderRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondBadRequest(logger, w, r, err)
			return
		}

		lines := make([]service.OrderLine, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		order, err := orders.PlaceOrder(r.Context(), req.CustomerID, lines)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respondMutation(logger, w, r, http.StatusCreated, fmt.Sprintf("/orders/%d", order.ID), toOrderResponse(order))
	}
}
