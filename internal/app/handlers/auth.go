package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gnat1923/ecommerce/internal/jwt-new/jwtmiddleware"
	"github.com/gnat1923/ecommerce/internal/service"
)

// AuthRequest представляет структуру запроса для аутентификации с тегами валидации
type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse представляет структуру ответа с JWT-токеном
type AuthResponse struct {
	Token string `json:"token"`
}

// AuthHandler – HTTP-обработчик для аутентификации, принимает логгер и экземпляр AuthService.
// Всегда отвечает JSON: токен нужен только API-клиентам.
func AuthHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AuthHandler"
		logger := log.With(slog.String("op", op))

		var req AuthRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Error("invalid request", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "validation", Message: "invalid request"})
			return
		}

		// Вызов бизнес-логики для аутентификации
		token, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			status, kind := errorStatus(err)
			logger.Error("login failed", slog.Any("error", err))
			writeJSON(logger, w, status, ErrorResponse{Error: kind, Message: http.StatusText(status)})
			return
		}

		writeJSON(logger, w, http.StatusOK, AuthResponse{Token: token})
	}
}

// MyOrdersHandler - заказы покупателя из JWT
func MyOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyOrdersHandler"
		logger := log.With(slog.String("op", op))

		// Извлекаем customerID из контекста (установленный JWT middleware)
		customerID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("customerID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		list, err := orders.ListOrdersForCustomer(r.Context(), customerID)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}
		respond(logger, w, r, http.StatusOK, "My orders", toOrderList(list))
	}
}

// MyCheckoutHandler оформляет корзину сессии на покупателя из JWT
func MyCheckoutHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyCheckoutHandler"
		logger := log.With(slog.String("op", op))

		customerID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("customerID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sid, err := sessionID(r)
		if err != nil {
			respondError(logger, w, r, err)
			return
		}

		checkout(logger, w, r, orders, sid, customerID)
	}
}
