package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/linemk/artisan-store/internal/domain/models"
	"github.com/linemk/artisan-store/internal/lib/logger"
	"github.com/linemk/artisan-store/internal/service"
)

const (
	msgNotConfigured  = "database is not configured"
	msgInvalidPayload = "Invalid order payload"
	msgTotalMismatch  = "Order total does not match items"
	maxOrderBodyBytes = 1 << 20
)

// CreateOrderResponse - ответ на успешное оформление. OrderID = null, если БД не вернула id.
type CreateOrderResponse struct {
	OK      bool   `json:"ok"`
	OrderID *int64 `json:"orderId"`
}

// ListOrdersResponse - ответ админского списка заказов
type ListOrdersResponse struct {
	Orders []*models.Order `json:"orders"`
}

// RequireConfigured отвечает 500, пока БД не настроена. Стоит первым на /api/orders,
// поэтому срабатывает раньше проверки токена и метода.
func RequireConfigured(log *slog.Logger, orderService service.OrderService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !orderService.Configured() {
				log.Error("order storage is not configured",
					slog.String("op", "handlers.RequireConfigured"),
					slog.String("method", r.Method),
				)
				writeError(log, w, http.StatusInternalServerError, msgNotConfigured)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CreateOrderHandler обрабатывает запрос POST /api/orders
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		// конфигурация проверяется до разбора тела
		if !orderService.Configured() {
			logger.Error("order storage is not configured")
			writeError(logger, w, http.StatusInternalServerError, msgNotConfigured)
			return
		}

		var req models.OrderSubmission
		if err := json.NewDecoder(io.LimitReader(r.Body, maxOrderBodyBytes)).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, msgInvalidPayload)
			return
		}

		req.Normalize()
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, msgInvalidPayload)
			return
		}

		orderID, err := orderService.PlaceOrder(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTotalMismatch):
				writeError(logger, w, http.StatusBadRequest, msgTotalMismatch)
			case errors.Is(err, service.ErrInvalidOrder):
				writeError(logger, w, http.StatusBadRequest, msgInvalidPayload)
			case errors.Is(err, service.ErrNotConfigured):
				writeError(logger, w, http.StatusInternalServerError, msgNotConfigured)
			default:
				logger.Error("failed to place order", slog.Any("error", err))
				writeError(logger, w, http.StatusInternalServerError, "failed to create order")
			}
			return
		}

		writeJSON(logger, w, http.StatusOK, CreateOrderResponse{OK: true, OrderID: orderID})
	}
}

// ListOrdersHandler обрабатывает запрос GET /api/orders.
// Проверка админского токена выполняется middleware на уровне роутера.
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		log := log.With(slog.String("op", op))

		if !orderService.Configured() {
			log.Error("order storage is not configured")
			writeError(log, w, http.StatusInternalServerError, msgNotConfigured)
			return
		}

		orders, err := orderService.ListRecentOrders(r.Context())
		if err != nil {
			log.Error("failed to list orders", logger.Err(err))
			writeError(log, w, http.StatusInternalServerError, "failed to load orders")
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		writeJSON(log, w, http.StatusOK, ListOrdersResponse{Orders: orders})
	}
}
