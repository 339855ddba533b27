package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/artisan-store/internal/admintoken/tokenmiddleware"
	"github.com/linemk/artisan-store/internal/app/handlers"
	"github.com/linemk/artisan-store/internal/lib/logger/handlers/urllog"
	"github.com/linemk/artisan-store/internal/service"
)

// NewRouter собирает HTTP API заказов.
// Админский токен проверяется только на чтение: оформление заказа доступно покупателям без авторизации.
func NewRouter(log *slog.Logger, adminToken string, orderService service.OrderService) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	router.Route("/api/orders", func(r chi.Router) {
		// без БД любой запрос получает 500, до токена и проверки метода
		r.Use(handlers.RequireConfigured(log, orderService))
		r.MethodNotAllowed(handlers.MethodNotAllowed)
		// эндпоинт оформления заказа (наложенный платёж)
		r.Post("/", handlers.CreateOrderHandler(log, orderService))
		// эндпоинт для списка последних заказов
		r.With(tokenmiddleware.New(adminToken)).Get("/", handlers.ListOrdersHandler(log, orderService))
	})

	return router
}
