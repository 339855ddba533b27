package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linemk/artisan-store/internal/app"
	"github.com/linemk/artisan-store/internal/config"
	"github.com/linemk/artisan-store/internal/lib/logger"
	"github.com/linemk/artisan-store/internal/notify"
	"github.com/linemk/artisan-store/internal/service"
	"github.com/linemk/artisan-store/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", logger.Err(err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	// без БД репозиторий не создаём, сервис сам ответит "не настроено"
	var orderRepo storage.OrderStorage
	if application.DB != nil {
		orderRepo = storage.NewOrderRepository(application.DB)
	}

	dispatcher := notify.NewDispatcher(log, notify.NewSenderFromConfig(cfg.Notify), cfg.Notify.Timeout)
	if !dispatcher.Enabled() {
		log.Warn("SMTP is not configured, order notifications are disabled")
	}
	if cfg.Admin.Token == "" {
		log.Warn("ADMIN_TOKEN is not set, order listing is open to everyone")
	}

	orderService := service.NewOrderService(log, orderRepo, dispatcher)
	router := app.NewRouter(log, cfg.Admin.Token, orderService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", logger.Err(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", logger.Err(err))
	}
	// дожидаемся писем, которые уже в отправке
	if err := dispatcher.Wait(ctx); err != nil {
		log.Warn("pending notifications were not delivered", logger.Err(err))
	}
	log.Info("server gracefully stopped")
}
