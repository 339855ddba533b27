package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/artisan-store/internal/config"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	// DB == nil, если DATABASE_URL не задан: сервер работает, но /api/orders отвечает 500
	DB *sql.DB
}

// NewApp создаёт новый экземпляр App
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: log,
	}

	if !cfg.Database.Configured() {
		log.Warn("DATABASE_URL is not set, order endpoints will report a configuration error")
		return app, nil
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	app.DB = db
	return app, nil
}

// Close закрывает подключение к БД, если оно было открыто
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
