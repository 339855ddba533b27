package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/artisan-store/internal/lib/logger"
)

// ErrorResponse - единый формат ошибок API
type ErrorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New()

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", logger.Err(err))
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(log, w, status, ErrorResponse{Error: msg})
}

// MethodNotAllowed отвечает 405 в формате API
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Method not allowed"})
}

// NotFound отвечает 404 в формате API
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Not found"})
}
