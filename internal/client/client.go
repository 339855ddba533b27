// Package client - HTTP-клиент API заказов для витрины и админки.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linemk/artisan-store/internal/domain/models"
)

// APIError - ответ API со статусом не 2xx
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type createOrderResponse struct {
	OK      bool   `json:"ok"`
	OrderID *int64 `json:"orderId"`
}

type listOrdersResponse struct {
	Orders []*models.Order `json:"orders"`
}

// SubmitOrder отправляет заказ и возвращает id (nil, если сервер его не вернул)
func (c *Client) SubmitOrder(ctx context.Context, sub models.OrderSubmission) (*int64, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp createOrderResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.OrderID, nil
}

// ListOrders запрашивает последние заказы; token может быть пустым
func (c *Client) ListOrders(ctx context.Context, token string) ([]*models.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var resp listOrdersResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error, please check your connection: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage: поле error из JSON, иначе текст тела, иначе статус
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("Server error: %d", status)
}
