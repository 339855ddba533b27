package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/artisan-store/internal/domain/models"
)

// RecentOrdersLimit - сколько последних заказов отдаёт админский список
const RecentOrdersLimit = 100

var ErrOrderRejected = errors.New("order rejected by database")

// OrderStorage описывает методы для работы с заказами. Таблица только на добавление.
type OrderStorage interface {
	// CreateOrder вставляет заказ одной командой и возвращает присвоенный id.
	// nil без ошибки означает, что драйвер id не вернул.
	CreateOrder(ctx context.Context, order *models.Order) (*int64, error)
	// ListRecentOrders возвращает последние заказы, новые первыми.
	ListRecentOrders(ctx context.Context, limit int) ([]*models.Order, error)
}

// orderRepository - конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

// CreateOrder вставляет новый заказ в таблицу orders.
// Позиции хранятся в JSONB как есть, вместе с subtotal.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*int64, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders (method, customer_name, phone_number, address, birthday, is_gift_order, gift_recipient_name, items, total_amount)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, created_at`

	var (
		id        sql.NullInt64
		createdAt sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query,
		order.Method,
		order.CustomerName,
		order.PhoneNumber,
		order.Address,
		order.Birthday,
		order.IsGiftOrder,
		order.GiftRecipientName,
		string(itemsJSON),
		order.TotalAmount,
	).Scan(&id, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		var pqErr *pq.Error
		// класс 22 - некорректные данные, 23 - нарушение ограничений
		if errors.As(err, &pqErr) && (pqErr.Code.Class() == "22" || pqErr.Code.Class() == "23") {
			return nil, fmt.Errorf("%w: %s", ErrOrderRejected, pqErr.Message)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if createdAt.Valid {
		order.CreatedAt = createdAt.Time
	}
	if !id.Valid {
		return nil, nil
	}
	order.ID = id.Int64
	return &order.ID, nil
}

// ListRecentOrders возвращает последние заказы, отсортированные по дате создания.
func (r *orderRepository) ListRecentOrders(ctx context.Context, limit int) ([]*models.Order, error) {
	if limit <= 0 || limit > RecentOrdersLimit {
		limit = RecentOrdersLimit
	}

	query := `
		SELECT id, created_at, method, customer_name, phone_number, address, birthday,
		       is_gift_order, gift_recipient_name, items, total_amount
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order := &models.Order{}
		var (
			recipient sql.NullString
			itemsJSON []byte
		)
		if err := rows.Scan(
			&order.ID,
			&order.CreatedAt,
			&order.Method,
			&order.CustomerName,
			&order.PhoneNumber,
			&order.Address,
			&order.Birthday,
			&order.IsGiftOrder,
			&recipient,
			&itemsJSON,
			&order.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if recipient.Valid {
			name := recipient.String
			order.GiftRecipientName = &name
		}
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items of order %d: %w", order.ID, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
