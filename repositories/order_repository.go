package repositories

import (
	"cart-app/models"
	"context"
	"encoding/json"
	"fmt"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return fmt.Errorf("encode order payload: %w", err)
	}

	query := `
		INSERT INTO orders (id, group_id, name, total, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, o.ID, o.GroupID, o.Name, o.Total, payload).Scan(&o.CreatedAt)
}

func (r *OrderRepository) List(ctx context.Context, groupID string, limit, offset int) ([]models.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE group_id = $1`, groupID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, group_id, name, total, payload, created_at
	          FROM orders WHERE group_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var payload []byte
		if err := rows.Scan(&o.ID, &o.GroupID, &o.Name, &o.Total, &payload, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(payload, &o.Payload); err != nil {
			return nil, 0, fmt.Errorf("decode order %s payload: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}
