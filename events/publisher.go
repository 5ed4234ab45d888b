package events

import (
	"cart-app/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const OrderPlacedQueue = "order.placed"

type OrderPlaced struct {
	EventType string            `json:"event_type"`
	OrderID   string            `json:"order_id"`
	GroupID   string            `json:"group_id"`
	Name      string            `json:"name"`
	Total     float64           `json:"total"`
	Items     []models.LineItem `json:"items"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewOrderPlaced(o *models.Order) OrderPlaced {
	return OrderPlaced{
		EventType: "OrderPlaced",
		OrderID:   o.ID,
		GroupID:   o.GroupID,
		Name:      o.Name,
		Total:     o.Total,
		Items:     o.Payload.OrderedProducts,
		Timestamp: o.CreatedAt.UTC(),
	}
}

type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare %s: %w", OrderPlacedQueue, err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *models.Order) error {
	body, err := json.Marshal(NewOrderPlaced(o))
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	return p.ch.PublishWithContext(ctx, "", OrderPlacedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    o.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
