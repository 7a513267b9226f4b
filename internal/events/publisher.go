package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/google/uuid"
)

const OrderCreatedQueue = "order.created"

// OrderCreated is the wire contract consumed by downstream services
// (fulfilment, analytics). Field names are part of the contract.
type OrderCreated struct {
	EventType      string             `json:"event_type"`
	OrderID        uuid.UUID          `json:"order_id"`
	CustomerID     uuid.UUID          `json:"customer_id"`
	TotalAmount    float64            `json:"total_amount"`
	PointsRedeemed int                `json:"points_redeemed"`
	PointsEarned   int                `json:"points_earned"`
	Items          []OrderCreatedItem `json:"items"`
	Timestamp      time.Time          `json:"timestamp"`
}

type OrderCreatedItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
}

type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the queue so publish never fails due to missing infra
	_, err = ch.QueueDeclare(OrderCreatedQueue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()

		return nil, fmt.Errorf("declare %s: %w", OrderCreatedQueue, err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Close() error {

	if err := p.ch.Close(); err != nil {
		p.conn.Close()

		return err
	}

	return p.conn.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {

	ev := OrderCreated{
		EventType:      "OrderCreated",
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		TotalAmount:    order.TotalAmount,
		PointsRedeemed: order.PointsRedeemed,
		PointsEarned:   order.PointsEarned,
		Timestamp:      time.Now().UTC(),
	}

	for _, item := range order.Items {
		ev.Items = append(ev.Items, OrderCreatedItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}

	return p.publishJSON(ctx, OrderCreatedQueue, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		"",         // default exchange
		routingKey, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
