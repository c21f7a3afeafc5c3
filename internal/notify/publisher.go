package notify

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"

	"partstore/internal/models"
)

const orderQueue = "order_events"

// Publisher fans order-created events out to AMQP. A nil Publisher is valid
// and publishes nothing, so callers never need to branch on configuration.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(orderQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

type orderCreatedEvent struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	TotalAmount float64   `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Publisher) PublishOrderCreated(order models.Order) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(orderCreatedEvent{
		OrderID:     order.ID.Hex(),
		UserID:      order.UserID.Hex(),
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.channel.Publish("", orderQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
