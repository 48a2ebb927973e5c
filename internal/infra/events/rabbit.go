package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	OrderPlacedRoutingKey = "order.placed"
	eventSource           = "storefront-api"
)

type OrderPlacedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderPlaced struct {
	EventType  string            `json:"eventType"`
	Source     string            `json:"source"`
	OrderID    string            `json:"orderId"`
	UserID     string            `json:"userId"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Items      []OrderPlacedItem `json:"items"`
	Timestamp  time.Time         `json:"timestamp"`
}

func NewOrderPlaced(o model.Order, now time.Time) OrderPlaced {
	ev := OrderPlaced{
		EventType:  "OrderPlaced",
		Source:     eventSource,
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalPrice: o.TotalPrice,
		Items:      make([]OrderPlacedItem, 0, len(o.Items)),
		Timestamp:  now.UTC(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderPlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return ev
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// Dialしてtopic exchangeを宣言する
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o model.Order) error {
	body, err := json.Marshal(NewOrderPlaced(o, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RABBITMQ_URLが無いとき用
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, model.Order) error { return nil }
