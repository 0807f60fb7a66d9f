package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
)

var _ inventory.StockEventPublisher = (*StockPublisher)(nil)

// StockPublisher publica eventos stock.changed en RabbitMQ después de cada Commit.
type StockPublisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// NewStockPublisher construye el publicador sobre un canal ya abierto (ver SetupConn).
func NewStockPublisher(ch *amqp.Channel, exchange string) *StockPublisher {
	return &StockPublisher{ch: ch, exchange: exchange}
}

// RoutingKey stock.changed.<origen> (ej. stock.changed.order, stock.changed.admin).
func RoutingKey(evt inventory.StockChangedEvent) string {
	return "stock.changed." + evt.Source
}

// PublishStockChanged serializa el evento en JSON y lo publica como mensaje persistente.
func (p *StockPublisher) PublishStockChanged(ctx context.Context, evt inventory.StockChangedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode stock event: %w", err)
	}

	// amqp.Channel no admite publicaciones concurrentes.
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		p.exchange,      // exchange
		RoutingKey(evt), // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.OccurredAt,
			MessageId:    evt.ProductID + ":" + evt.OccurredAt.Format("20060102T150405.000000000"),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish stock event: %w", err)
	}
	return nil
}
