package messaging

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ExchangeType los eventos de stock usan un exchange topic: stock.changed.<origen>.
const ExchangeType = "topic"

const dialAttempts = 5

// SetupConn abre la conexión, un canal y declara el exchange de eventos de stock.
// Reintenta la conexión al arrancar (el broker puede levantar después que la API).
func SetupConn(url, exchange string, log zerolog.Logger) (*amqp.Connection, *amqp.Channel, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("no se pudo conectar a RabbitMQ")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}
