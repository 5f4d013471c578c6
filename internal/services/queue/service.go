package queue

import (
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/services/reportstore"
)

const queueName = "disease_reports"

// Service moves finished disease reports onto RabbitMQ so the request path
// never waits on the database. A worker drains the queue and persists each
// report through the store.
type Service struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
	store   *reportstore.Store
}

func New(rabbitmqURL string, store *reportstore.Store, logger *zap.Logger) (*Service, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Service{
		conn:    conn,
		channel: channel,
		logger:  logger,
		store:   store,
	}, nil
}

// Close closes the queue connection.
func (q *Service) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}

// HealthCheck reports whether RabbitMQ is reachable.
func (q *Service) HealthCheck() string {
	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}
	if q.channel == nil {
		return "unhealthy: channel not available"
	}
	return "healthy"
}
