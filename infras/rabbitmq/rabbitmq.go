package rabbitmq

//go:generate go run go.uber.org/mock/mockgen -source=./rabbitmq.go -destination=./mocks/rabbitmq_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"hotel/config"
	"hotel/shared/timezone"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type Publisher interface {
	Publish(ctx context.Context, queue string, payload any) error
	Close() error
}

type publisherImpl struct {
	url      string
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	declared map[string]bool
}

// New does not dial. The connection is opened on first publish and reopened
// after the broker drops it.
func New(config *config.Config) Publisher {
	log.Info().Msg("RabbitMQ publisher initialized")

	return &publisherImpl{
		url:      config.RabbitMQ.URL,
		declared: map[string]bool{},
	}
}

func (p *publisherImpl) Publish(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("Failed to marshal RabbitMQ payload")

		return fmt.Errorf("failed to marshal rabbitmq payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	channel, err := p.ensureChannel(queue)
	if err != nil {
		return err
	}

	err = channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    timezone.Now(),
		Body:         body,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("Failed to publish message to RabbitMQ")
		p.reset()

		return fmt.Errorf("failed to publish message to rabbitmq: %w", err)
	}

	return nil
}

func (p *publisherImpl) ensureChannel(queue string) (*amqp.Channel, error) {
	if p.conn == nil || p.conn.IsClosed() || p.channel == nil || p.channel.IsClosed() {
		p.reset()

		conn, err := amqp.Dial(p.url)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to RabbitMQ")

			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}

		channel, err := conn.Channel()
		if err != nil {
			_ = conn.Close()

			log.Error().Err(err).Msg("Failed to open RabbitMQ channel")

			return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
		}

		p.conn = conn
		p.channel = channel
	}

	if !p.declared[queue] {
		if _, err := p.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("Failed to declare RabbitMQ queue")

			return nil, fmt.Errorf("failed to declare rabbitmq queue: %w", err)
		}

		p.declared[queue] = true
	}

	return p.channel, nil
}

// reset must be called with mu held.
func (p *publisherImpl) reset() {
	if p.channel != nil {
		_ = p.channel.Close()
	}

	if p.conn != nil {
		_ = p.conn.Close()
	}

	p.channel = nil
	p.conn = nil
	p.declared = map[string]bool{}
}

func (p *publisherImpl) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reset()

	return nil
}
