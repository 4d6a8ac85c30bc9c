package service

import (
	"context"
	"errors"
	"fmt"
	"hotel/infras/kafka"
	"hotel/infras/rabbitmq"
	"hotel/internal/domains/notification/model"

	"github.com/rs/zerolog/log"
)

// Channel delivers one notification to one sink.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, notification model.Notification) error
}

type logChannel struct{}

func (logChannel) Name() string {
	return model.ChannelLog
}

func (logChannel) Deliver(_ context.Context, n model.Notification) error {
	log.Info().
		Str("recipient", n.RecipientID).
		Str("kind", string(n.Kind)).
		Str("subject", n.Subject).
		Msg(n.Body)

	return nil
}

type kafkaChannel struct {
	client kafka.Client
	topic  string
}

func (c kafkaChannel) Name() string {
	return model.ChannelKafka
}

func (c kafkaChannel) Deliver(ctx context.Context, n model.Notification) error {
	if err := c.client.SendMessages(ctx, c.topic, kafka.Message{
		Key:     n.RecipientID,
		Value:   n,
		Headers: map[string]string{"kind": string(n.Kind)},
	}); err != nil {
		return fmt.Errorf("failed to publish notification to kafka: %w", err)
	}

	return nil
}

type rabbitChannel struct {
	publisher rabbitmq.Publisher
	queue     string
}

func (c rabbitChannel) Name() string {
	return model.ChannelRabbitMQ
}

func (c rabbitChannel) Deliver(ctx context.Context, n model.Notification) error {
	if err := c.publisher.Publish(ctx, c.queue, n); err != nil {
		return fmt.Errorf("failed to publish notification to rabbitmq: %w", err)
	}

	return nil
}

var errChannelPanic = errors.New("notification channel panicked")
