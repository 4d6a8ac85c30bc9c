package service

import (
	"context"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/rabbitmq"
	"hotel/internal/domains/notification/model"
	"hotel/shared/constant"
	"hotel/shared/metrics"
	"hotel/shared/timezone"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier is best effort. Delivery failures are logged and counted, never returned.
type Notifier interface {
	Notify(ctx context.Context, recipientID, subject, body string, kind model.Kind)
	// AdminRecipientID is the recipient staff notifications go to.
	AdminRecipientID() string
}

type serviceImpl struct {
	channels []Channel
	admin    string
	otel     otel.Otel
}

func New(cfg *config.Config, kafkaClient kafka.Client, publisher rabbitmq.Publisher, otel otel.Otel) Notifier {
	channels := []Channel{}

	for _, name := range cfg.Notification.Channels {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case model.ChannelLog:
			channels = append(channels, logChannel{})
		case model.ChannelKafka:
			channels = append(channels, kafkaChannel{client: kafkaClient, topic: cfg.Notification.KafkaTopic})
		case model.ChannelRabbitMQ:
			channels = append(channels, rabbitChannel{publisher: publisher, queue: cfg.Notification.RabbitMQQueue})
		default:
			log.Warn().Str("channel", name).Msg("unknown notification channel ignored")
		}
	}

	return NewWithChannels(cfg.Notification.AdminRecipientID, otel, channels...)
}

func NewWithChannels(admin string, otel otel.Otel, channels ...Channel) Notifier {
	return &serviceImpl{
		channels: channels,
		admin:    admin,
		otel:     otel,
	}
}

func (s *serviceImpl) AdminRecipientID() string {
	return s.admin
}

func (s *serviceImpl) Notify(ctx context.Context, recipientID, subject, body string, kind model.Kind) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Notify")
	defer scope.End()

	notification := model.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		Kind:        kind,
		CreatedAt:   timezone.Now(),
	}

	for _, channel := range s.channels {
		if err := s.deliver(ctx, channel, notification); err != nil {
			scope.TraceError(err)
			metrics.NotificationFailures.WithLabelValues(channel.Name()).Inc()

			log.Error().Err(err).
				Str("channel", channel.Name()).
				Str("recipient", recipientID).
				Str("kind", string(kind)).
				Msg("failed to deliver notification")
		}
	}
}

func (s *serviceImpl) deliver(ctx context.Context, channel Channel, notification model.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("channel", channel.Name()).Msg("notification channel panicked")

			err = errChannelPanic
		}
	}()

	return channel.Deliver(ctx, notification)
}
