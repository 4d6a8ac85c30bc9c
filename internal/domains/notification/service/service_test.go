package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/kafka"
	kafkaMocks "hotel/infras/kafka/mocks"
	"hotel/infras/otel/mocks"
	rabbitMocks "hotel/infras/rabbitmq/mocks"
	"hotel/internal/domains/notification/model"
	"hotel/internal/domains/notification/service"
)

func newConfig(channels ...string) *config.Config {
	cfg := &config.Config{}
	cfg.Notification.Channels = channels
	cfg.Notification.KafkaTopic = "hotel.notifications"
	cfg.Notification.RabbitMQQueue = "hotel.notifications.q"
	cfg.Notification.AdminRecipientID = "admin-1"

	return cfg
}

func TestNotifier_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockRabbit := rabbitMocks.NewMockPublisher(ctrl)

	tests := []struct {
		name      string
		channels  []string
		setupMock func()
	}{
		{
			name:     "fans out to every configured channel",
			channels: []string{"log", "kafka", "rabbitmq"},
			setupMock: func() {
				mockKafka.EXPECT().
					SendMessages(gomock.Any(), "hotel.notifications", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
						assert.Len(t, messages, 1)
						assert.Equal(t, "guest-1", messages[0].Key)

						return nil
					})
				mockRabbit.EXPECT().
					Publish(gomock.Any(), "hotel.notifications.q", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, payload any) error {
						notification, ok := payload.(model.Notification)
						assert.True(t, ok)
						assert.Equal(t, model.KindBookingCreated, notification.Kind)

						return nil
					})
			},
		},
		{
			name:     "kafka failure does not stop rabbitmq delivery",
			channels: []string{"kafka", "rabbitmq"},
			setupMock: func() {
				mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
				mockRabbit.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "unknown channels are ignored",
			channels:  []string{"whatsapp", " LOG "},
			setupMock: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			notifier := service.New(newConfig(tt.channels...), mockKafka, mockRabbit, mocks.NewOtel())

			assert.NotPanics(t, func() {
				notifier.Notify(context.Background(), "guest-1", "Booking received", "Room 101", model.KindBookingCreated)
			})
			assert.Equal(t, "admin-1", notifier.AdminRecipientID())
		})
	}
}

type panickingChannel struct{}

func (panickingChannel) Name() string { return "broken" }

func (panickingChannel) Deliver(context.Context, model.Notification) error {
	panic("sink exploded")
}

type recordingChannel struct {
	delivered []model.Notification
}

func (r *recordingChannel) Name() string { return "recording" }

func (r *recordingChannel) Deliver(_ context.Context, n model.Notification) error {
	r.delivered = append(r.delivered, n)

	return nil
}

func TestNotifier_ChannelPanicIsContained(t *testing.T) {
	recorder := &recordingChannel{}
	notifier := service.NewWithChannels("admin-1", mocks.NewOtel(), panickingChannel{}, recorder)

	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), "guest-1", "Status", "Confirmed", model.KindStatusChanged)
	})

	assert.Len(t, recorder.delivered, 1)
	assert.Equal(t, "guest-1", recorder.delivered[0].RecipientID)
	assert.NotEmpty(t, recorder.delivered[0].ID)
}
