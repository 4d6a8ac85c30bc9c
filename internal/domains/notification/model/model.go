package model

import "time"

type Kind string

const (
	KindBookingCreated Kind = "booking_created"
	KindStatusChanged  Kind = "status_changed"
	KindEarlyCheckout  Kind = "early_checkout"
)

// Channel names accepted in NOTIFICATION_CHANNELS.
const (
	ChannelLog      = "log"
	ChannelKafka    = "kafka"
	ChannelRabbitMQ = "rabbitmq"
)

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Kind        Kind      `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}
