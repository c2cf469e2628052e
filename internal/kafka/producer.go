package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// Writer is the subset of *kafka.Writer the producer uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes booking lifecycle events, one topic per event type,
// keyed by booking id so a booking's events stay ordered on one partition.
type Producer struct {
	Writer Writer
	Topics config.TopicConfig
	Logger *logger.Logger
	// Timeout caps a single publish; zero leaves the caller's context in charge.
	Timeout time.Duration
}

// publishAttempts keeps a broker outage from stalling the caller through the writer's default retry budget.
const publishAttempts = 3

func NewProducer(brokers []string, topics config.TopicConfig, timeout time.Duration, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  publishAttempts,
		WriteTimeout: timeout,
	}
	return &Producer{Writer: writer, Topics: topics, Logger: log, Timeout: timeout}
}

// TopicFor maps an event type to its configured topic.
func (p *Producer) TopicFor(eventType models.BookingEventType) (string, error) {
	var topic string
	switch eventType {
	case models.EventBookingCreated:
		topic = p.Topics.BookingCreated
	case models.EventBookingConfirmed:
		topic = p.Topics.BookingConfirmed
	case models.EventBookingFailed:
		topic = p.Topics.BookingFailed
	case models.EventBookingStatusUpdated:
		topic = p.Topics.BookingStatusUpdated
	case models.EventBookingDeleted:
		topic = p.Topics.BookingDeleted
	}
	if topic == "" {
		return "", fmt.Errorf("no topic configured for event type %q", eventType)
	}
	return topic, nil
}

// PublishBookingEvent streams the event to the topic for its type
func (p *Producer) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	topic, err := p.TopicFor(event.Type)
	if err != nil {
		return err
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	p.Logger.LogKafka("PUBLISH", topic, fmt.Sprintf("booking %d (%s)", event.Booking.ID, event.Booking.Status))

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(event.Booking.ID, 10)),
		Value: msgBytes,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.EventID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
