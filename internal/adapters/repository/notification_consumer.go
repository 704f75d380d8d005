package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// NotificationHandler shows one notification received from the queue
type NotificationHandler func(ctx context.Context, n domain.Notification) error

// NotificationConsumer reads reminder notifications published by RabbitMQNotifier
// and hands them to a local handler, one message at a time.
type NotificationConsumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
	handler   NotificationHandler
	log       zerolog.Logger

	mu          sync.Mutex
	isConsuming bool
}

// NewNotificationConsumer dials the broker and declares the queue
func NewNotificationConsumer(url, queueName string, handler NotificationHandler, log zerolog.Logger) (*NotificationConsumer, error) {
	if queueName == "" {
		queueName = "pregnancy_reminders"
	}
	c := &NotificationConsumer{
		queueName: queueName,
		handler:   handler,
		log:       log.With().Str("component", "notification_consumer").Str("queue", queueName).Logger(),
	}

	var err error
	for i := 0; i < 3; i++ {
		c.conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		c.log.Warn().Err(err).Int("attempt", i+1).Msg("failed to connect to RabbitMQ")
		time.Sleep(time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	if c.channel, err = c.conn.Channel(); err != nil {
		c.conn.Close()
		return nil, err
	}
	if _, err = c.channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Run consumes until ctx is cancelled or the broker closes the delivery channel
func (c *NotificationConsumer) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.isConsuming {
		c.mu.Unlock()
		return fmt.Errorf("consumer already running")
	}
	c.isConsuming = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.isConsuming = false
		c.mu.Unlock()
	}()

	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	tag := fmt.Sprintf("tracker-listener-%d", time.Now().UnixNano())
	msgs, err := c.channel.Consume(c.queueName, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	c.log.Info().Str("tag", tag).Msg("waiting for notifications")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.processMessage(ctx, msg)
		}
	}
}

// processMessage acks only after the handler succeeded; malformed bodies are dropped
func (c *NotificationConsumer) processMessage(ctx context.Context, msg amqp091.Delivery) {
	var ev NotificationEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil || ev.ReminderID == "" {
		c.log.Error().Err(err).Msg("discarding malformed notification")
		_ = msg.Nack(false, false)
		return
	}
	if err := c.handler(ctx, ev.Notification); err != nil {
		c.log.Error().Err(err).Str("reminder_id", ev.ReminderID).Msg("failed to show notification, requeueing")
		_ = msg.Nack(false, true)
		return
	}
	if err := msg.Ack(false); err != nil {
		c.log.Warn().Err(err).Str("reminder_id", ev.ReminderID).Msg("failed to acknowledge notification")
	}
}

func (c *NotificationConsumer) Close() error {
	if c.channel != nil && !c.channel.IsClosed() {
		c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}
