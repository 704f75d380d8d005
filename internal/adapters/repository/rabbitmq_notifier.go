package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// RabbitMQNotifier delivers reminder notifications as persistent JSON messages on a durable queue.
// Permission is granted while the broker connection is open.
type RabbitMQNotifier struct {
	url           string
	queueName     string
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	cb            *gobreaker.CircuitBreaker
	log           zerolog.Logger
	maxRetries    int
	retryDelay    time.Duration
	connMutex     sync.RWMutex
	reconnectCh   chan struct{}
	stopReconnect chan struct{}
	closeOnce     sync.Once
}

// NotificationEvent is the message body published for each delivered reminder
type NotificationEvent struct {
	domain.Notification
	PublishedAt time.Time `json:"published_at"`
}

// NewRabbitMQNotifier connects to the broker and declares the queue
func NewRabbitMQNotifier(url, queueName string, settings BreakerSettings, log zerolog.Logger) (*RabbitMQNotifier, error) {
	if queueName == "" {
		queueName = "pregnancy_reminders"
	}
	n := &RabbitMQNotifier{
		url:           url,
		queueName:     queueName,
		cb:            newBreaker("rabbitmq", settings),
		log:           log.With().Str("component", "rabbitmq_notifier").Str("queue", queueName).Logger(),
		maxRetries:    3,
		retryDelay:    1 * time.Second,
		reconnectCh:   make(chan struct{}, 1),
		stopReconnect: make(chan struct{}),
	}
	if err := n.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	go n.handleReconnection()
	return n, nil
}

func (n *RabbitMQNotifier) connect() error {
	var (
		conn *amqp091.Connection
		err  error
	)
	for i := 0; i < n.maxRetries; i++ {
		conn, err = amqp091.Dial(n.url)
		if err == nil {
			break
		}
		n.log.Warn().Err(err).Int("attempt", i+1).Int("max", n.maxRetries).Msg("failed to connect to RabbitMQ")
		if i < n.maxRetries-1 {
			time.Sleep(n.retryDelay)
		}
	}
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	// idempotent
	if _, err := ch.QueueDeclare(n.queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	n.connMutex.Lock()
	n.conn, n.channel = conn, ch
	n.connMutex.Unlock()
	n.log.Info().Msg("connected to RabbitMQ")
	return nil
}

func (n *RabbitMQNotifier) handleReconnection() {
	for {
		select {
		case <-n.reconnectCh:
			n.log.Info().Msg("reconnecting to RabbitMQ")
			n.connMutex.Lock()
			if n.channel != nil {
				n.channel.Close()
			}
			if n.conn != nil {
				n.conn.Close()
			}
			n.connMutex.Unlock()
			if err := n.connect(); err != nil {
				n.log.Error().Err(err).Msg("reconnection failed")
			}
		case <-n.stopReconnect:
			return
		}
	}
}

func (n *RabbitMQNotifier) requestReconnect() {
	select {
	case n.reconnectCh <- struct{}{}:
	default:
	}
}

func (n *RabbitMQNotifier) Permission(context.Context) domain.NotificationPermission {
	n.connMutex.RLock()
	defer n.connMutex.RUnlock()
	if n.conn == nil || n.conn.IsClosed() {
		return domain.PermissionDefault
	}
	return domain.PermissionGranted
}

// RequestPermission triggers a reconnect when the broker is unreachable
func (n *RabbitMQNotifier) RequestPermission(ctx context.Context) (domain.NotificationPermission, error) {
	if p := n.Permission(ctx); p == domain.PermissionGranted {
		return p, nil
	}
	n.requestReconnect()
	return domain.PermissionDefault, nil
}

func (n *RabbitMQNotifier) Notify(ctx context.Context, note domain.Notification) error {
	_, err := n.cb.Execute(func() (interface{}, error) {
		return nil, n.publishWithRetry(ctx, note)
	})
	return err
}

func (n *RabbitMQNotifier) publishWithRetry(ctx context.Context, note domain.Notification) error {
	body, err := json.Marshal(NotificationEvent{Notification: note, PublishedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		n.connMutex.RLock()
		ch, conn := n.channel, n.conn
		n.connMutex.RUnlock()

		if ch == nil || conn == nil || conn.IsClosed() {
			lastErr = amqp091.ErrClosed
			n.requestReconnect()
			time.Sleep(n.retryDelay)
			continue
		}

		err = ch.PublishWithContext(ctx, "", n.queueName, false, false, amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    note.ReminderID,
		})
		if err == nil {
			n.log.Info().Str("reminder_id", note.ReminderID).Msg("notification published")
			return nil
		}

		lastErr = err
		n.log.Warn().Err(err).Int("attempt", i+1).Msg("failed to publish notification")
		if i < n.maxRetries-1 {
			n.requestReconnect()
			time.Sleep(n.retryDelay)
		}
	}
	return fmt.Errorf("failed to publish notification after %d retries: %w", n.maxRetries, lastErr)
}

func (n *RabbitMQNotifier) Close() error {
	n.closeOnce.Do(func() { close(n.stopReconnect) })
	n.connMutex.Lock()
	defer n.connMutex.Unlock()
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

var _ ports.Notifier = (*RabbitMQNotifier)(nil)
