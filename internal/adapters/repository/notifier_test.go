package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleNotifier(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	n := NewConsoleNotifier(&out, domain.PermissionDefault, zerolog.Nop())
	note := domain.Notification{ReminderID: "r1", Title: domain.ReminderNotificationTitle, Body: "Glucose test"}

	assert.ErrorIs(t, n.Notify(ctx, note), domain.ErrPermissionDenied)
	assert.Empty(t, out.String())

	perm, err := n.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, perm)

	require.NoError(t, n.Notify(ctx, note))
	assert.Equal(t, "\a[Pregnancy reminder] Glucose test\n", out.String())
}

func TestConsoleNotifier_DenialIsSticky(t *testing.T) {
	n := NewConsoleNotifier(&bytes.Buffer{}, domain.PermissionDenied, zerolog.Nop())
	perm, err := n.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionDenied, perm)
	assert.Equal(t, domain.PermissionDenied, n.Permission(context.Background()))
}

// fakeAcknowledger records how a delivery was settled
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func delivery(t *testing.T, body []byte) (amqp091.Delivery, *fakeAcknowledger) {
	t.Helper()
	ack := &fakeAcknowledger{}
	return amqp091.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}, ack
}

func eventBody(t *testing.T, n domain.Notification) []byte {
	t.Helper()
	b, err := json.Marshal(NotificationEvent{Notification: n, PublishedAt: time.Now()})
	require.NoError(t, err)
	return b
}

func TestNotificationConsumer_ProcessMessage(t *testing.T) {
	note := domain.Notification{ReminderID: "r1", Title: "Pregnancy reminder", Body: "Visit", DueAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}

	t.Run("handled message is acked", func(t *testing.T) {
		var got domain.Notification
		c := &NotificationConsumer{log: zerolog.Nop(), handler: func(_ context.Context, n domain.Notification) error {
			got = n
			return nil
		}}
		msg, ack := delivery(t, eventBody(t, note))
		c.processMessage(context.Background(), msg)
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, note, got)
	})

	t.Run("handler failure is requeued", func(t *testing.T) {
		c := &NotificationConsumer{log: zerolog.Nop(), handler: func(context.Context, domain.Notification) error {
			return errors.New("terminal closed")
		}}
		msg, ack := delivery(t, eventBody(t, note))
		c.processMessage(context.Background(), msg)
		assert.False(t, ack.acked)
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("malformed message is dropped", func(t *testing.T) {
		called := false
		c := &NotificationConsumer{log: zerolog.Nop(), handler: func(context.Context, domain.Notification) error {
			called = true
			return nil
		}}
		for _, body := range [][]byte{[]byte("not json"), []byte(`{"title":"no id"}`)} {
			msg, ack := delivery(t, body)
			c.processMessage(context.Background(), msg)
			assert.True(t, ack.nacked)
			assert.False(t, ack.requeue)
		}
		assert.False(t, called)
	})
}
