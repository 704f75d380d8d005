package repository

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/rs/zerolog"
)

// ConsoleNotifier prints notifications to a terminal.
// Its permission comes from configuration; RequestPermission turns "default" into "granted".
type ConsoleNotifier struct {
	out  io.Writer
	log  zerolog.Logger
	mu   sync.Mutex
	perm domain.NotificationPermission
}

func NewConsoleNotifier(out io.Writer, perm domain.NotificationPermission, log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:  out,
		log:  log.With().Str("component", "console_notifier").Logger(),
		perm: perm,
	}
}

func (c *ConsoleNotifier) Permission(context.Context) domain.NotificationPermission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perm
}

// RequestPermission never overrides an explicit denial
func (c *ConsoleNotifier) RequestPermission(context.Context) (domain.NotificationPermission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.perm == domain.PermissionDefault {
		c.perm = domain.PermissionGranted
	}
	return c.perm, nil
}

func (c *ConsoleNotifier) Notify(_ context.Context, n domain.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.perm != domain.PermissionGranted {
		return domain.ErrPermissionDenied
	}
	if _, err := fmt.Fprintf(c.out, "\a[%s] %s\n", n.Title, n.Body); err != nil {
		return err
	}
	c.log.Info().Str("reminder_id", n.ReminderID).Time("due_at", n.DueAt).Msg("notification shown")
	return nil
}

var _ ports.Notifier = (*ConsoleNotifier)(nil)
