package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/adapters/ingest"
	"github.com/IANDYI/pregnancy-tracker/internal/adapters/metrics"
	"github.com/IANDYI/pregnancy-tracker/internal/adapters/pdf"
	"github.com/IANDYI/pregnancy-tracker/internal/adapters/repository"
	"github.com/IANDYI/pregnancy-tracker/internal/config"
	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/IANDYI/pregnancy-tracker/internal/core/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is the wired object graph one command runs against
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	records  *repository.Records
	closers  []func() error

	countdown *services.CountdownService
	checkups  *services.CheckupService
	reminders *services.ReminderService
	family    *services.FamilyService
	settings  *services.SettingsService
	reports   *services.ReportService
}

// openApp loads configuration and wires the store, adapters and services.
// Only commands that deliver notifications connect the configured notifier;
// the others get an inert console notifier.
func openApp(cmd *cobra.Command, deliver bool) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return nil, err
	}
	log := cfg.NewLogger()
	a := &app{cfg: cfg, log: log, registry: prometheus.NewRegistry()}
	telemetry := metrics.NewTelemetry(a.registry)

	store, err := openStore(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	a.records = repository.NewRecords(store, log, telemetry)
	a.closers = append(a.closers, a.records.Close)

	notifier, err := a.openNotifier(cmd, deliver)
	if err != nil {
		a.Close()
		return nil, err
	}

	reader := ingest.NewFileReader()
	a.countdown = services.NewCountdownService(a.records, log)
	a.checkups = services.NewCheckupService(a.records, reader, log)
	a.reminders = services.NewReminderService(a.records, notifier, telemetry, log)
	a.family = services.NewFamilyService(a.records, reader, log)
	a.settings = services.NewSettingsService(a.records, reader, log)
	a.reports = services.NewReportService(a.records, pdf.NewRenderer(cfg.ReportFontURL, log), telemetry, log)
	return a, nil
}

func breakerSettings(cfg *config.Config) repository.BreakerSettings {
	return repository.BreakerSettings{
		MaxRequests: cfg.CircuitBreakerMaxRequests,
		Interval:    cfg.CircuitBreakerInterval,
		Timeout:     cfg.CircuitBreakerTimeout,
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.KeyValueStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("using the in-memory store, records are lost on exit")
		return repository.NewMemoryStore(), nil
	case config.StorePostgres:
		db, err := config.ConnectDatabase(cfg.DatabaseURL, 5, 2*time.Second, log)
		if err != nil {
			return nil, err
		}
		if err := config.InitDatabase(db, log); err != nil {
			db.Close()
			return nil, err
		}
		return repository.NewSQLStore(db, breakerSettings(cfg)), nil
	case config.StoreRedis:
		return repository.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisKeyPrefix, breakerSettings(cfg))
	default:
		return repository.NewFileStore(cfg.StorePath)
	}
}

func (a *app) openNotifier(cmd *cobra.Command, deliver bool) (ports.Notifier, error) {
	perm := domain.ParsePermission(a.cfg.NotifyPermission)
	if !deliver || a.cfg.NotifyDriver == config.NotifyConsole {
		return repository.NewConsoleNotifier(cmd.OutOrStdout(), perm, a.log), nil
	}
	n, err := repository.NewRabbitMQNotifier(a.cfg.RabbitMQURL, a.cfg.NotifyQueueName, breakerSettings(a.cfg), a.log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, n.Close)
	return n, nil
}

// Close releases everything openApp acquired, newest first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
}

// withApp adapts a command body that needs the wired app into a cobra RunE
func withApp(deliver bool, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, deliver)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

// promptConfirmer asks on the command's input stream, or approves everything with --yes
type promptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newConfirmer(cmd *cobra.Command) ports.Confirmer {
	yes, _ := cmd.Flags().GetBool("yes")
	return &promptConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr(), assumeYes: yes}
}

func (c *promptConfirmer) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, _ := c.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// parseDateArg accepts YYYY-MM-DD; "today" is the current local day
func parseDateArg(s string) (domain.Date, error) {
	if strings.EqualFold(s, "today") {
		return domain.DateOf(time.Now()), nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, err
	}
	if d.IsZero() {
		return domain.Date{}, domain.ErrMissingDate
	}
	return d, nil
}

// parseDateTime reads a local date and time for reminders
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid time %q, expected YYYY-MM-DD HH:MM", domain.ErrInvalidInput, s)
}
