package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/adapters/handler"
	"github.com/IANDYI/pregnancy-tracker/internal/adapters/middleware"
	"github.com/IANDYI/pregnancy-tracker/internal/adapters/repository"
	"github.com/IANDYI/pregnancy-tracker/internal/adapters/websocket"
	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Keep running: sweep reminders and serve the local ops listener",
		Args:  cobra.NoArgs,
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTracker(ctx, a)
		}),
	}
}

func runTracker(ctx context.Context, a *app) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Dur("interval", a.cfg.SweepInterval).Msg("reminder sweeper started")
		a.reminders.Start(gctx, a.cfg.SweepInterval)
		a.log.Info().Msg("reminder sweeper stopped")
		return nil
	})

	if a.cfg.OpsAddr != "" {
		server, hub := newOpsServer(a)
		events, unsubscribe := a.records.Subscribe()
		defer unsubscribe()

		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		g.Go(func() error {
			hub.Forward(gctx, events)
			return nil
		})
		g.Go(func() error {
			a.log.Info().Str("addr", server.Addr).Msg("ops listener started")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ops listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.log.Error().Err(err).Msg("ops listener forced to shut down")
			}
			return nil
		})
	}

	err := g.Wait()
	a.log.Info().Msg("tracker stopped")
	return err
}

// newOpsServer builds the loopback operations listener. It serves health, metrics
// and the change-event stream, never record content.
func newOpsServer(a *app) (*http.Server, *websocket.Hub) {
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler.RegisterEventMetrics(a.registry)

	hub := websocket.NewHub(a.log)
	wsHandler := handler.NewWebSocketHandler(hub, a.log)
	healthHandler := handler.NewHealthHandler(a.records)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.Handle("GET /metrics", handler.Metrics(a.registry))
	mux.HandleFunc("GET /events", wsHandler.HandleWebSocket)

	httpMetrics := middleware.NewHTTPMetrics(a.registry, "/health", "/health/ready", "/health/live", "/metrics", "/events")

	return &http.Server{
		Addr:              a.cfg.OpsAddr,
		Handler:           httpMetrics.Wrap(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, hub
}

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Show reminder notifications published to the message broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			console := repository.NewConsoleNotifier(cmd.OutOrStdout(), domain.ParsePermission(a.cfg.NotifyPermission), a.log)
			if perm, _ := console.RequestPermission(cmd.Context()); perm != domain.PermissionGranted {
				return fmt.Errorf("%w: NOTIFY_PERMISSION is %s", domain.ErrPermissionDenied, perm)
			}

			consumer, err := repository.NewNotificationConsumer(a.cfg.RabbitMQURL, a.cfg.NotifyQueueName, console.Notify, a.log)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return consumer.Run(ctx)
		},
	}
}
