package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notexe/dayplan/internal/config"
	"github.com/notexe/dayplan/internal/notify"
	"github.com/notexe/dayplan/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Notify about reminders as they come due",
	Long: `Runs the due-reminder scanner in the foreground until interrupted.

Every scheduler.interval seconds it wakes elapsed snoozes, notifies about each
pending reminder whose time has come, and marks it sent. Notifications go to
the terminal and, when configured, to Telegram. With metrics.enabled the
scanner's counters are served on metrics.addr at /metrics.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled (scheduler.enabled: false)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(ctx context.Context, a *app) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		sched, err := scheduler.New(a.reminders, buildNotifier(cfg, cmd.OutOrStdout()), scheduler.Config{
			Interval:   cfg.SchedulerInterval(),
			StaleAfter: cfg.StaleAfter(),
		},
			scheduler.WithClock(clk),
			scheduler.WithLogger(logger),
			scheduler.WithMetrics(scheduler.MustNewMetrics(reg)),
		)
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return sched.Run(gctx) })

		if cfg.Metrics.Enabled {
			serveMetrics(gctx, g, cfg.Metrics.Addr, reg)
		}

		return g.Wait()
	})
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// buildNotifier fans out to every notifier enabled in cfg.
func buildNotifier(cfg *config.Config, out io.Writer) notify.Notifier {
	var n notify.Multi
	if cfg.Notify.Terminal {
		n = append(n, notify.NewTerminal(out, cfg.UI.ColoredOutput))
	}
	if cfg.Notify.Telegram {
		n = append(n, notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}
	if len(n) == 0 {
		logger.Warn("no notifier enabled; due reminders are only marked sent")
	}
	return n
}
