package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderping/internal/config"
	"orderping/internal/domain/notification"
	"orderping/internal/infra/dedup"
	"orderping/internal/infra/queue"
	"orderping/internal/infra/store"
	"orderping/internal/infra/whatsapp"

	"github.com/hibiken/asynq"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("worker configuration loaded")

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase-backed notification log
	notifStore, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize supabase store", "error", err)
		os.Exit(1)
	}
	slog.Info("supabase store initialized")

	// WhatsApp Cloud API sender
	sender := whatsapp.NewCloudSender(
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
		cfg.WhatsApp.BaseURL,
	)

	// Optional atomic event reservation on Redis
	var reserver notification.EventReserver
	if cfg.Dedup.Enabled {
		redisReserver := dedup.NewRedisReserver(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Dedup.TTLHours)*time.Hour,
		)
		defer redisReserver.Close()
		reserver = redisReserver
		slog.Info("event reservation enabled", "ttl_hours", cfg.Dedup.TTLHours)
	}

	// Eligibility gate
	gate := notification.NewGate(
		notifStore,
		reserver,
		time.Duration(cfg.Cooldown.WindowHours)*time.Hour,
	)

	// Dispatcher with per-kind template addressing
	templates := map[notification.EventKind]notification.TemplateSpec{
		notification.KindCheckoutUpdated: {
			Name:           cfg.WhatsApp.Checkout.TemplateName,
			HeaderImageURL: cfg.WhatsApp.Checkout.HeaderImageURL,
			DiscountCode:   cfg.WhatsApp.Checkout.DiscountCode,
		},
		notification.KindOrderCreated: {
			Name:           cfg.WhatsApp.Order.TemplateName,
			HeaderImageURL: cfg.WhatsApp.Order.HeaderImageURL,
		},
	}
	dispatcher := notification.NewDispatcher(notifStore, sender, templates)

	// Pipeline worker
	pipeline := notification.NewWorker(gate, dispatcher, cfg.Phone.DefaultRegion)

	// ==========================================
	// Asynq Server (task processing)
	// ==========================================

	asynqServer := queue.NewServer(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Queue.Concurrency,
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TaskTypeProcessEvent, func(ctx context.Context, task *asynq.Task) error {
		payload, err := notification.ParseProcessEventPayload(task.Payload())
		if err != nil {
			return err
		}
		return pipeline.ProcessEvent(ctx, notification.EventKind(payload.Kind), payload.Body)
	})

	// Start the asynq worker in a goroutine
	go func() {
		slog.Info("worker starting",
			"concurrency", cfg.Queue.Concurrency,
			"redis", cfg.Redis.Address,
		)
		if err := asynqServer.Run(mux); err != nil {
			slog.Error("worker failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// ==========================================
	// Failure Monitor
	// ==========================================

	monitorCtx, monitorCancel := context.WithCancel(context.Background())
	defer monitorCancel()

	monitor := notification.NewFailureMonitor(notifStore, notification.MonitorConfig{
		Interval:  time.Duration(cfg.Monitor.IntervalSec) * time.Second,
		Lookback:  time.Duration(cfg.Monitor.LookbackSec) * time.Second,
		BatchSize: cfg.Monitor.BatchSize,
	})

	go monitor.Run(monitorCtx)

	// ==========================================
	// Graceful Shutdown
	// ==========================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	monitorCancel() // Stop the monitor first
	asynqServer.Shutdown()
	slog.Info("worker exited gracefully")
}
