package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/rentaldesk/internal/app"
	jobmetrics "github.com/odyssey-erp/rentaldesk/internal/jobs"
	"github.com/odyssey-erp/rentaldesk/internal/partners"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
	"github.com/odyssey-erp/rentaldesk/internal/shared"
	"github.com/odyssey-erp/rentaldesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	runTask := flag.String("run", "", "run one task inline and exit ("+jobs.TaskPartnerExpiry+" or "+jobs.TaskIdempotencyCleanup+")")
	enqueueTask := flag.String("enqueue", "", "enqueue one task on the queue and exit")
	day := flag.String("day", "", "reference day for "+jobs.TaskPartnerExpiry+" (YYYY-MM-DD, default today)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}

	if *enqueueTask != "" {
		if err := enqueue(ctx, redisOpts, *enqueueTask, *day, cfg.IdempotencyRetention, logger); err != nil {
			logger.Error("enqueue task", slog.String("task", *enqueueTask), slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 4})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)
	partnerService := partners.NewService(partners.Deps{
		Repo:   partners.NewRepository(pool),
		Region: cfg.PhoneDefaultRegion,
		Logger: logger,
	})
	expiryJob := jobs.NewPartnerExpiryJob(partnerService, logger, metrics)
	cleanupJob := jobs.NewIdempotencyCleanupJob(shared.NewIdempotencyStore(pool), logger, metrics)

	if *runTask != "" {
		if err := runInline(ctx, *runTask, *day, cfg.IdempotencyRetention, expiryJob, cleanupJob); err != nil {
			logger.Error("run task", slog.String("task", *runTask), slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	expiryTask, err := jobs.NewPartnerExpiryTask(jobs.PartnerExpiryPayload{})
	if err != nil {
		logger.Error("build expiry task", slog.Any("error", err))
		os.Exit(1)
	}
	cleanupTask, err := jobs.NewIdempotencyCleanupTask(cfg.IdempotencyRetention)
	if err != nil {
		logger.Error("build cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskPartnerExpiry, Handler: expiryJob.Handle},
			{Type: jobs.TaskIdempotencyCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ExpiryCron, Task: expiryTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.IdempotencyCleanupCron, Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("expiry_cron", cfg.ExpiryCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

func runInline(ctx context.Context, name, day string, retention time.Duration, expiry *jobs.PartnerExpiryJob, cleanup *jobs.IdempotencyCleanupJob) error {
	var (
		task *asynq.Task
		err  error
	)
	switch name {
	case jobs.TaskPartnerExpiry:
		task, err = jobs.NewPartnerExpiryTask(jobs.PartnerExpiryPayload{Day: day})
		if err != nil {
			return err
		}
		return expiry.Handle(ctx, task)
	case jobs.TaskIdempotencyCleanup:
		task, err = jobs.NewIdempotencyCleanupTask(retention)
		if err != nil {
			return err
		}
		return cleanup.Handle(ctx, task)
	default:
		return fmt.Errorf("unsupported task %q", name)
	}
}

func enqueue(ctx context.Context, opts asynq.RedisClientOpt, name, day string, retention time.Duration, logger *slog.Logger) error {
	client, err := jobs.NewClient(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	var info *asynq.TaskInfo
	switch name {
	case jobs.TaskPartnerExpiry:
		info, err = client.EnqueuePartnerExpiry(ctx, jobs.PartnerExpiryPayload{Day: day})
	case jobs.TaskIdempotencyCleanup:
		info, err = client.EnqueueIdempotencyCleanup(ctx, retention)
	default:
		return fmt.Errorf("unsupported task %q", name)
	}
	if err != nil {
		return err
	}
	logger.Info("task enqueued", slog.String("task", name), slog.String("id", info.ID))
	return nil
}
