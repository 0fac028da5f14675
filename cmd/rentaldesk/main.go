package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/rentaldesk/internal/app"
	"github.com/odyssey-erp/rentaldesk/internal/attachments"
	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/document/render"
	"github.com/odyssey-erp/rentaldesk/internal/invoices"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/clients"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/drivers"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/vehicles"
	"github.com/odyssey-erp/rentaldesk/internal/observability"
	"github.com/odyssey-erp/rentaldesk/internal/partners"
	"github.com/odyssey-erp/rentaldesk/internal/platform/cache"
	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
	"github.com/odyssey-erp/rentaldesk/internal/rentals"
	"github.com/odyssey-erp/rentaldesk/internal/shared"
	"github.com/odyssey-erp/rentaldesk/internal/terms"
	"github.com/odyssey-erp/rentaldesk/internal/view"
	"github.com/odyssey-erp/rentaldesk/jobs"
	"github.com/odyssey-erp/rentaldesk/migrations"
	"github.com/odyssey-erp/rentaldesk/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	migrateOnly := flag.Bool("migrate", false, "apply pending database migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 10, MaxConnIdleTime: 5 * time.Minute})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool, migrations.FS, logger); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	if *migrateOnly {
		return
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)
	tokenVerifier := shared.NewTokenVerifier(cfg.AuthTokenSecret, cfg.AuthTokenIssuer, logger)

	termsStore := terms.NewStore(redisClient, cache.NewLocker(redisClient), cfg.TermsKey, logger)
	termsHandler := terms.NewHandler(termsStore, auditLogger, logger)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	layout, err := render.NewHTMLLayout(templates)
	if err != nil {
		logger.Error("init document layout", slog.Any("error", err))
		os.Exit(1)
	}
	reportClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(reportClient, logger)

	var blobs attachments.BlobStore
	if cfg.AttachmentsEnabled() {
		gcs, err := attachments.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		if err != nil {
			logger.Error("init attachment storage", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := gcs.Close(); err != nil {
				logger.Warn("gcs close", slog.Any("error", err))
			}
		}()
		blobs = gcs
	} else {
		logger.Warn("GCS_BUCKET not set, attachments are disabled")
	}
	attachmentService := attachments.NewService(attachments.NewRepository(dbpool), blobs, logger)
	attachmentHandler := attachments.NewHandler(logger, attachmentService)

	responder := render.NewResponder(
		render.NewPreviewRenderer(layout, metrics),
		render.NewExportRenderer(layout, reportClient, metrics),
		attachmentService,
		logger,
	)
	builder := document.NewBuilder(document.NewFormatter(cfg.CurrencyLabel))

	vehicleService := vehicles.NewService(vehicles.NewRepository(dbpool))
	clientService := clients.NewService(clients.NewRepository(dbpool), cfg.PhoneDefaultRegion)
	driverService := drivers.NewService(drivers.NewRepository(dbpool), cfg.PhoneDefaultRegion)

	rentalService := rentals.NewService(rentals.Deps{
		Repo:        rentals.NewRepository(dbpool),
		Vehicles:    vehicleService,
		Clients:     clientService,
		Drivers:     driverService,
		Terms:       termsStore,
		Builder:     builder,
		Audit:       auditLogger,
		Idempotency: idempotencyStore,
		Logger:      logger,
	})
	partnerService := partners.NewService(partners.Deps{
		Repo:        partners.NewRepository(dbpool),
		Terms:       termsStore,
		Builder:     builder,
		Audit:       auditLogger,
		Idempotency: idempotencyStore,
		Region:      cfg.PhoneDefaultRegion,
		Logger:      logger,
	})

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Auth:               tokenVerifier,
		Metrics:            metrics,
		VehiclesHandler:    vehicles.NewHandler(logger, vehicleService),
		ClientsHandler:     clients.NewHandler(logger, clientService),
		DriversHandler:     drivers.NewHandler(logger, driverService),
		RentalsHandler:     rentals.NewHandler(logger, rentalService, responder),
		PartnersHandler:    partners.NewHandler(logger, partnerService, responder),
		AttachmentsHandler: attachmentHandler,
		InvoicesHandler:    invoices.NewHandler(logger, invoices.NewService(invoices.NewRepository(dbpool))),
		TermsHandler:       termsHandler,
		ReportHandler:      reportHandler,
		JobHandler:         jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
