package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appsync "github.com/ledgerlink/backend/internal/application/sync"
	"github.com/ledgerlink/backend/internal/infrastructure/cache"
	"github.com/ledgerlink/backend/internal/infrastructure/config"
	"github.com/ledgerlink/backend/internal/infrastructure/event"
	"github.com/ledgerlink/backend/internal/infrastructure/logger"
	"github.com/ledgerlink/backend/internal/infrastructure/persistence"
	"github.com/ledgerlink/backend/internal/infrastructure/queue"
	"github.com/ledgerlink/backend/internal/infrastructure/remote"
	"github.com/ledgerlink/backend/internal/interfaces/http/handler"
	"github.com/ledgerlink/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting LedgerLink",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	taxRateRepo := persistence.NewGormTaxRateRepository(db.DB)
	itemRepo := persistence.NewGormCatalogItemRepository(db.DB)
	linkRepo := persistence.NewGormExternalLinkRepository(db.DB)
	tokenStore := persistence.NewGormTokenStore(db.DB)

	// Initialize remote platform session and client
	remoteCfg := &remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		TokenURL:       cfg.Remote.TokenURL,
		ConnectionsURL: cfg.Remote.ConnectionsURL,
		ClientID:       cfg.Remote.ClientID,
		ClientSecret:   cfg.Remote.ClientSecret,
		TimeoutSeconds: cfg.Remote.TimeoutSeconds,
	}
	session, err := remote.NewSessionManager(remoteCfg, tokenStore, log)
	if err != nil {
		log.Fatal("Failed to initialize remote session", zap.Error(err))
	}
	remoteClient, err := remote.NewClient(remoteCfg, session, log)
	if err != nil {
		log.Fatal("Failed to initialize remote client", zap.Error(err))
	}

	// Echo suppression store: Redis when enabled, in-memory otherwise
	echoStore, redisClient, err := cache.NewEchoSuppressor(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize echo suppression store", zap.Error(err))
	}
	defer func() {
		if err := echoStore.Close(); err != nil {
			log.Error("Error closing echo suppression store", zap.Error(err))
		}
	}()

	// Event bus with the in-process subscriptions
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appsync.NewProjectResumeHandler(projectRepo, log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize sync services
	resolver := appsync.NewResolver(linkRepo, clientRepo, accountRepo, taxRateRepo, itemRepo, remoteClient, log)
	outboundSvc := appsync.NewOutboundSyncService(
		invoiceRepo, quotationRepo, clientRepo, projectRepo, linkRepo,
		resolver, remoteClient, echoStore, cfg.Sync.EchoSuppressionTTL, log,
	)
	inboundSvc := appsync.NewInboundSyncService(
		clientRepo, invoiceRepo, projectRepo, linkRepo,
		remoteClient, echoStore, eventBus, cfg.Sync.WebhookWorkers, log,
	)
	catalogSvc := appsync.NewCatalogSyncService(
		accountRepo, taxRateRepo, itemRepo, remoteClient, cfg.Sync.CatalogWorkers, log,
	)

	// Outbound job queue consumer
	if cfg.Queue.Enabled {
		dispatcher := appsync.NewJobDispatcher(outboundSvc, log)
		consumer := queue.NewConsumer(cfg.Queue, dispatcher, log)
		go func() {
			if err := consumer.Start(context.Background()); err != nil {
				log.Error("Queue consumer stopped", zap.Error(err))
			}
		}()
		defer func() {
			if err := consumer.Close(); err != nil {
				log.Error("Error closing queue consumer", zap.Error(err))
			}
		}()
		log.Info("Queue consumer started", zap.String("queue", cfg.Queue.Queue))
	}

	// Initialize HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name).WithDatabase(db)
	if redisClient != nil {
		systemHandler = systemHandler.WithRedis(redisClient)
	}
	webhookHandler := handler.NewWebhookHandler(inboundSvc, cfg.Remote.WebhookSecret, cfg.Remote.SignatureHeader)
	syncHandler := handler.NewSyncHandler(session, catalogSvc, outboundSvc, log)

	engine := router.New(cfg, log, router.Handlers{
		System:  systemHandler,
		Webhook: webhookHandler,
		Sync:    syncHandler,
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
