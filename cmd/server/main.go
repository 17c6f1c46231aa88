package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	dashboardapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/dashboard"
	exportapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/export"
	identityapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/identity"
	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	ledgerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/ledger"
	partnerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/realtime"
	settingsapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/settings"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/auth"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/cache"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/config"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/export"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/logger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/migration"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/persistence"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/printing"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/scheduler"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/storage"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/telemetry"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/handler"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/middleware"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.Log, cfg.App.Env))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry providers fall back to no-ops when disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Warn("Profiler not started", zap.Error(err))
	}
	if profiler != nil && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting SageBridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.DBName, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := migrate(db.SQL, cfg.Database.MigrationsPath, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Redis is optional; without it everything runs in-process
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = rdb.Close()
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize repositories
	txManager := persistence.NewGormTransactionManager(db.DB)
	sequences := persistence.NewGormSequenceGenerator(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	usage := persistence.NewGormUsageChecker(db.DB)
	salesInvoiceRepo := persistence.NewGormSalesInvoiceRepository(db.DB)
	supplierInvoiceRepo := persistence.NewGormSupplierInvoiceRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	journalRepo := persistence.NewGormJournalEntryRepository(db.DB)
	preferenceRepo := persistence.NewGormPreferenceRepository(db.DB)
	summaries := persistence.NewGormSummaryReader(db.DB)

	// Token blacklist and idempotency store follow the redis switch
	var (
		blacklist auth.TokenBlacklist
		processed shared.IdempotencyStore
		relay     realtime.Relay
		locker    scheduler.Locker = scheduler.LocalLocker{}
	)
	if rdb != nil {
		blacklist = auth.NewRedisTokenBlacklist(rdb)
		processed = cache.NewRedisIdempotencyStore(rdb, "sagebridge:event:")
		relay = cache.NewRedisRealtimeRelay(rdb,
			cache.WithRelayChannel(cfg.Realtime.Channel),
			cache.WithRelayLogger(log))
		locker = scheduler.NewRedisLocker(rdb)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		memStore := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer func() {
			_ = memStore.Close()
		}()
		processed = memStore
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	phones := partner.NewE164Normalizer(cfg.Partner.DefaultPhoneRegion)
	docOpts := invoicingapp.Options{DefaultCurrency: cfg.Settings.DefaultCurrency}

	authService := identityapp.NewAuthService(tenantRepo, userRepo, roleRepo, txManager, jwtService, blacklist, cfg.Auth, log)
	profileService := identityapp.NewProfileService(userRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, userRepo, txManager, log)
	customerService := partnerapp.NewCustomerService(customerRepo, usage, phones, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, usage, phones, log)
	salesInvoiceService := invoicingapp.NewSalesInvoiceService(salesInvoiceRepo, customerRepo, sequences, txManager, docOpts, log)
	supplierInvoiceService := invoicingapp.NewSupplierInvoiceService(supplierInvoiceRepo, purchaseOrderRepo, supplierRepo, docOpts, log)
	purchaseOrderService := invoicingapp.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, sequences, txManager, docOpts, log)
	overdueService := invoicingapp.NewOverdueService(salesInvoiceRepo, cfg.Scheduler.OverdueBatchSize, log)
	accountService := ledgerapp.NewAccountService(accountRepo, log)
	journalService := ledgerapp.NewJournalEntryService(journalRepo, accountRepo, sequences, txManager, log)
	trialBalanceService := ledgerapp.NewTrialBalanceService(journalRepo, accountRepo)
	preferenceService := settingsapp.NewPreferenceService(preferenceRepo, cfg.Settings.DefaultCurrency, log)
	dashboardService := dashboardapp.NewService(summaries, customerRepo, log)
	balanceHandler := partnerapp.NewBalanceHandler(customerRepo, supplierRepo, log)

	// Invoice PDFs need a browser; without one the endpoint answers 503
	if cfg.Printing.Enabled {
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.RemoteURL,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			_ = renderer.Close()
		}()
		printer, err := printing.NewInvoicePrinter(renderer, printing.PaperFormat(cfg.Printing.PaperFormat), log)
		if err != nil {
			log.Fatal("Failed to initialize invoice printer", zap.Error(err))
		}
		salesInvoiceService.SetPrinter(printer)
	}

	// Exports are archived to object storage when it is configured
	var archiver exportapp.Archiver
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3Archiver(ctx, &cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiry(cfg.Storage.PresignExpiry))
		if err != nil {
			log.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Export bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		archiver = s3
	}
	exportService := exportapp.NewService(exportapp.Sources{
		Customers:        customerService,
		Suppliers:        supplierService,
		SalesInvoices:    salesInvoiceService,
		SupplierInvoices: supplierInvoiceService,
		PurchaseOrders:   purchaseOrderService,
		JournalEntries:   journalService,
		Accounts:         accountService,
		TrialBalance:     trialBalanceService,
	}, []exportapp.Encoder{export.NewCSVEncoder(), export.NewXLSXEncoder()}, archiver, log)

	// Business metrics
	meter := meterProvider.Meter("sagebridge")
	businessMetrics, err := telemetry.NewBusinessMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}

	// Realtime change feed
	hub := realtime.NewHub(cfg.Realtime.MaxClients, cfg.Realtime.BufferSize, log)
	defer hub.Close()
	feed := realtime.NewFeed(hub, relay, log)
	if err := telemetry.RegisterRealtimeGauges(meter, hub.ClientCount, hub.Dropped); err != nil {
		log.Warn("Realtime gauges not registered", zap.Error(err))
	}
	if cfg.Realtime.Enabled {
		go func() {
			if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Realtime relay stopped", zap.Error(err))
			}
		}()
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewIdempotentHandler(balanceHandler, processed, shared.DefaultIdempotencyConfig(), log))
	eventBus.Subscribe(businessMetrics)
	if cfg.Realtime.Enabled {
		eventBus.Subscribe(realtime.NewChangeFeedHandler(feed, log))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	authService.SetEventPublisher(eventBus)
	profileService.SetEventPublisher(eventBus)
	roleService.SetEventPublisher(eventBus)
	customerService.SetEventPublisher(eventBus)
	supplierService.SetEventPublisher(eventBus)
	salesInvoiceService.SetEventPublisher(eventBus)
	supplierInvoiceService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)
	overdueService.SetEventPublisher(eventBus)
	accountService.SetEventPublisher(eventBus)
	journalService.SetEventPublisher(eventBus)
	balanceHandler.SetEventPublisher(eventBus)

	// Background jobs
	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(locker, log)
		if err := sched.Register(scheduler.NewOverdueJob(overdueService, &cfg.Scheduler)); err != nil {
			log.Fatal("Failed to register overdue job", zap.Error(err))
		}
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := sched.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to setup validator", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware order: request id first so every later layer can log it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled(), "/health"))
	engine.Use(middleware.HTTPMetrics(meter))
	engine.Use(middleware.ProfilingLabels(profiler != nil && profiler.IsEnabled()))
	engine.Use(middleware.Secure(cfg.App.IsProduction()))
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.CORS)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	checks := map[string]handler.Pinger{"database": db}
	if rdb != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	engine.GET("/health", handler.NewHealthHandler(checks).Check)

	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow)
	defer authLimiter.Stop()

	handlers := router.Handlers{
		Auth:             handler.NewAuthHandler(authService),
		Identity:         handler.NewIdentityHandler(profileService, roleService),
		Customers:        handler.NewCustomerHandler(customerService),
		Suppliers:        handler.NewSupplierHandler(supplierService),
		SalesInvoices:    handler.NewSalesInvoiceHandler(salesInvoiceService, businessMetrics),
		SupplierInvoices: handler.NewSupplierInvoiceHandler(supplierInvoiceService),
		PurchaseOrders:   handler.NewPurchaseOrderHandler(purchaseOrderService),
		Ledger:           handler.NewLedgerHandler(accountService, journalService, trialBalanceService),
		Settings:         handler.NewSettingsHandler(preferenceService),
		Dashboard:        handler.NewDashboardHandler(dashboardService, salesInvoiceService),
		Export:           handler.NewExportHandler(exportService, businessMetrics),
	}
	if cfg.Realtime.Enabled {
		handlers.Realtime = handler.NewRealtimeHandler(hub, cfg.Realtime.HeartbeatInterval)
	}

	router.RegisterAPI(engine, handlers, router.Config{
		JWT: middleware.JWTConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			Logger:     log,
		},
		AuthLimiter: authLimiter,
	})

	// Create HTTP server with config. Streams clear their own write deadline.
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Closing the hub ends open streams so Shutdown does not wait on them
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	shutdownTelemetry(shutdownCtx, log, tracerProvider, meterProvider, loggerProvider)
	if profiler != nil {
		_ = profiler.Stop()
	}

	log.Info("Server exited gracefully")
}

// migrate applies pending schema migrations before serving
func migrate(db *sql.DB, dir string, log *zap.Logger) error {
	m, err := migration.New(db, migration.Source(dir), log)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return m.Up()
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(ctx context.Context, log *zap.Logger, providers ...shutdowner) {
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}
}
