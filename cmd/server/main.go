package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcashier "github.com/erp/cashledger/internal/application/cashier"
	appevent "github.com/erp/cashledger/internal/application/event"
	appidentity "github.com/erp/cashledger/internal/application/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/auth"
	"github.com/erp/cashledger/internal/infrastructure/cache"
	"github.com/erp/cashledger/internal/infrastructure/config"
	"github.com/erp/cashledger/internal/infrastructure/event"
	"github.com/erp/cashledger/internal/infrastructure/logger"
	"github.com/erp/cashledger/internal/infrastructure/persistence"
	"github.com/erp/cashledger/internal/infrastructure/telemetry"
	"github.com/erp/cashledger/internal/interfaces/http/handler"
	"github.com/erp/cashledger/internal/interfaces/http/middleware"
	"github.com/erp/cashledger/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/erp/cashledger/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Cash Ledger API
//	@version		1.0
//	@description	Branch cash-shift ledger: registers, shifts, movements, reconciliation and salary advances

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Telemetry. Every provider is a no-op when its exporter is disabled.
	exporter := telemetry.Exporter{
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Exporter:      exporter,
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Exporter:       exporter,
		Enabled:        cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsExportInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Exporter: exporter,
		Enabled:  cfg.Telemetry.LogsEnabled,
		Level:    logger.ParseLevel(cfg.Telemetry.LogsLevel),
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.PyroscopeAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.PyroscopeUser,
		BasicAuthPassword: cfg.Telemetry.PyroscopePassword,
		ProfileCPU:        true,
		ProfileAlloc:      true,
		ProfileInuse:      true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.ProfilingEnabled && cfg.Telemetry.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	log.Info("Starting cash ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories and the transactional outbox
	hasher, err := auth.NewPinHasher(cfg.Ledger.PinPepper, cfg.Ledger.BcryptCost)
	if err != nil {
		log.Fatal("Invalid PIN hashing configuration", zap.Error(err))
	}
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	txScope := persistence.NewGormTransactionScope(db.DB, serializer, cfg.Event.MaxRetries)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	registerRepo := persistence.NewGormCashRegisterRepository(db.DB)
	shiftRepo := persistence.NewGormShiftRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	operatorRepo := persistence.NewGormOperatorRepository(db.DB)
	advanceRepo := persistence.NewGormSalaryAdvanceRepository(db.DB)
	discrepancyRepo := persistence.NewGormDiscrepancyRepository(db.DB)

	// Application services
	registerService := appcashier.NewRegisterService(registerRepo, shiftRepo, txScope, log)
	shiftService := appcashier.NewShiftService(shiftRepo, movementRepo, txScope, log)
	ledgerService := appcashier.NewLedgerService(shiftRepo, movementRepo, txScope, log)
	advanceService := appcashier.NewAdvanceService(advanceRepo, txScope, log)
	reconciliationService := appcashier.NewReconciliationService(shiftRepo, movementRepo, discrepancyRepo)
	operatorService := appidentity.NewOperatorService(operatorRepo, txScope.OperatorScope(), hasher, log)
	outboxService := appevent.NewOutboxService(outboxRepo, log)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)
	ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("cashledger"))
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}
	eventBus.Subscribe(event.NewMetricsHandler(ledgerMetrics))
	if redisClient != nil {
		forwarder := event.NewRedisForwarder(redisClient, cfg.Event.ForwardChannel, serializer, log)
		eventBus.Subscribe(event.NewIdempotentHandler(
			forwarder,
			cache.NewIdempotencyStore(redisClient, log),
			log,
			event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
		))
		log.Info("Forwarding ledger events to redis", zap.String("channel", cfg.Event.ForwardChannel))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		var processorOpts []event.ProcessorOption
		if redisClient != nil {
			processorOpts = append(processorOpts, event.WithExclusiveCleanup(cache.NewRedisJobLock(redisClient, log)))
		}
		outboxProcessor = event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.ProcessorConfigFrom(cfg.Event), log, processorOpts...)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// Bearer tokens and revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		log.Warn("Redis disabled, token revocation is kept in memory")
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})

	middleware.SetupValidator()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(meterProvider.Meter("cashledger/http")),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
	)

	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	engine.GET("/health", handler.NewHealthHandler(telemetry.ServiceVersion, healthChecks).Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	pinGuard := middleware.RateLimitByKey(
		middleware.NewRateLimiter(ctx, cfg.Ledger.PinAttemptLimit, cfg.Ledger.PinAttemptWindow),
		middleware.BranchClientKey,
	)
	pageSize := cfg.Ledger.DefaultPageSize

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtMiddleware, middleware.TracingAttributeInjector())
	router.RegisterLedger(r, router.LedgerHandlers{
		Auth:          handler.NewAuthHandler(tokenBlacklist, jwtService.Expiration()),
		Operators:     handler.NewOperatorHandler(operatorService, pageSize),
		Registers:     handler.NewRegisterHandler(registerService, shiftService, pageSize),
		Shifts:        handler.NewShiftHandler(shiftService, ledgerService, reconciliationService, operatorService, pageSize),
		Advances:      handler.NewAdvanceHandler(advanceService, operatorService, pageSize),
		Discrepancies: handler.NewDiscrepancyHandler(reconciliationService, pageSize),
		Outbox:        handler.NewOutboxHandler(outboxService, pageSize),
	}, pinGuard)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	stop()

	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logger": loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
