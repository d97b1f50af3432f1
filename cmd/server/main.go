package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appacademic "github.com/edusuite/backend/internal/application/academic"
	appfinance "github.com/edusuite/backend/internal/application/finance"
	appidentity "github.com/edusuite/backend/internal/application/identity"
	"github.com/edusuite/backend/internal/application/relationship"
	"github.com/edusuite/backend/internal/infrastructure/auth"
	"github.com/edusuite/backend/internal/infrastructure/cache"
	"github.com/edusuite/backend/internal/infrastructure/config"
	"github.com/edusuite/backend/internal/infrastructure/logger"
	"github.com/edusuite/backend/internal/infrastructure/persistence"
	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/edusuite/backend/internal/interfaces/http/handler"
	"github.com/edusuite/backend/internal/interfaces/http/middleware"
	"github.com/edusuite/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A .env file is optional; real environment variables win over it
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting EduSuite backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Warn("Profiler not started", zap.Error(err))
	}
	if profiler != nil && profiler.IsRunning() {
		tracerProvider.EnableSpanProfiles()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if profiler != nil {
			_ = profiler.Stop()
		}
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Cache invalidation and scope locks
	backend := cache.NewBackend(ctx, cfg.Redis, cfg.Cache, log)
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("Error closing cache backend", zap.Error(err))
		}
	}()

	// Repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	guardianRepo := persistence.NewGormGuardianRepository(db.DB)
	studentFeeRepo := persistence.NewGormStudentFeeRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	academicYearRepo := persistence.NewGormAcademicYearRepository(db.DB)
	termRepo := persistence.NewGormTermRepository(db.DB)

	financeMetrics, err := telemetry.NewFinanceMetrics()
	if err != nil {
		log.Warn("Finance metrics unavailable", zap.Error(err))
	}

	// Application services
	resolver := appidentity.NewResolver(profileRepo, log)
	relationships := relationship.NewService(relationship.Repositories{
		Students:         studentRepo,
		Guardians:        guardianRepo,
		Teachers:         persistence.NewGormTeacherRepository(db.DB),
		StudentGuardians: persistence.NewGormStudentGuardianRepository(db.DB),
		Teaching:         persistence.NewGormTeachingRepository(db.DB),
		StudentFees:      studentFeeRepo,
	}, backend.Invalidator, log)
	access := appfinance.NewStudentAccess(studentRepo, relationships)

	feeStructureService := appfinance.NewFeeStructureService(
		persistence.NewGormFeeStructureRepository(db.DB), academicYearRepo, termRepo, backend.Invalidator, log,
		appfinance.WithLocker(backend.Locker),
		appfinance.WithMetrics(financeMetrics),
		appfinance.WithCurrency(cfg.Finance.Currency),
	)
	ledgerService := appfinance.NewLedgerService(access, studentFeeRepo, invoiceRepo, guardianRepo, financeMetrics, log)
	receiptService := appfinance.NewReceiptService(access,
		persistence.NewGormReceiptRepository(db.DB), persistence.NewGormPaymentRepository(db.DB), invoiceRepo,
		cfg.Finance.RecentReceiptsLimit, log)
	calendarService := appacademic.NewCalendarService(academicYearRepo, termRepo, backend.Invalidator, log)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db,
		dto.FeatureFlagsResponse{ReportsEnabled: cfg.Features.ReportsEnabled})
	handlers := router.Handlers{
		FeeStructures: handler.NewFeeStructureHandler(feeStructureService),
		Ledger:        handler.NewLedgerHandler(ledgerService, receiptService),
		Me:            handler.NewMeHandler(relationships, cfg.Features.ReportsEnabled),
		Guardians:     handler.NewGuardianHandler(relationships),
		Calendar:      handler.NewCalendarHandler(calendarService),
		System:        systemHandler,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - generate/propagate request ID
	// 2. Recovery - catch panics
	// 3. Logger - log requests
	// 4. Tracing - server span, then error marking and attributes
	// 5. Metrics - request counters and latency
	// 6. Security headers, CORS, body size limit, request timeout
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(cfg.Telemetry.ServiceName))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	// Unauthenticated endpoints outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/system/info", systemHandler.GetSystemInfo)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(
			middleware.SessionAuth(middleware.SessionAuthConfig{
				Verifier: auth.NewSessionVerifier(cfg.Session),
				Resolver: resolver,
				Logger:   log,
			}),
			middleware.TracingAttributeInjector(),
			middleware.Profiling(profiler != nil && profiler.IsRunning()),
		),
	)
	router.RegisterAPI(r, handlers)
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
		return
	}

	log.Info("Server exited gracefully")
}
