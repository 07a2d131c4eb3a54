package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medatlas/directory-api/internal/adapters/cache"
	"github.com/medatlas/directory-api/internal/adapters/cms"
	"github.com/medatlas/directory-api/internal/api/handlers"
	"github.com/medatlas/directory-api/internal/api/middleware"
	"github.com/medatlas/directory-api/internal/api/routes"
	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/providers"
	"github.com/medatlas/directory-api/internal/infrastructure/clients/wixdata"
	"github.com/medatlas/directory-api/internal/infrastructure/notifications"
	"github.com/medatlas/directory-api/internal/infrastructure/observability"
	"github.com/medatlas/directory-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Upstream CMS client
	if cfg.CMS.APIKey == "" {
		log.Warn().Msg("CMS_API_KEY is not set; upstream queries will be rejected")
	}
	cmsClient := wixdata.NewClient(
		cfg.CMS.BaseURL,
		cfg.CMS.APIKey,
		cfg.CMS.SiteID,
		wixdata.WithTimeout(cfg.CMS.Timeout),
	)
	directoryRepo := cms.NewDirectoryAdapter(cmsClient, metrics)

	// Response cache: Redis when configured, in-process otherwise
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Host != "" {
		redisCache, err := cache.NewRedisAdapter(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Redis; falling back to in-memory cache")
			cacheProvider = cache.NewMemoryAdapter()
		} else {
			defer redisCache.Close()
			cacheProvider = redisCache
			log.Info().Msg("Redis cache initialized")
		}
	} else {
		cacheProvider = cache.NewMemoryAdapter()
		log.Info().Msg("using in-memory response cache")
	}

	// Email relay for inquiry forms
	var mailer providers.MailSender
	if cfg.Email.APIKey == "" {
		log.Warn().Msg("EMAIL_API_KEY is not set; inquiries will be logged, not sent")
		mailer = notifications.NewLogSender()
	} else {
		sender, err := notifications.NewTransactionalEmailSender(&cfg.Email)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize email sender")
		}
		mailer = sender
	}

	// Services
	joinService := services.NewJoinService(services.PublicBranches)
	filterEngine := services.NewFilterEngine()

	searchService := services.NewSearchService(directoryRepo, joinService, filterEngine)
	hospitalService := services.NewHospitalService(directoryRepo, joinService, filterEngine)
	doctorService := services.NewDoctorService(directoryRepo, filterEngine)
	treatmentService := services.NewTreatmentService(
		directoryRepo,
		joinService,
		filterEngine,
		cfg.Cache.TreatmentsTTL,
		time.Now,
	)
	inquiryService := services.NewInquiryService(mailer)

	// Handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	hospitalHandler := handlers.NewHospitalHandler(hospitalService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	treatmentHandler := handlers.NewTreatmentHandler(treatmentService)
	directoryHandler := handlers.NewDirectoryHandler(directoryRepo)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService, cacheProvider)

	cacheMiddleware := middleware.NewCacheMiddleware(cacheProvider, metrics)

	router := routes.NewRouter(
		searchHandler,
		hospitalHandler,
		doctorHandler,
		treatmentHandler,
		directoryHandler,
		inquiryHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
