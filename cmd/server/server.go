package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"venturedesk/ai-api/internal/config"
	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/crontab"
	"venturedesk/ai-api/internal/infrastructure/database"
	"venturedesk/ai-api/internal/infrastructure/database/repository/providercfgrepo"
	"venturedesk/ai-api/internal/infrastructure/database/repository/usagerepo"
	"venturedesk/ai-api/internal/infrastructure/inference"
	"venturedesk/ai-api/internal/infrastructure/logger"
	"venturedesk/ai-api/internal/infrastructure/observability"
	"venturedesk/ai-api/internal/interfaces/httpserver"
	"venturedesk/ai-api/internal/interfaces/httpserver/handlers/aihandler"
	"venturedesk/ai-api/internal/interfaces/httpserver/handlers/providerhandler"
	v1 "venturedesk/ai-api/internal/interfaces/httpserver/routes/v1"
	"venturedesk/ai-api/internal/interfaces/httpserver/routes/v1/ai"

	_ "venturedesk/ai-api/internal/infrastructure/database/dbschema"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	crontab    *crontab.Crontab
	cfg        *config.Config
}

// @title VentureDesk AI API
// @version 1.0
// @description Tenant-facing AI provider gateway: BYOK credentials, shared default pool, generation and embeddings.
// @BasePath /
func (application *Application) Start() {
	background := context.Background()
	ctx, cancel := context.WithCancel(background)
	defer cancel()

	var eg errgroup.Group
	eg.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(fmt.Sprintf(":%d", application.cfg.MetricsPort), mux)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.crontab.Run(ctx)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.httpServer.Run()
		if err != nil {
			cancel()
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		panic(err)
	}
}

func createApplication(cfg *config.Config) (*Application, error) {
	log := logger.GetLogger()

	db, err := database.Connect(database.Config{
		DatabaseURL: cfg.DatabaseURL,
		MaxIdle:     10,
		MaxOpen:     25,
		MaxLifetime: time.Hour,
		LogLevel:    gormlogger.Silent,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := database.Migration(db, "ai_api."); err != nil {
			return nil, err
		}
	}

	configRepo := providercfgrepo.NewAIProviderConfigRepository(db)
	usageRepo := usagerepo.NewAIUsageRepository(db)

	factory, err := inference.NewFactory(cfg)
	if err != nil {
		return nil, err
	}
	resolver := aigateway.NewResolver(factory, cfg.ProviderKeySecret)
	recorder := aigateway.NewUsageRecorder(usageRepo)

	aiHandler := aihandler.NewAIHandler(configRepo, resolver, recorder)
	providerHandler := providerhandler.NewProviderHandler(configRepo, resolver, cfg.ProviderKeySecret)
	aiRoute := ai.NewAIRoute(aiHandler, providerHandler)
	v1Route := v1.NewV1Route(aiRoute)

	return &Application{
		httpServer: httpserver.NewHttpServer(v1Route, log, cfg),
		crontab:    crontab.NewCrontab(resolver),
		cfg:        cfg,
	}, nil
}

func main() {
	ctx := context.Background()
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	if _, err := logger.New(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("configure logger")
	}
	log = logger.GetLogger()

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	application, err := createApplication(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}

	application.Start()
}
