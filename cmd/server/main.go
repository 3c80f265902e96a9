package main

import (
	"context"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/jalak-hijau/internal/application/service"
	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	domainservice "github.com/turtacn/jalak-hijau/internal/domain/service"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/ai"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/cache"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/events"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/persistence/file"
	gormstore "github.com/turtacn/jalak-hijau/internal/infrastructure/persistence/gorm"
	redisstore "github.com/turtacn/jalak-hijau/internal/infrastructure/persistence/redis"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/secrets"
	"github.com/turtacn/jalak-hijau/internal/interfaces/http/handlers"
	httpserver "github.com/turtacn/jalak-hijau/internal/interfaces/http/router"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil && err != context.Canceled {
		appLogger.Fatal(ctx, "server exited with error", err)
	}
	appLogger.Info(context.Background(), "server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger logger.Logger) error {
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			appLogger.Warn(shutdownCtx, "tracing shutdown failed", logger.Fields{"error": err.Error()})
		}
	}()

	metrics := monitoring.NewMetrics()

	db, err := gormstore.Open(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	investigationRepo := gormstore.NewInvestigationRepository(db, appLogger)

	var sessionStore repository.SessionStore
	if cfg.Redis.Enabled {
		redisStore, err := redisstore.NewSessionStore(ctx, &cfg.Redis, appLogger)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		sessionStore = redisStore
	} else {
		appLogger.Info(ctx, "redis disabled, sessions are in-process only")
		sessionStore = redisstore.NewMemorySessionStore()
	}

	geoRepo := file.NewGeoLoader(&cfg.Data, appLogger, metrics)
	financialRepo := file.NewFinancialLoader(&cfg.Data, appLogger, metrics)
	analysisCache := cache.NewAnalysisCache()

	var publisher repository.AlertPublisher
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaAlertPublisher(&cfg.Kafka, appLogger, metrics)
	} else {
		publisher = events.NewNoopAlertPublisher()
	}
	defer publisher.Close()

	assistant := buildAssistant(ctx, cfg, appLogger)

	analysisSvc := appservice.NewAnalysisAppService(
		geoRepo, financialRepo,
		domainservice.NewOverlapAnalyzer(appLogger),
		domainservice.NewRiskScorer(appLogger, rand.New(rand.NewSource(time.Now().UnixNano()))),
		domainservice.NewTransactionAnalyzer(appLogger),
		analysisCache, metrics, appLogger,
		cfg.Analysis.MinOverlapPercent,
	)
	alertSvc := appservice.NewAlertAppService(analysisSvc, publisher, appLogger)
	investigationSvc := appservice.NewInvestigationAppService(
		investigationRepo, alertSvc, analysisSvc,
		domainservice.NewGraphBuilder(appLogger), appLogger,
	)
	sessionSvc := appservice.NewSessionAppService(sessionStore, appLogger)
	chatSvc := appservice.NewChatAppService(assistant, sessionSvc, alertSvc, metrics, appLogger)

	router := httpserver.NewRouter(
		cfg, appLogger, metrics,
		handlers.NewHealthHandler(geoRepo, financialRepo),
		handlers.NewAnalysisHandler(analysisSvc),
		handlers.NewAlertHandler(alertSvc),
		handlers.NewInvestigationHandler(investigationSvc, sessionSvc),
		handlers.NewChatHandler(chatSvc),
		handlers.NewSessionHandler(sessionSvc),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return router.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return router.Stop(shutdownCtx)
	})

	if cfg.Data.Watch {
		watcher, err := file.NewWatcher(&cfg.Data, appLogger, func() {
			geoRepo.Invalidate()
			financialRepo.Invalidate()
			analysisCache.Flush()
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	return g.Wait()
}

// buildAssistant resolves the AI API key and constructs the chat client. Any
// failure leaves chat disabled; the service still serves everything else and
// the chat endpoint degrades to its fixed apology.
func buildAssistant(ctx context.Context, cfg *config.Config, appLogger logger.Logger) ai.Assistant {
	if !cfg.AI.Enabled {
		appLogger.Info(ctx, "chat assistant disabled by configuration")
		return nil
	}

	var provider secrets.Provider = secrets.NewEnvProvider()
	secretName := cfg.AI.APIKeyEnv
	if cfg.Vault.Enabled {
		vaultProvider, err := secrets.NewVaultProvider(&cfg.Vault, appLogger)
		if err != nil {
			appLogger.Warn(ctx, "vault unavailable, chat disabled", logger.Fields{"error": err.Error()})
			return nil
		}
		provider = vaultProvider
		secretName = cfg.Vault.SecretKey
	}

	apiKey, err := provider.Get(ctx, secretName)
	if err != nil {
		appLogger.Warn(ctx, "AI API key not resolved, chat disabled", logger.Fields{"error": err.Error()})
		return nil
	}
	return ai.NewOpenAIAssistant(&cfg.AI, apiKey, appLogger)
}
