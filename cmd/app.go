package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/analysis"
	"github.com/SAP-F-2025/reproducible-assessment/internal/cache"
	"github.com/SAP-F-2025/reproducible-assessment/internal/config"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/llm"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories/memory"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories/postgres"
	"github.com/SAP-F-2025/reproducible-assessment/internal/services"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/SAP-F-2025/reproducible-assessment/pkg"
	"github.com/spf13/cobra"
)

const driverMemory = "memory"

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	validator *validator.Validator
	services  services.ServiceManager
	publisher events.EventPublisher
	closers   []func() error
}

// loadConfig reads the environment and applies the persistent --driver flag.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
		cfg.DatabaseDriver = strings.ToLower(driver)
	}
	return cfg, newLogger(cfg), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := utils.NewLoggerForEnvironment(cfg.Environment)
	slog.SetDefault(logger)
	return logger
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, validator: validator.New()}

	repo, err := a.openRepository()
	if err != nil {
		return nil, err
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create event publisher: %w", err)
	}
	a.publisher = publisher
	a.closers = append(a.closers, publisher.Close)

	a.services = services.NewServiceManager(repo, a.validator, logger, services.Options{
		Cache:               a.openCache(),
		SnapshotCacheTTL:    cfg.SnapshotCacheTTL,
		Publisher:           publisher,
		Classifier:          newClassifier(ctx, cfg, logger),
		AnalysisTimeout:     cfg.Analysis.Timeout,
		AnalysisConcurrency: cfg.Analysis.Concurrency,
	})
	return a, nil
}

func (a *app) openRepository() (repositories.Repository, error) {
	if a.cfg.DatabaseDriver == driverMemory {
		a.logger.Warn("Using the in-memory store, data is lost on exit")
		return memory.NewRepository(), nil
	}

	db, err := pkg.InitDatabase(a.cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)

	a.logger.Info("Connected to database", "driver", a.cfg.DatabaseDriver)
	return postgres.NewRepository(db), nil
}

// openCache degrades to no caching when Redis is unset or unreachable.
func (a *app) openCache() cache.CacheService {
	if a.cfg.RedisURL == "" {
		return cache.NewNoopCache()
	}
	client, err := pkg.NewRedisClient(a.cfg)
	if err != nil {
		a.logger.Warn("Redis unavailable, snapshot cache disabled", "error", err)
		return cache.NewNoopCache()
	}
	a.closers = append(a.closers, client.Close)
	return cache.NewRedisCache(client, a.logger)
}

// newClassifier returns nil when no model backend is usable; the dispatcher then
// serves every analysis from the fallback.
func newClassifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) analysis.Classifier {
	provider, err := llm.NewProvider(ctx, cfg.Analysis.LLM, logger)
	if errors.Is(err, llm.ErrDisabled) {
		logger.Info("Analysis provider disabled, using fallback analysis")
		return nil
	}
	if err != nil {
		logger.Warn("Analysis provider unavailable, using fallback analysis",
			"provider", cfg.Analysis.LLM.Provider,
			"error", err)
		return nil
	}
	logger.Info("Analysis provider ready", "provider", cfg.Analysis.LLM.Provider)
	return analysis.NewLLMClassifier(provider)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to release resource", "error", err)
		}
	}
	a.closers = nil
}
