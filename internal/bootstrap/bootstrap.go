package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialsupport/benefits-pipeline/internal/config"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
	"github.com/socialsupport/benefits-pipeline/internal/core/usecase"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/artifacts/localfs"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/classify"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/extractor"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/llm/openai"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/queue/nats"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/repository/postgres"
	"github.com/socialsupport/benefits-pipeline/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue    ports.MessageQueue
	Repo     ports.ApplicationRepository
	IntakeUC ports.ApplicationIntake
	RunnerUC ports.WorkflowRunner
	StatusUC ports.StatusReader

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewApplicationRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	artifacts, err := localfs.New(cfg.ArtifactsPath)
	if err != nil {
		return nil, fmt.Errorf("init artifact store: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{})

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	model := openai.New(openai.Config{
		BaseURL:           cfg.ModelBaseURL,
		APIKey:            cfg.ModelAPIKey,
		Model:             cfg.ModelName,
		RequestsPerMinute: cfg.ModelRequestsPerMinute,
	}, executor)

	contentExtractor := extractor.New(nil, logger)
	classifier := classify.New(logger)
	fields := usecase.NewFieldExtractionAgent(model, logger)
	merger := usecase.NewProfileMerger()
	engine := usecase.NewAssessmentEngine(model, logger)
	reports := usecase.NewReportBuilder(model, model.Model(), logger)

	runnerUC := usecase.NewWorkflowUseCase(
		contentExtractor,
		classifier,
		fields,
		merger,
		engine,
		reports,
		artifacts,
		repo,
		logger,
		usecase.WorkflowConfig{
			DocumentTimeout: time.Duration(cfg.DocumentTimeoutSeconds) * time.Second,
			Concurrency:     cfg.WorkflowConcurrency,
		},
	)
	intakeUC := usecase.NewIntakeUseCase(repo, queue)
	statusUC := usecase.NewStatusUseCase(artifacts)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:    queue,
		Repo:     repo,
		IntakeUC: intakeUC,
		RunnerUC: runnerUC,
		StatusUC: statusUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
