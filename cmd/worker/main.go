package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialsupport/benefits-pipeline/internal/bootstrap"
	"github.com/socialsupport/benefits-pipeline/internal/config"
	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/observability/logging"
	"github.com/socialsupport/benefits-pipeline/internal/observability/metrics"
)

const serviceName = "benefits-worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsHandler(workerMetrics),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker metrics server error", "error", err)
		}
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeWorkflowRequested(ctx, func(handlerCtx context.Context, req domain.WorkflowRequest) error {
		workerMetrics.ObserveQueueLag(serviceName, time.Since(req.RequestedAt))
		workerMetrics.StartWorkflow()
		start := time.Now()

		state, runErr := app.RunnerUC.Execute(handlerCtx, req)

		status := string(domain.WorkflowFailed)
		if state != nil {
			status = string(state.Status)
			for _, doc := range state.ProcessedDocuments {
				var docErr error
				if doc.Record.Failed() {
					docErr = domain.ErrExtraction
				}
				workerMetrics.RecordDocument(serviceName, string(doc.Type), docErr)
			}
			if state.Assessment != nil {
				workerMetrics.RecordDecision(serviceName, string(state.Assessment.Status))
			}
		}
		workerMetrics.FinishWorkflow(serviceName, status, time.Since(start))
		return runErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}

func metricsHandler(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
