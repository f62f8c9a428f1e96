package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
)

// WorkflowUseCase runs one application's pipeline: validate, fan out
// per-document extraction and field extraction, merge sequentially, assess,
// build the report and persist every artifact.
type WorkflowUseCase struct {
	extractor  ports.ContentExtractor
	classifier ports.DocumentClassifier
	fields     ports.FieldExtractor
	merger     *ProfileMerger
	engine     *AssessmentEngine
	reports    *ReportBuilder
	artifacts  ports.ArtifactStore
	repo       ports.ApplicationRepository

	logger      *slog.Logger
	docTimeout  time.Duration
	concurrency int
	now         func() time.Time
}

type WorkflowConfig struct {
	DocumentTimeout time.Duration
	Concurrency     int
}

func NewWorkflowUseCase(
	extractor ports.ContentExtractor,
	classifier ports.DocumentClassifier,
	fields ports.FieldExtractor,
	merger *ProfileMerger,
	engine *AssessmentEngine,
	reports *ReportBuilder,
	artifacts ports.ArtifactStore,
	repo ports.ApplicationRepository,
	logger *slog.Logger,
	cfg WorkflowConfig,
) *WorkflowUseCase {
	if cfg.DocumentTimeout <= 0 {
		cfg.DocumentTimeout = 3 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &WorkflowUseCase{
		extractor:   extractor,
		classifier:  classifier,
		fields:      fields,
		merger:      merger,
		engine:      engine,
		reports:     reports,
		artifacts:   artifacts,
		repo:        repo,
		logger:      logger,
		docTimeout:  cfg.DocumentTimeout,
		concurrency: cfg.Concurrency,
		now:         time.Now,
	}
}

// Execute runs the full workflow. It always returns the terminal state; the
// error return is reserved for persistence problems, not pipeline outcomes.
func (uc *WorkflowUseCase) Execute(ctx context.Context, req domain.WorkflowRequest) (*domain.WorkflowState, error) {
	state := &domain.WorkflowState{
		WorkflowID:    req.WorkflowID,
		ApplicationID: req.ApplicationID,
		Status:        domain.WorkflowInitiated,
		StartTime:     uc.now(),
		Documents:     req.Documents,
		Applicant:     req.Applicant,
		Errors:        []string{},
		Warnings:      []string{},
	}
	log := uc.logger.With("workflow_id", req.WorkflowID, "application_id", req.ApplicationID)
	log.Info("workflow started", "documents", len(req.Documents))

	state.Status = domain.WorkflowProcessingDocuments
	uc.trackStatus(ctx, state)

	report := ValidateDocuments(req.Documents)
	state.Warnings = append(state.Warnings, report.Warnings...)
	if !report.Valid() {
		state.Errors = append(state.Errors, report.Errors...)
		return uc.fail(ctx, state, log)
	}

	processed, extractionFailures := uc.processDocuments(ctx, report.RawDocs, state)
	state.ProcessedDocuments = processed
	if extractionFailures == len(processed) {
		state.AddError("no documents were successfully processed")
		return uc.fail(ctx, state, log)
	}
	state.Status = domain.WorkflowDocumentsProcessed
	uc.trackStatus(ctx, state)
	log.Info("documents processed",
		"extracted", len(processed)-extractionFailures,
		"extraction_failures", extractionFailures,
	)

	profile := domain.NewApplicantProfile(req.ApplicationID)
	uc.merger.SeedApplicant(profile, req.Applicant)
	for _, doc := range state.ProcessedDocuments {
		if doc.Record.Failed() {
			continue
		}
		uc.merger.Merge(profile, doc.Record)
	}
	state.Profile = profile

	state.Status = domain.WorkflowRunningAssessment
	uc.trackStatus(ctx, state)
	state.Assessment = uc.engine.Assess(ctx, profile)
	state.Status = domain.WorkflowAssessmentComplete
	log.Info("assessment complete",
		"status", state.Assessment.Status,
		"overall_score", state.Assessment.OverallScore,
	)

	if rep, err := uc.reports.BuildReport(ctx, state); err != nil {
		state.AddWarning("comprehensive report generation failed: %v", err)
	} else {
		state.Report = rep
	}

	state.Status = domain.WorkflowCompleted
	uc.finish(state)
	if err := uc.persist(ctx, state); err != nil {
		return state, err
	}
	uc.recordOutcome(ctx, state)
	log.Info("workflow completed", "duration", state.Duration)
	return state, nil
}

// processDocuments fans out per-document work with bounded concurrency and a
// per-document timeout, then restores input order for the sequential merge.
// Only extraction failures count against the run; a document whose model call
// failed still counts as processed and carries its error-marker record.
func (uc *WorkflowUseCase) processDocuments(ctx context.Context, docs []domain.RawDocument, state *domain.WorkflowState) ([]domain.ProcessedDocument, int) {
	results := make([]domain.ProcessedDocument, len(docs))
	errs := make([]string, len(docs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			docCtx, cancel := context.WithTimeout(groupCtx, uc.docTimeout)
			defer cancel()
			processed, err := uc.processOne(docCtx, doc)
			if err != nil {
				errs[i] = err.Error()
				processed = domain.ProcessedDocument{
					Input:  domain.DocumentInput{FilePath: doc.FilePath, Purpose: doc.Purpose, Filename: doc.Filename},
					Type:   domain.TypeUnknown,
					Format: doc.Format,
					Record: domain.ErrorRecord(domain.TypeUnknown, doc.Format, err.Error(), ""),
				}
			}
			results[i] = processed
			return nil
		})
	}
	// workers never return errors; they record them per slot
	_ = g.Wait()

	extractionFailures := 0
	for i, msg := range errs {
		if msg != "" {
			extractionFailures++
			state.AddError("failed to process %s: %s", docs[i].FilePath, msg)
			continue
		}
		if results[i].Record.Failed() {
			state.AddWarning("field extraction failed for %s: %s", docs[i].FilePath, results[i].Record.Error)
		}
	}
	return results, extractionFailures
}

func (uc *WorkflowUseCase) processOne(ctx context.Context, doc domain.RawDocument) (domain.ProcessedDocument, error) {
	content, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return domain.ProcessedDocument{}, domain.WrapError(domain.ErrExtraction, "extract content", err)
	}

	docType := uc.classifier.Classify(doc.Filename, doc.Purpose, content)
	record := uc.fields.ExtractFields(ctx, content, docType, doc.Format)

	return domain.ProcessedDocument{
		Input:      domain.DocumentInput{FilePath: doc.FilePath, Purpose: doc.Purpose, Filename: doc.Filename},
		Type:       docType,
		Format:     doc.Format,
		Record:     record,
		Confidence: record.Confidence,
	}, nil
}

func (uc *WorkflowUseCase) fail(ctx context.Context, state *domain.WorkflowState, log *slog.Logger) (*domain.WorkflowState, error) {
	state.Status = domain.WorkflowFailed
	uc.finish(state)
	log.Error("workflow failed", "errors", state.Errors)
	if err := uc.persist(ctx, state); err != nil {
		return state, err
	}
	uc.recordOutcome(ctx, state)
	return state, nil
}

func (uc *WorkflowUseCase) finish(state *domain.WorkflowState) {
	state.EndTime = uc.now()
	state.Duration = domain.FormatDuration(state.StartTime, state.EndTime)
}

// persist writes the artifact set keyed by application id, falling back to
// the workflow id when intake supplied none.
func (uc *WorkflowUseCase) persist(ctx context.Context, state *domain.WorkflowState) error {
	appID := state.ApplicationID
	if appID == "" {
		appID = state.WorkflowID
		uc.logger.Warn("no application id, keying artifacts by workflow id", "workflow_id", state.WorkflowID)
	}

	if err := uc.artifacts.SaveWorkflowState(ctx, appID, state); err != nil {
		return domain.WrapError(domain.ErrTemporary, "save workflow state", err)
	}
	if state.Assessment != nil {
		if err := uc.artifacts.SaveAssessment(ctx, appID, state.Assessment); err != nil {
			return domain.WrapError(domain.ErrTemporary, "save assessment result", err)
		}
	}
	if state.Report != nil {
		if err := uc.artifacts.SaveReport(ctx, appID, state.Report); err != nil {
			return domain.WrapError(domain.ErrTemporary, "save comprehensive report", err)
		}
	}
	if err := uc.artifacts.SaveSummary(ctx, appID, BuildSummary(state, appID)); err != nil {
		return domain.WrapError(domain.ErrTemporary, "save summary", err)
	}
	if err := uc.artifacts.SaveApplicationStatus(ctx, appID, BuildApplicationStatus(state, appID, uc.now())); err != nil {
		return domain.WrapError(domain.ErrTemporary, "save application status", err)
	}
	return nil
}

// trackStatus mirrors workflow progress into the application registry. The
// registry is best-effort; a write failure only logs.
func (uc *WorkflowUseCase) trackStatus(ctx context.Context, state *domain.WorkflowState) {
	if uc.repo == nil || state.ApplicationID == "" {
		return
	}
	if err := uc.repo.UpdateStatus(ctx, state.ApplicationID, state.Status); err != nil {
		uc.logger.Warn("registry status update failed", "application_id", state.ApplicationID, "error", err)
	}
}

func (uc *WorkflowUseCase) recordOutcome(ctx context.Context, state *domain.WorkflowState) {
	if uc.repo == nil || state.ApplicationID == "" {
		return
	}
	var decision domain.EligibilityStatus
	var score float64
	if state.Assessment != nil {
		decision = state.Assessment.Status
		score = state.Assessment.OverallScore
	}
	if err := uc.repo.UpdateOutcome(ctx, state.ApplicationID, state.Status, decision, score); err != nil {
		uc.logger.Warn("registry outcome update failed", "application_id", state.ApplicationID, "error", err)
	}
}
