package usecase

import (
	"context"
	"fmt"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
)

// StatusUseCase answers status queries over the persisted artifacts. Lookups
// resolve by application id first and fall back to scanning workflow ids.
type StatusUseCase struct {
	artifacts ports.ArtifactStore
}

func NewStatusUseCase(artifacts ports.ArtifactStore) *StatusUseCase {
	return &StatusUseCase{artifacts: artifacts}
}

func (uc *StatusUseCase) ApplicationStatus(ctx context.Context, applicationID string) (*domain.ApplicationStatus, error) {
	status, err := uc.artifacts.LoadApplicationStatus(ctx, applicationID)
	if err == nil {
		return status, nil
	}
	if !domain.IsKind(err, domain.ErrApplicationNotFound) {
		return nil, fmt.Errorf("load application status: %w", err)
	}

	// the id may be a workflow id from an older client
	summary, werr := uc.artifacts.FindSummaryByWorkflowID(ctx, applicationID)
	if werr != nil {
		return nil, err
	}
	return uc.artifacts.LoadApplicationStatus(ctx, summary.ApplicationID)
}

func (uc *StatusUseCase) WorkflowSummary(ctx context.Context, workflowID string) (*domain.WorkflowSummary, error) {
	summary, err := uc.artifacts.FindSummaryByWorkflowID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("find summary by workflow id: %w", err)
	}
	return summary, nil
}

func (uc *StatusUseCase) ListApplications(ctx context.Context) ([]domain.WorkflowSummary, error) {
	// the store returns summaries newest first
	summaries, err := uc.artifacts.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return summaries, nil
}
