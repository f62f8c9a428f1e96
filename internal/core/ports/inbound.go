package ports

import (
	"context"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// ApplicationIntake is the inbound contract for registering an application
// and queueing its processing workflow.
type ApplicationIntake interface {
	Submit(ctx context.Context, applicationID string, applicant domain.IntakeApplicant, documents []domain.DocumentInput) (*domain.WorkflowRequest, error)
}

// WorkflowRunner is the inbound contract for executing one application's
// document-processing and assessment pipeline end to end.
type WorkflowRunner interface {
	Execute(ctx context.Context, req domain.WorkflowRequest) (*domain.WorkflowState, error)
}

// StatusReader is the inbound read model over persisted workflow artifacts.
type StatusReader interface {
	ApplicationStatus(ctx context.Context, applicationID string) (*domain.ApplicationStatus, error)
	WorkflowSummary(ctx context.Context, workflowID string) (*domain.WorkflowSummary, error)
	ListApplications(ctx context.Context) ([]domain.WorkflowSummary, error)
}
