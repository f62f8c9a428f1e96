package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
)

// IntakeUseCase registers an application and queues its workflow for the
// worker. Validation here is shape-only; the worker runs the full document
// gate before processing.
type IntakeUseCase struct {
	repo  ports.ApplicationRepository
	queue ports.MessageQueue
	now   func() time.Time
}

func NewIntakeUseCase(repo ports.ApplicationRepository, queue ports.MessageQueue) *IntakeUseCase {
	return &IntakeUseCase{repo: repo, queue: queue, now: time.Now}
}

func (uc *IntakeUseCase) Submit(
	ctx context.Context,
	applicationID string,
	applicant domain.IntakeApplicant,
	documents []domain.DocumentInput,
) (*domain.WorkflowRequest, error) {
	if len(documents) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit application", fmt.Errorf("no documents supplied"))
	}
	if applicationID == "" {
		applicationID = fmt.Sprintf("APP-%s-%s", uc.now().Format("20060102"), uuid.NewString()[:8])
	}

	req := domain.WorkflowRequest{
		WorkflowID:    uuid.NewString(),
		ApplicationID: applicationID,
		Documents:     documents,
		Applicant:     applicant,
		RequestedAt:   uc.now(),
	}

	now := uc.now().UTC()
	app := &domain.Application{
		ID:            applicationID,
		WorkflowID:    req.WorkflowID,
		ApplicantName: applicant.Name,
		Status:        domain.WorkflowInitiated,
		DocumentCount: len(documents),
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("register application: %w", err)
	}

	if err := uc.queue.PublishWorkflowRequested(ctx, req); err != nil {
		return nil, fmt.Errorf("publish workflow request: %w", err)
	}
	return &req, nil
}
