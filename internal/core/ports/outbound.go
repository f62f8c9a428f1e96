package ports

import (
	"context"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// ContentExtractor converts one input file into normalized content. Partial
// content with a recorded error is valid output; only total read failure
// returns a non-nil error.
type ContentExtractor interface {
	Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedContent, error)
}

// DocumentClassifier assigns exactly one DocumentType per document.
type DocumentClassifier interface {
	Classify(filename, declaredPurpose string, content *domain.ExtractedContent) domain.DocumentType
}

// FieldExtractor turns normalized content into a typed structured record.
// Model failures surface as an error-marker record, not as a Go error.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, content *domain.ExtractedContent, docType domain.DocumentType, format domain.FileFormat) domain.StructuredRecord
}

// StructuredModel is the model boundary: a structured-output call that fills
// out, and a free-text call for narrative generation.
type StructuredModel interface {
	GenerateStructured(ctx context.Context, prompt string, out any) error
	GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// ArtifactStore persists and reads the per-application JSON artifacts.
type ArtifactStore interface {
	SaveWorkflowState(ctx context.Context, applicationID string, state *domain.WorkflowState) error
	SaveAssessment(ctx context.Context, applicationID string, result *domain.AssessmentResult) error
	SaveReport(ctx context.Context, applicationID string, report *domain.ComprehensiveReport) error
	SaveSummary(ctx context.Context, applicationID string, summary *domain.WorkflowSummary) error
	SaveApplicationStatus(ctx context.Context, applicationID string, status *domain.ApplicationStatus) error

	LoadApplicationStatus(ctx context.Context, applicationID string) (*domain.ApplicationStatus, error)
	LoadSummary(ctx context.Context, applicationID string) (*domain.WorkflowSummary, error)
	FindSummaryByWorkflowID(ctx context.Context, workflowID string) (*domain.WorkflowSummary, error)
	ListSummaries(ctx context.Context) ([]domain.WorkflowSummary, error)
}

// ApplicationRepository is the Postgres-backed application registry.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error
	UpdateOutcome(ctx context.Context, id string, status domain.WorkflowStatus, decision domain.EligibilityStatus, score float64) error
	List(ctx context.Context, limit int) ([]domain.Application, error)
}

// MessageQueue publishes/consumes workflow requests between api and worker.
type MessageQueue interface {
	PublishWorkflowRequested(ctx context.Context, req domain.WorkflowRequest) error
	SubscribeWorkflowRequested(ctx context.Context, handler func(context.Context, domain.WorkflowRequest) error) error
}

// OCREngine is an optional capability for image-only documents. Rasterize is
// used for PDFs whose text layer is empty.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
	Rasterize(ctx context.Context, pdfPath string) ([][]byte, error)
}
