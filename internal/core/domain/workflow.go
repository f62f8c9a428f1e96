package domain

import (
	"fmt"
	"time"
)

type WorkflowStatus string

const (
	WorkflowInitiated           WorkflowStatus = "initiated"
	WorkflowProcessingDocuments WorkflowStatus = "processing_documents"
	WorkflowDocumentsProcessed  WorkflowStatus = "documents_processed"
	WorkflowRunningAssessment   WorkflowStatus = "running_assessment"
	WorkflowAssessmentComplete  WorkflowStatus = "assessment_complete"
	WorkflowCompleted           WorkflowStatus = "completed"
	WorkflowFailed              WorkflowStatus = "failed"
)

// Terminal reports whether the workflow can no longer change state.
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowCompleted || s == WorkflowFailed
}

// WorkflowRequest is the queue message that asks the worker to run one
// application's pipeline.
type WorkflowRequest struct {
	WorkflowID    string          `json:"workflow_id"`
	ApplicationID string          `json:"application_id"`
	Documents     []DocumentInput `json:"documents"`
	Applicant     IntakeApplicant `json:"applicant_info"`
	RequestedAt   time.Time       `json:"requested_at"`
}

// ProcessedDocument pairs one input with its classification and extraction
// outcome. Failed entries stay in the list for audit but contribute nothing
// to the merged profile.
type ProcessedDocument struct {
	Input      DocumentInput    `json:"input"`
	Type       DocumentType     `json:"document_type"`
	Format     FileFormat       `json:"file_format"`
	Record     StructuredRecord `json:"structured_data"`
	Confidence float64          `json:"confidence_score"`
}

// WorkflowState tracks one end-to-end run. The orchestrator mutates it stage
// by stage and persists it at terminal states; after that it is never touched.
type WorkflowState struct {
	WorkflowID    string         `json:"workflow_id"`
	ApplicationID string         `json:"application_id"`
	Status        WorkflowStatus `json:"status"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time,omitempty"`
	Duration      string         `json:"duration,omitempty"`

	Documents          []DocumentInput      `json:"documents"`
	Applicant          IntakeApplicant      `json:"applicant_info"`
	ProcessedDocuments []ProcessedDocument  `json:"processed_documents"`
	Profile            *ApplicantProfile    `json:"profile,omitempty"`
	Assessment         *AssessmentResult    `json:"assessment_result,omitempty"`
	Report             *ComprehensiveReport `json:"comprehensive_report,omitempty"`

	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (w *WorkflowState) AddError(format string, args ...any) {
	w.Errors = append(w.Errors, fmt.Sprintf(format, args...))
}

func (w *WorkflowState) AddWarning(format string, args ...any) {
	w.Warnings = append(w.Warnings, fmt.Sprintf(format, args...))
}

// FormatDuration renders an elapsed time the way operators read it in the
// summary file, e.g. "1m 42s".
func FormatDuration(start, end time.Time) string {
	if end.Before(start) {
		return "N/A"
	}
	total := int(end.Sub(start).Seconds())
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// WorkflowSummary is the condensed per-run record written as summary.json.
type WorkflowSummary struct {
	ApplicationID      string            `json:"application_id"`
	WorkflowID         string            `json:"workflow_id"`
	Status             WorkflowStatus    `json:"status"`
	ApplicantName      string            `json:"applicant_name"`
	FinalDecision      EligibilityStatus `json:"final_decision"`
	OverallScore       float64           `json:"overall_score"`
	ProcessingTime     string            `json:"processing_time"`
	DocumentsProcessed int               `json:"documents_processed"`
	Errors             int               `json:"errors"`
	Warnings           int               `json:"warnings"`
}

// JudgmentSummary condenses the final decision for downstream consumers,
// preferring the comprehensive report and falling back to the assessment.
type JudgmentSummary struct {
	Decision           string   `json:"decision"`
	ConfidenceLevel    string   `json:"confidence_level"`
	RiskLevel          string   `json:"risk_level"`
	RecommendedSupport []string `json:"recommended_support_types"`
	EstimatedAmount    string   `json:"estimated_support_amount"`
	KeyFindings        []string `json:"key_findings,omitempty"`
	Conditions         []string `json:"conditions,omitempty"`
	NextSteps          []string `json:"next_steps,omitempty"`
}

// DocumentStatus is the per-document entry inside the application status record.
type DocumentStatus struct {
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// ApplicationStatus is the condensed record written as application_status.json
// and served by the status query surface.
type ApplicationStatus struct {
	ApplicationID       string                          `json:"application_id"`
	ProcessingStatus    WorkflowStatus                  `json:"processing_status"`
	WorkflowID          string                          `json:"workflow_id"`
	ProcessingTimestamp time.Time                       `json:"processing_timestamp"`
	FinalDecision       string                          `json:"final_decision"`
	OverallScore        float64                         `json:"overall_score"`
	PriorityLevel       PriorityLevel                   `json:"priority_level"`
	DocumentsProcessed  int                             `json:"documents_processed"`
	ProcessingDuration  string                          `json:"processing_duration"`
	Judgment            JudgmentSummary                 `json:"judgment_summary"`
	DocumentAnalysis    map[DocumentType]DocumentStatus `json:"document_analysis,omitempty"`
}

// Application is the registry row the intake surface persists in Postgres.
type Application struct {
	ID            string            `json:"id"`
	WorkflowID    string            `json:"workflow_id"`
	ApplicantName string            `json:"applicant_name"`
	Status        WorkflowStatus    `json:"status"`
	Decision      EligibilityStatus `json:"decision,omitempty"`
	OverallScore  float64           `json:"overall_score,omitempty"`
	DocumentCount int               `json:"document_count"`
	SubmittedAt   time.Time         `json:"submitted_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
