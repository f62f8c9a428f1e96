package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
)

const reportVersion = "1.0"

// ReportBuilder produces the comprehensive decision-maker report from a
// completed assessment, plus the condensed summary and status artifacts.
type ReportBuilder struct {
	model     ports.StructuredModel
	modelName string
	logger    *slog.Logger
	now       func() time.Time
}

func NewReportBuilder(model ports.StructuredModel, modelName string, logger *slog.Logger) *ReportBuilder {
	return &ReportBuilder{
		model:     model,
		modelName: modelName,
		logger:    logger,
		now:       time.Now,
	}
}

// BuildReport asks the model for the report sections and stamps the metadata
// locally. An error here degrades to a workflow warning; the caller persists
// the judgment either way.
func (b *ReportBuilder) BuildReport(ctx context.Context, state *domain.WorkflowState) (*domain.ComprehensiveReport, error) {
	result := state.Assessment
	if result == nil {
		return nil, domain.WrapError(domain.ErrInsufficientData, "build report", fmt.Errorf("no assessment result"))
	}

	var docs strings.Builder
	for _, doc := range state.ProcessedDocuments {
		fmt.Fprintf(&docs, "- type=%s format=%s confidence=%.2f\n", doc.Type, doc.Format, doc.Confidence)
	}

	prompt := fmt.Sprintf(`Generate a comprehensive report for this financial support application workflow.

Workflow ID: %s
Processing duration: %s
Documents processed: %d
Workflow status: %s

Assessment result: applicant %q, application %s, status %s, overall score %.2f.
Category scores: income %.2f, employment %.2f, family %.2f, wealth %.2f, demographic %.2f.
Recommended support types: %s
Requires human review: %t, priority: %s

Document processing summary:
%s

Return JSON with this exact shape:
{
  "executive_summary": {"applicant_name": "", "application_id": "", "final_decision": "approved/conditionally_approved/pending_review/rejected", "overall_score": 0, "priority_level": "high/medium/low", "key_findings": [], "recommendation_summary": ""},
  "document_analysis": {"documents_processed": 0, "data_quality_score": 0, "missing_information": [], "data_confidence": "high/medium/low", "processing_notes": []},
  "assessment_breakdown": {
    "income_assessment": {"score": 0, "key_factors": [], "concerns": []},
    "employment_assessment": {"score": 0, "key_factors": [], "concerns": []},
    "family_assessment": {"score": 0, "key_factors": [], "concerns": []},
    "wealth_assessment": {"score": 0, "key_factors": [], "concerns": []},
    "demographic_assessment": {"score": 0, "key_factors": [], "concerns": []}
  },
  "recommendations": {"support_types": [], "support_amount": "", "conditions": [], "next_steps": [], "review_timeline": ""},
  "risk_assessment": {"risk_level": "low/medium/high", "risk_factors": [], "mitigation_strategies": []},
  "compliance_notes": {"regulatory_compliance": "compliant/non-compliant/needs_review", "data_privacy": "compliant/needs_attention", "audit_trail": "complete/incomplete"}
}

Provide detailed, actionable insights for decision makers.`,
		state.WorkflowID,
		state.Duration,
		len(state.ProcessedDocuments),
		state.Status,
		result.ApplicantName,
		result.ApplicationID,
		result.Status,
		result.OverallScore,
		result.Scores.Income, result.Scores.Employment, result.Scores.Family, result.Scores.Wealth, result.Scores.Demographic,
		supportTypesText(result.RecommendedSupport),
		result.RequiresHumanReview,
		result.PriorityLevel,
		docs.String(),
	)

	report := &domain.ComprehensiveReport{}
	if err := b.model.GenerateStructured(ctx, prompt, report); err != nil {
		return nil, domain.WrapError(domain.ErrModelResponse, "build report", err)
	}

	report.Metadata = domain.ReportMeta{
		GeneratedAt:        b.now(),
		WorkflowID:         state.WorkflowID,
		ProcessingDuration: state.Duration,
		Model:              b.modelName,
		ReportVersion:      reportVersion,
	}
	return report, nil
}

// BuildSummary produces the condensed per-run summary.json record.
func BuildSummary(state *domain.WorkflowState, applicationID string) *domain.WorkflowSummary {
	summary := &domain.WorkflowSummary{
		ApplicationID:      applicationID,
		WorkflowID:         state.WorkflowID,
		Status:             state.Status,
		ApplicantName:      "N/A",
		FinalDecision:      "",
		ProcessingTime:     state.Duration,
		DocumentsProcessed: len(state.ProcessedDocuments),
		Errors:             len(state.Errors),
		Warnings:           len(state.Warnings),
	}
	if state.Assessment != nil {
		if state.Assessment.ApplicantName != "" {
			summary.ApplicantName = state.Assessment.ApplicantName
		}
		summary.FinalDecision = state.Assessment.Status
		summary.OverallScore = state.Assessment.OverallScore
	}
	return summary
}

// BuildApplicationStatus derives the condensed status record, preferring the
// comprehensive report and falling back to the bare assessment result.
func BuildApplicationStatus(state *domain.WorkflowState, applicationID string, now time.Time) *domain.ApplicationStatus {
	status := &domain.ApplicationStatus{
		ApplicationID:       applicationID,
		ProcessingStatus:    state.Status,
		WorkflowID:          state.WorkflowID,
		ProcessingTimestamp: now,
		FinalDecision:       "pending",
		DocumentsProcessed:  len(state.ProcessedDocuments),
		ProcessingDuration:  state.Duration,
		PriorityLevel:       domain.PriorityMedium,
		DocumentAnalysis:    map[domain.DocumentType]domain.DocumentStatus{},
	}
	if !state.EndTime.IsZero() {
		status.ProcessingTimestamp = state.EndTime
	}

	for _, doc := range state.ProcessedDocuments {
		status.DocumentAnalysis[doc.Type] = domain.DocumentStatus{
			Status:     "processed",
			Confidence: doc.Confidence,
		}
	}

	result := state.Assessment
	if result != nil {
		status.OverallScore = result.OverallScore
		status.PriorityLevel = result.PriorityLevel
	}

	if report := state.Report; report != nil {
		status.Judgment = domain.JudgmentSummary{
			Decision:           report.ExecutiveSummary.FinalDecision,
			ConfidenceLevel:    valueOr(report.DocumentAnalysis.DataConfidence, "medium"),
			RiskLevel:          valueOr(report.RiskAssessment.RiskLevel, "medium"),
			RecommendedSupport: report.Recommendations.SupportTypes,
			EstimatedAmount:    valueOr(report.Recommendations.SupportAmount, "To be determined"),
			KeyFindings:        report.ExecutiveSummary.KeyFindings,
			Conditions:         report.Recommendations.Conditions,
			NextSteps:          report.Recommendations.NextSteps,
		}
	} else if result != nil {
		status.Judgment = domain.JudgmentSummary{
			Decision:           string(result.Status),
			ConfidenceLevel:    "medium",
			RiskLevel:          string(result.PriorityLevel),
			RecommendedSupport: supportTypeStrings(result.RecommendedSupport),
			EstimatedAmount:    "To be determined",
		}
	}
	if status.Judgment.Decision != "" {
		status.FinalDecision = status.Judgment.Decision
	}
	return status
}

func supportTypesText(types []domain.SupportType) string {
	if len(types) == 0 {
		return "(none)"
	}
	return strings.Join(supportTypeStrings(types), ", ")
}

func supportTypeStrings(types []domain.SupportType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
