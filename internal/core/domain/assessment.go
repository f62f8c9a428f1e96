package domain

import "time"

type EligibilityStatus string

const (
	StatusApproved              EligibilityStatus = "approved"
	StatusConditionallyApproved EligibilityStatus = "conditionally_approved"
	StatusPendingReview         EligibilityStatus = "pending_review"
	StatusRejected              EligibilityStatus = "rejected"
	StatusInsufficientData      EligibilityStatus = "insufficient_data"
)

type SupportType string

const (
	SupportFinancialAssistance SupportType = "financial_assistance"
	SupportEconomicEnablement  SupportType = "economic_enablement"
	SupportSkillDevelopment    SupportType = "skill_development"
	SupportDebtCounseling      SupportType = "debt_counseling"
)

type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
)

// CategoryScores holds the five sub-scores that feed the weighted overall.
type CategoryScores struct {
	Income      float64 `json:"income"`
	Employment  float64 `json:"employment"`
	Family      float64 `json:"family"`
	Wealth      float64 `json:"wealth"`
	Demographic float64 `json:"demographic"`
}

// IncomeAssessment scores household income against a family-size-adjusted
// threshold. The numbers are the binding policy; Analysis is advisory text.
type IncomeAssessment struct {
	Score             float64 `json:"score"`
	AnnualIncome      float64 `json:"annual_income"`
	AdjustedThreshold float64 `json:"adjusted_threshold"`
	IncomeRatio       float64 `json:"income_ratio"`
	Level             string  `json:"income_level"`
	MeetsCriteria     bool    `json:"meets_criteria"`
	Analysis          string  `json:"analysis,omitempty"`
}

type EmploymentAssessment struct {
	Score            float64 `json:"score"`
	CurrentStatus    string  `json:"current_status"`
	MonthsUnemployed float64 `json:"months_unemployed"`
	SupportNeeded    bool    `json:"support_needed"`
	Analysis         string  `json:"analysis,omitempty"`
}

type FamilyAssessment struct {
	Score           float64  `json:"score"`
	FamilySize      int      `json:"family_size"`
	Dependents      int      `json:"dependents"`
	DependencyRatio float64  `json:"dependency_ratio"`
	Circumstances   []string `json:"special_circumstances,omitempty"`
	HighNeed        bool     `json:"high_need"`
	Analysis        string   `json:"analysis,omitempty"`
}

type WealthAssessment struct {
	Score            float64 `json:"score"`
	Savings          float64 `json:"savings"`
	PropertyValue    float64 `json:"property_value"`
	TotalDebts       float64 `json:"total_debts"`
	NetWorth         float64 `json:"net_worth"`
	DebtToIncome     float64 `json:"debt_to_income_ratio"`
	FinancialStress  bool    `json:"financial_stress"`
	NeedsCounseling  bool    `json:"needs_financial_counseling"`
	Analysis         string  `json:"analysis,omitempty"`
}

type DemographicAssessment struct {
	Score            float64  `json:"score"`
	Age              int      `json:"age"`
	PriorityFactors  []string `json:"priority_factors,omitempty"`
	DisabilityStatus bool     `json:"disability_status"`
	VeteranStatus    bool     `json:"veteran_status"`
	NeedsSpecialized bool     `json:"needs_specialized_support"`
	Analysis         string   `json:"analysis,omitempty"`
}

// AssessmentResult is the immutable outcome of one assessment pass. A rerun
// produces a new value; nothing revises an existing one in place.
type AssessmentResult struct {
	ApplicationID string            `json:"application_id"`
	ApplicantName string            `json:"applicant_name"`
	Status        EligibilityStatus `json:"status"`
	OverallScore  float64           `json:"overall_score"`
	Scores        CategoryScores    `json:"individual_assessments"`

	Income      IncomeAssessment      `json:"income_assessment"`
	Employment  EmploymentAssessment  `json:"employment_assessment"`
	Family      FamilyAssessment      `json:"family_assessment"`
	Wealth      WealthAssessment      `json:"wealth_assessment"`
	Demographic DemographicAssessment `json:"demographic_assessment"`

	RecommendedSupport  []SupportType `json:"recommended_support_types"`
	FinalAnalysis       string        `json:"final_analysis,omitempty"`
	RequiresHumanReview bool          `json:"requires_human_review"`
	PriorityLevel       PriorityLevel `json:"priority_level"`
	MissingFields       []string      `json:"missing_fields,omitempty"`
	SystemError         string        `json:"system_error,omitempty"`
	AssessmentDate      time.Time     `json:"assessment_date"`
	Assessor            string        `json:"assessor"`
}

// ComprehensiveReport is the decision-maker report generated after assessment.
// Its sections come from a structured model call; Metadata is filled locally.
type ComprehensiveReport struct {
	ExecutiveSummary    ExecutiveSummary    `json:"executive_summary"`
	DocumentAnalysis    DocumentAnalysis    `json:"document_analysis"`
	AssessmentBreakdown AssessmentBreakdown `json:"assessment_breakdown"`
	Recommendations     Recommendations     `json:"recommendations"`
	RiskAssessment      RiskAssessment      `json:"risk_assessment"`
	ComplianceNotes     ComplianceNotes     `json:"compliance_notes"`
	Metadata            ReportMeta          `json:"report_metadata"`
}

type ExecutiveSummary struct {
	ApplicantName         string   `json:"applicant_name"`
	ApplicationID         string   `json:"application_id"`
	FinalDecision         string   `json:"final_decision"`
	OverallScore          float64  `json:"overall_score"`
	PriorityLevel         string   `json:"priority_level"`
	KeyFindings           []string `json:"key_findings,omitempty"`
	RecommendationSummary string   `json:"recommendation_summary,omitempty"`
}

type DocumentAnalysis struct {
	DocumentsProcessed int      `json:"documents_processed"`
	DataQualityScore   float64  `json:"data_quality_score"`
	MissingInformation []string `json:"missing_information,omitempty"`
	DataConfidence     string   `json:"data_confidence,omitempty"`
	ProcessingNotes    []string `json:"processing_notes,omitempty"`
}

type CategoryBreakdown struct {
	Score      float64  `json:"score"`
	KeyFactors []string `json:"key_factors,omitempty"`
	Concerns   []string `json:"concerns,omitempty"`
}

type AssessmentBreakdown struct {
	Income      CategoryBreakdown `json:"income_assessment"`
	Employment  CategoryBreakdown `json:"employment_assessment"`
	Family      CategoryBreakdown `json:"family_assessment"`
	Wealth      CategoryBreakdown `json:"wealth_assessment"`
	Demographic CategoryBreakdown `json:"demographic_assessment"`
}

type Recommendations struct {
	SupportTypes   []string `json:"support_types,omitempty"`
	SupportAmount  string   `json:"support_amount,omitempty"`
	Conditions     []string `json:"conditions,omitempty"`
	NextSteps      []string `json:"next_steps,omitempty"`
	ReviewTimeline string   `json:"review_timeline,omitempty"`
}

type RiskAssessment struct {
	RiskLevel            string   `json:"risk_level,omitempty"`
	RiskFactors          []string `json:"risk_factors,omitempty"`
	MitigationStrategies []string `json:"mitigation_strategies,omitempty"`
}

type ComplianceNotes struct {
	RegulatoryCompliance string `json:"regulatory_compliance,omitempty"`
	DataPrivacy          string `json:"data_privacy,omitempty"`
	AuditTrail           string `json:"audit_trail,omitempty"`
}

type ReportMeta struct {
	GeneratedAt        time.Time `json:"generated_at"`
	WorkflowID         string    `json:"workflow_id"`
	ProcessingDuration string    `json:"processing_duration"`
	Model              string    `json:"ai_model"`
	ReportVersion      string    `json:"report_version"`
}
