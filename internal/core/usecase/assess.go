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

const (
	moderateIncomeThreshold = 75000

	savingsThreshold       = 10000
	propertyValueThreshold = 200000
	debtToIncomeThreshold  = 0.4

	assessorName = "Assessment Engine v1.0"
)

var familySizeMultipliers = map[int]float64{
	1: 1.0,
	2: 1.3,
	3: 1.6,
	4: 1.9,
	5: 2.2,
}

const largeFamilyMultiplier = 2.5

var employmentStabilityWeights = map[string]float64{
	"unemployed":    1.0,
	"part_time":     0.7,
	"temporary":     0.6,
	"self_employed": 0.5,
	"full_time":     0.3,
}

type scoreWeights struct {
	income, employment, family, wealth, demographic float64
}

var overallWeights = scoreWeights{
	income:      0.35,
	employment:  0.30,
	family:      0.15,
	wealth:      0.15,
	demographic: 0.05,
}

// AssessmentEngine scores a merged profile and produces the eligibility
// judgment. The numeric policy is deterministic; the model only contributes
// narrative text and its failures degrade to empty analyses.
type AssessmentEngine struct {
	model  ports.StructuredModel
	logger *slog.Logger
	now    func() time.Time
}

func NewAssessmentEngine(model ports.StructuredModel, logger *slog.Logger) *AssessmentEngine {
	return &AssessmentEngine{
		model:  model,
		logger: logger,
		now:    time.Now,
	}
}

// Assess runs the five sub-assessments and combines them. It never returns a
// Go error for scoring problems: insufficient data and unexpected failures
// both surface as statuses on the result.
func (e *AssessmentEngine) Assess(ctx context.Context, profile *domain.ApplicantProfile) (result *domain.AssessmentResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("assessment panicked, degrading to pending review", "panic", fmt.Sprint(r))
			result = &domain.AssessmentResult{
				ApplicationID:       profile.ApplicationID,
				ApplicantName:       applicantName(profile),
				Status:              domain.StatusPendingReview,
				SystemError:         fmt.Sprintf("assessment error: %v", r),
				RequiresHumanReview: true,
				PriorityLevel:       domain.PriorityMedium,
				AssessmentDate:      e.now(),
				Assessor:            assessorName,
			}
		}
	}()

	if missing := e.missingGroups(profile); len(missing) > 0 {
		return &domain.AssessmentResult{
			ApplicationID:  profile.ApplicationID,
			ApplicantName:  applicantName(profile),
			Status:         domain.StatusInsufficientData,
			MissingFields:  missing,
			PriorityLevel:  domain.PriorityLow,
			AssessmentDate: e.now(),
			Assessor:       assessorName,
		}
	}

	income := e.assessIncome(ctx, profile)
	employment := e.assessEmployment(ctx, profile)
	family := e.assessFamily(ctx, profile)
	wealth := e.assessWealth(ctx, profile)
	demographic := e.assessDemographic(ctx, profile)

	scores := domain.CategoryScores{
		Income:      income.Score,
		Employment:  employment.Score,
		Family:      family.Score,
		Wealth:      wealth.Score,
		Demographic: demographic.Score,
	}
	overall := overallWeights.income*scores.Income +
		overallWeights.employment*scores.Employment +
		overallWeights.family*scores.Family +
		overallWeights.wealth*scores.Wealth +
		overallWeights.demographic*scores.Demographic

	status := preliminaryStatus(overall)
	if overall < 0.3 {
		status = domain.StatusRejected
	} else if overall >= 0.8 {
		status = domain.StatusApproved
	}

	support := recommendedSupport(overall, profile)

	result = &domain.AssessmentResult{
		ApplicationID:       profile.ApplicationID,
		ApplicantName:       applicantName(profile),
		Status:              status,
		OverallScore:        overall,
		Scores:              scores,
		Income:              income,
		Employment:          employment,
		Family:              family,
		Wealth:              wealth,
		Demographic:         demographic,
		RecommendedSupport:  support,
		RequiresHumanReview: overall >= 0.4 && overall <= 0.6,
		PriorityLevel:       priorityLevel(overall),
		AssessmentDate:      e.now(),
		Assessor:            assessorName,
	}
	result.FinalAnalysis = e.finalAnalysis(ctx, profile, result)
	return result
}

func (e *AssessmentEngine) missingGroups(p *domain.ApplicantProfile) []string {
	var missing []string
	if p.ApplicantInfo.Name == "" {
		missing = append(missing, "applicant_info.name")
	}
	if p.ApplicantInfo.Age == 0 {
		missing = append(missing, "applicant_info.age")
	}
	if p.ApplicantInfo.Address == "" {
		missing = append(missing, "applicant_info.address")
	}
	if p.IncomeInfo.AnnualIncome == 0 && p.IncomeInfo.MonthlyIncome == 0 && len(p.IncomeInfo.IncomeSources) == 0 {
		missing = append(missing, "income_info")
	}
	if p.EmploymentInfo.CurrentStatus == "" {
		missing = append(missing, "employment_info")
	}
	if p.FamilyInfo.FamilySize == 0 {
		missing = append(missing, "family_info")
	}
	return missing
}

func (e *AssessmentEngine) assessIncome(ctx context.Context, p *domain.ApplicantProfile) domain.IncomeAssessment {
	annualIncome := p.IncomeInfo.AnnualIncome
	familySize := p.FamilyInfo.FamilySize
	if familySize < 1 {
		familySize = 1
	}

	multiplier := largeFamilyMultiplier
	if m, ok := familySizeMultipliers[familySize]; ok {
		multiplier = m
	}
	adjusted := moderateIncomeThreshold * multiplier

	var ratio float64
	if adjusted > 0 {
		ratio = annualIncome / adjusted
	}

	var score float64
	var level string
	switch {
	case ratio <= 0.4:
		score, level = 1.0, "very_low"
	case ratio <= 0.7:
		score, level = 0.8, "low"
	case ratio <= 1.0:
		score, level = 0.5, "moderate"
	default:
		score, level = 0.2, "high"
	}

	return domain.IncomeAssessment{
		Score:             score,
		AnnualIncome:      annualIncome,
		AdjustedThreshold: adjusted,
		IncomeRatio:       ratio,
		Level:             level,
		MeetsCriteria:     score >= 0.5,
		Analysis: e.narrative(ctx, fmt.Sprintf(
			"Analyze income eligibility. Annual income AED %.0f, family size %d, adjusted threshold AED %.0f, income ratio %.2f. Cover income adequacy, comparison to support guidelines, sustainability concerns and recommendations.",
			annualIncome, familySize, adjusted, ratio)),
	}
}

func (e *AssessmentEngine) assessEmployment(ctx context.Context, p *domain.ApplicantProfile) domain.EmploymentAssessment {
	status := p.EmploymentInfo.CurrentStatus
	months := p.EmploymentInfo.MonthsUnemployed

	weight, ok := employmentStabilityWeights[status]
	if !ok {
		weight = 0.5
	}
	var penalty float64
	if months > 0 {
		penalty = months * 0.1
		if penalty > 0.5 {
			penalty = 0.5
		}
	}
	score := clamp01(weight + penalty)

	return domain.EmploymentAssessment{
		Score:            score,
		CurrentStatus:    status,
		MonthsUnemployed: months,
		SupportNeeded:    score > 0.6,
		Analysis: e.narrative(ctx, fmt.Sprintf(
			"Assess the employment situation. Current status %q, months unemployed %.0f, %d history entries, %.1f years of experience. Cover stability, skills, barriers to employment and support recommendations.",
			status, months, len(p.EmploymentInfo.History), p.EmploymentInfo.TotalExperienceYears)),
	}
}

func (e *AssessmentEngine) assessFamily(ctx context.Context, p *domain.ApplicantProfile) domain.FamilyAssessment {
	familySize := p.FamilyInfo.FamilySize
	dependents := p.FamilyInfo.Dependents
	circumstances := p.FamilyInfo.SpecialCircumstances

	var ratio float64
	if familySize > 0 {
		ratio = float64(dependents) / float64(familySize)
	}
	score := ratio * 0.6
	if containsString(circumstances, "single_parent") {
		score += 0.3
	}
	if containsString(circumstances, "elderly_care") {
		score += 0.2
	}
	if containsString(circumstances, "disabled_member") {
		score += 0.4
	}
	score = clamp01(score)

	return domain.FamilyAssessment{
		Score:           score,
		FamilySize:      familySize,
		Dependents:      dependents,
		DependencyRatio: ratio,
		Circumstances:   circumstances,
		HighNeed:        score > 0.6,
		Analysis: e.narrative(ctx, fmt.Sprintf(
			"Analyze the family situation. Family size %d, dependents %d, marital status %q, special circumstances %v, dependency ratio %.2f. Cover support needs, impact of dependents and recommended support types.",
			familySize, dependents, p.FamilyInfo.MaritalStatus, circumstances, ratio)),
	}
}

func (e *AssessmentEngine) assessWealth(ctx context.Context, p *domain.ApplicantProfile) domain.WealthAssessment {
	savings := p.WealthInfo.Savings
	propertyValue := p.WealthInfo.PropertyValue
	debts := p.WealthInfo.TotalDebts
	annualIncome := p.IncomeInfo.AnnualIncome

	netWorth := savings + propertyValue - debts
	var dti float64
	if annualIncome > 0 {
		dti = debts / annualIncome
	}

	var score float64
	if savings < savingsThreshold {
		score += 0.3
	}
	if propertyValue < propertyValueThreshold {
		score += 0.2
	}
	if dti > debtToIncomeThreshold {
		score += 0.4
	}
	if netWorth < 0 {
		score += 0.3
	}
	score = clamp01(score)

	return domain.WealthAssessment{
		Score:           score,
		Savings:         savings,
		PropertyValue:   propertyValue,
		TotalDebts:      debts,
		NetWorth:        netWorth,
		DebtToIncome:    dti,
		FinancialStress: score > 0.6,
		NeedsCounseling: dti > 0.5,
		Analysis: e.narrative(ctx, fmt.Sprintf(
			"Evaluate wealth and assets. Savings AED %.0f, property value AED %.0f, total debts AED %.0f, net worth AED %.0f, debt-to-income ratio %.2f. Cover financial stability, debt burden and long-term sustainability.",
			savings, propertyValue, debts, netWorth, dti)),
	}
}

func (e *AssessmentEngine) assessDemographic(ctx context.Context, p *domain.ApplicantProfile) domain.DemographicAssessment {
	age := p.ApplicantInfo.Age
	education := p.DemographicInfo.EducationLevel

	var score float64
	var factors []string
	if age >= 65 {
		score += 0.3
		factors = append(factors, "elderly")
	}
	if age <= 25 {
		score += 0.2
		factors = append(factors, "young_adult")
	}
	if p.DemographicInfo.DisabilityStatus {
		score += 0.4
		factors = append(factors, "disabled")
	}
	if p.DemographicInfo.VeteranStatus {
		score += 0.3
		factors = append(factors, "veteran")
	}
	if education == "high_school" || education == "less_than_high_school" {
		score += 0.2
		factors = append(factors, "limited_education")
	}
	score = clamp01(score)

	return domain.DemographicAssessment{
		Score:            score,
		Age:              age,
		PriorityFactors:  factors,
		DisabilityStatus: p.DemographicInfo.DisabilityStatus,
		VeteranStatus:    p.DemographicInfo.VeteranStatus,
		NeedsSpecialized: score > 0.5,
		Analysis: e.narrative(ctx, fmt.Sprintf(
			"Analyze the demographic profile. Age %d, education level %q, priority factors %v. Cover barriers to economic opportunity, special program eligibilities and targeted support services.",
			age, education, factors)),
	}
}

func (e *AssessmentEngine) finalAnalysis(ctx context.Context, p *domain.ApplicantProfile, r *domain.AssessmentResult) string {
	name := r.ApplicantName
	if name == "" {
		name = "the applicant"
	}
	supports := make([]string, 0, len(r.RecommendedSupport))
	for _, s := range r.RecommendedSupport {
		supports = append(supports, string(s))
	}
	return e.narrative(ctx, fmt.Sprintf(
		"Generate the final recommendation for applicant %q. Overall score %.2f, status %s, recommended support types: %s. Provide the eligibility determination with reasoning, support level recommendations, conditions for approval, implementation timeline and alternative resources if not approved. Refer to the applicant by name.",
		name, r.OverallScore, r.Status, strings.Join(supports, ", ")))
}

// narrative asks the model for analysis text. A failed call degrades to an
// empty analysis; the numeric scores are never affected.
func (e *AssessmentEngine) narrative(ctx context.Context, prompt string) string {
	if e.model == nil {
		return ""
	}
	text, err := e.model.GenerateText(ctx, prompt, assessmentSystemPrompt)
	if err != nil {
		e.logger.Warn("narrative generation failed", "error", err)
		return ""
	}
	return text
}

const assessmentSystemPrompt = "You are a social support assessment analyst for a UAE government benefits program. " +
	"Write concise, factual analysis for caseworkers. Base every statement on the figures provided."

func preliminaryStatus(score float64) domain.EligibilityStatus {
	switch {
	case score >= 0.8:
		return domain.StatusApproved
	case score >= 0.49:
		return domain.StatusConditionallyApproved
	case score >= 0.4:
		return domain.StatusPendingReview
	default:
		return domain.StatusRejected
	}
}

func priorityLevel(score float64) domain.PriorityLevel {
	switch {
	case score >= 0.8:
		return domain.PriorityHigh
	case score >= 0.5:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func recommendedSupport(score float64, p *domain.ApplicantProfile) []domain.SupportType {
	var support []domain.SupportType
	if score >= 0.7 {
		support = append(support, domain.SupportFinancialAssistance, domain.SupportEconomicEnablement)
	} else if score >= 0.5 {
		support = append(support, domain.SupportEconomicEnablement)
	}
	if p.EmploymentInfo.CurrentStatus == "unemployed" {
		support = append(support, domain.SupportSkillDevelopment)
	}
	if p.WealthInfo.TotalDebts > 50000 {
		support = append(support, domain.SupportDebtCounseling)
	}
	return support
}

func applicantName(p *domain.ApplicantProfile) string {
	return p.ApplicantInfo.Name
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
