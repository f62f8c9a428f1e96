package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

type modelFake struct {
	text      string
	textErr   error
	panicText bool

	structuredFn func(prompt string, out any) error
	prompts      []string
}

func (f *modelFake) GenerateStructured(_ context.Context, prompt string, out any) error {
	f.prompts = append(f.prompts, prompt)
	if f.structuredFn != nil {
		return f.structuredFn(prompt, out)
	}
	return errors.New("not implemented")
}

func (f *modelFake) GenerateText(_ context.Context, prompt, _ string) (string, error) {
	if f.panicText {
		panic("model exploded")
	}
	f.prompts = append(f.prompts, prompt)
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completeProfile() *domain.ApplicantProfile {
	p := domain.NewApplicantProfile("APP-1")
	p.ApplicantInfo.Name = "Fatima Hassan"
	p.ApplicantInfo.Age = 40
	p.ApplicantInfo.Address = "Al Nahda, Dubai"
	p.IncomeInfo.AnnualIncome = 30000
	p.IncomeInfo.MonthlyIncome = 2500
	p.EmploymentInfo.CurrentStatus = "unemployed"
	p.EmploymentInfo.MonthsUnemployed = 4
	p.FamilyInfo.FamilySize = 3
	p.FamilyInfo.Dependents = 2
	p.FamilyInfo.SpecialCircumstances = []string{"single_parent"}
	p.WealthInfo.Savings = 5000
	p.WealthInfo.TotalDebts = 60000
	p.DemographicInfo.EducationLevel = "bachelor"
	return p
}

func TestAssessHighNeedApproved(t *testing.T) {
	engine := NewAssessmentEngine(&modelFake{text: "analysis"}, testLogger())
	result := engine.Assess(context.Background(), completeProfile())

	// income 30000 vs 75000*1.6 gives ratio 0.25, score 1.0
	if result.Scores.Income != 1.0 {
		t.Fatalf("income score = %v, want 1.0", result.Scores.Income)
	}
	// unemployed weight 1.0 plus 0.4 penalty, clamped to 1.0
	if result.Scores.Employment != 1.0 {
		t.Fatalf("employment score = %v, want 1.0", result.Scores.Employment)
	}
	// 2/3 dependency ratio times 0.6, plus 0.3 single parent
	if math.Abs(result.Scores.Family-0.7) > 1e-9 {
		t.Fatalf("family score = %v, want 0.7", result.Scores.Family)
	}
	// low savings, no property, high debt-to-income, negative net worth
	if result.Scores.Wealth != 1.0 {
		t.Fatalf("wealth score = %v, want 1.0", result.Scores.Wealth)
	}
	if result.Scores.Demographic != 0 {
		t.Fatalf("demographic score = %v, want 0", result.Scores.Demographic)
	}

	if math.Abs(result.OverallScore-0.905) > 1e-9 {
		t.Fatalf("overall score = %v, want 0.905", result.OverallScore)
	}
	if result.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", result.Status)
	}
	if result.PriorityLevel != domain.PriorityHigh {
		t.Fatalf("priority = %s, want high", result.PriorityLevel)
	}
	if result.RequiresHumanReview {
		t.Fatalf("expected no human review above 0.6")
	}

	want := []domain.SupportType{
		domain.SupportFinancialAssistance,
		domain.SupportEconomicEnablement,
		domain.SupportSkillDevelopment,
		domain.SupportDebtCounseling,
	}
	if len(result.RecommendedSupport) != len(want) {
		t.Fatalf("support = %v, want %v", result.RecommendedSupport, want)
	}
	for i, s := range want {
		if result.RecommendedSupport[i] != s {
			t.Fatalf("support[%d] = %s, want %s", i, result.RecommendedSupport[i], s)
		}
	}
	if result.FinalAnalysis != "analysis" {
		t.Fatalf("final analysis = %q", result.FinalAnalysis)
	}
	if result.Assessor != assessorName {
		t.Fatalf("assessor = %q", result.Assessor)
	}
}

func TestAssessMidScoreRequiresHumanReview(t *testing.T) {
	p := domain.NewApplicantProfile("APP-2")
	p.ApplicantInfo.Name = "Omar"
	p.ApplicantInfo.Age = 24
	p.ApplicantInfo.Address = "Sharjah"
	// ratio 80000 / (75000 * 1.3) sits in the moderate band
	p.IncomeInfo.AnnualIncome = 80000
	p.EmploymentInfo.CurrentStatus = "part_time"
	p.FamilyInfo.FamilySize = 2
	p.FamilyInfo.Dependents = 1
	p.WealthInfo.Savings = 5000
	p.WealthInfo.PropertyValue = 250000
	p.DemographicInfo.EducationLevel = "bachelor"

	engine := NewAssessmentEngine(&modelFake{}, testLogger())
	result := engine.Assess(context.Background(), p)

	if math.Abs(result.OverallScore-0.485) > 1e-9 {
		t.Fatalf("overall score = %v, want 0.485", result.OverallScore)
	}
	if !result.RequiresHumanReview {
		t.Fatalf("expected human review between 0.4 and 0.6")
	}
	if result.Status != domain.StatusPendingReview {
		t.Fatalf("status = %s, want pending_review", result.Status)
	}
	if result.PriorityLevel != domain.PriorityLow {
		t.Fatalf("priority = %s, want low", result.PriorityLevel)
	}
	if len(result.RecommendedSupport) != 0 {
		t.Fatalf("support = %v, want none", result.RecommendedSupport)
	}
}

func TestAssessHighIncomeRejected(t *testing.T) {
	p := domain.NewApplicantProfile("APP-3")
	p.ApplicantInfo.Name = "Khalid"
	p.ApplicantInfo.Age = 40
	p.ApplicantInfo.Address = "Abu Dhabi"
	p.IncomeInfo.AnnualIncome = 200000
	p.EmploymentInfo.CurrentStatus = "full_time"
	p.FamilyInfo.FamilySize = 1
	p.WealthInfo.Savings = 15000
	p.WealthInfo.PropertyValue = 250000
	p.DemographicInfo.EducationLevel = "master"

	engine := NewAssessmentEngine(&modelFake{}, testLogger())
	result := engine.Assess(context.Background(), p)

	if result.Scores.Wealth != 0 {
		t.Fatalf("wealth score = %v, want 0", result.Scores.Wealth)
	}
	if result.OverallScore >= 0.3 {
		t.Fatalf("overall score = %v, want below 0.3", result.OverallScore)
	}
	if result.Status != domain.StatusRejected {
		t.Fatalf("status = %s, want rejected", result.Status)
	}
	if result.RequiresHumanReview {
		t.Fatalf("expected no human review below 0.4")
	}
}

func TestAssessInsufficientData(t *testing.T) {
	p := domain.NewApplicantProfile("APP-4")
	p.ApplicantInfo.Name = "Noura"

	engine := NewAssessmentEngine(&modelFake{}, testLogger())
	result := engine.Assess(context.Background(), p)

	if result.Status != domain.StatusInsufficientData {
		t.Fatalf("status = %s, want insufficient_data", result.Status)
	}
	if len(result.MissingFields) == 0 {
		t.Fatalf("expected missing fields")
	}
	if result.PriorityLevel != domain.PriorityLow {
		t.Fatalf("priority = %s, want low", result.PriorityLevel)
	}
}

func TestAssessNarrativeFailureDegrades(t *testing.T) {
	engine := NewAssessmentEngine(&modelFake{textErr: errors.New("model down")}, testLogger())
	result := engine.Assess(context.Background(), completeProfile())

	if result.Status != domain.StatusApproved {
		t.Fatalf("status = %s, narrative failure must not change the decision", result.Status)
	}
	if result.Income.Analysis != "" || result.FinalAnalysis != "" {
		t.Fatalf("expected empty analyses on model failure")
	}
}

func TestAssessPanicDegradesToPendingReview(t *testing.T) {
	engine := NewAssessmentEngine(&modelFake{panicText: true}, testLogger())
	result := engine.Assess(context.Background(), completeProfile())

	if result.Status != domain.StatusPendingReview {
		t.Fatalf("status = %s, want pending_review", result.Status)
	}
	if result.SystemError == "" {
		t.Fatalf("expected system error to be recorded")
	}
	if !result.RequiresHumanReview {
		t.Fatalf("expected human review after a system error")
	}
}

func TestAssessEmploymentPenaltyCapped(t *testing.T) {
	p := completeProfile()
	p.EmploymentInfo.CurrentStatus = "part_time"
	p.EmploymentInfo.MonthsUnemployed = 20

	engine := NewAssessmentEngine(&modelFake{}, testLogger())
	result := engine.Assess(context.Background(), p)

	// part_time weight 0.7 plus capped penalty 0.5, clamped to 1.0
	if result.Scores.Employment != 1.0 {
		t.Fatalf("employment score = %v, want 1.0", result.Scores.Employment)
	}

	p.EmploymentInfo.MonthsUnemployed = 2
	result = engine.Assess(context.Background(), p)
	if math.Abs(result.Scores.Employment-0.9) > 1e-9 {
		t.Fatalf("employment score = %v, want 0.9", result.Scores.Employment)
	}
}

func TestAssessUnknownEmploymentStatus(t *testing.T) {
	p := completeProfile()
	p.EmploymentInfo.CurrentStatus = "gig_work"
	p.EmploymentInfo.MonthsUnemployed = 0

	engine := NewAssessmentEngine(&modelFake{}, testLogger())
	result := engine.Assess(context.Background(), p)

	if result.Scores.Employment != 0.5 {
		t.Fatalf("employment score = %v, want default 0.5", result.Scores.Employment)
	}
}
