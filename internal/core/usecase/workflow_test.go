package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

type wfExtractorFake struct {
	mu     sync.Mutex
	calls  int
	errFor map[string]error
}

func (f *wfExtractorFake) Extract(_ context.Context, doc domain.RawDocument) (*domain.ExtractedContent, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errFor[doc.Filename]; ok {
		return nil, err
	}
	return &domain.ExtractedContent{Text: "content of " + doc.Filename}, nil
}

type wfClassifierFake struct{}

func (wfClassifierFake) Classify(_, declaredPurpose string, _ *domain.ExtractedContent) domain.DocumentType {
	if declaredPurpose == "" {
		return domain.TypeUnknown
	}
	return domain.DocumentType(declaredPurpose)
}

type wfFieldsFake struct {
	mu      sync.Mutex
	failAll bool
	types   []domain.DocumentType
}

func (f *wfFieldsFake) ExtractFields(_ context.Context, _ *domain.ExtractedContent, docType domain.DocumentType, format domain.FileFormat) domain.StructuredRecord {
	f.mu.Lock()
	f.types = append(f.types, docType)
	f.mu.Unlock()
	if f.failAll {
		return domain.ErrorRecord(docType, format, "model unavailable", "")
	}
	if docType == domain.TypeEmiratesID {
		return domain.StructuredRecord{
			Type:       docType,
			Format:     format,
			Confidence: 0.95,
			EmiratesID: &domain.EmiratesIDRecord{
				PersonalInfo: domain.IdentityPersonalInfo{
					FullName:    "Fatima Hassan",
					DateOfBirth: "1986-06-01",
					Nationality: "UAE",
					IDNumber:    "784-1986-1234567-1",
				},
				AddressInfo: domain.AddressInfo{FullAddress: "Al Nahda, Dubai", Emirate: "Dubai"},
			},
		}
	}
	return domain.StructuredRecord{
		Type:       docType,
		Format:     format,
		Confidence: 0.7,
		Generic:    &domain.GenericRecord{Classification: string(docType)},
	}
}

type artifactStoreFake struct {
	states      map[string]*domain.WorkflowState
	assessments map[string]*domain.AssessmentResult
	reports     map[string]*domain.ComprehensiveReport
	summaries   map[string]*domain.WorkflowSummary
	statuses    map[string]*domain.ApplicationStatus
	saveErr     error
}

func newArtifactStoreFake() *artifactStoreFake {
	return &artifactStoreFake{
		states:      map[string]*domain.WorkflowState{},
		assessments: map[string]*domain.AssessmentResult{},
		reports:     map[string]*domain.ComprehensiveReport{},
		summaries:   map[string]*domain.WorkflowSummary{},
		statuses:    map[string]*domain.ApplicationStatus{},
	}
}

func (f *artifactStoreFake) SaveWorkflowState(_ context.Context, id string, state *domain.WorkflowState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.states[id] = state
	return nil
}

func (f *artifactStoreFake) SaveAssessment(_ context.Context, id string, result *domain.AssessmentResult) error {
	f.assessments[id] = result
	return nil
}

func (f *artifactStoreFake) SaveReport(_ context.Context, id string, report *domain.ComprehensiveReport) error {
	f.reports[id] = report
	return nil
}

func (f *artifactStoreFake) SaveSummary(_ context.Context, id string, summary *domain.WorkflowSummary) error {
	f.summaries[id] = summary
	return nil
}

func (f *artifactStoreFake) SaveApplicationStatus(_ context.Context, id string, status *domain.ApplicationStatus) error {
	f.statuses[id] = status
	return nil
}

func (f *artifactStoreFake) LoadApplicationStatus(_ context.Context, id string) (*domain.ApplicationStatus, error) {
	status, ok := f.statuses[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrApplicationNotFound, "read artifact", errors.New(id))
	}
	return status, nil
}

func (f *artifactStoreFake) LoadSummary(_ context.Context, id string) (*domain.WorkflowSummary, error) {
	summary, ok := f.summaries[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrApplicationNotFound, "read artifact", errors.New(id))
	}
	return summary, nil
}

func (f *artifactStoreFake) FindSummaryByWorkflowID(_ context.Context, workflowID string) (*domain.WorkflowSummary, error) {
	for _, s := range f.summaries {
		if s.WorkflowID == workflowID {
			return s, nil
		}
	}
	return nil, domain.WrapError(domain.ErrApplicationNotFound, "find summary", errors.New(workflowID))
}

func (f *artifactStoreFake) ListSummaries(context.Context) ([]domain.WorkflowSummary, error) {
	var out []domain.WorkflowSummary
	for _, s := range f.summaries {
		out = append(out, *s)
	}
	return out, nil
}

type registryFake struct {
	statuses []domain.WorkflowStatus
	outcome  *domain.Application
}

func (f *registryFake) Create(context.Context, *domain.Application) error { return nil }
func (f *registryFake) GetByID(context.Context, string) (*domain.Application, error) {
	return nil, errors.New("not implemented")
}
func (f *registryFake) UpdateStatus(_ context.Context, _ string, status domain.WorkflowStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}
func (f *registryFake) UpdateOutcome(_ context.Context, id string, status domain.WorkflowStatus, decision domain.EligibilityStatus, score float64) error {
	f.outcome = &domain.Application{ID: id, Status: status, Decision: decision, OverallScore: score}
	return nil
}
func (f *registryFake) List(context.Context, int) ([]domain.Application, error) { return nil, nil }

func reportingModel() *modelFake {
	return &modelFake{
		text: "analysis",
		structuredFn: func(_ string, out any) error {
			report, ok := out.(*domain.ComprehensiveReport)
			if !ok {
				return errors.New("unexpected output type")
			}
			report.ExecutiveSummary.FinalDecision = "approved"
			report.RiskAssessment.RiskLevel = "low"
			report.Recommendations.SupportAmount = "AED 2500/month"
			return nil
		},
	}
}

func newTestWorkflow(extractor *wfExtractorFake, fields *wfFieldsFake, store *artifactStoreFake, repo *registryFake, model *modelFake) *WorkflowUseCase {
	return NewWorkflowUseCase(
		extractor,
		wfClassifierFake{},
		fields,
		NewProfileMerger(),
		NewAssessmentEngine(model, testLogger()),
		NewReportBuilder(model, "test-model", testLogger()),
		store,
		repo,
		testLogger(),
		WorkflowConfig{},
	)
}

func workflowRequest(t *testing.T) domain.WorkflowRequest {
	dir := t.TempDir()
	return domain.WorkflowRequest{
		WorkflowID:    "wf-1",
		ApplicationID: "APP-1",
		Documents: []domain.DocumentInput{
			{FilePath: writeTempFile(t, dir, "id.pdf", "%PDF-1.4"), Purpose: "emirates_id"},
			{FilePath: writeTempFile(t, dir, "statement.txt", "transactions"), Purpose: "bank_statement"},
		},
		Applicant: domain.IntakeApplicant{FamilySize: 3, Dependents: 2},
	}
}

func TestWorkflowExecuteHappyPath(t *testing.T) {
	extractor := &wfExtractorFake{}
	fields := &wfFieldsFake{}
	store := newArtifactStoreFake()
	repo := &registryFake{}
	uc := newTestWorkflow(extractor, fields, store, repo, reportingModel())

	state, err := uc.Execute(context.Background(), workflowRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if state.Status != domain.WorkflowCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	if len(state.ProcessedDocuments) != 2 {
		t.Fatalf("processed = %d, want 2", len(state.ProcessedDocuments))
	}
	if state.Assessment == nil {
		t.Fatalf("expected assessment result")
	}
	if state.Profile == nil || state.Profile.ApplicantInfo.Name != "Fatima Hassan" {
		t.Fatalf("profile = %+v", state.Profile)
	}
	if state.Report == nil {
		t.Fatalf("expected comprehensive report")
	}
	if state.Report.Metadata.Model != "test-model" {
		t.Fatalf("report model = %q", state.Report.Metadata.Model)
	}
	if state.Duration == "" || state.EndTime.IsZero() {
		t.Fatalf("expected finished timing, duration = %q", state.Duration)
	}

	if store.states["APP-1"] == nil || store.assessments["APP-1"] == nil ||
		store.reports["APP-1"] == nil || store.summaries["APP-1"] == nil || store.statuses["APP-1"] == nil {
		t.Fatalf("expected all artifacts persisted")
	}
	if store.statuses["APP-1"].Judgment.Decision != "approved" {
		t.Fatalf("judgment = %+v", store.statuses["APP-1"].Judgment)
	}
	if repo.outcome == nil || repo.outcome.Status != domain.WorkflowCompleted {
		t.Fatalf("registry outcome = %+v", repo.outcome)
	}
}

func TestWorkflowExecuteFailsValidationBeforeExtraction(t *testing.T) {
	dir := t.TempDir()
	extractor := &wfExtractorFake{}
	store := newArtifactStoreFake()
	uc := newTestWorkflow(extractor, &wfFieldsFake{}, store, &registryFake{}, reportingModel())

	state, err := uc.Execute(context.Background(), domain.WorkflowRequest{
		WorkflowID:    "wf-2",
		ApplicationID: "APP-2",
		Documents: []domain.DocumentInput{
			{FilePath: writeTempFile(t, dir, "resume.pdf", "%PDF-1.4"), Purpose: "resume"},
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if state.Status != domain.WorkflowFailed {
		t.Fatalf("status = %s, want failed", state.Status)
	}
	if len(state.Errors) == 0 {
		t.Fatalf("expected validation errors")
	}
	if extractor.calls != 0 {
		t.Fatalf("extractor ran %d times, validation must gate it", extractor.calls)
	}
	if state.Assessment != nil {
		t.Fatalf("assessment must not run on failed validation")
	}
	if store.states["APP-2"] == nil || store.summaries["APP-2"] == nil {
		t.Fatalf("failed workflow must still persist state and summary")
	}
}

func TestWorkflowExecuteModelFailuresDoNotAbort(t *testing.T) {
	fields := &wfFieldsFake{failAll: true}
	store := newArtifactStoreFake()
	uc := newTestWorkflow(&wfExtractorFake{}, fields, store, &registryFake{}, reportingModel())

	state, err := uc.Execute(context.Background(), workflowRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if state.Status == domain.WorkflowFailed {
		t.Fatalf("status = %s, model failures alone must not fail the run", state.Status)
	}
	if len(state.ProcessedDocuments) != 2 {
		t.Fatalf("processed = %d, error-marker documents still count as processed", len(state.ProcessedDocuments))
	}
	if state.Assessment == nil || state.Assessment.Status != domain.StatusInsufficientData {
		t.Fatalf("assessment = %+v, want insufficient data on an empty profile", state.Assessment)
	}
	warnings := 0
	for _, w := range state.Warnings {
		if strings.Contains(w, "field extraction failed") {
			warnings++
		}
	}
	if warnings != 2 {
		t.Fatalf("warnings = %v, want one per error-marker record", state.Warnings)
	}
}

func TestWorkflowExecuteAllExtractionsFail(t *testing.T) {
	extractor := &wfExtractorFake{errFor: map[string]error{
		"id.pdf":        errors.New("unreadable"),
		"statement.txt": errors.New("unreadable"),
	}}
	store := newArtifactStoreFake()
	uc := newTestWorkflow(extractor, &wfFieldsFake{}, store, &registryFake{}, reportingModel())

	state, err := uc.Execute(context.Background(), workflowRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if state.Status != domain.WorkflowFailed {
		t.Fatalf("status = %s, want failed", state.Status)
	}
	found := false
	for _, e := range state.Errors {
		if strings.Contains(e, "no documents were successfully processed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v", state.Errors)
	}
	if state.Assessment != nil {
		t.Fatalf("assessment must not run when nothing was extracted")
	}
}

func TestWorkflowExecutePartialFailureCompletes(t *testing.T) {
	extractor := &wfExtractorFake{errFor: map[string]error{
		"statement.txt": errors.New("corrupt file"),
	}}
	store := newArtifactStoreFake()
	uc := newTestWorkflow(extractor, &wfFieldsFake{}, store, &registryFake{}, reportingModel())

	state, err := uc.Execute(context.Background(), workflowRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if state.Status != domain.WorkflowCompleted {
		t.Fatalf("status = %s, one good document should complete", state.Status)
	}
	if len(state.ProcessedDocuments) != 2 {
		t.Fatalf("processed = %d, failed entries must stay for audit", len(state.ProcessedDocuments))
	}
	if !state.ProcessedDocuments[1].Record.Failed() {
		t.Fatalf("expected second document to carry the error marker")
	}
	if len(state.Errors) != 1 || !strings.Contains(state.Errors[0], "corrupt file") {
		t.Fatalf("errors = %v", state.Errors)
	}
}

func TestWorkflowExecuteReportFailureIsWarning(t *testing.T) {
	model := &modelFake{
		text: "analysis",
		structuredFn: func(string, any) error {
			return errors.New("model timeout")
		},
	}
	store := newArtifactStoreFake()
	uc := newTestWorkflow(&wfExtractorFake{}, &wfFieldsFake{}, store, &registryFake{}, model)

	state, err := uc.Execute(context.Background(), workflowRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if state.Status != domain.WorkflowCompleted {
		t.Fatalf("status = %s, report failure must not fail the workflow", state.Status)
	}
	if state.Report != nil {
		t.Fatalf("expected no report")
	}
	if len(state.Warnings) == 0 {
		t.Fatalf("expected report warning")
	}
	if store.statuses["APP-1"].Judgment.Decision == "" {
		t.Fatalf("status must fall back to the assessment judgment")
	}
}

func TestWorkflowExecutePersistErrorSurfaces(t *testing.T) {
	store := newArtifactStoreFake()
	store.saveErr = errors.New("disk full")
	uc := newTestWorkflow(&wfExtractorFake{}, &wfFieldsFake{}, store, &registryFake{}, reportingModel())

	_, err := uc.Execute(context.Background(), workflowRequest(t))
	if err == nil {
		t.Fatalf("expected persistence error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("error = %v, want temporary kind", err)
	}
}
