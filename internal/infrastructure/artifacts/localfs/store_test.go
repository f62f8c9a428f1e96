package localfs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

func TestSaveAssessmentWritesJudgmentAlias(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := &domain.AssessmentResult{
		ApplicationID: "APP-1",
		Status:        domain.StatusApproved,
		OverallScore:  0.82,
	}
	if err := store.SaveAssessment(ctx, "APP-1", result); err != nil {
		t.Fatalf("SaveAssessment() error = %v", err)
	}

	for _, name := range []string{assessmentResultFile, finalJudgmentFile} {
		raw, err := os.ReadFile(filepath.Join(store.basePath, "APP-1", name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var got domain.AssessmentResult
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		if got.Status != domain.StatusApproved || got.OverallScore != 0.82 {
			t.Fatalf("%s = %+v", name, got)
		}
	}
}

func TestApplicationStatusRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	status := &domain.ApplicationStatus{
		ApplicationID:    "APP-1",
		WorkflowID:       "wf-1",
		ProcessingStatus: domain.WorkflowCompleted,
		FinalDecision:    "approved",
	}
	if err := store.SaveApplicationStatus(ctx, "APP-1", status); err != nil {
		t.Fatalf("SaveApplicationStatus() error = %v", err)
	}

	got, err := store.LoadApplicationStatus(ctx, "APP-1")
	if err != nil {
		t.Fatalf("LoadApplicationStatus() error = %v", err)
	}
	if got.FinalDecision != "approved" || got.WorkflowID != "wf-1" {
		t.Fatalf("status = %+v", got)
	}
}

func TestWriteReplacesWithoutTempLeftovers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, decision := range []string{"pending_review", "approved"} {
		if err := store.SaveApplicationStatus(ctx, "APP-1", &domain.ApplicationStatus{
			ApplicationID: "APP-1",
			FinalDecision: decision,
		}); err != nil {
			t.Fatalf("SaveApplicationStatus(%s) error = %v", decision, err)
		}
	}

	got, err := store.LoadApplicationStatus(ctx, "APP-1")
	if err != nil {
		t.Fatalf("LoadApplicationStatus() error = %v", err)
	}
	if got.FinalDecision != "approved" {
		t.Fatalf("decision = %q, rewrite must win", got.FinalDecision)
	}

	leftovers, err := filepath.Glob(filepath.Join(store.basePath, "APP-1", "*.tmp-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestLoadMissingApplication(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadApplicationStatus(context.Background(), "APP-404")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrApplicationNotFound) {
		t.Fatalf("error = %v, want application not found kind", err)
	}
}

func TestListSummariesNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"APP-1", "APP-2", "APP-3"} {
		summary := &domain.WorkflowSummary{ApplicationID: id, WorkflowID: "wf-" + id}
		if err := store.SaveSummary(ctx, id, summary); err != nil {
			t.Fatalf("SaveSummary(%s) error = %v", id, err)
		}
		// push each summary file's mtime apart so ordering is deterministic
		mtime := time.Now().Add(time.Duration(i-3) * time.Hour)
		path := filepath.Join(store.basePath, id, summaryFile)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	summaries, err := store.ListSummaries(ctx)
	if err != nil {
		t.Fatalf("ListSummaries() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("summaries = %d, want 3", len(summaries))
	}
	if summaries[0].ApplicationID != "APP-3" || summaries[2].ApplicationID != "APP-1" {
		t.Fatalf("order = %s, %s, %s", summaries[0].ApplicationID, summaries[1].ApplicationID, summaries[2].ApplicationID)
	}
}

func TestFindSummaryByWorkflowID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSummary(ctx, "APP-1", &domain.WorkflowSummary{ApplicationID: "APP-1", WorkflowID: "wf-abc"}); err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}

	got, err := store.FindSummaryByWorkflowID(ctx, "wf-abc")
	if err != nil {
		t.Fatalf("FindSummaryByWorkflowID() error = %v", err)
	}
	if got.ApplicationID != "APP-1" {
		t.Fatalf("summary = %+v", got)
	}

	if _, err := store.FindSummaryByWorkflowID(ctx, "wf-missing"); !domain.IsKind(err, domain.ErrApplicationNotFound) {
		t.Fatalf("error = %v, want application not found kind", err)
	}
}
