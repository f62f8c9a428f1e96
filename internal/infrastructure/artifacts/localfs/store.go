// Package localfs persists the per-application JSON artifacts under one
// directory per application id. File names are an interop contract with
// downstream status consumers; do not rename them.
package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

const (
	workflowStateFile     = "workflow_state.json"
	assessmentResultFile  = "assessment_result.json"
	finalJudgmentFile     = "final_judgment.json"
	comprehensiveFile     = "comprehensive_report.json"
	summaryFile           = "summary.json"
	applicationStatusFile = "application_status.json"
)

type Store struct {
	basePath string
}

func New(basePath string) (*Store, error) {
	if basePath == "" {
		basePath = "./data/workflows"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) SaveWorkflowState(_ context.Context, applicationID string, state *domain.WorkflowState) error {
	return s.writeJSON(applicationID, workflowStateFile, state)
}

// SaveAssessment writes the result twice: assessment_result.json and its
// final_judgment.json alias kept for downstream compatibility.
func (s *Store) SaveAssessment(_ context.Context, applicationID string, result *domain.AssessmentResult) error {
	if err := s.writeJSON(applicationID, assessmentResultFile, result); err != nil {
		return err
	}
	return s.writeJSON(applicationID, finalJudgmentFile, result)
}

func (s *Store) SaveReport(_ context.Context, applicationID string, report *domain.ComprehensiveReport) error {
	return s.writeJSON(applicationID, comprehensiveFile, report)
}

func (s *Store) SaveSummary(_ context.Context, applicationID string, summary *domain.WorkflowSummary) error {
	return s.writeJSON(applicationID, summaryFile, summary)
}

func (s *Store) SaveApplicationStatus(_ context.Context, applicationID string, status *domain.ApplicationStatus) error {
	return s.writeJSON(applicationID, applicationStatusFile, status)
}

func (s *Store) LoadApplicationStatus(_ context.Context, applicationID string) (*domain.ApplicationStatus, error) {
	var status domain.ApplicationStatus
	if err := s.readJSON(applicationID, applicationStatusFile, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Store) LoadSummary(_ context.Context, applicationID string) (*domain.WorkflowSummary, error) {
	var summary domain.WorkflowSummary
	if err := s.readJSON(applicationID, summaryFile, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FindSummaryByWorkflowID scans every application directory. Volumes are
// small (one directory per application) so a linear scan is fine.
func (s *Store) FindSummaryByWorkflowID(ctx context.Context, workflowID string) (*domain.WorkflowSummary, error) {
	summaries, err := s.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		if summaries[i].WorkflowID == workflowID {
			return &summaries[i], nil
		}
	}
	return nil, domain.WrapError(domain.ErrApplicationNotFound, "find summary",
		fmt.Errorf("workflow %s", workflowID))
}

// ListSummaries returns all application summaries newest first.
func (s *Store) ListSummaries(_ context.Context) ([]domain.WorkflowSummary, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("read artifact dir: %w", err)
	}

	type timed struct {
		summary domain.WorkflowSummary
		modTime int64
	}
	var found []timed
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.basePath, entry.Name(), summaryFile)
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		var summary domain.WorkflowSummary
		if readErr := s.readJSON(entry.Name(), summaryFile, &summary); readErr != nil {
			continue
		}
		found = append(found, timed{summary: summary, modTime: info.ModTime().UnixNano()})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].modTime > found[j].modTime })
	summaries := make([]domain.WorkflowSummary, len(found))
	for i, f := range found {
		summaries[i] = f.summary
	}
	return summaries, nil
}

// writeJSON goes through a temp file and a rename so a status reader never
// observes a half-written artifact.
func (s *Store) writeJSON(applicationID, filename string, v any) error {
	dir := filepath.Join(s.basePath, applicationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create application dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filename, err)
	}

	tmp, err := os.CreateTemp(dir, filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp %s: %w", filename, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, filename)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", filename, err)
	}
	return nil
}

func (s *Store) readJSON(applicationID, filename string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.basePath, applicationID, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.WrapError(domain.ErrApplicationNotFound, "read artifact",
				fmt.Errorf("%s/%s", applicationID, filename))
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	return nil
}
