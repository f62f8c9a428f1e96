package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestValidateDocumentsHappyPath(t *testing.T) {
	dir := t.TempDir()
	eid := writeTempFile(t, dir, "emirates_id.pdf", "%PDF-1.4")
	resume := writeTempFile(t, dir, "resume.docx", "PK")

	report := ValidateDocuments([]domain.DocumentInput{
		{FilePath: eid, Purpose: "emirates_id"},
		{FilePath: resume, Purpose: "resume"},
	})

	if !report.Valid() {
		t.Fatalf("expected valid, errors = %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("warnings = %v", report.Warnings)
	}
	if len(report.RawDocs) != 2 {
		t.Fatalf("raw docs = %d, want 2", len(report.RawDocs))
	}
	if report.RawDocs[0].Format != domain.FormatPDF {
		t.Fatalf("format = %s, want pdf", report.RawDocs[0].Format)
	}
	if report.RawDocs[0].Filename != "emirates_id.pdf" {
		t.Fatalf("filename = %q", report.RawDocs[0].Filename)
	}
}

func TestValidateDocumentsMissingEmiratesID(t *testing.T) {
	dir := t.TempDir()
	resume := writeTempFile(t, dir, "resume.pdf", "%PDF-1.4")

	report := ValidateDocuments([]domain.DocumentInput{
		{FilePath: resume, Purpose: "resume"},
	})

	if report.Valid() {
		t.Fatalf("expected invalid report")
	}
	found := false
	for _, e := range report.Errors {
		if e == "missing required document: Emirates ID" {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want missing Emirates ID", report.Errors)
	}
}

func TestValidateDocumentsMissingResumeIsWarning(t *testing.T) {
	dir := t.TempDir()
	eid := writeTempFile(t, dir, "id.pdf", "%PDF-1.4")

	report := ValidateDocuments([]domain.DocumentInput{
		{FilePath: eid, Purpose: "emirates_id"},
	})

	if !report.Valid() {
		t.Fatalf("expected valid, errors = %v", report.Errors)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "resume") {
		t.Fatalf("warnings = %v, want resume warning", report.Warnings)
	}
}

func TestValidateDocumentsPurposeFormatMismatch(t *testing.T) {
	dir := t.TempDir()
	eid := writeTempFile(t, dir, "id.pdf", "%PDF-1.4")
	assets := writeTempFile(t, dir, "assets.pdf", "%PDF-1.4")

	report := ValidateDocuments([]domain.DocumentInput{
		{FilePath: eid, Purpose: "emirates_id"},
		{FilePath: assets, Purpose: "assets_liabilities"},
	})

	if report.Valid() {
		t.Fatalf("expected invalid report")
	}
	if !strings.Contains(strings.Join(report.Errors, "; "), "invalid format .pdf for assets_liabilities") {
		t.Fatalf("errors = %v", report.Errors)
	}
}

func TestValidateDocumentsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	eid := writeTempFile(t, dir, "id.pdf", "%PDF-1.4")
	odd := writeTempFile(t, dir, "notes.zip", "PK")

	report := ValidateDocuments([]domain.DocumentInput{
		{FilePath: eid, Purpose: "emirates_id"},
		{FilePath: odd},
	})

	if report.Valid() {
		t.Fatalf("expected invalid report")
	}
	if !strings.Contains(strings.Join(report.Errors, "; "), "unsupported file format .zip") {
		t.Fatalf("errors = %v", report.Errors)
	}
}

func TestValidateDocumentsMissingFile(t *testing.T) {
	report := ValidateDocuments([]domain.DocumentInput{
		{FilePath: "/nonexistent/id.pdf", Purpose: "emirates_id"},
	})

	if report.Valid() {
		t.Fatalf("expected invalid report")
	}
	if !strings.Contains(report.Errors[0], "file not found") {
		t.Fatalf("errors = %v", report.Errors)
	}
}

func TestValidateDocumentsUndeclaredPurposePasses(t *testing.T) {
	dir := t.TempDir()
	eid := writeTempFile(t, dir, "id.pdf", "%PDF-1.4")
	extra := writeTempFile(t, dir, "statement.txt", "transactions")

	report := ValidateDocuments([]domain.DocumentInput{
		{FilePath: eid, Purpose: "emirates_id"},
		{FilePath: extra},
	})

	if !report.Valid() {
		t.Fatalf("expected valid, errors = %v", report.Errors)
	}
	if len(report.RawDocs) != 2 {
		t.Fatalf("raw docs = %d", len(report.RawDocs))
	}
}
