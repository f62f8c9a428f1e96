package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

const maxDocumentBytes = 50 * 1024 * 1024

// purposeFormats restricts declared purposes to the extensions that purpose
// can legitimately arrive in.
var purposeFormats = map[string][]string{
	"emirates_id":        {".pdf"},
	"resume":             {".pdf", ".docx", ".doc"},
	"assets_liabilities": {".xlsx", ".xls"},
	"credit_report":      {".pdf", ".txt"},
	"bank_statement":     {".pdf", ".txt"},
}

// ValidationReport is the outcome of the pre-processing gate. Any error makes
// the workflow fail before the extractor runs; warnings only annotate it.
type ValidationReport struct {
	Errors   []string
	Warnings []string
	RawDocs  []domain.RawDocument
}

func (r ValidationReport) Valid() bool { return len(r.Errors) == 0 }

// ValidateDocuments checks every input file for existence, supported format,
// purpose/format agreement and size, and verifies the Emirates ID document is
// present. A missing resume is a warning only.
func ValidateDocuments(documents []domain.DocumentInput) ValidationReport {
	var report ValidationReport
	covered := map[string]bool{}

	for _, doc := range documents {
		if doc.FilePath == "" {
			report.Errors = append(report.Errors, "file not found: (empty path)")
			continue
		}
		info, err := os.Stat(doc.FilePath)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("file not found: %s", doc.FilePath))
			continue
		}

		ext := strings.ToLower(filepath.Ext(doc.FilePath))
		format, ok := domain.FormatForPath(doc.FilePath)
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("unsupported file format %s for %s", ext, doc.FilePath))
			continue
		}

		purpose := strings.ToLower(strings.TrimSpace(doc.Purpose))
		if allowed, known := purposeFormats[purpose]; known {
			if !containsString(allowed, ext) {
				report.Errors = append(report.Errors, fmt.Sprintf("invalid format %s for %s, expected one of %v", ext, purpose, allowed))
				continue
			}
			covered[purpose] = true
		}

		if info.Size() > maxDocumentBytes {
			report.Errors = append(report.Errors, fmt.Sprintf("file too large: %s (%.1fMB)", doc.FilePath, float64(info.Size())/1024/1024))
			continue
		}

		filename := doc.Filename
		if filename == "" {
			filename = filepath.Base(doc.FilePath)
		}
		report.RawDocs = append(report.RawDocs, domain.RawDocument{
			FilePath: doc.FilePath,
			Purpose:  doc.Purpose,
			Filename: filename,
			Format:   format,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	if !covered[string(domain.TypeEmiratesID)] {
		report.Errors = append(report.Errors, "missing required document: Emirates ID")
	}
	if !covered[string(domain.TypeResume)] {
		report.Warnings = append(report.Warnings, "resume/CV not provided, employment assessment may be limited")
	}

	return report
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
