// Package extractor converts input files into normalized content bags. It
// dispatches on file format; each format path records its failures in the
// content's Error field so the workflow can keep going with partial output.
package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
)

type Extractor struct {
	ocr    ports.OCREngine // nil when no OCR capability is configured
	logger *slog.Logger
}

func New(ocr ports.OCREngine, logger *slog.Logger) *Extractor {
	return &Extractor{ocr: ocr, logger: logger}
}

// Extract never fails for content-level problems; a non-nil error means the
// file itself could not be read at all.
func (e *Extractor) Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedContent, error) {
	var content *domain.ExtractedContent
	var err error

	switch doc.Format {
	case domain.FormatPDF:
		content, err = e.extractPDF(ctx, doc.FilePath)
	case domain.FormatDOCX, domain.FormatDOC:
		content, err = e.extractDOCX(doc.FilePath)
	case domain.FormatXLSX, domain.FormatXLS:
		content, err = e.extractXLSX(doc.FilePath)
	case domain.FormatImage:
		content, err = e.extractImage(ctx, doc.FilePath)
	case domain.FormatTXT:
		content, err = e.extractTXT(doc.FilePath)
	default:
		return nil, fmt.Errorf("unsupported format %q for %s", doc.Format, doc.FilePath)
	}
	if err != nil {
		return nil, err
	}

	if content.Metadata == nil {
		content.Metadata = map[string]string{}
	}
	content.Metadata["filename"] = doc.Filename
	content.Metadata["format"] = string(doc.Format)
	if content.Error != "" {
		e.logger.Warn("partial extraction",
			"file", doc.FilePath,
			"error", content.Error,
		)
	}
	return content, nil
}
