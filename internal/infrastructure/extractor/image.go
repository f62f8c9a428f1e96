package extractor

import (
	"context"
	"fmt"
	"os"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// extractImage keeps the raw bytes for potential direct model input and adds
// OCR text when an engine is configured.
func (e *Extractor) extractImage(ctx context.Context, path string) (*domain.ExtractedContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}

	content := &domain.ExtractedContent{
		Metadata: map[string]string{"bytes": fmt.Sprintf("%d", len(data))},
	}
	image := domain.PageImage{Page: 1, Data: data}

	if e.ocr != nil {
		text, ocrErr := e.ocr.Recognize(ctx, data)
		if ocrErr != nil {
			content.Error = fmt.Sprintf("ocr failed: %v", ocrErr)
		} else {
			image.OCRText = text
			content.Text = text
		}
	} else {
		content.Error = "no ocr engine configured for image input"
	}

	content.Images = append(content.Images, image)
	return content, nil
}
