package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

const maxPDFTextBytes = 512 * 1024

// extractPDF walks pages row by row for layout-aware text, falls back to the
// reader's plain-text stream, and finally to OCR over rasterized pages when
// both text paths come up empty. The pdf library panics on malformed files,
// hence the recover.
func (e *Extractor) extractPDF(ctx context.Context, path string) (content *domain.ExtractedContent, err error) {
	content = &domain.ExtractedContent{Metadata: map[string]string{}}

	defer func() {
		if r := recover(); r != nil {
			content.Error = fmt.Sprintf("pdf extraction panicked: %v", r)
			err = nil
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := reader.NumPage()
	content.Metadata["pages"] = fmt.Sprintf("%d", pages)

	var text strings.Builder
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			content.Error = fmt.Sprintf("page %d layout extraction failed: %v", pageNum, rowErr)
			continue
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
				line.WriteString(" ")
			}
			text.WriteString(strings.TrimRight(line.String(), " "))
			text.WriteString("\n")
		}
		if text.Len() > maxPDFTextBytes {
			break
		}
	}
	content.Text = strings.TrimSpace(text.String())

	if content.Text == "" {
		content.Text = e.pdfPlainText(reader)
	}
	if content.Text == "" && e.ocr != nil {
		e.ocrPDF(ctx, path, content)
	}
	if content.Text == "" && content.Error == "" {
		content.Error = "no text content extracted"
	}
	return content, nil
}

func (e *Extractor) pdfPlainText(reader *pdf.Reader) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	stream, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	buf := make([]byte, maxPDFTextBytes)
	n, _ := stream.Read(buf)
	return strings.TrimSpace(string(buf[:n]))
}

func (e *Extractor) ocrPDF(ctx context.Context, path string, content *domain.ExtractedContent) {
	images, err := e.ocr.Rasterize(ctx, path)
	if err != nil {
		content.Error = fmt.Sprintf("rasterize for ocr failed: %v", err)
		return
	}
	var text strings.Builder
	for i, img := range images {
		ocrText, ocrErr := e.ocr.Recognize(ctx, img)
		if ocrErr != nil {
			content.Error = fmt.Sprintf("ocr failed on page %d: %v", i+1, ocrErr)
			continue
		}
		content.Images = append(content.Images, domain.PageImage{
			Page:    i + 1,
			Data:    img,
			OCRText: ocrText,
		})
		text.WriteString(ocrText)
		text.WriteString("\n")
	}
	content.Text = strings.TrimSpace(text.String())
	if content.Text != "" {
		content.Metadata["ocr"] = "true"
	}
}
