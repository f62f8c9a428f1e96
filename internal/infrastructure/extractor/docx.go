package extractor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// word/document.xml structure, reduced to what text and table extraction need.
// Paragraphs and tables arrive interleaved in document order.
type docxBody struct {
	Items []docxBlock `xml:",any"`
}

type docxBlock struct {
	XMLName xml.Name
	Runs    []docxRun `xml:"r"`
	Rows    []docxRow `xml:"tr"`
}

type docxRun struct {
	Text []string `xml:"t"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxBlock `xml:"p"`
}

type docxDocument struct {
	Body docxBody `xml:"body"`
}

// extractDOCX reads paragraph text in document order and every table as a
// row-major grid. Legacy .doc files usually fail the zip open; that failure
// is recorded, not fatal.
func (e *Extractor) extractDOCX(path string) (*domain.ExtractedContent, error) {
	content := &domain.ExtractedContent{Metadata: map[string]string{}}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer archive.Close()

	var docFile *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		content.Error = "word/document.xml not found"
		return content, nil
	}

	rc, err := docFile.Open()
	if err != nil {
		content.Error = fmt.Sprintf("open document.xml: %v", err)
		return content, nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		content.Error = fmt.Sprintf("read document.xml: %v", err)
		return content, nil
	}

	var doc docxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		content.Error = fmt.Sprintf("parse document.xml: %v", err)
		return content, nil
	}

	var text strings.Builder
	tableNum := 0
	for _, block := range doc.Body.Items {
		switch block.XMLName.Local {
		case "p":
			line := runText(block.Runs)
			if line != "" {
				text.WriteString(line)
				text.WriteString("\n")
			}
		case "tbl":
			tableNum++
			table := domain.Table{Name: fmt.Sprintf("table_%d", tableNum)}
			for _, row := range block.Rows {
				cells := make([]string, 0, len(row.Cells))
				for _, cell := range row.Cells {
					var cellText []string
					for _, p := range cell.Paragraphs {
						if t := runText(p.Runs); t != "" {
							cellText = append(cellText, t)
						}
					}
					cells = append(cells, strings.Join(cellText, " "))
				}
				table.Rows = append(table.Rows, cells)
			}
			if len(table.Rows) > 0 {
				if len(table.Rows) > 1 {
					table.Headers = table.Rows[0]
					table.Rows = table.Rows[1:]
				}
				content.Tables = append(content.Tables, table)
			}
		}
	}

	content.Text = strings.TrimSpace(text.String())
	content.Metadata["tables"] = fmt.Sprintf("%d", len(content.Tables))
	if content.Text == "" && len(content.Tables) == 0 {
		content.Error = "no text content extracted"
	}
	return content, nil
}

func runText(runs []docxRun) string {
	var b strings.Builder
	for _, run := range runs {
		for _, t := range run.Text {
			b.WriteString(t)
		}
	}
	return strings.TrimSpace(b.String())
}
