package extractor

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// extractXLSX reads every sheet as a named table (header row + data rows) and
// builds a one-line-per-sheet text summary so the model sees the workbook
// shape even without the cells.
func (e *Extractor) extractXLSX(path string) (*domain.ExtractedContent, error) {
	content := &domain.ExtractedContent{Metadata: map[string]string{}}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer wb.Close()

	var summary strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, rowErr := wb.GetRows(sheet)
		if rowErr != nil {
			content.Error = fmt.Sprintf("read sheet %s: %v", sheet, rowErr)
			continue
		}
		table := domain.Table{Name: sheet}
		if len(rows) > 0 {
			table.Headers = rows[0]
			table.Rows = rows[1:]
		}
		content.Tables = append(content.Tables, table)

		cols := 0
		if len(rows) > 0 {
			cols = len(rows[0])
		}
		fmt.Fprintf(&summary, "Sheet %q: %d rows x %d columns", sheet, len(rows), cols)
		if len(table.Headers) > 0 {
			fmt.Fprintf(&summary, ", columns: %s", strings.Join(table.Headers, ", "))
		}
		summary.WriteString("\n")
	}

	content.Text = strings.TrimSpace(summary.String())
	content.Metadata["sheets"] = fmt.Sprintf("%d", len(content.Tables))
	if len(content.Tables) == 0 && content.Error == "" {
		content.Error = "workbook has no readable sheets"
	}
	return content, nil
}
