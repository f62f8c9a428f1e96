package extractor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

func writeWorkbook(t *testing.T, dir, name string) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	rows := [][]any{
		{"Category", "Description", "Value (AED)"},
		{"Cash", "Savings account", 8000},
		{"Property", "Apartment Dubai", 400000},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestExtractXLSX(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "assets.xlsx")

	content, err := newTestExtractor().Extract(context.Background(), domain.RawDocument{
		FilePath: path,
		Filename: "assets.xlsx",
		Format:   domain.FormatXLSX,
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(content.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(content.Tables))
	}
	table := content.Tables[0]
	if table.Name != "Sheet1" {
		t.Fatalf("table name = %q", table.Name)
	}
	if len(table.Headers) != 3 || table.Headers[0] != "Category" {
		t.Fatalf("headers = %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %v", table.Rows)
	}
	if !strings.Contains(content.Text, `Sheet "Sheet1": 3 rows x 3 columns`) {
		t.Fatalf("summary = %q", content.Text)
	}
	if content.Metadata["sheets"] != "1" {
		t.Fatalf("metadata = %v", content.Metadata)
	}
}

func TestExtractXLSXUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.xlsx", []byte("not a workbook"))

	_, err := newTestExtractor().Extract(context.Background(), domain.RawDocument{
		FilePath: path,
		Filename: "broken.xlsx",
		Format:   domain.FormatXLSX,
	})
	if err == nil {
		t.Fatalf("expected error for unreadable workbook")
	}
}
