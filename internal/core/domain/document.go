package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentType is the closed set of document categories the pipeline understands.
type DocumentType string

const (
	TypeEmiratesID        DocumentType = "emirates_id"
	TypeResume            DocumentType = "resume"
	TypeAssetsLiabilities DocumentType = "assets_liabilities"
	TypeCreditReport      DocumentType = "credit_report"
	TypeBankStatement     DocumentType = "bank_statement"
	TypeUnknown           DocumentType = "unknown"
)

// KnownDocumentTypes lists every concrete type in classifier resolution order.
// The order doubles as the documented tie-break for equal content scores.
var KnownDocumentTypes = []DocumentType{
	TypeCreditReport,
	TypeEmiratesID,
	TypeBankStatement,
	TypeResume,
	TypeAssetsLiabilities,
}

type FileFormat string

const (
	FormatPDF     FileFormat = "pdf"
	FormatDOCX    FileFormat = "docx"
	FormatDOC     FileFormat = "doc"
	FormatXLSX    FileFormat = "xlsx"
	FormatXLS     FileFormat = "xls"
	FormatImage   FileFormat = "image"
	FormatTXT     FileFormat = "txt"
	FormatUnknown FileFormat = ""
)

var extensionFormats = map[string]FileFormat{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".doc":  FormatDOC,
	".xlsx": FormatXLSX,
	".xls":  FormatXLS,
	".txt":  FormatTXT,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".tiff": FormatImage,
	".bmp":  FormatImage,
}

// FormatForPath maps a file extension to its format. The second return is
// false for unsupported extensions.
func FormatForPath(path string) (FileFormat, bool) {
	format, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// DocumentInput is one file handed to a workflow by the intake boundary.
type DocumentInput struct {
	FilePath string `json:"file_path"`
	Purpose  string `json:"purpose,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// RawDocument is an immutable snapshot of an input file taken at validation time.
type RawDocument struct {
	FilePath string     `json:"file_path"`
	Purpose  string     `json:"purpose,omitempty"`
	Filename string     `json:"filename"`
	Format   FileFormat `json:"format"`
	Size     int64      `json:"size"`
	ModTime  time.Time  `json:"mod_time"`
}

// Table is one extracted table: ordered rows of cell strings. Name carries the
// sheet name for spreadsheets; Page is set for paginated formats.
type Table struct {
	Name    string     `json:"name,omitempty"`
	Page    int        `json:"page,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows"`
}

// PageImage is a rasterized page or standalone image plus any OCR text.
type PageImage struct {
	Page    int    `json:"page,omitempty"`
	Data    []byte `json:"data,omitempty"`
	OCRText string `json:"ocr_text,omitempty"`
}

// ExtractedContent is the format-neutral bag a single extraction run produces.
// Extraction failures land in Error; partial content is always valid output.
type ExtractedContent struct {
	Text     string            `json:"text"`
	Tables   []Table           `json:"tables,omitempty"`
	Images   []PageImage       `json:"images,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Error    string            `json:"error,omitempty"`
}
