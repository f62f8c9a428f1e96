package extractor

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// decoders are tried in order; the first clean decode wins. A final lossy
// UTF-8 pass guarantees extraction never fails on encoding alone.
var decoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{"latin-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
}

func (e *Extractor) extractTXT(path string) (*domain.ExtractedContent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file %s: %w", path, err)
	}

	text, encodingName := decodeText(raw)
	content := &domain.ExtractedContent{
		Text:     text,
		Metadata: map[string]string{"encoding": encodingName},
	}

	if table := detectPseudoTable(text); table != nil {
		content.Tables = append(content.Tables, *table)
	}
	return content, nil
}

func decodeText(raw []byte) (string, string) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8"
	}
	for _, d := range decoders {
		decoded, err := d.enc.NewDecoder().Bytes(raw)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded), d.name
		}
	}
	// lossy fallback: replace invalid sequences
	return strings.ToValidUTF8(string(raw), "�"), "utf-8-lossy"
}

// detectPseudoTable surfaces tab/pipe/multi-space delimited lines with at
// least three tokens as one pseudo-table so downstream prompts can treat the
// file as tabular.
func detectPseudoTable(text string) *domain.Table {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.ContainsAny(line, "\t|") && !strings.Contains(line, "  ") {
			continue
		}
		tokens := splitColumns(line)
		if len(tokens) >= 3 {
			rows = append(rows, tokens)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return &domain.Table{Name: "detected_tabular_data", Rows: rows}
}

func splitColumns(line string) []string {
	line = strings.ReplaceAll(line, "|", "\t")
	var tokens []string
	for _, field := range strings.Fields(line) {
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
