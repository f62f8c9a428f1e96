package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

func TestExtractFieldsEmiratesID(t *testing.T) {
	model := &modelFake{structuredFn: func(prompt string, out any) error {
		if !strings.Contains(prompt, "Emirates ID document") {
			t.Fatalf("wrong prompt routed: %q", prompt[:60])
		}
		record, ok := out.(*domain.EmiratesIDRecord)
		if !ok {
			t.Fatalf("out type = %T", out)
		}
		record.PersonalInfo.FullName = "Fatima Hassan"
		record.PersonalInfo.IDNumber = "784-1986-1234567-1"
		record.Confidence = 0.93
		return nil
	}}
	agent := NewFieldExtractionAgent(model, testLogger())

	record := agent.ExtractFields(context.Background(),
		&domain.ExtractedContent{Text: "ID card text"}, domain.TypeEmiratesID, domain.FormatPDF)

	if record.Failed() {
		t.Fatalf("record failed: %q", record.Error)
	}
	if record.EmiratesID == nil || record.EmiratesID.PersonalInfo.FullName != "Fatima Hassan" {
		t.Fatalf("record = %+v", record)
	}
	if record.Confidence != 0.93 {
		t.Fatalf("confidence = %f", record.Confidence)
	}
}

func TestExtractFieldsUnknownTypeUsesGeneric(t *testing.T) {
	model := &modelFake{structuredFn: func(_ string, out any) error {
		record, ok := out.(*domain.GenericRecord)
		if !ok {
			t.Fatalf("out type = %T", out)
		}
		record.Classification = "utility_bill"
		record.Confidence = 0.4
		return nil
	}}
	agent := NewFieldExtractionAgent(model, testLogger())

	record := agent.ExtractFields(context.Background(),
		&domain.ExtractedContent{Text: "some text"}, domain.TypeUnknown, domain.FormatTXT)

	if record.Generic == nil || record.Generic.Classification != "utility_bill" {
		t.Fatalf("record = %+v", record)
	}
}

func TestExtractFieldsModelFailureBecomesErrorRecord(t *testing.T) {
	model := &modelFake{structuredFn: func(string, any) error {
		return errors.New("model unavailable")
	}}
	agent := NewFieldExtractionAgent(model, testLogger())

	record := agent.ExtractFields(context.Background(),
		&domain.ExtractedContent{Text: strings.Repeat("x", 600)}, domain.TypeBankStatement, domain.FormatTXT)

	if !record.Failed() {
		t.Fatalf("expected error marker record")
	}
	if record.Confidence != 0 {
		t.Fatalf("confidence = %f, want 0", record.Confidence)
	}
	if !strings.Contains(record.Error, "model unavailable") {
		t.Fatalf("error = %q", record.Error)
	}
	if len(record.RawText) != 500 {
		t.Fatalf("snippet length = %d, want capped at 500", len(record.RawText))
	}
}

func TestExtractFieldsClampsConfidence(t *testing.T) {
	model := &modelFake{structuredFn: func(_ string, out any) error {
		record := out.(*domain.ResumeRecord)
		record.Confidence = 1.7
		return nil
	}}
	agent := NewFieldExtractionAgent(model, testLogger())

	record := agent.ExtractFields(context.Background(),
		&domain.ExtractedContent{Text: "cv"}, domain.TypeResume, domain.FormatDOCX)

	if record.Confidence != 1.0 {
		t.Fatalf("confidence = %f, want clamped to 1.0", record.Confidence)
	}
}

func TestSnippetKeepsRuneBoundary(t *testing.T) {
	arabic := strings.Repeat("مرحبا", 200)
	for _, limit := range []int{500, 501, 502, 503} {
		got := snippet(arabic, limit)
		if len(got) > limit {
			t.Fatalf("snippet length = %d, want <= %d", len(got), limit)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("snippet at limit %d is not valid utf-8", limit)
		}
	}
	if got := snippet("plain ascii", 500); got != "plain ascii" {
		t.Fatalf("snippet = %q", got)
	}
}

func TestPromptIncludesTables(t *testing.T) {
	content := &domain.ExtractedContent{
		Text: "assets overview",
		Tables: []domain.Table{{
			Name:    "Sheet1",
			Headers: []string{"Category", "Value"},
			Rows:    [][]string{{"Cash", "8000"}},
		}},
	}
	prompt := assetsLiabilitiesPrompt(content)
	if !strings.Contains(prompt, "Category | Value") || !strings.Contains(prompt, "Cash | 8000") {
		t.Fatalf("prompt missing table text: %q", prompt)
	}
}
