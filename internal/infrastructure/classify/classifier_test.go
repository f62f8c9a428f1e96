package classify

import (
	"io"
	"log/slog"
	"testing"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

func newTestClassifier() *Classifier {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassifyPurposeWinsOverContent(t *testing.T) {
	c := newTestClassifier()
	content := &domain.ExtractedContent{
		Text: "credit report credit score aecb credit bureau",
	}
	got := c.Classify("statement.pdf", "emirates id scan", content)
	if got != domain.TypeEmiratesID {
		t.Fatalf("Classify() = %s, want emirates_id from declared purpose", got)
	}
}

func TestClassifyExactPurposeName(t *testing.T) {
	c := newTestClassifier()
	got := c.Classify("doc1.xlsx", "assets_liabilities", nil)
	if got != domain.TypeAssetsLiabilities {
		t.Fatalf("Classify() = %s, want assets_liabilities", got)
	}
}

func TestClassifyByFilename(t *testing.T) {
	c := newTestClassifier()
	got := c.Classify("fatima_resume_2026.pdf", "", nil)
	if got != domain.TypeResume {
		t.Fatalf("Classify() = %s, want resume from filename", got)
	}
}

func TestClassifyBankStatementNeedsThreeHits(t *testing.T) {
	c := newTestClassifier()

	// two indicators only, below the bank statement gate and with no
	// single-hit pattern present
	weak := &domain.ExtractedContent{Text: "transaction listing with account number 12345"}
	if got := c.Classify("scan.pdf", "", weak); got == domain.TypeBankStatement {
		t.Fatalf("Classify() = %s, two hits must not classify as bank statement", got)
	}

	strong := &domain.ExtractedContent{
		Text: "opening balance 1000 closing balance 2000 transaction listing for emirates nbd",
	}
	if got := c.Classify("scan.pdf", "", strong); got != domain.TypeBankStatement {
		t.Fatalf("Classify() = %s, want bank_statement", got)
	}
}

func TestClassifyCreditReportSingleHit(t *testing.T) {
	c := newTestClassifier()
	content := &domain.ExtractedContent{Text: "subject record from aecb dated 2026"}
	if got := c.Classify("report.pdf", "", content); got != domain.TypeCreditReport {
		t.Fatalf("Classify() = %s, want credit_report from one weighted hit", got)
	}
}

func TestClassifyContentFallbackPattern(t *testing.T) {
	c := newTestClassifier()
	content := &domain.ExtractedContent{Text: "this document shows my career summary"}
	if got := c.Classify("scan.pdf", "", content); got != domain.TypeResume {
		t.Fatalf("Classify() = %s, want resume from pattern fallback", got)
	}
}

func TestClassifyUnknown(t *testing.T) {
	c := newTestClassifier()
	if got := c.Classify("", "", nil); got != domain.TypeUnknown {
		t.Fatalf("Classify() = %s, want unknown for empty input", got)
	}
	content := &domain.ExtractedContent{Text: "weekly groceries list"}
	if got := c.Classify("notes.txt", "", content); got != domain.TypeUnknown {
		t.Fatalf("Classify() = %s, want unknown", got)
	}
}

func TestClassifyDeterministicTieBreak(t *testing.T) {
	c := newTestClassifier()
	// one weighted hit each for credit report and emirates id; the
	// resolution order prefers credit report
	content := &domain.ExtractedContent{Text: "aecb record with expiry date"}
	first := c.Classify("scan.pdf", "", content)
	for i := 0; i < 10; i++ {
		if got := c.Classify("scan.pdf", "", content); got != first {
			t.Fatalf("Classify() unstable: %s then %s", first, got)
		}
	}
	if first != domain.TypeCreditReport {
		t.Fatalf("Classify() = %s, want credit_report by resolution order", first)
	}
}
