package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
	"github.com/socialsupport/benefits-pipeline/internal/core/ports"
)

// FieldExtractionAgent turns normalized document content into a typed
// structured record via one structured-output model call per document.
// Model failures never propagate as errors; they become error-marker records
// with zero confidence so the workflow's partial-success policy can apply.
type FieldExtractionAgent struct {
	model  ports.StructuredModel
	logger *slog.Logger
}

func NewFieldExtractionAgent(model ports.StructuredModel, logger *slog.Logger) *FieldExtractionAgent {
	return &FieldExtractionAgent{model: model, logger: logger}
}

func (a *FieldExtractionAgent) ExtractFields(
	ctx context.Context,
	content *domain.ExtractedContent,
	docType domain.DocumentType,
	format domain.FileFormat,
) domain.StructuredRecord {
	record := domain.StructuredRecord{Type: docType, Format: format}

	var err error
	switch docType {
	case domain.TypeEmiratesID:
		out := &domain.EmiratesIDRecord{}
		if err = a.model.GenerateStructured(ctx, emiratesIDPrompt(content), out); err == nil {
			record.EmiratesID = out
			record.Confidence = clamp01(out.Confidence)
		}
	case domain.TypeResume:
		out := &domain.ResumeRecord{}
		if err = a.model.GenerateStructured(ctx, resumePrompt(content), out); err == nil {
			record.Resume = out
			record.Confidence = clamp01(out.Confidence)
		}
	case domain.TypeAssetsLiabilities:
		out := &domain.AssetsLiabilitiesRecord{}
		if err = a.model.GenerateStructured(ctx, assetsLiabilitiesPrompt(content), out); err == nil {
			record.AssetsLiabilities = out
			record.Confidence = clamp01(out.Confidence)
		}
	case domain.TypeCreditReport:
		out := &domain.CreditReportRecord{}
		if err = a.model.GenerateStructured(ctx, creditReportPrompt(content), out); err == nil {
			record.CreditReport = out
			record.Confidence = clamp01(out.Confidence)
		}
	case domain.TypeBankStatement:
		out := &domain.BankStatementRecord{}
		if err = a.model.GenerateStructured(ctx, bankStatementPrompt(content), out); err == nil {
			record.BankStatement = out
			record.Confidence = clamp01(out.Confidence)
		}
	default:
		out := &domain.GenericRecord{}
		if err = a.model.GenerateStructured(ctx, genericPrompt(content), out); err == nil {
			record.Generic = out
			record.Confidence = clamp01(out.Confidence)
		}
	}

	if err != nil {
		a.logger.Warn("field extraction failed",
			"document_type", docType,
			"error", err,
		)
		return domain.ErrorRecord(docType, format, err.Error(), snippet(content.Text, 500))
	}
	return record
}

func emiratesIDPrompt(c *domain.ExtractedContent) string {
	return fmt.Sprintf(`Extract structured information from this Emirates ID document.

Text content:
%s

OCR from images:
%s

Return JSON with this exact shape:
{
  "personal_info": {"full_name": "", "full_name_arabic": "", "nationality": "", "date_of_birth": "YYYY-MM-DD", "place_of_birth": "", "gender": "male/female", "id_number": "", "issue_date": "YYYY-MM-DD", "expiry_date": "YYYY-MM-DD"},
  "address_info": {"emirate": "", "area": "", "full_address": ""},
  "confidence_score": 0.0,
  "extracted_fields": [],
  "missing_fields": []
}

Be very careful with dates and ID numbers. If information is unclear, mark confidence as low.`,
		snippet(c.Text, 8000), ocrText(c))
}

func resumePrompt(c *domain.ExtractedContent) string {
	return fmt.Sprintf(`Extract structured information from this resume/CV.

Text content:
%s

Return JSON with this exact shape:
{
  "personal_info": {"name": "", "email": "", "phone": "", "address": "", "linkedin": "", "nationality": ""},
  "employment_history": [{"company": "", "position": "", "start_date": "", "end_date": "", "duration_months": 0, "description": "", "employment_type": "full_time/part_time/contract"}],
  "education": [{"institution": "", "degree": "", "field_of_study": "", "graduation_year": "", "gpa": ""}],
  "skills": [],
  "certifications": [],
  "languages": [],
  "total_experience_years": 0,
  "current_employment_status": "employed/unemployed/self_employed",
  "confidence_score": 0.0
}

Order employment history most recent first. Compute total experience from the dates given.`,
		snippet(c.Text, 8000))
}

func assetsLiabilitiesPrompt(c *domain.ExtractedContent) string {
	return fmt.Sprintf(`Extract structured financial information from this assets/liabilities statement.

Text content:
%s

Tables:
%s

Return JSON with this exact shape:
{
  "assets": {
    "cash_and_equivalents": 0,
    "bank_accounts": [{"bank_name": "", "account_type": "", "balance": 0}],
    "investments": {"stocks": 0, "bonds": 0, "mutual_funds": 0, "real_estate": 0},
    "property": [{"type": "", "location": "", "estimated_value": 0, "mortgage_outstanding": 0}],
    "vehicles": [{"type": "", "model": "", "year": 0, "estimated_value": 0, "loan_outstanding": 0}],
    "other_assets": 0,
    "total_assets": 0
  },
  "liabilities": {
    "credit_cards": [{"bank": "", "outstanding_balance": 0, "credit_limit": 0}],
    "loans": [{"type": "", "lender": "", "outstanding_balance": 0, "monthly_payment": 0}],
    "other_liabilities": 0,
    "total_liabilities": 0
  },
  "net_worth": 0,
  "statement_date": "YYYY-MM-DD",
  "confidence_score": 0.0
}

All amounts are in AED. Compute totals from the line items when not stated explicitly.`,
		snippet(c.Text, 4000), tableText(c))
}

func creditReportPrompt(c *domain.ExtractedContent) string {
	return fmt.Sprintf(`Extract structured information from this AECB (Al Etihad Credit Bureau) credit report.

Text content:
%s

Return JSON with this exact shape:
{
  "personal_info": {"name": "", "first_name": "", "last_name": "", "arabic_name": "", "gender": "", "date_of_birth": "YYYY-MM-DD", "nationality": "", "cb_subject_id": "", "emirates_id": "", "passport_number": ""},
  "credit_score": {"score": 0, "score_range": "", "rating": "", "bureau": "AECB"},
  "addresses": [{"address": "", "emirate": "", "po_box": "", "provider": "", "date_updated": ""}],
  "contact_info": {"email": "", "phone_numbers": [], "mobile_numbers": []},
  "information_providers": [{"provider_code": "", "provider_name": "", "description": "", "last_update": ""}],
  "identification": [{"type": "", "number": "", "expiry_date": ""}],
  "report_metadata": {"report_date": "", "response_id": "", "bureau": "AECB"},
  "credit_utilization": {"utilization_ratio": 0},
  "payment_history": {"on_time_payments": 0, "late_payments": 0, "defaults": 0},
  "confidence_score": 0.0
}`,
		snippet(c.Text, 8000))
}

func bankStatementPrompt(c *domain.ExtractedContent) string {
	return fmt.Sprintf(`Extract structured information from this bank statement.

Text content:
%s

Tables:
%s

Return JSON with this exact shape:
{
  "account_info": {"account_holder_name": "", "account_number": "", "iban": "", "account_type": "", "bank_name": "", "branch": "", "currency": "AED"},
  "statement_period": {"statement_from": "YYYY-MM-DD", "statement_to": "YYYY-MM-DD", "statement_date": "YYYY-MM-DD"},
  "balance_summary": {"opening_balance": 0, "closing_balance": 0, "average_balance": 0, "minimum_balance": 0, "maximum_balance": 0},
  "transaction_summary": {"total_transactions": 0, "total_debits": 0, "total_credits": 0, "total_debit_amount": 0, "total_credit_amount": 0, "salary_credits": 0, "atm_withdrawals": 0, "service_charges": 0},
  "transactions": [{"date": "YYYY-MM-DD", "description": "", "transaction_type": "debit/credit", "amount": 0, "balance": 0, "category": ""}],
  "income_analysis": {"salary_frequency": "monthly/irregular", "average_monthly_salary": 0, "other_income_sources": [], "total_monthly_income": 0},
  "spending_analysis": {"average_monthly_spending": 0, "atm_withdrawal_frequency": 0, "service_charges_monthly": 0, "largest_expense": 0, "spending_categories": {}},
  "financial_behavior": {"account_management": "good/fair/poor", "overdraft_incidents": 0, "bounce_incidents": 0, "average_daily_balance": 0, "cash_flow_pattern": "stable/unstable"},
  "confidence_score": 0.0
}

Identify recurring salary credits to fill income_analysis. All amounts are in AED.`,
		snippet(c.Text, 8000), tableText(c))
}

func genericPrompt(c *domain.ExtractedContent) string {
	return fmt.Sprintf(`Analyze this document of unknown type for a social support application.

Text content:
%s

Return JSON with this exact shape:
{
  "document_classification": "best guess at the document type",
  "extracted_info": {"personal": {}, "financial": {}, "employment": {}, "other": {}},
  "confidence_score": 0.0,
  "recommendations": []
}`,
		snippet(c.Text, 8000))
}

func ocrText(c *domain.ExtractedContent) string {
	var parts []string
	for _, img := range c.Images {
		if img.OCRText != "" {
			parts = append(parts, img.OCRText)
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return snippet(strings.Join(parts, "\n"), 4000)
}

func tableText(c *domain.ExtractedContent) string {
	if len(c.Tables) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, t := range c.Tables {
		if t.Name != "" {
			fmt.Fprintf(&b, "[%s]\n", t.Name)
		}
		if len(t.Headers) > 0 {
			b.WriteString(strings.Join(t.Headers, " | "))
			b.WriteString("\n")
		}
		for _, row := range t.Rows {
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
	}
	return snippet(b.String(), 4000)
}

// snippet truncates to at most limit bytes without splitting a rune; the
// documents carry Arabic text and a mid-rune cut would feed the model and
// the audit record invalid UTF-8.
func snippet(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
