// Package classify assigns a document type from the declared purpose, the
// filename, or the extracted text, in that order of trust. Purpose hints from
// the upload flow win over content inference; content scoring is the safety
// net for mislabeled or unlabeled files.
package classify

import (
	"log/slog"
	"strings"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// generalPatterns covers the purpose/filename match and the last-resort
// single-hit content fallback.
var generalPatterns = map[domain.DocumentType][]string{
	domain.TypeEmiratesID: {
		"emirates id", "identity card", "uae id", "national id",
		"هوية الإمارات", "بطاقة الهوية", "resident flag", "nationality",
	},
	domain.TypeResume: {
		"resume", "cv", "curriculum vitae", "experience",
		"education", "skills", "employment history", "work experience",
		"professional experience", "career summary",
	},
	domain.TypeAssetsLiabilities: {
		"assets", "liabilities", "balance sheet", "financial statement",
		"net worth", "portfolio", "investments", "bank account",
		"savings", "property", "loans", "credit cards",
	},
	domain.TypeCreditReport: {
		"credit report", "credit score", "credit history", "credit bureau",
		"aecb", "al etihad credit bureau", "etihad bureau", "experian", "equifax",
		"cb subject id", "provider no", "credit summary", "payment history",
		"information providers", "response id",
	},
	domain.TypeBankStatement: {
		"bank statement", "account statement", "transaction history", "account details",
		"opening balance", "closing balance", "debit", "credit", "account balance",
		"emirates nbd", "adcb", "fab", "mashreq", "rakbank", "statement from",
	},
}

// contentIndicators drive the weighted scoring pass. minHits gates noisy
// types; weighted types score two points per hit.
type indicatorSet struct {
	terms    []string
	minHits  int
	weighted bool
}

var contentIndicators = map[domain.DocumentType]indicatorSet{
	domain.TypeCreditReport: {
		terms: []string{
			"credit report", "credit score", "credit bureau", "aecb",
			"al etihad credit bureau", "etihad bureau", "cb subject id",
			"provider no", "response id", "information providers",
		},
		minHits:  1,
		weighted: true,
	},
	domain.TypeEmiratesID: {
		terms: []string{
			"emirates id", "identity card", "uae id", "expiry date", "resident card",
			"issue date", "place of birth",
		},
		minHits:  1,
		weighted: true,
	},
	domain.TypeBankStatement: {
		terms: []string{
			"account statement", "transaction", "debit", "credit", "account balance",
			"opening balance", "closing balance", "statement from", "account number",
			"emirates nbd", "adcb", "fab", "mashreq", "rakbank",
		},
		minHits:  3,
		weighted: true,
	},
	domain.TypeResume: {
		terms: []string{
			"work experience", "employment history", "professional experience",
			"education", "skills", "qualifications", "certifications",
		},
		minHits: 2,
	},
	domain.TypeAssetsLiabilities: {
		terms: []string{
			"balance sheet", "assets", "liabilities", "net worth",
			"investments", "bank account", "financial statement",
		},
		minHits: 2,
	},
}

type Classifier struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Classify resolves the type in fixed order: purpose keywords, exact purpose
// name, filename keywords, weighted content scoring, single-hit content
// fallback, unknown. Equal content scores break by the declared resolution
// order of domain.KnownDocumentTypes.
func (c *Classifier) Classify(filename, declaredPurpose string, content *domain.ExtractedContent) domain.DocumentType {
	purpose := strings.ToLower(declaredPurpose)
	if purpose != "" {
		for _, docType := range domain.KnownDocumentTypes {
			if matchAny(purpose, generalPatterns[docType]) {
				return docType
			}
		}
		for _, docType := range domain.KnownDocumentTypes {
			if purpose == string(docType) {
				return docType
			}
		}
	}

	name := strings.ToLower(filename)
	if name != "" {
		for _, docType := range domain.KnownDocumentTypes {
			if matchAny(name, generalPatterns[docType]) {
				return docType
			}
		}
	}

	if content == nil || content.Text == "" {
		return domain.TypeUnknown
	}
	text := strings.ToLower(content.Text)

	bestType := domain.TypeUnknown
	bestScore := 0
	for _, docType := range domain.KnownDocumentTypes {
		set := contentIndicators[docType]
		hits := countHits(text, set.terms)
		if hits < set.minHits {
			continue
		}
		score := hits
		if set.weighted {
			score = hits * 2
		}
		if score > bestScore {
			bestType, bestScore = docType, score
		}
	}
	if bestScore > 0 {
		c.logger.Debug("classified by content scoring", "type", bestType, "score", bestScore)
		return bestType
	}

	for _, docType := range domain.KnownDocumentTypes {
		if matchAny(text, generalPatterns[docType]) {
			c.logger.Debug("classified by pattern fallback", "type", docType)
			return docType
		}
	}
	return domain.TypeUnknown
}

func matchAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func countHits(haystack string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			hits++
		}
	}
	return hits
}
