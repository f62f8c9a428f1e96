package usecase

import (
	"strings"
	"time"

	"github.com/socialsupport/benefits-pipeline/internal/core/domain"
)

// ProfileMerger folds per-document structured records into one applicant
// profile. Identity fields follow a first-writer-wins policy; financial
// aggregates from authoritative sources (bank statement, assets statement)
// always overwrite. Merge order is the document input order, so the merger
// must be driven sequentially.
type ProfileMerger struct {
	now func() time.Time
}

func NewProfileMerger() *ProfileMerger {
	return &ProfileMerger{now: time.Now}
}

// Merge applies one record to the profile in place.
func (m *ProfileMerger) Merge(profile *domain.ApplicantProfile, record domain.StructuredRecord) {
	profile.DocumentSources = append(profile.DocumentSources, domain.DocumentSource{
		Type:       record.Type,
		Confidence: record.Confidence,
		FileFormat: record.Format,
	})

	switch {
	case record.EmiratesID != nil:
		m.mergeEmiratesID(profile, record.EmiratesID)
	case record.Resume != nil:
		m.mergeResume(profile, record.Resume)
	case record.AssetsLiabilities != nil:
		m.mergeAssets(profile, record.AssetsLiabilities)
	case record.CreditReport != nil:
		m.mergeCreditReport(profile, record.CreditReport)
	case record.BankStatement != nil:
		m.mergeBankStatement(profile, record.BankStatement)
	}
}

// SeedApplicant pre-fills the profile with intake-form hints. Family and
// demographic flags only arrive this way; documents never carry them.
func (m *ProfileMerger) SeedApplicant(profile *domain.ApplicantProfile, applicant domain.IntakeApplicant) {
	if applicant.Name != "" {
		profile.ApplicantInfo.Name = applicant.Name
	}
	profile.ApplicantInfo.Email = applicant.Email
	profile.ApplicantInfo.Phone = applicant.Phone
	if applicant.EmiratesID != "" {
		profile.DemographicInfo.EmiratesID = applicant.EmiratesID
	}
	profile.FamilyInfo = domain.FamilyInfo{
		FamilySize:           applicant.FamilySize,
		Dependents:           applicant.Dependents,
		MaritalStatus:        applicant.MaritalStatus,
		SpecialCircumstances: applicant.SpecialCircumstances,
	}
	profile.DemographicInfo.DisabilityStatus = applicant.DisabilityStatus
	profile.DemographicInfo.VeteranStatus = applicant.VeteranStatus
}

func (m *ProfileMerger) mergeEmiratesID(p *domain.ApplicantProfile, rec *domain.EmiratesIDRecord) {
	// Emirates ID is the identity source of record: it overwrites identity
	// fields set by weaker sources.
	p.ApplicantInfo.Name = firstNonEmpty(rec.PersonalInfo.FullName, p.ApplicantInfo.Name)
	if age := m.ageFromDOB(rec.PersonalInfo.DateOfBirth); age > 0 {
		p.ApplicantInfo.Age = age
	}
	p.ApplicantInfo.Address = firstNonEmpty(rec.AddressInfo.FullAddress, p.ApplicantInfo.Address)
	p.ApplicantInfo.Nationality = firstNonEmpty(rec.PersonalInfo.Nationality, p.ApplicantInfo.Nationality)
	p.ApplicantInfo.IDNumber = firstNonEmpty(rec.PersonalInfo.IDNumber, p.ApplicantInfo.IDNumber)

	setIfNotEmpty(&p.DemographicInfo.Gender, rec.PersonalInfo.Gender)
	setIfNotEmpty(&p.DemographicInfo.Nationality, rec.PersonalInfo.Nationality)
	setIfNotEmpty(&p.DemographicInfo.Emirate, rec.AddressInfo.Emirate)
	setIfNotEmpty(&p.DemographicInfo.EmiratesID, rec.PersonalInfo.IDNumber)
}

func (m *ProfileMerger) mergeResume(p *domain.ApplicantProfile, rec *domain.ResumeRecord) {
	if p.ApplicantInfo.Name == "" {
		p.ApplicantInfo.Name = rec.PersonalInfo.Name
	}

	level := educationLevel(rec.Education)
	p.EmploymentInfo.CurrentStatus = firstNonEmpty(rec.CurrentEmploymentStatus, p.EmploymentInfo.CurrentStatus, "unemployed")
	p.EmploymentInfo.History = rec.EmploymentHistory
	p.EmploymentInfo.TotalExperienceYears = rec.TotalExperienceYears
	p.EmploymentInfo.Skills = rec.Skills
	p.EmploymentInfo.EducationLevel = level

	p.DemographicInfo.EducationLevel = level
	if len(rec.Languages) > 0 {
		p.DemographicInfo.Languages = rec.Languages
	}
}

func (m *ProfileMerger) mergeAssets(p *domain.ApplicantProfile, rec *domain.AssetsLiabilitiesRecord) {
	var propertyValue float64
	for _, prop := range rec.Assets.Property {
		propertyValue += prop.EstimatedValue
	}

	// Statement figures are authoritative and overwrite unconditionally.
	p.WealthInfo.Savings = rec.Assets.CashAndEquivalents
	p.WealthInfo.PropertyValue = propertyValue
	p.WealthInfo.Investments = rec.Assets.Investments
	p.WealthInfo.TotalAssets = rec.Assets.TotalAssets
	p.WealthInfo.TotalDebts = rec.Liabilities.TotalLiabilities
	p.WealthInfo.NetWorth = rec.NetWorth
	p.WealthInfo.CreditCards = rec.Liabilities.CreditCards
	p.WealthInfo.Loans = rec.Liabilities.Loans
	p.WealthInfo.HasAssetsStatement = true
}

func (m *ProfileMerger) mergeCreditReport(p *domain.ApplicantProfile, rec *domain.CreditReportRecord) {
	// Credit report only fills identity gaps left by stronger sources.
	if p.ApplicantInfo.Name == "" {
		p.ApplicantInfo.Name = rec.PersonalInfo.Name
	}
	if p.ApplicantInfo.Age == 0 {
		if age := m.ageFromDOB(rec.PersonalInfo.DateOfBirth); age > 0 {
			p.ApplicantInfo.Age = age
		}
	}
	if p.ApplicantInfo.Email == "" {
		p.ApplicantInfo.Email = rec.ContactInfo.Email
	}
	if p.ApplicantInfo.Phone == "" {
		phones := append(append([]string{}, rec.ContactInfo.PhoneNumbers...), rec.ContactInfo.MobileNumbers...)
		if len(phones) > 0 {
			p.ApplicantInfo.Phone = phones[0]
		}
	}
	if p.ApplicantInfo.Address == "" && len(rec.Addresses) > 0 {
		p.ApplicantInfo.Address = rec.Addresses[0].Address
		setIfNotEmpty(&p.DemographicInfo.Emirate, rec.Addresses[0].Emirate)
	}

	setIfNotEmpty(&p.DemographicInfo.Gender, rec.PersonalInfo.Gender)
	setIfNotEmpty(&p.DemographicInfo.Nationality, rec.PersonalInfo.Nationality)
	setIfNotEmpty(&p.DemographicInfo.EmiratesID, rec.PersonalInfo.EmiratesID)
	setIfNotEmpty(&p.DemographicInfo.PassportNumber, rec.PersonalInfo.PassportNumber)

	p.WealthInfo.CreditScore = rec.CreditScore.Score
	p.WealthInfo.CreditRating = rec.CreditScore.Rating
	p.WealthInfo.CreditBureau = firstNonEmpty(rec.CreditScore.Bureau, "AECB")
	p.WealthInfo.UtilizationRatio = rec.CreditUtilization.UtilizationRatio
	p.WealthInfo.PaymentHistory = &domain.PaymentProfile{
		OnTimePercentage: rec.PaymentHistory.OnTimePayments,
		LatePayments:     rec.PaymentHistory.LatePayments,
		Defaults:         rec.PaymentHistory.Defaults,
	}
}

func (m *ProfileMerger) mergeBankStatement(p *domain.ApplicantProfile, rec *domain.BankStatementRecord) {
	if p.ApplicantInfo.Name == "" {
		p.ApplicantInfo.Name = rec.AccountInfo.AccountHolderName
	}

	salary := rec.IncomeAnalysis.AverageMonthlySalary
	stability := "irregular"
	if rec.IncomeAnalysis.SalaryFrequency == "monthly" {
		stability = "stable"
	}

	p.IncomeInfo.MonthlyIncome = salary
	p.IncomeInfo.AnnualIncome = salary * 12
	p.IncomeInfo.IncomeSources = append([]string{"salary"}, rec.IncomeAnalysis.OtherIncomeSources...)
	p.IncomeInfo.IncomeStability = stability
	p.IncomeInfo.BankAccountBalance = rec.BalanceSummary.ClosingBalance
	p.IncomeInfo.AverageBalance = rec.BalanceSummary.AverageBalance

	p.WealthInfo.BankAccounts = append(p.WealthInfo.BankAccounts, domain.ProfileBankAccount{
		BankName:      rec.AccountInfo.BankName,
		AccountType:   rec.AccountInfo.AccountType,
		Balance:       rec.BalanceSummary.ClosingBalance,
		AccountNumber: maskAccountNumber(rec.AccountInfo.AccountNumber),
	})
	p.WealthInfo.MonthlyIncome = rec.IncomeAnalysis.TotalMonthlyIncome
	p.WealthInfo.MonthlyExpenses = rec.SpendingAnalysis.AverageMonthlySpending
	p.WealthInfo.CashFlow = rec.IncomeAnalysis.TotalMonthlyIncome - rec.SpendingAnalysis.AverageMonthlySpending
	p.WealthInfo.FinancialBehavior = &domain.BehaviorProfile{
		AccountManagement:  rec.FinancialBehavior.AccountManagement,
		OverdraftIncidents: rec.FinancialBehavior.OverdraftIncidents,
		BounceIncidents:    rec.FinancialBehavior.BounceIncidents,
		CashFlowPattern:    rec.FinancialBehavior.CashFlowPattern,
		ATMUsageFrequency:  rec.SpendingAnalysis.ATMWithdrawalFrequency,
	}
	p.WealthInfo.BankingRelation = &domain.BankingRelation{
		PrimaryBank:       rec.AccountInfo.BankName,
		TransactionVolume: rec.TransactionSummary.TotalTransactions,
		ServiceCharges:    rec.SpendingAnalysis.ServiceChargesMonthly,
	}

	if salary > 0 {
		empStability := "unstable"
		if rec.FinancialBehavior.CashFlowPattern == "stable" {
			empStability = "stable"
		}
		p.EmploymentInfo.CurrentStatus = "employed"
		p.EmploymentInfo.MonthlySalary = salary
		p.EmploymentInfo.SalaryFrequency = firstNonEmpty(rec.IncomeAnalysis.SalaryFrequency, "monthly")
		p.EmploymentInfo.EmploymentStability = empStability
	}
}

// ageFromDOB derives a calendar-correct age, subtracting one when today's
// month/day precede the birthday.
func (m *ProfileMerger) ageFromDOB(dob string) int {
	if dob == "" {
		return 0
	}
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0
	}
	now := m.now()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// educationRanks orders degree keywords from highest to lowest so the first
// match over a degree string wins.
var educationRanks = []struct {
	keywords []string
	level    string
	rank     int
}{
	{[]string{"phd", "doctorate", "doctoral"}, "phd", 6},
	{[]string{"master", "mba"}, "master", 5},
	{[]string{"bachelor", "degree"}, "bachelor", 4},
	{[]string{"diploma", "associate"}, "diploma", 3},
	{[]string{"high school", "secondary"}, "high_school", 2},
	{[]string{"primary", "elementary"}, "primary", 1},
}

func educationLevel(education []domain.EducationEntry) string {
	if len(education) == 0 {
		return "unknown"
	}
	best := 0
	level := ""
	for _, edu := range education {
		degree := strings.ToLower(edu.Degree)
		for _, tier := range educationRanks {
			matched := false
			for _, kw := range tier.keywords {
				if strings.Contains(degree, kw) {
					matched = true
					break
				}
			}
			if matched {
				if tier.rank > best {
					best = tier.rank
					level = tier.level
				}
				break
			}
		}
	}
	if level == "" {
		return "high_school"
	}
	return level
}

func maskAccountNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
