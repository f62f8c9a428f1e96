package domain

// StructuredRecord is the typed output of extracting one document's fields.
// Exactly one variant pointer is set for a successful extraction; Error is set
// (and Confidence forced to zero) when the model response was unusable.
type StructuredRecord struct {
	Type       DocumentType `json:"document_type"`
	Format     FileFormat   `json:"file_format,omitempty"`
	Confidence float64      `json:"confidence_score"`

	EmiratesID        *EmiratesIDRecord        `json:"emirates_id,omitempty"`
	Resume            *ResumeRecord            `json:"resume,omitempty"`
	AssetsLiabilities *AssetsLiabilitiesRecord `json:"assets_liabilities,omitempty"`
	CreditReport      *CreditReportRecord      `json:"credit_report,omitempty"`
	BankStatement     *BankStatementRecord     `json:"bank_statement,omitempty"`
	Generic           *GenericRecord           `json:"generic,omitempty"`

	Error   string `json:"error,omitempty"`
	RawText string `json:"raw_response,omitempty"`
}

// ErrorRecord builds the marker record used when field extraction fails.
func ErrorRecord(docType DocumentType, format FileFormat, errMsg, raw string) StructuredRecord {
	return StructuredRecord{
		Type:       docType,
		Format:     format,
		Confidence: 0,
		Error:      errMsg,
		RawText:    raw,
	}
}

// Failed reports whether the record is an error marker.
func (r StructuredRecord) Failed() bool { return r.Error != "" }

type EmiratesIDRecord struct {
	PersonalInfo IdentityPersonalInfo `json:"personal_info"`
	AddressInfo  AddressInfo          `json:"address_info"`

	Confidence      float64  `json:"confidence_score"`
	ExtractedFields []string `json:"extracted_fields,omitempty"`
	MissingFields   []string `json:"missing_fields,omitempty"`
}

type IdentityPersonalInfo struct {
	FullName       string `json:"full_name"`
	FullNameArabic string `json:"full_name_arabic,omitempty"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"`
	PlaceOfBirth   string `json:"place_of_birth,omitempty"`
	Gender         string `json:"gender"`
	IDNumber       string `json:"id_number"`
	IssueDate      string `json:"issue_date,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
}

type AddressInfo struct {
	Emirate     string `json:"emirate"`
	Area        string `json:"area,omitempty"`
	FullAddress string `json:"full_address"`
}

type ResumeRecord struct {
	PersonalInfo            ContactPersonalInfo `json:"personal_info"`
	EmploymentHistory       []EmploymentEntry   `json:"employment_history"`
	Education               []EducationEntry    `json:"education"`
	Skills                  []string            `json:"skills,omitempty"`
	Certifications          []string            `json:"certifications,omitempty"`
	Languages               []string            `json:"languages,omitempty"`
	TotalExperienceYears    float64             `json:"total_experience_years"`
	CurrentEmploymentStatus string              `json:"current_employment_status"`

	Confidence float64 `json:"confidence_score"`
}

type ContactPersonalInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

type EmploymentEntry struct {
	Company        string  `json:"company"`
	Position       string  `json:"position"`
	StartDate      string  `json:"start_date,omitempty"`
	EndDate        string  `json:"end_date,omitempty"`
	DurationMonths float64 `json:"duration_months,omitempty"`
	Description    string  `json:"description,omitempty"`
	EmploymentType string  `json:"employment_type,omitempty"`
}

type EducationEntry struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

type AssetsLiabilitiesRecord struct {
	Assets        AssetBreakdown     `json:"assets"`
	Liabilities   LiabilityBreakdown `json:"liabilities"`
	NetWorth      float64            `json:"net_worth"`
	StatementDate string             `json:"statement_date,omitempty"`

	Confidence float64 `json:"confidence_score"`
}

type AssetBreakdown struct {
	CashAndEquivalents float64             `json:"cash_and_equivalents"`
	BankAccounts       []DeclaredAccount   `json:"bank_accounts,omitempty"`
	Investments        InvestmentBreakdown `json:"investments"`
	Property           []PropertyAsset     `json:"property,omitempty"`
	Vehicles           []VehicleAsset      `json:"vehicles,omitempty"`
	OtherAssets        float64             `json:"other_assets"`
	TotalAssets        float64             `json:"total_assets"`
}

type DeclaredAccount struct {
	BankName    string  `json:"bank_name"`
	AccountType string  `json:"account_type,omitempty"`
	Balance     float64 `json:"balance"`
}

type InvestmentBreakdown struct {
	Stocks      float64 `json:"stocks"`
	Bonds       float64 `json:"bonds"`
	MutualFunds float64 `json:"mutual_funds"`
	RealEstate  float64 `json:"real_estate"`
	Other       float64 `json:"other_investments,omitempty"`
}

type PropertyAsset struct {
	Type                string  `json:"type,omitempty"`
	Location            string  `json:"location,omitempty"`
	EstimatedValue      float64 `json:"estimated_value"`
	MortgageOutstanding float64 `json:"mortgage_outstanding,omitempty"`
}

type VehicleAsset struct {
	Type            string  `json:"type,omitempty"`
	Model           string  `json:"model,omitempty"`
	Year            int     `json:"year,omitempty"`
	EstimatedValue  float64 `json:"estimated_value"`
	LoanOutstanding float64 `json:"loan_outstanding,omitempty"`
}

type LiabilityBreakdown struct {
	CreditCards      []CreditCardDebt `json:"credit_cards,omitempty"`
	Loans            []LoanDebt       `json:"loans,omitempty"`
	OtherLiabilities float64          `json:"other_liabilities"`
	TotalLiabilities float64          `json:"total_liabilities"`
}

type CreditCardDebt struct {
	Bank               string  `json:"bank"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	CreditLimit        float64 `json:"credit_limit,omitempty"`
}

type LoanDebt struct {
	Type               string  `json:"type,omitempty"`
	Lender             string  `json:"lender,omitempty"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	MonthlyPayment     float64 `json:"monthly_payment,omitempty"`
}

type CreditReportRecord struct {
	PersonalInfo         ReportedPersonalInfo  `json:"personal_info"`
	CreditScore          CreditScoreInfo       `json:"credit_score"`
	Addresses            []ReportedAddress     `json:"addresses,omitempty"`
	ContactInfo          ReportedContactInfo   `json:"contact_info"`
	InformationProviders []InformationProvider `json:"information_providers,omitempty"`
	Identification       []IdentityDocument    `json:"identification,omitempty"`
	ReportMetadata       ReportMetadata        `json:"report_metadata"`
	CreditUtilization    CreditUtilization     `json:"credit_utilization"`
	PaymentHistory       PaymentHistory        `json:"payment_history"`

	Confidence float64 `json:"confidence_score"`
}

type ReportedPersonalInfo struct {
	Name           string `json:"name"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	ArabicName     string `json:"arabic_name,omitempty"`
	Gender         string `json:"gender,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	CBSubjectID    string `json:"cb_subject_id,omitempty"`
	EmiratesID     string `json:"emirates_id,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
}

type CreditScoreInfo struct {
	Score      float64 `json:"score"`
	ScoreRange string  `json:"score_range,omitempty"`
	Rating     string  `json:"rating,omitempty"`
	Bureau     string  `json:"bureau,omitempty"`
}

type ReportedAddress struct {
	Address     string `json:"address"`
	Emirate     string `json:"emirate,omitempty"`
	POBox       string `json:"po_box,omitempty"`
	Provider    string `json:"provider,omitempty"`
	DateUpdated string `json:"date_updated,omitempty"`
}

type ReportedContactInfo struct {
	Email         string   `json:"email,omitempty"`
	PhoneNumbers  []string `json:"phone_numbers,omitempty"`
	MobileNumbers []string `json:"mobile_numbers,omitempty"`
}

type InformationProvider struct {
	ProviderCode string `json:"provider_code,omitempty"`
	ProviderName string `json:"provider_name"`
	Description  string `json:"description,omitempty"`
	LastUpdate   string `json:"last_update,omitempty"`
}

type IdentityDocument struct {
	Type       string `json:"type"`
	Number     string `json:"number"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

type ReportMetadata struct {
	ReportDate string `json:"report_date,omitempty"`
	ResponseID string `json:"response_id,omitempty"`
	Bureau     string `json:"bureau,omitempty"`
}

type CreditUtilization struct {
	UtilizationRatio float64 `json:"utilization_ratio"`
}

type PaymentHistory struct {
	OnTimePayments float64 `json:"on_time_payments"`
	LatePayments   float64 `json:"late_payments"`
	Defaults       float64 `json:"defaults"`
}

type BankStatementRecord struct {
	AccountInfo        AccountInfo        `json:"account_info"`
	StatementPeriod    StatementPeriod    `json:"statement_period"`
	BalanceSummary     BalanceSummary     `json:"balance_summary"`
	TransactionSummary TransactionSummary `json:"transaction_summary"`
	Transactions       []Transaction      `json:"transactions,omitempty"`
	IncomeAnalysis     IncomeAnalysis     `json:"income_analysis"`
	SpendingAnalysis   SpendingAnalysis   `json:"spending_analysis"`
	FinancialBehavior  FinancialBehavior  `json:"financial_behavior"`

	Confidence float64 `json:"confidence_score"`
}

type AccountInfo struct {
	AccountHolderName string `json:"account_holder_name"`
	AccountNumber     string `json:"account_number,omitempty"`
	IBAN              string `json:"iban,omitempty"`
	AccountType       string `json:"account_type,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	Branch            string `json:"branch,omitempty"`
	Currency          string `json:"currency,omitempty"`
}

type StatementPeriod struct {
	From string `json:"statement_from,omitempty"`
	To   string `json:"statement_to,omitempty"`
	Date string `json:"statement_date,omitempty"`
}

type BalanceSummary struct {
	OpeningBalance float64 `json:"opening_balance"`
	ClosingBalance float64 `json:"closing_balance"`
	AverageBalance float64 `json:"average_balance,omitempty"`
	MinimumBalance float64 `json:"minimum_balance,omitempty"`
	MaximumBalance float64 `json:"maximum_balance,omitempty"`
}

type TransactionSummary struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalDebits       int     `json:"total_debits,omitempty"`
	TotalCredits      int     `json:"total_credits,omitempty"`
	TotalDebitAmount  float64 `json:"total_debit_amount,omitempty"`
	TotalCreditAmount float64 `json:"total_credit_amount,omitempty"`
	SalaryCredits     int     `json:"salary_credits,omitempty"`
	ATMWithdrawals    int     `json:"atm_withdrawals,omitempty"`
	ServiceCharges    float64 `json:"service_charges,omitempty"`
}

type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"transaction_type"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance,omitempty"`
	Category    string  `json:"category,omitempty"`
}

type IncomeAnalysis struct {
	SalaryFrequency      string   `json:"salary_frequency,omitempty"`
	AverageMonthlySalary float64  `json:"average_monthly_salary"`
	OtherIncomeSources   []string `json:"other_income_sources,omitempty"`
	TotalMonthlyIncome   float64  `json:"total_monthly_income"`
}

type SpendingAnalysis struct {
	AverageMonthlySpending float64            `json:"average_monthly_spending"`
	ATMWithdrawalFrequency float64            `json:"atm_withdrawal_frequency,omitempty"`
	ServiceChargesMonthly  float64            `json:"service_charges_monthly,omitempty"`
	LargestExpense         float64            `json:"largest_expense,omitempty"`
	SpendingCategories     map[string]float64 `json:"spending_categories,omitempty"`
}

type FinancialBehavior struct {
	AccountManagement   string  `json:"account_management,omitempty"`
	OverdraftIncidents  int     `json:"overdraft_incidents,omitempty"`
	BounceIncidents     int     `json:"bounce_incidents,omitempty"`
	AverageDailyBalance float64 `json:"average_daily_balance,omitempty"`
	CashFlowPattern     string  `json:"cash_flow_pattern,omitempty"`
}

// GenericRecord captures best-effort extraction for unclassified documents.
type GenericRecord struct {
	Classification  string                    `json:"document_classification,omitempty"`
	ExtractedInfo   map[string]map[string]any `json:"extracted_info,omitempty"`
	Recommendations []string                  `json:"recommendations,omitempty"`

	Confidence float64 `json:"confidence_score"`
}
