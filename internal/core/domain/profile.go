package domain

// ApplicantProfile is the cross-document accumulator one workflow builds by
// merging structured records in input order. One profile belongs to exactly
// one workflow run and is never shared between goroutines.
type ApplicantProfile struct {
	ApplicationID string `json:"application_id"`

	ApplicantInfo   ApplicantInfo   `json:"applicant_info"`
	IncomeInfo      IncomeInfo      `json:"income_info"`
	EmploymentInfo  EmploymentInfo  `json:"employment_info"`
	FamilyInfo      FamilyInfo      `json:"family_info"`
	WealthInfo      WealthInfo      `json:"wealth_info"`
	DemographicInfo DemographicInfo `json:"demographic_info"`

	DocumentSources []DocumentSource `json:"document_sources"`
}

// NewApplicantProfile seeds a fresh accumulator for one workflow run.
func NewApplicantProfile(applicationID string) *ApplicantProfile {
	return &ApplicantProfile{ApplicationID: applicationID}
}

// DocumentSource records which documents contributed to the profile, for audit.
type DocumentSource struct {
	Type       DocumentType `json:"type"`
	Confidence float64      `json:"confidence"`
	FileFormat FileFormat   `json:"file_format"`
}

type ApplicantInfo struct {
	Name        string `json:"name,omitempty"`
	Age         int    `json:"age,omitempty"`
	Address     string `json:"address,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	IDNumber    string `json:"id_number,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type IncomeInfo struct {
	MonthlyIncome      float64  `json:"monthly_income,omitempty"`
	AnnualIncome       float64  `json:"annual_income,omitempty"`
	IncomeSources      []string `json:"income_sources,omitempty"`
	IncomeStability    string   `json:"income_stability,omitempty"`
	BankAccountBalance float64  `json:"bank_account_balance,omitempty"`
	AverageBalance     float64  `json:"average_balance,omitempty"`
}

type EmploymentInfo struct {
	CurrentStatus        string            `json:"current_status,omitempty"`
	History              []EmploymentEntry `json:"history,omitempty"`
	TotalExperienceYears float64           `json:"total_experience_years,omitempty"`
	Skills               []string          `json:"skills,omitempty"`
	EducationLevel       string            `json:"education_level,omitempty"`
	MonthsUnemployed     float64           `json:"months_unemployed,omitempty"`
	MonthlySalary        float64           `json:"monthly_salary,omitempty"`
	SalaryFrequency      string            `json:"salary_frequency,omitempty"`
	EmploymentStability  string            `json:"employment_stability,omitempty"`
}

type FamilyInfo struct {
	FamilySize           int      `json:"family_size,omitempty"`
	Dependents           int      `json:"dependents,omitempty"`
	MaritalStatus        string   `json:"marital_status,omitempty"`
	SpecialCircumstances []string `json:"special_circumstances,omitempty"`
}

type WealthInfo struct {
	Savings           float64             `json:"savings,omitempty"`
	PropertyValue     float64             `json:"property_value,omitempty"`
	Investments       InvestmentBreakdown `json:"investments,omitempty"`
	TotalAssets       float64             `json:"total_assets,omitempty"`
	TotalDebts        float64             `json:"total_debts,omitempty"`
	NetWorth          float64             `json:"net_worth,omitempty"`
	CreditCards       []CreditCardDebt    `json:"credit_cards,omitempty"`
	Loans             []LoanDebt          `json:"loans,omitempty"`
	CreditScore       float64             `json:"credit_score,omitempty"`
	CreditRating      string              `json:"credit_rating,omitempty"`
	CreditBureau      string              `json:"credit_bureau,omitempty"`
	UtilizationRatio  float64             `json:"credit_utilization_ratio,omitempty"`
	PaymentHistory    *PaymentProfile     `json:"payment_history,omitempty"`
	BankAccounts      []ProfileBankAccount `json:"bank_accounts,omitempty"`
	MonthlyIncome     float64             `json:"monthly_income,omitempty"`
	MonthlyExpenses   float64             `json:"monthly_expenses,omitempty"`
	CashFlow          float64             `json:"cash_flow,omitempty"`
	FinancialBehavior *BehaviorProfile    `json:"financial_behavior,omitempty"`
	BankingRelation   *BankingRelation    `json:"banking_relationship,omitempty"`

	// set by merge so the authoritative-source flags survive serialization
	HasAssetsStatement bool `json:"has_assets_statement,omitempty"`
}

type PaymentProfile struct {
	OnTimePercentage float64 `json:"on_time_percentage"`
	LatePayments     float64 `json:"late_payments"`
	Defaults         float64 `json:"defaults"`
}

// ProfileBankAccount is the audit-safe account view: the account number is
// masked down to its last four digits before it enters the profile.
type ProfileBankAccount struct {
	BankName      string  `json:"bank_name"`
	AccountType   string  `json:"account_type,omitempty"`
	Balance       float64 `json:"balance"`
	AccountNumber string  `json:"account_number,omitempty"`
}

type BehaviorProfile struct {
	AccountManagement string  `json:"account_management,omitempty"`
	OverdraftIncidents int    `json:"overdraft_incidents"`
	BounceIncidents    int    `json:"bounce_incidents"`
	CashFlowPattern    string `json:"cash_flow_pattern,omitempty"`
	ATMUsageFrequency  float64 `json:"atm_usage_frequency,omitempty"`
}

type BankingRelation struct {
	PrimaryBank       string  `json:"primary_bank,omitempty"`
	AccountAgeMonths  int     `json:"account_age_months,omitempty"`
	TransactionVolume int     `json:"transaction_volume,omitempty"`
	ServiceCharges    float64 `json:"service_charges,omitempty"`
}

type DemographicInfo struct {
	Gender           string   `json:"gender,omitempty"`
	Nationality      string   `json:"nationality,omitempty"`
	Emirate          string   `json:"emirate,omitempty"`
	EmiratesID       string   `json:"emirates_id,omitempty"`
	PassportNumber   string   `json:"passport_number,omitempty"`
	EducationLevel   string   `json:"education_level,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	DisabilityStatus bool     `json:"disability_status,omitempty"`
	VeteranStatus    bool     `json:"veteran_status,omitempty"`
}

// IntakeApplicant carries the optional hints supplied by the intake boundary
// alongside the document batch. Family and demographic figures come from the
// application form, not from documents, so they seed the profile up front.
type IntakeApplicant struct {
	Name                 string   `json:"name,omitempty"`
	EmiratesID           string   `json:"emirates_id,omitempty"`
	Phone                string   `json:"phone,omitempty"`
	Email                string   `json:"email,omitempty"`
	FamilySize           int      `json:"family_size,omitempty"`
	Dependents           int      `json:"dependents,omitempty"`
	MaritalStatus        string   `json:"marital_status,omitempty"`
	SpecialCircumstances []string `json:"special_circumstances,omitempty"`
	DisabilityStatus     bool     `json:"disability_status,omitempty"`
	VeteranStatus        bool     `json:"veteran_status,omitempty"`
}
