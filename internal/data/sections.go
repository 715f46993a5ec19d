package data

const (
	Form10K = "10-K"
	Form10Q = "10-Q"
)

// Section names one filing sub-section. Keys are the parser section keys
// tried in order; the first present key wins.
type Section struct {
	Name string
	Form string
	Keys []string
}

var (
	FinancialStatements10Q     = Section{"financial_statements_10q", Form10Q, []string{"financial_statements", "financial_statements_(unaudited)"}}
	ManagementDiscussion10Q    = Section{"managements_discussion_and_analysis_10q", Form10Q, []string{"managements_discussion_and_analysis"}}
	MarketRiskDisclosures10Q   = Section{"quantitative_and_qualitative_disclosures_10q", Form10Q, []string{"quantitative_and_qualitative_disclosures"}}
	ControlsAndProcedures10Q   = Section{"controls_and_procedures_10q", Form10Q, []string{"controls_and_procedures"}}
	LegalProceedings10Q        = Section{"legal_proceedings_10q", Form10Q, []string{"legal_proceedings"}}
	RiskFactors10Q             = Section{"risk_factors_10q", Form10Q, []string{"risk_factors"}}
	UnregisteredEquitySales10Q = Section{"unregistered_sales_of_equity_10q", Form10Q, []string{"unregistered_sales_of_equity"}}
	BusinessInfo10K            = Section{"business_info_10k", Form10K, []string{"business_info"}}
	RiskFactors10K             = Section{"risk_factors_10k", Form10K, []string{"risk_factors"}}
	Properties10K              = Section{"properties_10k", Form10K, []string{"properties"}}
	LegalProceedings10K        = Section{"legal_proceedings_10k", Form10K, []string{"legal_proceedings"}}
	CommonEquityMarket10K      = Section{"market_for_registrants_common_stock_10k", Form10K, []string{"market_for_registrants_common"}}
	ManagementDiscussion10K    = Section{"managements_discussion_and_analysis_10k", Form10K, []string{"managements_discussion_and_analysis"}}
	MarketRiskDisclosures10K   = Section{"quantitative_and_qualitative_disclosures_10k", Form10K, []string{"quantitative_and_qualitative_disclosures"}}
	FinancialStatements10K     = Section{"financial_statements_and_supplementary_10k", Form10K, []string{"financial_statements_and_supplementary"}}
	DirectorsAndOfficers10K    = Section{"directors_executive_officers_and_10k", Form10K, []string{"directors_executive_officers_and"}}
	ControlsAndProcedures10K   = Section{"controls_and_procedures_10k", Form10K, []string{"controls_and_procedures"}}
	ExecutiveCompensation10K   = Section{"executive_compensation_10k", Form10K, []string{"executive_compensation"}}
	SecurityOwnership10K       = Section{"security_ownership_of_certain_10k", Form10K, []string{"security_ownership_of_certain"}}
	ExhibitsAndSchedules10K    = Section{"exhibit_and_financial_statement_10k", Form10K, []string{"exhibit_and_financial_statement"}}
)

// AgentSections are the sections the filing agent draws from.
var AgentSections = []Section{
	FinancialStatements10Q,
	ManagementDiscussion10Q,
	MarketRiskDisclosures10Q,
	ControlsAndProcedures10Q,
	LegalProceedings10Q,
	RiskFactors10Q,
	UnregisteredEquitySales10Q,
	BusinessInfo10K,
	RiskFactors10K,
	LegalProceedings10K,
	ManagementDiscussion10K,
	MarketRiskDisclosures10K,
	FinancialStatements10K,
	DirectorsAndOfficers10K,
	ControlsAndProcedures10K,
	ExecutiveCompensation10K,
	SecurityOwnership10K,
	ExhibitsAndSchedules10K,
}

// Sections is every section reachable through Access.Section.
var Sections = append(append([]Section{}, AgentSections...), Properties10K, CommonEquityMarket10K)

// LookupSection finds a section by Name.
func LookupSection(name string) (Section, bool) {
	for _, s := range Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}
