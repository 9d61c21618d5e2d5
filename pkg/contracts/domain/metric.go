package domain

// Metric is a normalized financial quantity extracted from a filing,
// independent of how any particular form revision names the field.
type Metric string

const (
	MetricOrganizationName Metric = "organization_name"
	MetricWebsite          Metric = "website"
	MetricMission          Metric = "mission"
	MetricVotingMembers    Metric = "voting_members"
	MetricIndependentMbrs  Metric = "independent_members"

	MetricTotalContributions    Metric = "total_contributions"
	MetricGovernmentGrants      Metric = "government_grants"
	MetricMembershipDues        Metric = "membership_dues"
	MetricFundraisingEvents     Metric = "fundraising_events"
	MetricProgramServiceRevenue Metric = "program_service_revenue"
	MetricInvestmentIncome      Metric = "investment_income"
	MetricTotalRevenue          Metric = "total_revenue"

	MetricGrantsPaid          Metric = "grants_paid"
	MetricOfficerComp         Metric = "officer_compensation"
	MetricOtherSalariesWages  Metric = "other_salaries_wages"
	MetricPayrollTaxes        Metric = "payroll_taxes"
	MetricFundraisingExpenses Metric = "fundraising_expenses"
	MetricTotalExpenses       Metric = "total_expenses"

	MetricTotalAssets       Metric = "total_assets"
	MetricTotalLiabilities  Metric = "total_liabilities"
	MetricNetAssets         Metric = "net_assets"
	MetricCompensationTotal Metric = "compensation_total"
)

// AllMetrics lists every logical metric in output column order. The
// exporter and the parser both iterate this slice so the column set and
// the extraction set cannot drift apart.
var AllMetrics = []Metric{
	MetricOrganizationName,
	MetricWebsite,
	MetricMission,
	MetricVotingMembers,
	MetricIndependentMbrs,
	MetricTotalContributions,
	MetricGovernmentGrants,
	MetricMembershipDues,
	MetricFundraisingEvents,
	MetricProgramServiceRevenue,
	MetricInvestmentIncome,
	MetricTotalRevenue,
	MetricGrantsPaid,
	MetricOfficerComp,
	MetricOtherSalariesWages,
	MetricPayrollTaxes,
	MetricFundraisingExpenses,
	MetricTotalExpenses,
	MetricTotalAssets,
	MetricTotalLiabilities,
	MetricNetAssets,
	MetricCompensationTotal,
}

// ParsedMetrics maps each extracted metric to its raw string value as it
// appears in the filing. A missing key marks the metric as absent; values
// are never empty strings.
type ParsedMetrics map[Metric]string

// FormVariant is a recognized IRS return type. Field identifiers for the
// same logical metric differ across variants.
type FormVariant string

const (
	Variant990   FormVariant = "990"
	Variant990EZ FormVariant = "990EZ"
	Variant990PF FormVariant = "990PF"
)
