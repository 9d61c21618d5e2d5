// Package mapper holds the static knowledge of which raw IRS e-file field
// identifiers carry each logical metric, per form variant. Form revisions
// move the same quantity between differently named elements, so every
// (variant, metric) pair maps to an ordered list of candidate paths; the
// parser probes them in order and takes the first value present.
package mapper

import (
	"strings"

	"form990x/pkg/contracts/domain"
)

// Candidates returns the candidate document paths for metric on the given
// form variant, in priority order. An unknown variant or metric yields nil,
// which the parser treats as "metric absent" rather than an error.
func Candidates(v domain.FormVariant, m domain.Metric) []string {
	byMetric, ok := fieldTable[v]
	if !ok {
		return nil
	}
	return byMetric[m]
}

// VariantFromReturnType maps the ReturnTypeCd header value to a known form
// variant. Amended return codes such as "990EZ/A" resolve to their base form.
func VariantFromReturnType(code string) (domain.FormVariant, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if i := strings.IndexByte(code, '/'); i > 0 {
		code = code[:i]
	}
	switch code {
	case "990":
		return domain.Variant990, true
	case "990EZ":
		return domain.Variant990EZ, true
	case "990PF":
		return domain.Variant990PF, true
	default:
		return "", false
	}
}

// Header fields live outside the form body and are shared by all variants.
var headerFields = map[domain.Metric][]string{
	domain.MetricOrganizationName: {
		"//ReturnHeader/Filer/BusinessName/BusinessNameLine1Txt",
		"//ReturnHeader/Filer/BusinessName/BusinessNameLine1",
	},
}

// fieldTable is the schema-variance table. Paths are probed against the
// parsed document with namespace-agnostic local names.
var fieldTable = map[domain.FormVariant]map[domain.Metric][]string{
	domain.Variant990: {
		domain.MetricWebsite:         {"//IRS990/WebsiteAddressTxt"},
		domain.MetricMission:         {"//IRS990/MissionDesc"},
		domain.MetricVotingMembers:   {"//IRS990/VotingMembersGoverningBodyCnt"},
		domain.MetricIndependentMbrs: {"//IRS990/VotingMembersIndependentCnt"},

		domain.MetricTotalContributions: {"//IRS990/TotalContributionsAmt"},
		domain.MetricGovernmentGrants:   {"//IRS990/GovernmentGrantsAmt"},
		domain.MetricMembershipDues:     {"//IRS990/MembershipDuesAmt"},
		domain.MetricFundraisingEvents:  {"//IRS990/FundraisingEventsAmt"},
		domain.MetricProgramServiceRevenue: {
			"//IRS990/TotalProgramServiceRevenueAmt",
			"//IRS990/ProgramServiceRevenueGrp/TotalRevenueColumnAmt",
		},
		domain.MetricInvestmentIncome: {
			"//IRS990/CYInvestmentIncomeAmt",
			"//IRS990/InvestmentIncomeGrp/TotalRevenueColumnAmt",
		},
		domain.MetricTotalRevenue: {
			"//IRS990/TotalRevenueGrp/TotalRevenueColumnAmt",
			"//IRS990/CYTotalRevenueAmt",
		},

		domain.MetricGrantsPaid: {
			"//IRS990/GrantsToDomesticOrgsGrp/TotalAmt",
			"//IRS990/CYGrantsAndSimilarPaidAmt",
		},
		domain.MetricOfficerComp:        {"//IRS990/CompCurrentOfcrDirectorsGrp/TotalAmt"},
		domain.MetricOtherSalariesWages: {"//IRS990/OtherSalariesAndWagesGrp/TotalAmt"},
		domain.MetricPayrollTaxes:       {"//IRS990/PayrollTaxesGrp/TotalAmt"},
		domain.MetricFundraisingExpenses: {
			"//IRS990/TotalFunctionalExpensesGrp/FundraisingAmt",
		},
		domain.MetricTotalExpenses: {
			"//IRS990/TotalFunctionalExpensesGrp/TotalAmt",
			"//IRS990/CYTotalExpensesAmt",
		},

		domain.MetricTotalAssets:      {"//IRS990/TotalAssetsGrp/EOYAmt", "//IRS990/TotalAssetsEOYAmt"},
		domain.MetricTotalLiabilities: {"//IRS990/TotalLiabilitiesGrp/EOYAmt", "//IRS990/TotalLiabilitiesEOYAmt"},
		domain.MetricNetAssets: {
			"//IRS990/TotalNetAssetsFundBalanceGrp/EOYAmt",
			"//IRS990/NetAssetsOrFundBalancesEOYAmt",
		},
		domain.MetricCompensationTotal: {
			"//IRS990/CompCurrentOfcrDirectorsGrp/TotalAmt",
			"//IRS990/CYSalariesCompEmpBnftPaidAmt",
		},
	},

	domain.Variant990EZ: {
		domain.MetricWebsite:       {"//IRS990EZ/WebsiteAddressTxt"},
		domain.MetricMission:       {"//IRS990EZ/PrimaryExemptPurposeTxt"},
		domain.MetricVotingMembers: nil, // not reported on the EZ form

		domain.MetricTotalContributions: {"//IRS990EZ/ContributionsGiftsGrantsEtcAmt"},
		domain.MetricMembershipDues:     {"//IRS990EZ/MembershipDuesAmt"},
		domain.MetricFundraisingEvents: {
			"//IRS990EZ/FundraisingGrossIncomeAmt",
			"//IRS990EZ/SpecialEventsDirectExpensesAmt",
		},
		domain.MetricProgramServiceRevenue: {"//IRS990EZ/ProgramServiceRevenueAmt"},
		domain.MetricInvestmentIncome:      {"//IRS990EZ/InvestmentIncomeAmt"},
		domain.MetricTotalRevenue:          {"//IRS990EZ/TotalRevenueAmt"},

		domain.MetricGrantsPaid:         {"//IRS990EZ/GrantsAndSimilarAmountsPaidAmt"},
		domain.MetricOtherSalariesWages: {"//IRS990EZ/SalariesOtherCompEmplBnftAmt"},
		domain.MetricTotalExpenses:      {"//IRS990EZ/TotalExpensesAmt"},

		domain.MetricTotalAssets: {
			"//IRS990EZ/Form990TotalAssetsGrp/EOYAmt",
			"//IRS990EZ/TotalAssetsEOYAmt",
		},
		domain.MetricTotalLiabilities: {
			"//IRS990EZ/SumOfTotalLiabilitiesGrp/EOYAmt",
			"//IRS990EZ/TotalLiabilitiesEOYAmt",
		},
		domain.MetricNetAssets: {
			"//IRS990EZ/NetAssetsOrFundBalancesGrp/EOYAmt",
			"//IRS990EZ/NetAssetsOrFundBalancesEOYAmt",
		},
		domain.MetricCompensationTotal: {"//IRS990EZ/SalariesOtherCompEmplBnftAmt"},
	},

	domain.Variant990PF: {
		domain.MetricWebsite: {"//IRS990PF/WebsiteAddressTxt"},

		domain.MetricTotalContributions: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/ContriRcvdRevAndExpnssAmt",
		},
		domain.MetricInvestmentIncome: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/DividendsRevAndExpnssAmt",
			"//IRS990PF/AnalysisOfRevenueAndExpenses/InterestOnSavRevAndExpnssAmt",
		},
		domain.MetricTotalRevenue: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/TotalRevAndExpnssAmt",
		},

		domain.MetricGrantsPaid: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/ContriPaidRevAndExpnssAmt",
		},
		domain.MetricOfficerComp: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/CompOfcrDirTrstRevAndExpnssAmt",
		},
		domain.MetricOtherSalariesWages: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/OthEmplSlrsWgsRevAndExpnssAmt",
		},
		domain.MetricTotalExpenses: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/TotalExpensesRevAndExpnssAmt",
		},

		domain.MetricTotalAssets: {
			"//IRS990PF/Form990PFBalanceSheetsGrp/TotalAssetsEOYAmt",
			"//IRS990PF/Form990PFBalanceSheetsGrp/TotalAssetsEOYFMVAmt",
		},
		domain.MetricTotalLiabilities: {
			"//IRS990PF/Form990PFBalanceSheetsGrp/TotalLiabilitiesEOYAmt",
		},
		domain.MetricNetAssets: {
			"//IRS990PF/Form990PFBalanceSheetsGrp/TotNetAstOrFundBalancesEOYAmt",
		},
		domain.MetricCompensationTotal: {
			"//IRS990PF/AnalysisOfRevenueAndExpenses/CompOfcrDirTrstRevAndExpnssAmt",
		},
	},
}

func init() {
	// Header fields apply to every variant; merging here keeps the
	// per-variant tables focused on the form body.
	for _, byMetric := range fieldTable {
		for m, paths := range headerFields {
			if _, exists := byMetric[m]; !exists {
				byMetric[m] = paths
			}
		}
	}
}
