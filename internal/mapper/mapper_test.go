package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form990x/pkg/contracts/domain"
)

func TestVariantFromReturnType(t *testing.T) {
	tests := []struct {
		code  string
		want  domain.FormVariant
		known bool
	}{
		{"990", domain.Variant990, true},
		{"990EZ", domain.Variant990EZ, true},
		{"990PF", domain.Variant990PF, true},
		{" 990ez ", domain.Variant990EZ, true},
		{"990EZ/A", domain.Variant990EZ, true},
		{"990T", "", false},
		{"1120", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := VariantFromReturnType(tt.code)
		assert.Equal(t, tt.known, ok, "code %q", tt.code)
		assert.Equal(t, tt.want, got, "code %q", tt.code)
	}
}

func TestCandidatesOrderedByPriority(t *testing.T) {
	candidates := Candidates(domain.Variant990, domain.MetricTotalRevenue)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "//IRS990/TotalRevenueGrp/TotalRevenueColumnAmt", candidates[0],
		"the revenue group column is the preferred source")
}

func TestCandidatesDifferAcrossVariants(t *testing.T) {
	for _, metric := range []domain.Metric{
		domain.MetricTotalRevenue,
		domain.MetricTotalExpenses,
		domain.MetricNetAssets,
		domain.MetricCompensationTotal,
	} {
		v990 := Candidates(domain.Variant990, metric)
		vEZ := Candidates(domain.Variant990EZ, metric)
		vPF := Candidates(domain.Variant990PF, metric)
		require.NotEmpty(t, v990, "metric %s", metric)
		require.NotEmpty(t, vEZ, "metric %s", metric)
		require.NotEmpty(t, vPF, "metric %s", metric)
		assert.NotEqual(t, v990[0], vEZ[0], "metric %s must be variant-specific", metric)
		assert.NotEqual(t, v990[0], vPF[0], "metric %s must be variant-specific", metric)
	}
}

func TestCandidatesUnknownVariantOrMetric(t *testing.T) {
	assert.Nil(t, Candidates(domain.FormVariant("990N"), domain.MetricTotalRevenue))
	assert.Nil(t, Candidates(domain.Variant990, domain.Metric("made_up")))
}

func TestOrganizationNameSharedAcrossVariants(t *testing.T) {
	for _, v := range []domain.FormVariant{domain.Variant990, domain.Variant990EZ, domain.Variant990PF} {
		candidates := Candidates(v, domain.MetricOrganizationName)
		require.NotEmpty(t, candidates, "variant %s", v)
		assert.Contains(t, candidates[0], "ReturnHeader/Filer", "variant %s", v)
	}
}
