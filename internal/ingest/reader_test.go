package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form990x/pkg/contracts/domain"
)

func TestReadRequestsParsesValidInput(t *testing.T) {
	input := "ein,year\n12-3456789,2022\n987654321,2021\n"
	requests, err := ReadRequests(strings.NewReader(input), Options{})
	require.NoError(t, err)

	assert.Equal(t, []domain.FilingRequest{
		{EIN: "123456789", Year: 2022},
		{EIN: "987654321", Year: 2021},
	}, requests)
}

func TestReadRequestsHeaderIsCaseInsensitiveWithExtraColumns(t *testing.T) {
	input := "Name,EIN,Year\nSome Org,123456789,2022\n"
	requests, err := ReadRequests(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "123456789", requests[0].EIN)
}

func TestReadRequestsPreservesDuplicates(t *testing.T) {
	input := "ein,year\n123456789,2022\n123456789,2022\n"
	requests, err := ReadRequests(strings.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Len(t, requests, 2, "duplicates are processed independently")
}

func TestReadRequestsMissingColumns(t *testing.T) {
	_, err := ReadRequests(strings.NewReader("company,period\nX,2022\n"), Options{})
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadRequestsEmptyFile(t *testing.T) {
	_, err := ReadRequests(strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestReadRequestsNoDataRows(t *testing.T) {
	_, err := ReadRequests(strings.NewReader("ein,year\n"), Options{})
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadRequestsRowLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("ein,year\n")
	for i := 0; i < 5; i++ {
		b.WriteString("123456789,2022\n")
	}

	_, err := ReadRequests(strings.NewReader(b.String()), Options{MaxRows: 4})
	assert.ErrorIs(t, err, ErrTooManyRows)

	requests, err := ReadRequests(strings.NewReader(b.String()), Options{MaxRows: 5})
	require.NoError(t, err)
	assert.Len(t, requests, 5)
}

func TestReadRequestsRejectsBadEIN(t *testing.T) {
	for _, ein := range []string{"12345", "12345678X", ""} {
		_, err := ReadRequests(strings.NewReader("ein,year\n"+ein+",2022\n"), Options{})
		assert.ErrorIs(t, err, ErrInvalidInput, "ein %q", ein)
	}
}

func TestReadRequestsRejectsBadYear(t *testing.T) {
	for _, year := range []string{"next year", "1850", ""} {
		_, err := ReadRequests(strings.NewReader("ein,year\n123456789,"+year+"\n"), Options{})
		assert.ErrorIs(t, err, ErrInvalidInput, "year %q", year)
	}
}

func TestNormalizeEIN(t *testing.T) {
	assert.Equal(t, "123456789", NormalizeEIN(" 12-3456789 "))
	assert.Equal(t, "123456789", NormalizeEIN("123 456 789"))
	assert.Equal(t, "123456789", NormalizeEIN("123456789"))
}
