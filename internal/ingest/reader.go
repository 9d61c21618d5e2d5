// Package ingest reads and validates the caller-supplied list of filings
// to extract. All input errors reject the whole batch before any
// processing starts; the core pipeline only ever sees valid requests.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"form990x/pkg/contracts/domain"
)

// DefaultMaxRows caps the batch size. Matches the upstream service limit.
const DefaultMaxRows = 250

// ErrInvalidInput is the common ancestor of every input rejection, so the
// boundary can distinguish "your file is bad" from internal faults with a
// single errors.Is check.
var ErrInvalidInput = errors.New("invalid input")

var (
	// ErrMissingColumns marks an input file without the required header.
	ErrMissingColumns = fmt.Errorf("%w: input must contain 'ein' and 'year' columns", ErrInvalidInput)
	// ErrTooManyRows marks an input file over the row cap.
	ErrTooManyRows = fmt.Errorf("%w: input has too many rows", ErrInvalidInput)
	// ErrNoRows marks an input file with a header but no data.
	ErrNoRows = fmt.Errorf("%w: input contains no data rows", ErrInvalidInput)
)

// Options configures input reading.
type Options struct {
	MaxRows int
}

var validate = validator.New()

// ReadRequests parses a CSV of (ein, year) rows into validated
// FilingRequests, preserving row order. Extra columns are ignored; header
// matching is case-insensitive. EINs are normalized to bare digits.
func ReadRequests(r io.Reader, opts Options) ([]domain.FilingRequest, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidInput, err)
	}

	einCol, yearCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ein":
			einCol = i
		case "year":
			yearCol = i
		}
	}
	if einCol < 0 || yearCol < 0 {
		return nil, ErrMissingColumns
	}

	var requests []domain.FilingRequest
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row %d: %v", ErrInvalidInput, line, err)
		}
		if len(requests) >= maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, maxRows)
		}

		req, err := buildRequest(record, einCol, yearCol)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, line, err)
		}
		requests = append(requests, req)
	}

	if len(requests) == 0 {
		return nil, ErrNoRows
	}
	return requests, nil
}

func buildRequest(record []string, einCol, yearCol int) (domain.FilingRequest, error) {
	if einCol >= len(record) || yearCol >= len(record) {
		return domain.FilingRequest{}, fmt.Errorf("missing ein or year value")
	}

	ein := NormalizeEIN(record[einCol])
	yearText := strings.TrimSpace(record[yearCol])
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return domain.FilingRequest{}, fmt.Errorf("invalid year %q", yearText)
	}

	req := domain.FilingRequest{EIN: ein, Year: year}
	if err := validate.Struct(req); err != nil {
		return domain.FilingRequest{}, fmt.Errorf("invalid filing request %s: %w", req, err)
	}
	return req, nil
}

// NormalizeEIN strips the conventional dash and any stray whitespace so
// "12-3456789" and "123456789" address the same organization.
func NormalizeEIN(ein string) string {
	ein = strings.TrimSpace(ein)
	ein = strings.ReplaceAll(ein, "-", "")
	ein = strings.ReplaceAll(ein, " ", "")
	return ein
}
