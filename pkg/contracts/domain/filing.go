package domain

import (
	"fmt"
)

// FilingRequest identifies one nonprofit tax filing to extract: an EIN
// (normalized to digits only) and the tax year the filing covers.
type FilingRequest struct {
	EIN  string `json:"ein" validate:"required,len=9,numeric"`
	Year int    `json:"year" validate:"required,min=1990,max=2100"`
}

// String returns a compact identifier used in logs and error reasons.
func (r FilingRequest) String() string {
	return fmt.Sprintf("%s/%d", r.EIN, r.Year)
}

// FetchOutcome classifies the result of a provider lookup.
type FetchOutcome string

const (
	// OutcomeFound means the filing document was located and downloaded.
	OutcomeFound FetchOutcome = "found"
	// OutcomeNotFound means the provider has no filing for that EIN and year.
	// This is a valid terminal state, not an error.
	OutcomeNotFound FetchOutcome = "not_found"
	// OutcomeTransientError means the provider could not be reached or
	// returned an unusable response for this request.
	OutcomeTransientError FetchOutcome = "transient_error"
)

// FetchResult is the fetcher's answer for a single FilingRequest.
// Raw is populated only when Outcome is OutcomeFound; Reason carries a
// short machine-readable cause when Outcome is OutcomeTransientError.
type FetchResult struct {
	Request FilingRequest
	Outcome FetchOutcome
	Raw     []byte
	Reason  string
}

// RowStatus is the per-row terminal status surfaced to the caller.
type RowStatus string

const (
	RowStatusOK       RowStatus = "ok"
	RowStatusNotFound RowStatus = "not_found"
	RowStatusError    RowStatus = "error"
)

// OutputRow is one consolidated output record. Exactly one row is produced
// per input FilingRequest, in input order. Metric values are raw strings as
// they appear in the filing; a missing key means the metric was absent.
type OutputRow struct {
	EIN         string        `json:"ein"`
	Year        int           `json:"year"`
	Status      RowStatus     `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	Metrics     ParsedMetrics `json:"metrics,omitempty"`
	Contractors []Contractor  `json:"contractors,omitempty"`
}

// Contractor is one independent-contractor compensation entry from
// Form 990 Part VII Section B. At most MaxContractors are extracted.
type Contractor struct {
	Name         string `json:"name"`
	Services     string `json:"services"`
	Compensation string `json:"compensation"`
	Address      string `json:"address"`
}

// MaxContractors bounds how many contractor blocks are extracted per filing.
const MaxContractors = 5
