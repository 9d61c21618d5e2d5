package batch

import (
	"form990x/internal/parse"
	"form990x/pkg/contracts/domain"
)

// Assemble builds the output row for one request. It is pure and
// deterministic: the same inputs always produce the same row regardless of
// when the unit completed relative to its siblings. Rows without parsed
// data carry nil metrics; the exporter renders those columns empty.
func Assemble(req domain.FilingRequest, parsed *parse.Result, status domain.RowStatus, reason string) domain.OutputRow {
	row := domain.OutputRow{
		EIN:    req.EIN,
		Year:   req.Year,
		Status: status,
		Reason: reason,
	}
	if parsed != nil {
		row.Metrics = parsed.Metrics
		row.Contractors = parsed.Contractors
	}
	return row
}
