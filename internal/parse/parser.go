// Package parse extracts logical metrics from raw IRS e-file XML documents.
package parse

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"form990x/internal/mapper"
	"form990x/pkg/contracts/domain"
)

// Result carries everything extracted from one filing document.
type Result struct {
	Variant     domain.FormVariant
	Metrics     domain.ParsedMetrics
	Contractors []domain.Contractor
}

// textMetrics are taken verbatim; every other metric must parse as an
// integer amount or it is treated as absent.
var textMetrics = map[domain.Metric]bool{
	domain.MetricOrganizationName: true,
	domain.MetricWebsite:          true,
	domain.MetricMission:          true,
}

// Document parses one raw filing. Missing or malformed individual fields
// degrade to absent metrics; only a structurally unreadable document (body
// unparsable, or no recognizable return type) returns an error.
func Document(raw []byte, req domain.FilingRequest) (*Result, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse filing %s: document unparsable: %w", req, err)
	}

	variant, err := detectVariant(doc)
	if err != nil {
		return nil, fmt.Errorf("parse filing %s: %w", req, err)
	}

	result := &Result{
		Variant: variant,
		Metrics: make(domain.ParsedMetrics, len(domain.AllMetrics)),
	}
	for _, metric := range domain.AllMetrics {
		if value, ok := probe(doc, variant, metric); ok {
			result.Metrics[metric] = value
		}
	}
	result.Contractors = contractors(doc)
	return result, nil
}

// detectVariant reads the declared return type from the document header.
func detectVariant(doc *xmlquery.Node) (domain.FormVariant, error) {
	node := xmlquery.FindOne(doc, "//ReturnHeader/ReturnTypeCd")
	if node == nil {
		node = xmlquery.FindOne(doc, "//ReturnTypeCd")
	}
	if node == nil {
		return "", fmt.Errorf("no return type declared")
	}
	code := strings.TrimSpace(node.InnerText())
	variant, ok := mapper.VariantFromReturnType(code)
	if !ok {
		return "", fmt.Errorf("unrecognized return type %q", code)
	}
	return variant, nil
}

// probe tries each candidate field for the metric in priority order and
// returns the first usable value.
func probe(doc *xmlquery.Node, variant domain.FormVariant, metric domain.Metric) (string, bool) {
	for _, path := range mapper.Candidates(variant, metric) {
		node, err := xmlquery.Query(doc, path)
		if err != nil || node == nil {
			continue
		}
		value := strings.TrimSpace(node.InnerText())
		if value == "" {
			continue
		}
		if !textMetrics[metric] {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				// Malformed amount in this field only; fall through to
				// the next candidate rather than failing the document.
				continue
			}
		}
		return value, true
	}
	return "", false
}

// contractors extracts up to MaxContractors independent-contractor blocks.
// Only Form 990 carries them; on other variants the query matches nothing.
func contractors(doc *xmlquery.Node) []domain.Contractor {
	nodes := xmlquery.Find(doc, "//IRS990/ContractorCompensationGrp")
	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) > domain.MaxContractors {
		nodes = nodes[:domain.MaxContractors]
	}

	out := make([]domain.Contractor, 0, len(nodes))
	for _, node := range nodes {
		c := domain.Contractor{
			Name:         firstText(node, "ContractorName/PersonNm", "ContractorName/BusinessName/BusinessNameLine1Txt"),
			Services:     firstText(node, "ServicesDesc"),
			Compensation: firstText(node, "CompensationAmt"),
			Address:      contractorAddress(node),
		}
		if c == (domain.Contractor{}) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func contractorAddress(node *xmlquery.Node) string {
	parts := []string{
		firstText(node, "ContractorAddress/USAddress/AddressLine1Txt"),
		firstText(node, "ContractorAddress/USAddress/CityNm"),
		firstText(node, "ContractorAddress/USAddress/StateAbbreviationCd"),
		firstText(node, "ContractorAddress/USAddress/ZIPCd"),
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// firstText returns the first non-empty text among the relative paths.
func firstText(node *xmlquery.Node, paths ...string) string {
	for _, path := range paths {
		if found, err := xmlquery.Query(node, path); err == nil && found != nil {
			if text := strings.TrimSpace(found.InnerText()); text != "" {
				return text
			}
		}
	}
	return ""
}
