// Package exporter serializes output rows into tabular formats. Column
// set and order are fixed regardless of which metrics any individual
// filing actually carried.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"form990x/pkg/contracts/domain"
)

// Header returns the fixed output column order: identity, status, every
// logical metric, then the contractor blocks.
func Header() []string {
	header := []string{"ein", "year", "status", "status_reason"}
	for _, metric := range domain.AllMetrics {
		header = append(header, string(metric))
	}
	for i := 1; i <= domain.MaxContractors; i++ {
		header = append(header,
			fmt.Sprintf("contractor_%d_name", i),
			fmt.Sprintf("contractor_%d_services", i),
			fmt.Sprintf("contractor_%d_compensation", i),
			fmt.Sprintf("contractor_%d_address", i),
		)
	}
	return header
}

// Record flattens one output row into Header order. Absent metrics and
// unused contractor slots render as empty cells.
func Record(row domain.OutputRow) []string {
	record := []string{
		row.EIN,
		fmt.Sprintf("%d", row.Year),
		string(row.Status),
		row.Reason,
	}
	for _, metric := range domain.AllMetrics {
		record = append(record, row.Metrics[metric])
	}
	for i := 0; i < domain.MaxContractors; i++ {
		var c domain.Contractor
		if i < len(row.Contractors) {
			c = row.Contractors[i]
		}
		record = append(record, c.Name, c.Services, c.Compensation, c.Address)
	}
	return record
}

// WriteCSV streams the consolidated table to w. The optional UTF-8 BOM
// helps Excel recognize the encoding when users open the download directly.
func WriteCSV(w io.Writer, rows []domain.OutputRow, withBOM bool) error {
	if withBOM {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(Record(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the consolidated table to a file, creating parent
// directories as needed.
func WriteCSVFile(path string, rows []domain.OutputRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return WriteCSV(file, rows, true)
}
