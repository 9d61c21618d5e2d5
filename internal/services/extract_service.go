// Package services composes the core pipeline packages into the
// operations exposed by the CLI and the HTTP boundary.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"form990x/internal/batch"
	"form990x/internal/config"
	"form990x/internal/exporter"
	"form990x/internal/fetch"
	"form990x/internal/ingest"
	"form990x/pkg/contracts/domain"
)

// ExtractService runs the end-to-end extraction: validate input, process
// the batch under the worker pool, serialize the consolidated table.
type ExtractService struct {
	orchestrator *batch.Orchestrator
	maxRows      int
	batchTimeout time.Duration
	logger       *slog.Logger
}

// NewExtractService builds the full pipeline from configuration. The
// provider client and worker pool are constructed here and torn down with
// the service; nothing is process-global, so concurrent test instances
// stay isolated.
func NewExtractService(cfg *config.Config, logger *slog.Logger) *ExtractService {
	if logger == nil {
		logger = slog.Default()
	}
	client := fetch.NewClient(fetch.Options{
		BaseURL:           cfg.Provider.BaseURL,
		UserAgent:         cfg.Provider.UserAgent,
		Timeout:           cfg.Provider.Timeout,
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Burst:             cfg.Provider.Burst,
	}, logger)

	orchestrator := batch.New(client, batch.Config{
		Workers: cfg.Pipeline.Workers,
		Retry: batch.RetryConfig{
			MaxAttempts: cfg.Pipeline.RetryAttempts,
			Backoff:     cfg.Pipeline.RetryBackoff,
		},
	}, logger)

	return &ExtractService{
		orchestrator: orchestrator,
		maxRows:      cfg.Pipeline.MaxRows,
		batchTimeout: cfg.Pipeline.BatchTimeout,
		logger:       logger,
	}
}

// ReadRequests validates the caller's CSV into filing requests.
func (s *ExtractService) ReadRequests(r io.Reader) ([]domain.FilingRequest, error) {
	return ingest.ReadRequests(r, ingest.Options{MaxRows: s.maxRows})
}

// Extract processes validated requests under the batch deadline.
func (s *ExtractService) Extract(ctx context.Context, requests []domain.FilingRequest) ([]domain.OutputRow, error) {
	if s.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.batchTimeout)
		defer cancel()
	}
	return s.orchestrator.Process(ctx, requests)
}

// ExtractCSV is the single-call form used by the HTTP boundary: CSV in,
// consolidated CSV out.
func (s *ExtractService) ExtractCSV(ctx context.Context, in io.Reader, out io.Writer) error {
	requests, err := s.ReadRequests(in)
	if err != nil {
		return err
	}
	rows, err := s.Extract(ctx, requests)
	if err != nil {
		return err
	}
	if err := exporter.WriteCSV(out, rows, true); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
