// Package batch runs the fetch→parse→assemble pipeline for a whole input
// sequence under a bounded worker pool, isolating per-row failures and
// preserving input order in the output.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"form990x/internal/parse"
	"form990x/pkg/contracts/domain"
)

var (
	rowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "form990x_rows_total",
		Help: "Output rows produced, by terminal status.",
	}, []string{"status"})
	fetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "form990x_fetch_retries_total",
		Help: "Fetch attempts beyond the first, across all rows.",
	})
)

const (
	// DefaultWorkers caps in-flight fetch+parse pipelines. It bounds both
	// local resource usage and load on the external provider.
	DefaultWorkers = 10
	// maxRetryAttempts caps configured retries so a flapping provider
	// cannot stretch batch latency without bound.
	maxRetryAttempts = 3
)

// Fetcher resolves a single filing request against the external provider.
type Fetcher interface {
	Fetch(ctx context.Context, req domain.FilingRequest) domain.FetchResult
}

// RetryConfig bounds re-fetching of transient provider failures.
// MaxAttempts of 1 (or 0) means no retry, the default policy.
type RetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Config tunes one Orchestrator instance.
type Config struct {
	Workers int
	Retry   RetryConfig
}

// Orchestrator dispatches filing requests to a bounded pool and gathers
// one OutputRow per request into an index-addressed buffer.
type Orchestrator struct {
	fetcher Fetcher
	cfg     Config
	logger  *slog.Logger
}

// New constructs an Orchestrator. The fetcher is passed in explicitly so
// tests can substitute instrumented fakes and runs stay isolated.
func New(fetcher Fetcher, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Retry.MaxAttempts > maxRetryAttempts {
		cfg.Retry.MaxAttempts = maxRetryAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{fetcher: fetcher, cfg: cfg, logger: logger}
}

// Process runs the whole batch. It always returns exactly one row per
// request, in input order, unless the context is cancelled or expires, in
// which case it returns a nil row slice and the context error so callers
// never mistake a truncated batch for a complete one.
func (o *Orchestrator) Process(ctx context.Context, requests []domain.FilingRequest) ([]domain.OutputRow, error) {
	started := time.Now()
	rows := make([]domain.OutputRow, len(requests))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := o.processOne(gctx, req)
			mu.Lock()
			rows[i] = row
			mu.Unlock()
			rowsTotal.WithLabelValues(string(row.Status)).Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}

	o.logger.Info("batch complete",
		slog.Int("requests", len(requests)),
		slog.Int("workers", o.cfg.Workers),
		slog.Duration("elapsed", time.Since(started)))
	return rows, nil
}

// processOne runs the full pipeline for a single request. Any fault,
// including a panic in parsing, is converted into that row's Error status;
// nothing escapes the unit boundary.
func (o *Orchestrator) processOne(ctx context.Context, req domain.FilingRequest) (row domain.OutputRow) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline unit panicked",
				slog.String("request", req.String()),
				slog.Any("panic", r))
			row = Assemble(req, nil, domain.RowStatusError, "internal_fault")
		}
	}()

	result := o.fetchWithRetry(ctx, req)
	switch result.Outcome {
	case domain.OutcomeNotFound:
		return Assemble(req, nil, domain.RowStatusNotFound, "")
	case domain.OutcomeTransientError:
		return Assemble(req, nil, domain.RowStatusError, result.Reason)
	}

	parsed, err := parse.Document(result.Raw, req)
	if err != nil {
		o.logger.Warn("filing unparsable",
			slog.String("request", req.String()),
			slog.String("error", err.Error()))
		return Assemble(req, nil, domain.RowStatusError, "document_unparsable")
	}
	return Assemble(req, parsed, domain.RowStatusOK, "")
}

// fetchWithRetry re-issues the fetch on transient failure up to the
// configured attempt count. NotFound and Found are terminal on the first
// answer; only provider flakiness is worth another try.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, req domain.FilingRequest) domain.FetchResult {
	attempts := o.cfg.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var result domain.FetchResult
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			fetchRetries.Inc()
			select {
			case <-ctx.Done():
				return result
			case <-time.After(o.cfg.Retry.Backoff):
			}
		}
		result = o.fetcher.Fetch(ctx, req)
		if result.Outcome != domain.OutcomeTransientError {
			return result
		}
	}
	return result
}
