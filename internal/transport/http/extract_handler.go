package http

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"form990x/internal/errors"
	"form990x/internal/ingest"
)

// Extractor is the service surface the extract handler needs.
type Extractor interface {
	ExtractCSV(ctx context.Context, in io.Reader, out io.Writer) error
}

// ExtractHandler accepts a CSV of (ein, year) rows and responds with the
// consolidated extraction CSV.
type ExtractHandler struct {
	service Extractor
	logger  *slog.Logger
}

// NewExtractHandler creates the extract handler.
func NewExtractHandler(service Extractor, logger *slog.Logger) *ExtractHandler {
	return &ExtractHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "extract")),
	}
}

// Handle processes POST /api/v1/extract. The whole batch either produces a
// full-length CSV or a structured error; a timeout never returns a
// silently truncated table.
func (h *ExtractHandler) Handle(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	started := time.Now()
	var out bytes.Buffer
	err := h.service.ExtractCSV(r.Context(), r.Body, &out)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.logger.Info("extraction complete",
		slog.Int("bytes", out.Len()),
		slog.Duration("elapsed", time.Since(started)))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="nonprofit_data_extract.csv"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", out.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := out.WriteTo(w); err != nil {
		h.logger.Warn("failed to stream response", slog.String("error", err.Error()))
	}
}

func (h *ExtractHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("extraction failed", slog.String("error", err.Error()))

	var apiErr *errors.APIError
	switch {
	case stderrors.Is(err, ingest.ErrTooManyRows):
		apiErr = errors.NewWithDetails(http.StatusRequestEntityTooLarge, "TOO_MANY_ROWS", "Input file exceeds the row limit", err.Error())
	case stderrors.Is(err, ingest.ErrInvalidInput):
		apiErr = errors.InvalidInputWithError(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		apiErr = errors.ErrBatchTimeout
	case stderrors.Is(err, context.Canceled):
		// Client went away; nothing useful to write back.
		return
	default:
		apiErr = errors.ErrInternalServer
	}
	render.Render(w, r, apiErr)
}
