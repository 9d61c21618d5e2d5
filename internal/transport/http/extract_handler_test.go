package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form990x/internal/ingest"
)

// stubExtractor lets tests script the service outcome.
type stubExtractor struct {
	output string
	err    error
}

func (s stubExtractor) ExtractCSV(ctx context.Context, in io.Reader, out io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(out, s.output)
	return err
}

func newTestRouter(service Extractor) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(service, logger)
}

func postExtract(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestExtractReturnsCSVAttachment(t *testing.T) {
	csvOut := "ein,year,status\n123456789,2022,ok\n"
	rec := postExtract(t, newTestRouter(stubExtractor{output: csvOut}), "ein,year\n123456789,2022\n")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, csvOut, rec.Body.String())
}

func TestExtractInvalidInputIs400(t *testing.T) {
	rec := postExtract(t, newTestRouter(stubExtractor{err: ingest.ErrMissingColumns}), "bogus")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestExtractTooManyRowsIs413(t *testing.T) {
	rec := postExtract(t, newTestRouter(stubExtractor{err: ingest.ErrTooManyRows}), "ein,year\n")

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOO_MANY_ROWS")
}

func TestExtractDeadlineIs504(t *testing.T) {
	rec := postExtract(t, newTestRouter(stubExtractor{err: context.DeadlineExceeded}), "ein,year\n123456789,2022\n")

	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "BATCH_TIMEOUT")
}

func TestExtractInternalFaultIs500(t *testing.T) {
	rec := postExtract(t, newTestRouter(stubExtractor{err: io.ErrUnexpectedEOF}), "ein,year\n123456789,2022\n")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestRouter(stubExtractor{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDPropagation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "trace-123")
	rec := httptest.NewRecorder()
	newTestRouter(stubExtractor{}).ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-Id"))
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestRouter(stubExtractor{}).ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
