// Package fetch retrieves raw filing documents from the public provider.
// Each lookup makes at most two outbound requests: one for the
// organization's filing index page and one for the matched XML document.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"form990x/pkg/contracts/domain"
)

var providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "form990x_provider_requests_total",
	Help: "Outbound requests to the filing provider, by request kind and result.",
}, []string{"kind", "result"})

// Options configures a provider Client.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond throttles all outbound calls across the whole
	// batch. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the filing provider. It is safe for concurrent use; the
// rate limiter is shared across all in-flight fetches.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient constructs a provider client. The HTTP client and limiter are
// built here so tests can run isolated instances against httptest servers.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		limiter:    limiter,
		logger:     logger,
	}
}

// Fetch resolves one FilingRequest to a FetchResult. It never returns an
// error: every outcome is classified as Found, NotFound or TransientError
// so the orchestrator can isolate failures per row.
func (c *Client) Fetch(ctx context.Context, req domain.FilingRequest) domain.FetchResult {
	result := domain.FetchResult{Request: req}

	objectIDs, reason := c.filingIndex(ctx, req.EIN)
	if reason != "" {
		if reason == reasonIndexNotFound {
			result.Outcome = domain.OutcomeNotFound
			return result
		}
		result.Outcome = domain.OutcomeTransientError
		result.Reason = reason
		return result
	}

	objectID, ok := matchYear(objectIDs, req.Year)
	if !ok {
		c.logger.Debug("no filing matches requested year",
			slog.String("ein", req.EIN),
			slog.Int("year", req.Year),
			slog.Int("filings_listed", len(objectIDs)))
		result.Outcome = domain.OutcomeNotFound
		return result
	}

	raw, reason := c.download(ctx, objectID)
	if reason != "" {
		result.Outcome = domain.OutcomeTransientError
		result.Reason = reason
		return result
	}

	result.Outcome = domain.OutcomeFound
	result.Raw = raw
	return result
}

const reasonIndexNotFound = "index_not_found"

// filingIndex scrapes the organization page for downloadable filing object
// IDs. A non-empty reason reports failure; reasonIndexNotFound means the
// provider has no record of the EIN at all.
func (c *Client) filingIndex(ctx context.Context, ein string) ([]string, string) {
	url := fmt.Sprintf("%s/organizations/%s", c.baseURL, ein)
	resp, reason := c.get(ctx, "index", url)
	if reason != "" {
		return nil, reason
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, reasonIndexNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Sprintf("index_status_%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "index_unparsable"
	}

	var objectIDs []string
	doc.Find(`a[href*="download-xml?object_id="]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if _, id, found := strings.Cut(href, "object_id="); found {
			if id = strings.TrimSpace(id); id != "" {
				objectIDs = append(objectIDs, id)
			}
		}
	})
	return objectIDs, ""
}

// download retrieves the raw XML document for a filing object ID.
func (c *Client) download(ctx context.Context, objectID string) ([]byte, string) {
	url := fmt.Sprintf("%s/download-xml?object_id=%s", c.baseURL, objectID)
	resp, reason := c.get(ctx, "download", url)
	if reason != "" {
		return nil, reason
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Sprintf("download_status_%d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "download_read_failed"
	}
	return raw, ""
}

// get performs one throttled outbound request. The returned reason is empty
// on success; callers still own status-code classification.
func (c *Client) get(ctx context.Context, kind, url string) (*http.Response, string) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			providerRequests.WithLabelValues(kind, "canceled").Inc()
			return nil, kind + "_canceled"
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, kind + "_bad_request"
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		providerRequests.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("provider request failed",
			slog.String("kind", kind),
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil, kind + "_unreachable"
	}
	providerRequests.WithLabelValues(kind, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	return resp, ""
}

// matchYear picks the object ID whose prefix is the year after the
// requested tax year. Providers publish e-file documents under IDs keyed
// by the IRS processing year, which trails the tax year by one.
func matchYear(objectIDs []string, year int) (string, bool) {
	prefix := fmt.Sprintf("%d", year+1)
	for _, id := range objectIDs {
		if strings.HasPrefix(id, prefix) {
			return id, true
		}
	}
	return "", false
}
