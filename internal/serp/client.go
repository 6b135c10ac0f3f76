// Package serp provides a client for the external search-results API
// and the rank-resolution logic built on top of it.
package serp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rankscout/rankscout/internal/metrics"
	"github.com/rankscout/rankscout/internal/model"
)

const (
	// DefaultEndpoint is the Serper search endpoint.
	DefaultEndpoint = "https://google.serper.dev/search"

	// PageSize is the number of organic results the API returns per call.
	PageSize = 10

	// DefaultTop is the result window checked when the caller does not
	// specify one.
	DefaultTop = 20

	// MaxTop caps the result window; each page is a paid API call.
	MaxTop = 100

	apiKeyHeader = "X-API-KEY"
)

// ErrMissingAPIKey indicates the client was constructed without credentials.
var ErrMissingAPIKey = errors.New("serper API key is not configured")

// APIError wraps a failed call to the search API. Transport errors and
// non-2xx responses both surface as APIError so callers can map the whole
// class to one HTTP status.
type APIError struct {
	Status int // zero for transport-level failures
	msg    string
	err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("serper API error: status=%d %s", e.Status, e.msg)
	}
	return "serper API error: " + e.msg
}

func (e *APIError) Unwrap() error {
	return e.err
}

// Client issues search requests against a Serper-compatible API.
// It is safe for concurrent use; all per-call state lives in return values.
type Client struct {
	apiKey   string
	endpoint string
	hc       *http.Client
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithEndpoint overrides the search endpoint. Used in tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(c *Client) { c.metrics = recorder }
}

// NewClient creates a search API client. It fails fast when the API key
// is empty; every downstream call is a paid request and a misconfigured
// client should never reach serving traffic.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		hc:       newHTTPClient(),
		logger:   slog.Default(),
		metrics:  metrics.NewNoop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// newHTTPClient builds an HTTP client with timeouts suited for a paid
// third-party API: fail within a bounded window rather than hanging a
// request slot.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 20 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// SearchRequest is one page request against the search API.
type SearchRequest struct {
	Query    string `json:"q"`
	Location string `json:"location,omitempty"`
	Country  string `json:"gl,omitempty"`
	Language string `json:"hl,omitempty"`
	Page     int    `json:"page,omitempty"`
}

// OrganicResult is one organic search result item.
type OrganicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// SearchResponse is the per-page payload from the search API.
// Credits is the provider's per-call cost, surfaced explicitly so the
// client stays reentrant (no shared cost accumulators).
type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
	Credits int             `json:"credits"`
}

// Search issues a single page request. HTTP and decoding failures come
// back as *APIError.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	c.metrics.IncSERPRequest()
	if err != nil {
		c.metrics.IncSERPError()
		return nil, &APIError{msg: err.Error(), err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.metrics.IncSERPError()
		return nil, &APIError{msg: "read response: " + err.Error(), err: err}
	}

	c.logger.Debug("serp_request",
		slog.String("query", req.Query),
		slog.Int("page", req.Page),
		slog.Int("status", resp.StatusCode),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncSERPError()
		return nil, &APIError{
			Status: resp.StatusCode,
			msg:    string(bytes.TrimSpace(respBody)),
		}
	}

	var parsed SearchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.metrics.IncSERPError()
		return nil, &APIError{msg: "decode response: " + err.Error(), err: err}
	}

	c.metrics.AddSERPCredits(parsed.Credits)

	return &parsed, nil
}

// FindRankInput describes one keyword's rank lookup.
type FindRankInput struct {
	Query     string
	TargetURL string
	Location  string // locale display string for the API, may be empty
	Country   string // 2-letter geo bias (gl), may be empty
	Language  string // language code (hl), may be empty
	Top       int    // result window, defaulted and capped
}

// FindURLRank resolves the organic rank of the target URL for one query.
// It pages through results sequentially until enough items are
// accumulated for the requested window, stopping early when the API
// returns a page with no organic results (exhausted result set). Any
// page failure aborts the whole lookup.
func (c *Client) FindURLRank(ctx context.Context, input FindRankInput) (*model.RankResult, error) {
	top := input.Top
	if top < 1 {
		top = DefaultTop
	}
	if top > MaxTop {
		top = MaxTop
	}

	pagesNeeded := (top + PageSize - 1) / PageSize

	var items []OrganicResult
	credits := 0

	for page := 1; page <= pagesNeeded; page++ {
		resp, err := c.Search(ctx, SearchRequest{
			Query:    input.Query,
			Location: input.Location,
			Country:  input.Country,
			Language: input.Language,
			Page:     page,
		})
		if err != nil {
			return nil, err
		}

		credits += resp.Credits

		if len(resp.Organic) == 0 {
			break
		}
		items = append(items, resp.Organic...)
	}

	result := matchRank(items, input.Query, input.TargetURL, top)
	result.Credits = credits

	return result, nil
}
