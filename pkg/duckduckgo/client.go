package duckduckgo

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/webresearch/internal/failure"
	"github.com/sells-group/webresearch/internal/htmltext"
	"github.com/sells-group/webresearch/internal/model"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 2 << 20
	opSearch            = "duckduckgo: search"
)

// Client defines the search operations.
type Client interface {
	// Search runs query against the result page and returns up to
	// MaxResults results in provider rank order. A single attempt is made.
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the results endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient overrides the default http.Client. The client's own
// Timeout is used as-is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLimiter paces outgoing queries. Waiting on the limiter is bounded by
// the caller's context.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

// WithMaxResults caps the number of parsed results (at most MaxResults).
func WithMaxResults(n int) Option {
	return func(c *httpClient) {
		if n > 0 && n <= MaxResults {
			c.maxResults = n
		}
	}
}

// WithMaxBodyBytes caps how much of the response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

type httpClient struct {
	baseURL      string
	userAgent    string
	maxResults   int
	maxBodyBytes int64
	limiter      *rate.Limiter
	http         *http.Client
}

// NewClient creates a search client with provider defaults.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:      DefaultBaseURL,
		userAgent:    DefaultUserAgent,
		maxResults:   MaxResults,
		maxBodyBytes: defaultMaxBodyBytes,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// searchURL builds the request URL for query.
func (c *httpClient) searchURL(query string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", eris.Wrap(err, "duckduckgo: parse base url")
	}
	q := u.Query()
	q.Set(QueryParam, query)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *httpClient) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if strings.TrimSpace(query) == "" || !utf8.ValidString(query) {
		return nil, failure.Input(opSearch, failure.ErrInvalidQuery)
	}

	reqURL, err := c.searchURL(query)
	if err != nil {
		return nil, failure.Input(opSearch, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, failure.Transport(opSearch, eris.Wrap(err, "wait for rate limiter"), 0)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, failure.Input(opSearch, eris.Wrap(err, "create request"))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	zap.L().Debug("duckduckgo: searching", zap.String("query", query))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failure.Transport(opSearch, eris.Wrap(err, "send request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, failure.Transport(opSearch, eris.Errorf("unexpected status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, failure.Transport(opSearch, eris.Wrap(err, "read response"), resp.StatusCode)
	}

	if int64(len(body)) == c.maxBodyBytes {
		body = htmltext.TrimPartialRune(body)
	}
	html, err := htmltext.DecodeUTF8(body)
	if err != nil {
		return nil, failure.Decoding(opSearch, err)
	}

	results := ParseResults(html, c.maxResults)
	zap.L().Debug("duckduckgo: parsed results",
		zap.String("query", query),
		zap.Int("bytes", len(body)),
		zap.Int("results", len(results)),
	)
	return results, nil
}
