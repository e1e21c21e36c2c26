package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/webresearch/internal/failure"
	"github.com/sells-group/webresearch/internal/htmltext"
	"github.com/sells-group/webresearch/internal/model"
)

const (
	DefaultUserAgent    = "Mozilla/5.0"
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 2 << 20
	opFetch             = "scrape: fetch"
)

// Options configures a PageFetcher. Zero values take the defaults.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// Client replaces the default http.Client; Timeout is then ignored.
	Client *http.Client
}

// PageFetcher fetches HTML over net/http in a single attempt and checks the
// body is UTF-8 text.
type PageFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewPageFetcher creates a PageFetcher from opts.
func NewPageFetcher(opts Options) *PageFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return &PageFetcher{
		client:       client,
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// ValidateURL checks that raw is an absolute http(s) URL with a host.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, failure.Input(opFetch, eris.Wrapf(failure.ErrInvalidURL, "parse %q", raw))
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, failure.Input(opFetch, eris.Wrapf(failure.ErrInvalidURL, "unsupported url %q", raw))
	}
	return u, nil
}

// Fetch GETs targetURL and returns its body. A non-200 status is a transport
// failure and a body that is not UTF-8 is a decoding failure.
func (f *PageFetcher) Fetch(ctx context.Context, targetURL string) (*model.FetchedPage, error) {
	u, err := ValidateURL(targetURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, failure.Input(opFetch, eris.Wrap(err, "create request"))
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, failure.Transport(opFetch, eris.Wrap(err, "send request"), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, failure.Transport(opFetch, eris.Wrap(err, "read body"), resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		msg := eris.Errorf("status %d", resp.StatusCode)
		if bt := DetectBlock(resp.StatusCode, resp.Header, string(body)); bt != BlockNone {
			msg = eris.Errorf("status %d (blocked: %s)", resp.StatusCode, bt)
		}
		return nil, failure.Transport(opFetch, msg, resp.StatusCode)
	}

	if int64(len(body)) == f.maxBodyBytes {
		body = htmltext.TrimPartialRune(body)
	}
	html, err := htmltext.DecodeUTF8(body)
	if err != nil {
		return nil, failure.Decoding(opFetch, err)
	}

	page := &model.FetchedPage{
		URL:         u.String(),
		Title:       extractTitle(html),
		HTML:        html,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if bt := DetectBlock(resp.StatusCode, resp.Header, html); bt != BlockNone {
		page.BlockType = string(bt)
		zap.L().Warn("scrape: page looks like an anti-bot interstitial",
			zap.String("url", page.URL),
			zap.String("block_type", page.BlockType),
		)
	}
	return page, nil
}

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// extractTitle pulls the <title> text from HTML.
func extractTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if len(m) > 1 {
		return htmltext.InlineText(m[1])
	}
	return ""
}
