// Package duckduckgo searches the web by scraping the DuckDuckGo HTML result
// page. The result page is unversioned markup, so parsing is driven by the
// marker tokens below and skips any block it cannot make sense of.
package duckduckgo

const (
	// DefaultBaseURL is the HTML-only results endpoint.
	DefaultBaseURL = "https://html.duckduckgo.com/html/"

	// DefaultUserAgent is a browser-like agent; the endpoint serves an empty
	// page to obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15"

	// QueryParam carries the url-encoded query.
	QueryParam = "q"

	// BlockMarker separates result blocks. Everything before the first
	// occurrence is page header.
	BlockMarker = `class="result `

	// TitleMarker identifies the anchor holding the result title and link.
	TitleMarker = `class="result__a"`

	// SnippetMarker identifies the element holding the result description.
	SnippetMarker = `class="result__snippet"`

	// RedirectPath prefixes links wrapped in the provider's click-through
	// redirect. The destination sits percent-encoded in RedirectParam.
	RedirectPath  = "duckduckgo.com/l/?"
	RedirectParam = "uddg"

	// NoDescription replaces an empty snippet.
	NoDescription = "No description available"

	// MaxResults is the most results one query returns.
	MaxResults = 10
)
