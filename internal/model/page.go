package model

// FetchedPage is a page retrieved by the page fetcher, already validated as
// UTF-8 text.
type FetchedPage struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	HTML        string `json:"html"`
	ContentType string `json:"content_type,omitempty"`
	StatusCode  int    `json:"status_code"`
	// BlockType is set when the page looks like an anti-bot interstitial.
	BlockType string `json:"block_type,omitempty"`
}

// Blocked reports whether block detection flagged the page.
func (p FetchedPage) Blocked() bool {
	return p.BlockType != ""
}
