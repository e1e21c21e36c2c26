// Package scrape fetches single web pages for summarization.
package scrape

import (
	"context"

	"github.com/sells-group/webresearch/internal/model"
)

// Fetcher retrieves one page in a single attempt.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.FetchedPage, error)
}
