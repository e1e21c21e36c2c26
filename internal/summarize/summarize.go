// Package summarize bounds fetched page text to a focus-aware extract.
package summarize

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/webresearch/internal/failure"
	"github.com/sells-group/webresearch/internal/htmltext"
	"github.com/sells-group/webresearch/internal/model"
	"github.com/sells-group/webresearch/internal/scrape"
)

// DefaultMaxLength is the summary bound in characters.
const DefaultMaxLength = 2000

// Focused keeps the paragraphs of text that mention a focus token, always
// keeping the first one, and bounds the result to maxLength characters.
// A non-positive maxLength uses DefaultMaxLength.
func Focused(text, focus string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	tokens := strings.Fields(strings.ToLower(focus))

	var kept []string
	total := 0
	for _, p := range strings.Split(text, "\n") {
		if p == "" {
			continue
		}
		if len(kept) > 0 && !mentionsAny(strings.ToLower(p), tokens) {
			continue
		}
		kept = append(kept, p)
		total += utf8.RuneCountInString(p)
		if total > maxLength {
			break
		}
	}

	return truncateRunes(strings.Join(kept, "\n\n"), maxLength)
}

func mentionsAny(paragraph string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(paragraph, tok) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Summarizer fetches a page and produces its focused summary.
type Summarizer struct {
	fetcher   scrape.Fetcher
	maxLength int
}

// New creates a Summarizer. A non-positive maxLength uses DefaultMaxLength.
func New(fetcher scrape.Fetcher, maxLength int) *Summarizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Summarizer{fetcher: fetcher, maxLength: maxLength}
}

// FetchAndSummarize fetches url, extracts its readable text and bounds it
// around focus. Network errors from the fetcher are classified as transport
// failures.
func (s *Summarizer) FetchAndSummarize(ctx context.Context, url, focus string) (model.Summary, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return model.Summary{}, failure.Classify("summarize: fetch", err)
	}
	if page == nil {
		return model.Summary{}, eris.Errorf("summarize: no page returned for %s", url)
	}

	text := Focused(htmltext.Extract(page.HTML), focus, s.maxLength)
	zap.L().Debug("summarize: page summarized",
		zap.String("url", page.URL),
		zap.Int("chars", utf8.RuneCountInString(text)),
	)

	return model.Summary{
		SourceURL:   page.URL,
		SourceTitle: page.Title,
		Text:        text,
		Focus:       focus,
	}, nil
}
