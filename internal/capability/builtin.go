package capability

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/webresearch/internal/model"
	"github.com/sells-group/webresearch/pkg/duckduckgo"
)

// Capability names.
const (
	NameSearch   = "webSearch"
	NameFetch    = "webFetch"
	NameResearch = "research"
)

// searchListed is how many results the search capability renders.
const searchListed = 5

// SearchCapability lists the top web results for a query.
type SearchCapability struct {
	Client duckduckgo.Client
}

func (SearchCapability) Name() string { return NameSearch }

func (SearchCapability) Description() string {
	return "Searches the web and returns a list of relevant URLs with titles and snippets."
}

func (SearchCapability) Params() []Param {
	return []Param{{Name: "query", Description: "The search query", Required: true}}
}

func (c SearchCapability) Invoke(ctx context.Context, args Args) (string, error) {
	query := args["query"]
	results, err := c.Client.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) > searchListed {
		results = results[:searchListed]
	}
	zap.L().Info("capability: search", zap.String("query", query), zap.Int("listed", len(results)))
	return FormatResults(query, results), nil
}

// FormatResults renders results as a numbered list under a header naming
// the query.
func FormatResults(query string, results []model.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search results for '%s':\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n    URL: %s\n    %s\n\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return b.String()
}

// PageSummarizer fetches a page and bounds it around a focus phrase.
type PageSummarizer interface {
	FetchAndSummarize(ctx context.Context, url, focus string) (model.Summary, error)
}

// FetchCapability fetches one page and returns its focused summary.
type FetchCapability struct {
	Summarizer PageSummarizer
}

func (FetchCapability) Name() string { return NameFetch }

func (FetchCapability) Description() string {
	return "Fetches a webpage and returns a concise summary. Handles context limits intelligently."
}

func (FetchCapability) Params() []Param {
	return []Param{
		{Name: "url", Description: "The URL to fetch", Required: true},
		{Name: "focus", Description: "What to focus on when summarizing (e.g., 'product features', 'recipe details', 'news summary')"},
	}
}

func (c FetchCapability) Invoke(ctx context.Context, args Args) (string, error) {
	sum, err := c.Summarizer.FetchAndSummarize(ctx, args["url"], args["focus"])
	if err != nil {
		return "", err
	}
	zap.L().Info("capability: fetch", zap.String("url", sum.SourceURL), zap.Int("chars", sum.Len()))
	return sum.Render(), nil
}

// Researcher answers a question from web sources.
type Researcher interface {
	Answer(ctx context.Context, question string) (model.Answer, error)
}

// TournamentCapability runs the knockout research flow for a question.
type TournamentCapability struct {
	Researcher Researcher
}

func (TournamentCapability) Name() string { return NameResearch }

func (TournamentCapability) Description() string {
	return "Executes a tournament-style research workflow: searches, fetches pairs of sources, " +
		"compares them, and returns only the best summary that answers the user's question."
}

func (TournamentCapability) Params() []Param {
	return []Param{{Name: "userQuestion", Description: "The user's question to research", Required: true}}
}

func (c TournamentCapability) Invoke(ctx context.Context, args Args) (string, error) {
	ans, err := c.Researcher.Answer(ctx, args["userQuestion"])
	if err != nil {
		return "", err
	}
	return ans.Message(), nil
}
