package tournament

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/webresearch/internal/failure"
	"github.com/sells-group/webresearch/internal/model"
	"github.com/sells-group/webresearch/pkg/duckduckgo/mocks"
)

// fakeSummarizer returns canned summaries per URL and records calls.
type fakeSummarizer struct {
	mu    sync.Mutex
	texts map[string]string
	errs  map[string]error
	calls []string
	hook  func(url string)
}

func (f *fakeSummarizer) FetchAndSummarize(_ context.Context, url, focus string) (model.Summary, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if f.hook != nil {
		f.hook(url)
	}
	if err, ok := f.errs[url]; ok {
		return model.Summary{}, err
	}
	return model.Summary{SourceURL: url, Text: f.texts[url], Focus: focus}, nil
}

func (f *fakeSummarizer) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func results(n int) []model.SearchResult {
	out := make([]model.SearchResult, n)
	for i := range out {
		out[i] = model.SearchResult{
			Title:   fmt.Sprintf("Result %d", i),
			URL:     fmt.Sprintf("https://r%d.example", i),
			Snippet: "snippet",
		}
	}
	return out
}

func TestAnswer_EightResultsFourPairs(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "best rust books").Return(results(10), nil)

	sum := &fakeSummarizer{texts: map[string]string{
		"https://r0.example": "rust books",                       // 20
		"https://r1.example": strings.Repeat("x", 300),           // 3
		"https://r2.example": "short",                            // 0
		"https://r3.example": "rust " + strings.Repeat("y", 995), // 20, longest
		"https://r4.example": "books",                            // 10
		"https://r5.example": "books and rust",                   // 20
		"https://r6.example": "nothing",                          // 0
		"https://r7.example": "nada",                             // 0, tie → r6
	}}

	o := New(search, sum, Config{CandidateLimit: 8, RoundWindow: 8})
	ans, err := o.Answer(context.Background(), "best rust books")
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeAnswered, ans.Outcome)
	require.Len(t, ans.Winners, 4)
	assert.Equal(t, "https://r0.example", ans.Winners[0].URL)
	assert.Equal(t, "https://r3.example", ans.Winners[1].URL)
	assert.Equal(t, "https://r5.example", ans.Winners[2].URL)
	assert.Equal(t, "https://r6.example", ans.Winners[3].URL)
	for i, w := range ans.Winners {
		assert.Equal(t, i, w.Pair)
	}

	assert.Equal(t, "https://r3.example", ans.SourceURL)
	assert.Equal(t, "Result 3", ans.SourceTitle)
	assert.Equal(t, 4, ans.ComparedCount)
	assert.Len(t, sum.called(), 8)
	assert.NotContains(t, sum.called(), "https://r8.example")

	msg := ans.Message()
	assert.True(t, strings.HasPrefix(msg, "Based on multiple sources, here's what I found:\n\n"))
	assert.Contains(t, msg, "Source: Result 3\nURL: https://r3.example")
	assert.True(t, strings.HasSuffix(msg, "(This answer was selected from 4 sources in a knockout comparison)"))
}

func TestAnswer_DefaultWindowPlaysTwoPairs(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").Return(results(8), nil)
	sum := &fakeSummarizer{texts: map[string]string{}}

	ans, err := New(search, sum, Config{}).Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 2, ans.ComparedCount)
	assert.ElementsMatch(t, []string{
		"https://r0.example", "https://r1.example", "https://r2.example", "https://r3.example",
	}, sum.called())
	// Empty summaries tie everywhere, so the first pair's winner is kept.
	assert.Equal(t, "https://r0.example", ans.SourceURL)
}

func TestAnswer_NoResults(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "obscure").Return([]model.SearchResult{}, nil)
	sum := &fakeSummarizer{}

	ans, err := New(search, sum, Config{}).Answer(context.Background(), "obscure")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeNoResults, ans.Outcome)
	assert.Equal(t, "No search results found for the query.", ans.Message())
	assert.Empty(t, sum.called())
}

func TestAnswer_SingleCandidateFails(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").Return(results(1), nil)
	sum := &fakeSummarizer{}

	ans, err := New(search, sum, Config{}).Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailed, ans.Outcome)
	assert.Equal(t, "Failed to process search results.", ans.Message())
	assert.Empty(t, sum.called())
}

func TestAnswer_OddCountDropsTrailing(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").Return(results(3), nil)
	sum := &fakeSummarizer{texts: map[string]string{}}

	ans, err := New(search, sum, Config{}).Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 1, ans.ComparedCount)
	assert.NotContains(t, sum.called(), "https://r2.example")
}

func TestAnswer_FailedParticipantLoses(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").Return(results(4), nil)
	sum := &fakeSummarizer{
		texts: map[string]string{"https://r1.example": "ok"},
		errs: map[string]error{
			"https://r0.example": failure.Transport("scrape: fetch", errors.New("status 500"), 500),
			"https://r2.example": failure.Decoding("scrape: fetch", errors.New("bad utf-8")),
			"https://r3.example": failure.Transport("scrape: fetch", errors.New("timeout"), 0),
		},
	}

	ans, err := New(search, sum, Config{}).Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeAnswered, ans.Outcome)
	require.Len(t, ans.Winners, 1)
	assert.Equal(t, "https://r1.example", ans.SourceURL)
	assert.Equal(t, 1, ans.ComparedCount)
}

func TestAnswer_AllFail(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").Return(results(4), nil)
	errs := map[string]error{}
	for _, r := range results(4) {
		errs[r.URL] = failure.Transport("scrape: fetch", errors.New("refused"), 0)
	}

	ans, err := New(search, &fakeSummarizer{errs: errs}, Config{}).Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailed, ans.Outcome)
}

func TestAnswer_SearchErrorReturned(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").
		Return(nil, failure.Transport("duckduckgo: search", errors.New("status 503"), 503))
	sum := &fakeSummarizer{}

	_, err := New(search, sum, Config{}).Answer(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, failure.IsTransport(err))
	assert.Empty(t, sum.called())
}

func TestAnswer_CancelledDuringPair(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").Return(results(8), nil)
	sum := &fakeSummarizer{
		texts: map[string]string{},
		hook: func(url string) {
			if url == "https://r0.example" {
				cancel()
			}
		},
	}

	ans, err := New(search, sum, Config{RoundWindow: 8}).Answer(ctx, "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.Answer{}, ans)
	assert.NotContains(t, sum.called(), "https://r2.example")
}

func TestAnswer_CancelledSearch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, "q").
		Return(nil, failure.Transport("duckduckgo: search", context.Canceled, 0))

	_, err := New(search, &fakeSummarizer{}, Config{}).Answer(ctx, "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnswer_ConcurrentCallsIndependent(t *testing.T) {
	t.Parallel()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, mock.Anything).Return(results(4), nil)
	sum := &fakeSummarizer{texts: map[string]string{"https://r2.example": strings.Repeat("z", 50)}}
	o := New(search, sum, Config{})

	var wg sync.WaitGroup
	answers := make([]model.Answer, 5)
	for i := range answers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ans, err := o.Answer(context.Background(), fmt.Sprintf("question %d", i))
			assert.NoError(t, err)
			answers[i] = ans
		}()
	}
	wg.Wait()

	for i, ans := range answers {
		assert.Equal(t, fmt.Sprintf("question %d", i), ans.Question)
		assert.Equal(t, "https://r2.example", ans.SourceURL)
		assert.Len(t, ans.Winners, 2)
	}
}
