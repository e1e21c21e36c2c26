package tournament

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/webresearch/internal/model"
)

func TestKeywords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"what", "best", "laptop", "2024?"}, Keywords("What is the best laptop in 2024?"))
	assert.Empty(t, Keywords("a an the of"))
	assert.Equal(t, []string{"rust", "rust"}, Keywords("Rust  rust"))
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		summary  string
		question string
		want     int
	}{
		{"empty", "", "anything goes", 0},
		{"length only", strings.Repeat("x", 250), "zzzz", 2},
		{"keyword case-insensitive", "GOLANG is neat", "golang", 10},
		{"short words ignored", "the cat sat", "the cat", 0},
		{"duplicate keyword counted twice", "rust", "rust rust", 20},
		{"length and keywords", strings.Repeat("a", 100) + " battery life", "battery life laptop", 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Score(tt.summary, tt.question))
		})
	}
}

func TestPickWinner(t *testing.T) {
	t.Parallel()

	a := model.SearchResult{Title: "A", URL: "https://a.example"}
	b := model.SearchResult{Title: "B", URL: "https://b.example"}

	t.Run("higher score wins", func(t *testing.T) {
		w, ok := pickWinner([2]participant{
			{result: a, summary: model.Summary{Text: "short"}},
			{result: b, summary: model.Summary{Text: "mentions widgets"}},
		}, "widgets")
		assert.True(t, ok)
		assert.Equal(t, "https://b.example", w.URL)
		assert.Equal(t, 10, w.Score)
	})

	t.Run("tie goes to first", func(t *testing.T) {
		w, ok := pickWinner([2]participant{
			{result: a, summary: model.Summary{Text: "one"}},
			{result: b, summary: model.Summary{Text: "two"}},
		}, "nothing")
		assert.True(t, ok)
		assert.Equal(t, "https://a.example", w.URL)
	})

	t.Run("failed member loses", func(t *testing.T) {
		w, ok := pickWinner([2]participant{
			{result: a, err: assert.AnError},
			{result: b, summary: model.Summary{Text: ""}},
		}, "nothing")
		assert.True(t, ok)
		assert.Equal(t, "https://b.example", w.URL)
		assert.Equal(t, 0, w.Score)
	})

	t.Run("both failed", func(t *testing.T) {
		_, ok := pickWinner([2]participant{
			{result: a, err: assert.AnError},
			{result: b, err: assert.AnError},
		}, "nothing")
		assert.False(t, ok)
	})
}

func TestFinalPick(t *testing.T) {
	t.Parallel()

	winners := []model.RoundWinner{
		{URL: "u1", Summary: "abc"},
		{URL: "u2", Summary: "abcdef"},
		{URL: "u3", Summary: "ghijkl"},
	}
	assert.Equal(t, "u2", FinalPick(winners).URL)

	// Characters, not bytes.
	winners = []model.RoundWinner{
		{URL: "u1", Summary: "ééé"},
		{URL: "u2", Summary: "abcd"},
	}
	assert.Equal(t, "u2", FinalPick(winners).URL)
}

func TestPickWinner_ScoresBodyOnly(t *testing.T) {
	t.Parallel()

	// The focus and URL repeat the question, the body does not.
	sum := model.Summary{SourceURL: "https://laptops.example/best", Focus: "best laptops", Text: "unrelated"}
	w, ok := pickWinner([2]participant{
		{result: model.SearchResult{URL: sum.SourceURL}, summary: sum},
		{result: model.SearchResult{URL: "https://b.example"}, err: assert.AnError},
	}, "best laptops")
	assert.True(t, ok)
	assert.Equal(t, 0, w.Score)
	assert.Equal(t, 20, Score(sum.Render(), "best laptops"))
}
