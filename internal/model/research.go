package model

import (
	"fmt"
	"unicode/utf8"
)

// SearchResult is a single organic result parsed from the search provider's
// result page. URL always starts with "http" and Title is never empty.
type SearchResult struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Summary is the bounded, focus-aware extract of one fetched page.
type Summary struct {
	SourceURL   string `json:"source_url" yaml:"source_url"`
	SourceTitle string `json:"source_title,omitempty" yaml:"source_title,omitempty"`
	Text        string `json:"text" yaml:"text"`
	Focus       string `json:"focus" yaml:"focus"`
}

// Len returns the length of the summary text in characters.
func (s Summary) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// Render returns the summary text prefixed with a header naming the source
// and the focus phrase.
func (s Summary) Render() string {
	return fmt.Sprintf("Summary of %s\nFocus: %s\n\n%s", s.SourceURL, s.Focus, s.Text)
}

// RoundWinner is the surviving candidate of one knockout pair.
type RoundWinner struct {
	URL     string `json:"url" yaml:"url"`
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
	Score   int    `json:"score" yaml:"score"`
	// Pair is the zero-based index of the pair this winner came from.
	Pair int `json:"pair" yaml:"pair"`
}

// Outcome classifies how a research call ended.
type Outcome string

const (
	// OutcomeAnswered means a source was selected.
	OutcomeAnswered Outcome = "answered"
	// OutcomeNoResults means the search returned nothing.
	OutcomeNoResults Outcome = "no_results"
	// OutcomeFailed means no pair produced a usable summary.
	OutcomeFailed Outcome = "failed"
)

const (
	// NoResultsMessage is the text of an OutcomeNoResults answer.
	NoResultsMessage = "No search results found for the query."
	// FailedMessage is the text of an OutcomeFailed answer.
	FailedMessage = "Failed to process search results."
)

// Answer is the result of one research call.
type Answer struct {
	Outcome       Outcome       `json:"outcome" yaml:"outcome"`
	Question      string        `json:"question" yaml:"question"`
	Text          string        `json:"text" yaml:"text"`
	SourceURL     string        `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	SourceTitle   string        `json:"source_title,omitempty" yaml:"source_title,omitempty"`
	ComparedCount int           `json:"compared_count" yaml:"compared_count"`
	Winners       []RoundWinner `json:"winners,omitempty" yaml:"winners,omitempty"`
}

// Message renders the answer as the short human-readable text handed back
// to the caller. Terminal outcomes render their fixed message.
func (a Answer) Message() string {
	switch a.Outcome {
	case OutcomeNoResults:
		return NoResultsMessage
	case OutcomeFailed:
		return FailedMessage
	}
	return fmt.Sprintf(`Based on multiple sources, here's what I found:

%s

Source: %s
URL: %s

(This answer was selected from %d sources in a knockout comparison)`,
		a.Text, a.SourceTitle, a.SourceURL, a.ComparedCount)
}
