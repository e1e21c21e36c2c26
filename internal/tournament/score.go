package tournament

import (
	"strings"
	"unicode/utf8"
)

// minKeywordLen is the length a question word must exceed to count as a
// keyword.
const minKeywordLen = 3

// Keywords returns the lowercase whitespace tokens of question longer than
// three characters. Repeated words appear once per occurrence.
func Keywords(question string) []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(question)) {
		if utf8.RuneCountInString(tok) > minKeywordLen {
			out = append(out, tok)
		}
	}
	return out
}

// Score rates a summary against the question: one point per hundred
// characters plus ten per keyword the summary mentions. Only the summary
// body is scored, never the rendered header.
func Score(summary, question string) int {
	score := utf8.RuneCountInString(summary) / 100
	lower := strings.ToLower(summary)
	for _, kw := range Keywords(question) {
		if strings.Contains(lower, kw) {
			score += 10
		}
	}
	return score
}
