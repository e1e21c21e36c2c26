// Package htmltext turns untrusted HTML into plain text.
package htmltext

import (
	"regexp"
	"strings"
)

var (
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// entities is the fixed entity table. The replacer scans once left to right,
// so "&amp;lt;" decodes to "&lt;" and not "<".
var entities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#34;", `"`,
	"&#39;", "'",
	"&#039;", "'",
	"&apos;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
	"&#160;", " ",
	"&rsquo;", "'",
	"&lsquo;", "'",
	"&rdquo;", `"`,
	"&ldquo;", `"`,
)

// DecodeEntities decodes the entities of the fixed table and leaves any
// other entity untouched.
func DecodeEntities(s string) string {
	return entities.Replace(s)
}

// StripTags removes every tag, joining the surrounding text directly.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// InlineText cleans a short markup fragment such as a result title or
// snippet: tags removed, entities decoded, outer whitespace trimmed.
func InlineText(fragment string) string {
	return strings.TrimSpace(DecodeEntities(StripTags(fragment)))
}

// Extract returns the readable text of an HTML document. Script and style
// regions are dropped, remaining tags become a single space, entities are
// decoded and every whitespace run collapses to one space.
func Extract(html string) string {
	html = scriptRe.ReplaceAllString(html, "")
	html = styleRe.ReplaceAllString(html, "")
	html = tagRe.ReplaceAllString(html, " ")
	html = DecodeEntities(html)
	html = whitespaceRe.ReplaceAllString(html, " ")
	return strings.TrimSpace(html)
}
