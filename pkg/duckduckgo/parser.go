package duckduckgo

import (
	"net/url"
	"strings"

	"github.com/sells-group/webresearch/internal/htmltext"
	"github.com/sells-group/webresearch/internal/model"
)

// ParseResults extracts up to limit results from a result page. Blocks with
// no usable title or no http(s) destination are skipped; parsing never
// fails. A limit <= 0 means MaxResults.
func ParseResults(html string, limit int) []model.SearchResult {
	if limit <= 0 {
		limit = MaxResults
	}

	blocks := strings.Split(html, BlockMarker)
	results := make([]model.SearchResult, 0, min(limit, len(blocks)))
	for _, block := range blocks[1:] {
		if len(results) >= limit {
			break
		}
		r, ok := parseBlock(block)
		if !ok {
			continue
		}
		results = append(results, r)
	}
	return results
}

func parseBlock(block string) (model.SearchResult, bool) {
	title := elementText(block, TitleMarker)
	link := resolveLink(block)
	if title == "" || !strings.HasPrefix(link, "http") {
		return model.SearchResult{}, false
	}

	snippet := elementText(block, SnippetMarker)
	if snippet == "" {
		snippet = NoDescription
	}

	return model.SearchResult{Title: title, URL: link, Snippet: snippet}, true
}

// elementText returns the cleaned inner text of the element whose opening
// tag contains marker, or "" when the element is missing or unterminated.
func elementText(block, marker string) string {
	at := strings.Index(block, marker)
	if at < 0 {
		return ""
	}
	gt := strings.IndexByte(block[at:], '>')
	if gt < 0 {
		return ""
	}
	contentStart := at + gt + 1

	closing := "</a>"
	if name := enclosingTagName(block, at); name != "" {
		closing = "</" + name + ">"
	}
	end := strings.Index(block[contentStart:], closing)
	if end < 0 {
		return ""
	}
	return htmltext.InlineText(block[contentStart : contentStart+end])
}

// enclosingTagName returns the name of the tag that offset at sits inside,
// or "" when at is not inside an opening tag.
func enclosingTagName(block string, at int) string {
	lt := strings.LastIndexByte(block[:at], '<')
	if lt < 0 || strings.IndexByte(block[lt:at], '>') >= 0 {
		return ""
	}
	name := block[lt+1 : at]
	if end := strings.IndexAny(name, " \t\r\n/"); end >= 0 {
		name = name[:end]
	}
	return strings.ToLower(name)
}

// anchorTag returns the opening tag that contains marker, or "".
func anchorTag(block, marker string) string {
	at := strings.Index(block, marker)
	if at < 0 {
		return ""
	}
	lt := strings.LastIndexByte(block[:at], '<')
	if lt < 0 || strings.IndexByte(block[lt:at], '>') >= 0 {
		return ""
	}
	gt := strings.IndexByte(block[at:], '>')
	if gt < 0 {
		return ""
	}
	return block[lt : at+gt+1]
}

// resolveLink finds the destination of the result's title anchor, unwrapping
// the provider redirect when present. Without a recognisable anchor it falls
// back to the first href in the block.
func resolveLink(block string) string {
	scope := anchorTag(block, TitleMarker)
	if scope == "" {
		scope = block
	}

	href := attrValue(scope, "href")
	if target, ok := unwrapRedirect(href); ok {
		return target
	}
	return htmltext.DecodeEntities(href)
}

// attrValue returns the double-quoted value of the first name attribute in s.
func attrValue(s, name string) string {
	key := name + `="`
	at := strings.Index(s, key)
	if at < 0 {
		return ""
	}
	start := at + len(key)
	end := strings.IndexByte(s[start:], '"')
	if end < 0 {
		return ""
	}
	return s[start : start+end]
}

// unwrapRedirect extracts and percent-decodes the destination from a
// provider redirect link. ok is false when href is not a redirect.
func unwrapRedirect(href string) (target string, ok bool) {
	at := strings.Index(href, RedirectPath)
	if at < 0 {
		return "", false
	}
	query := href[at+len(RedirectPath):]

	key := RedirectParam + "="
	p := strings.Index(query, key)
	if p < 0 {
		return "", false
	}
	raw := query[p+len(key):]
	if end := strings.IndexByte(raw, '&'); end >= 0 {
		raw = raw[:end]
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw, true
	}
	return decoded, true
}
