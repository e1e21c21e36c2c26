package scrape

import (
	"net/http"
	"strings"
)

// BlockType names the kind of anti-bot page a fetch landed on.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// jsShellMaxBytes bounds the size of a page considered a script-only shell.
const jsShellMaxBytes = 2000

var (
	cloudflareMarkers = []string{"checking your browser", "cf-browser-verification", "just a moment..."}
	captchaMarkers    = []string{"captcha", "recaptcha", "hcaptcha"}
)

// DetectBlock classifies a response as an anti-bot interstitial. It only
// inspects the status, headers and body; it never rejects a page itself.
func DetectBlock(status int, header http.Header, html string) BlockType {
	if (status == http.StatusForbidden || status == http.StatusServiceUnavailable) &&
		(header.Get("Cf-Ray") != "" || strings.EqualFold(header.Get("Server"), "cloudflare")) {
		return BlockCloudflare
	}

	lower := strings.ToLower(html)
	if containsAny(lower, cloudflareMarkers) {
		return BlockCloudflare
	}
	if containsAny(lower, captchaMarkers) {
		return BlockCaptcha
	}
	if len(html) < jsShellMaxBytes {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return BlockJSShell
		}
		if strings.Contains(lower, `http-equiv="refresh"`) {
			return BlockJSShell
		}
	}
	return BlockNone
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
