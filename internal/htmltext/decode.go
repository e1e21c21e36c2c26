package htmltext

import (
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DecodeUTF8 returns body as a string, or an error when it is not valid
// UTF-8. A leading byte order mark is kept as-is.
func DecodeUTF8(body []byte) (string, error) {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, body); err != nil {
		return "", eris.Wrap(err, "htmltext: body is not valid utf-8")
	}
	return string(body), nil
}

// TrimPartialRune drops an incomplete multi-byte sequence left at the end of
// b by a size-capped read.
func TrimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if !utf8.RuneStart(b[len(b)-i]) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i]
		}
		break
	}
	return b
}
