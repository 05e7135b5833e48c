package install

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// decodeOutput turns captured command output into UTF-8 text. Output in a
// legacy locale encoding is converted using the detected charset; anything
// undecodable is replaced with U+FFFD.
func decodeOutput(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	if res, err := chardet.NewTextDetector().DetectBest(b); err == nil {
		if enc, err := htmlindex.Get(res.Charset); err == nil {
			if decoded, err := enc.NewDecoder().Bytes(b); err == nil && utf8.Valid(decoded) {
				return string(decoded)
			}
		}
	}

	return strings.ToValidUTF8(string(b), "�")
}
