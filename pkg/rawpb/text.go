package rawpb

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Text is UTF-8. Ill-formed sequences become U+FFFD, one per maximal subpart,
// whichever path decodes them.

// decodeText copies b into a string.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	// the replacing UTF-8 decoder has no error path for complete input
	out, _, _ := transform.Bytes(unicode.UTF8.NewDecoder(), b)
	return string(out)
}

// textDecoder is the single-pass decoder used in fast text mode.
type textDecoder struct {
	dec *encoding.Decoder
}

func newTextDecoder() *textDecoder {
	return &textDecoder{dec: unicode.UTF8.NewDecoder()}
}

// decode returns the text and the number of bytes of b it consumed.
func (d *textDecoder) decode(b []byte) (string, int, error) {
	out, n, err := transform.Bytes(d.dec, b)
	if err != nil {
		return "", n, err
	}
	return string(out), n, nil
}
