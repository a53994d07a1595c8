package parser

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var bom = []byte("\xef\xbb\xbf")

// decode turns raw chart bytes into text. Most charts in the wild are
// Shift_JIS, anything that is not valid UTF-8 is assumed to be.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, bom)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if nil != err {
		return "", errors.Wrap(err, "unable to decode shift_jis")
	}
	return string(out), nil
}
