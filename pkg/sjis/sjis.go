// Package sjis converts between UTF-8 and the Shift-JIS (CP932) byte
// encoding used by JV-Data and TARGET files.
package sjis

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Decode converts Shift-JIS bytes to a UTF-8 string.
func Decode(b []byte) (string, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("sjis decode: %w", err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to Shift-JIS. Characters without a
// Shift-JIS representation yield an error.
func Encode(s string) ([]byte, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("sjis encode: %w", err)
	}
	return out, nil
}

// DecodeField decodes a fixed-width text field and strips the space padding.
func DecodeField(b []byte) (string, error) {
	s, err := Decode(b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
