package words

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotEncodable is returned for characters whose code point exceeds 8 bits.
var ErrNotEncodable = errors.New("character does not fit in 8 bits")

// Encode renders each character of word as an 8-bit zero-padded binary
// group, groups separated by single spaces. "Cat" → "01000011 01100001 01110100".
func Encode(word string) (string, error) {
	var b strings.Builder
	for i, r := range word {
		if r > 0xFF {
			return "", fmt.Errorf("%q at byte %d: %w", r, i, ErrNotEncodable)
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%08b", r)
	}
	return b.String(), nil
}

// Decode reverses Encode.
func Decode(binary string) (string, error) {
	fields := strings.Fields(binary)
	var b strings.Builder
	for _, f := range fields {
		if len(f) != 8 {
			return "", fmt.Errorf("group %q: want 8 bits", f)
		}
		n, err := strconv.ParseUint(f, 2, 8)
		if err != nil {
			return "", fmt.Errorf("group %q: %w", f, err)
		}
		b.WriteRune(rune(n))
	}
	return b.String(), nil
}
