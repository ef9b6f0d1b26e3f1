package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fontpreview/fontpreview/internal/ports"
)

// ParseChar reads the character to preview. It accepts the character itself
// or a code point written as U+XXXX (case-insensitive).
func ParseChar(s string) (rune, error) {
	if len(s) > 2 && (s[:2] == "U+" || s[:2] == "u+") {
		n, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("bad code point %q: %w", s, err)
		}
		r := rune(n)
		if !utf8.ValidRune(r) {
			return 0, fmt.Errorf("%s is not a Unicode scalar value", s)
		}
		return r, nil
	}

	if !utf8.ValidString(s) {
		return 0, fmt.Errorf("%q is not valid UTF-8", s)
	}
	if n := utf8.RuneCountInString(s); n != 1 {
		return 0, fmt.Errorf("expected exactly one character, got %d in %q", n, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ParseFamilies reads one family name per line. Blank lines and lines
// starting with # are skipped; order and duplicates are kept.
func ParseFamilies(r io.Reader) ([]ports.Family, error) {
	var out []ports.Family
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, ports.NewFamily(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read families: %w", err)
	}
	return out, nil
}

// ReadFamiliesFile is ParseFamilies over a file.
func ReadFamiliesFile(path string) ([]ports.Family, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseFamilies(f)
}
