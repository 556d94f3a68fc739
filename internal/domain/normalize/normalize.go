// Package normalize holds the pure string normalizers used at the sync
// boundary. Matching across providers is always done on folded keys: raw
// provider strings never reach a typed column.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases, strips accents (NFKD decomposition with combining marks
// removed) and collapses runs of whitespace to single spaces.
func Fold(value string) string {
	folded, _, err := transform.String(asciiFolder, value)
	if err != nil {
		folded = value
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Key folds and drops everything but letters and digits, for enum lookups
// where providers disagree on punctuation ("3PT" vs "3-pt" vs "3 pt.").
func Key(value string) string {
	folded := Fold(value)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PersonName parses both "First Last" and "LAST, FIRST" provider formats.
// Multi-word surnames stay attached to the last name.
func PersonName(raw string) (first, last string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}

	if before, after, ok := strings.Cut(raw, ","); ok {
		return strings.TrimSpace(after), strings.TrimSpace(before)
	}

	parts := strings.Fields(raw)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// FullNameKey builds the matching key for a person: folded "first last".
func FullNameKey(first, last string) string {
	return Fold(strings.TrimSpace(first + " " + last))
}

// ClockSeconds parses a "MM:SS" game clock into seconds. Minutes may exceed
// 60 (season minute totals go through the same path).
func ClockSeconds(clock string) (int, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q is not MM:SS", clock)
	}

	minutes, err := parseUint(mm)
	if err != nil {
		return 0, fmt.Errorf("clock %q minutes: %w", clock, err)
	}
	seconds, err := parseUint(ss)
	if err != nil {
		return 0, fmt.Errorf("clock %q seconds: %w", clock, err)
	}
	if seconds > 59 {
		return 0, fmt.Errorf("clock %q seconds out of range", clock)
	}

	return minutes*60 + seconds, nil
}

func parseUint(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty number")
	}
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
