package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)
)

// NormalizeForMatching case-folds and strips accents rune by rune so alias
// matching is insensitive to case and diacritics. The result always has the
// same rune count as the input: rune indices found in the normalized text are
// valid offsets into the original. Idempotent.
func NormalizeForMatching(s string) string {
	if s == "" {
		return s
	}
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, foldRune(r))
	}
	return string(out)
}

// foldRune lowercases r and replaces it with its base character when it is a
// precomposed accented letter. A rune that decomposes entirely into combining
// marks maps to a space to keep positions aligned.
func foldRune(r rune) rune {
	r = unicode.ToLower(r)
	if r < utf8.RuneSelf {
		return r
	}
	if unicode.Is(unicode.Mn, r) {
		return ' '
	}
	for _, d := range norm.NFD.String(string(r)) {
		if !unicode.Is(unicode.Mn, d) {
			return unicode.ToLower(d)
		}
	}
	return ' '
}

// NormalizeText collapses noisy whitespace and strips common OCR line noise
// for presentation. Conservative: keeps line breaks; collapses >2 newlines
// into a single blank line. Not length-preserving.
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	// collapse too many blank lines
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	// trim trailing spaces on lines
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(s)
}
