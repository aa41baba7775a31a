package extract

import (
	"strings"

	"github.com/govdocs-mx/expediente-ocr/internal/textnorm"
)

// FindSectionBoundaries locates a section inside a matching-normalized text.
// Among all start aliases the earliest occurrence wins (not the longest or
// most specific). The end boundary is the earliest occurrence of any end
// alias strictly after the start, or the end of text when none is found.
// Returns (-1, -1) when no start alias occurs. Indices are rune offsets.
func FindSectionBoundaries(normalized []rune, startAliases, endAliases []string) (int, int) {
	start := -1
	for _, alias := range startAliases {
		a := []rune(textnorm.NormalizeForMatching(alias))
		if len(a) == 0 {
			continue
		}
		if idx := runeIndex(normalized, a, 0); idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return -1, -1
	}

	end := len(normalized)
	for _, alias := range endAliases {
		a := []rune(textnorm.NormalizeForMatching(alias))
		if len(a) == 0 {
			continue
		}
		if idx := runeIndex(normalized, a, start+1); idx >= 0 && idx < end {
			end = idx
		}
	}
	return start, end
}

// ExtractSection slices a named section out of the original text. The search
// runs over the matching-normalized text, whose rune offsets stay valid in
// the original because the normalization is length-preserving. When
// includeHeader is false and the section content literally starts with one of
// the start aliases (case/accent-insensitive), the header and a following
// colon/space run are stripped. Returns ("", false) when the section is not
// found or its content is empty.
func ExtractSection(text string, startAliases, endAliases []string, includeHeader bool) (string, bool) {
	if len(startAliases) == 0 {
		return "", false
	}
	original := []rune(text)
	normalized := []rune(textnorm.NormalizeForMatching(text))

	start, end := FindSectionBoundaries(normalized, startAliases, endAliases)
	if start < 0 {
		return "", false
	}

	content := original[start:end]
	if !includeHeader {
		content = stripHeader(content, normalized[start:end], startAliases)
	}

	s := strings.TrimSpace(string(content))
	if s == "" {
		return "", false
	}
	return s, true
}

// stripHeader removes a leading alias plus any colon/space run that follows.
// The header is only removed when the content actually starts with one of the
// supplied aliases.
func stripHeader(content, normalized []rune, aliases []string) []rune {
	for _, alias := range aliases {
		a := []rune(textnorm.NormalizeForMatching(alias))
		if len(a) == 0 || len(a) > len(normalized) {
			continue
		}
		if !runesEqual(normalized[:len(a)], a) {
			continue
		}
		rest := content[len(a):]
		for len(rest) > 0 && (rest[0] == ':' || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n') {
			rest = rest[1:]
		}
		return rest
	}
	return content
}

// runeIndex returns the rune offset of the first occurrence of needle in
// haystack at or after from, or -1.
func runeIndex(haystack, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
