package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/govdocs-mx/expediente-ocr/internal/vocab"
)

// DefaultMinScore is the score a candidate must reach to be selected.
const DefaultMinScore = 0.6

// contextRadius is how many runes of surrounding text feed the scorer.
const contextRadius = 50

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reSeparators = regexp.MustCompile(`\s*([/\-])\s*`)
	reYearToken  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// ExpedienteExtractor finds case identifiers ("expediente") in noisy OCR text
// using the vocabulary's ordered pattern catalog, then validates and scores
// every candidate against its surrounding context.
type ExpedienteExtractor struct {
	patterns  []compiledPattern
	stopwords map[string]struct{}
	keywords  []string
}

type compiledPattern struct {
	re     *regexp.Regexp
	group  int
	weight float64
}

// Candidate is one pattern hit: the full match, the captured identifier, the
// byte span of the full match in the source text, and the producing pattern's
// configured weight.
type Candidate struct {
	FullMatch string
	ID        string
	Start     int
	End       int
	Weight    float64
}

// NewExpedienteExtractor compiles the vocabulary's pattern catalog.
func NewExpedienteExtractor(v *vocab.Vocabulary) (*ExpedienteExtractor, error) {
	if err := v.Check(); err != nil {
		return nil, err
	}
	e := &ExpedienteExtractor{
		stopwords: make(map[string]struct{}, len(v.Stopwords)),
	}
	for _, p := range v.ExpedientePatterns {
		e.patterns = append(e.patterns, compiledPattern{
			re:     regexp.MustCompile(p.Pattern),
			group:  p.CaptureGroup,
			weight: p.Weight,
		})
	}
	for _, w := range v.Stopwords {
		e.stopwords[strings.ToLower(w)] = struct{}{}
	}
	for _, k := range v.ContextKeywords {
		e.keywords = append(e.keywords, strings.ToLower(k))
	}
	return e, nil
}

// PatternMatches applies every pattern in catalog order and returns all
// (full match, captured id) pairs. Duplicates across overlapping patterns are
// expected; selection dedupes by score.
func (e *ExpedienteExtractor) PatternMatches(text string) []Candidate {
	var out []Candidate
	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			lo, hi := m[2*p.group], m[2*p.group+1]
			if lo < 0 || hi < 0 {
				continue
			}
			out = append(out, Candidate{
				FullMatch: text[m[0]:m[1]],
				ID:        text[lo:hi],
				Start:     m[0],
				End:       m[1],
				Weight:    p.weight,
			})
		}
	}
	return out
}

// NormalizeExpedienteFormat collapses whitespace, removes spacing around the
// "/" and "-" separators, and uppercases the identifier.
func NormalizeExpedienteFormat(s string) string {
	s = reWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	s = reSeparators.ReplaceAllString(s, "$1")
	return strings.ToUpper(s)
}

// ValidateExpediente rejects candidates that cannot be case identifiers:
// too short or long, no alphanumeric content, or a bare Spanish stopword.
func (e *ExpedienteExtractor) ValidateExpediente(candidate string) bool {
	c := strings.TrimSpace(candidate)
	if len([]rune(c)) < 3 || len([]rune(c)) > 50 {
		return false
	}
	hasAlnum := strings.ContainsFunc(c, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
	if !hasAlnum {
		return false
	}
	if _, ok := e.stopwords[strings.ToLower(c)]; ok {
		return false
	}
	return true
}

// ScoreExpediente rates a candidate in [0,1] given the text surrounding its
// match. Digits, a year token, separators, and nearby legal keywords all
// raise the score above the 0.5 base.
func (e *ExpedienteExtractor) ScoreExpediente(candidate, context string) float64 {
	score := 0.5
	if strings.ContainsFunc(candidate, unicode.IsDigit) {
		score += 0.2
	}
	if reYearToken.MatchString(candidate) {
		score += 0.1
	}
	if strings.ContainsAny(candidate, "/-") {
		score += 0.1
	}
	ctx := strings.ToLower(context)
	for _, kw := range e.keywords {
		if strings.Contains(ctx, kw) {
			score += 0.1
			break
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Extract returns the best-scoring normalized expediente in text, or
// ("", false) when no candidate reaches DefaultMinScore.
func (e *ExpedienteExtractor) Extract(text string) (string, bool) {
	return e.ExtractMinScore(text, DefaultMinScore)
}

// ExtractMinScore generates candidates, validates them, scores each against
// its ±50-rune context, and keeps the highest score at or above minScore.
// Ties go to the candidate that appears earliest in the text.
func (e *ExpedienteExtractor) ExtractMinScore(text string, minScore float64) (string, bool) {
	type scored struct {
		id    string
		score float64
		pos   int
	}
	var kept []scored
	for _, c := range e.PatternMatches(text) {
		if !e.ValidateExpediente(c.ID) {
			continue
		}
		score := e.ScoreExpediente(c.ID, surrounding(text, c.Start, c.End, contextRadius)) + c.Weight
		if score > 1.0 {
			score = 1.0
		}
		if score < minScore {
			continue
		}
		kept = append(kept, scored{id: NormalizeExpedienteFormat(c.ID), score: score, pos: c.Start})
	}
	if len(kept) == 0 {
		return "", false
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].pos < kept[j].pos
	})
	return kept[0].id, true
}

// surrounding returns up to radius runes of context on each side of the
// byte span [start,end).
func surrounding(text string, start, end, radius int) string {
	lo := start
	for n := 0; lo > 0 && n < radius; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for n := 0; hi < len(text) && n < radius; n++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return text[lo:hi]
}
