package extract

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/govdocs-mx/expediente-ocr/internal/textnorm"
)

var (
	reISODate     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	reSpanishDate = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+([a-záéíóúñ]+)\s+(?:de\s+|del\s+)?(\d{4})\b`)
)

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// ExtractDates pattern-matches calendar dates in the requested formats,
// validates them against a real calendar, and returns canonical ISO strings
// in order of appearance. Unparsable or impossible matches are silently
// dropped: the function is total over arbitrary text.
func ExtractDates(text string, extractSpanish, extractISO bool) []string {
	type hit struct {
		pos int
		iso string
	}
	var hits []hit
	add := func(pos, y, m, d int) {
		if iso, ok := canonicalDate(y, m, d); ok {
			hits = append(hits, hit{pos: pos, iso: iso})
		}
	}

	if extractISO {
		for _, m := range reISODate.FindAllStringSubmatchIndex(text, -1) {
			y := atoi(text[m[2]:m[3]])
			mo := atoi(text[m[4]:m[5]])
			d := atoi(text[m[6]:m[7]])
			add(m[0], y, mo, d)
		}
	}
	if extractSpanish {
		// day/month/year numeric form
		for _, m := range reNumericDate.FindAllStringSubmatchIndex(text, -1) {
			d := atoi(text[m[2]:m[3]])
			mo := atoi(text[m[4]:m[5]])
			y := atoi(text[m[6]:m[7]])
			add(m[0], y, mo, d)
		}
		// "15 de octubre de 2023"
		for _, m := range reSpanishDate.FindAllStringSubmatchIndex(text, -1) {
			d := atoi(text[m[2]:m[3]])
			month, ok := spanishMonths[textnorm.NormalizeForMatching(text[m[4]:m[5]])]
			if !ok {
				continue
			}
			y := atoi(text[m[6]:m[7]])
			add(m[0], y, int(month), d)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.iso)
	}
	return out
}

// canonicalDate round-trips the components through time.Date to reject
// impossible dates (Feb 31 normalizes to a different day and is dropped).
func canonicalDate(y, m, d int) (string, bool) {
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
