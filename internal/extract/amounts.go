package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/govdocs-mx/expediente-ocr/internal/common"
	"github.com/govdocs-mx/expediente-ocr/internal/vocab"
)

// DefaultCurrency is assumed when a match carries no currency marker.
const DefaultCurrency = "MXN"

const numberPattern = `-?\d{1,3}(?:,\d{3})+(?:\.\d+)?|-?\d+(?:\.\d+)?`

// AmountData is a validated monetary amount. Value is never negative:
// construction fails instead.
type AmountData struct {
	Value        decimal.Decimal `json:"value"`
	Currency     string          `json:"currency"`
	OriginalText string          `json:"original_text"`
}

// NewAmountData builds an AmountData, rejecting negative values.
func NewAmountData(value decimal.Decimal, currency, originalText string) (AmountData, error) {
	if value.IsNegative() {
		return AmountData{}, common.NewAppError("AMOUNT_ERROR",
			fmt.Sprintf("negative amount %s", value), common.ErrInvalidInput)
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return AmountData{Value: value, Currency: currency, OriginalText: originalText}, nil
}

// ExtractAmounts finds monetary amounts in text. Currency priority follows
// the list order; keyword-anchored bare numbers ("monto", "importe", ...)
// default to the first currency in the list. Thousands separators and
// decimals are parsed exactly; negative or unparsable matches are discarded
// without error.
func ExtractAmounts(text string, currencies []vocab.CurrencySpec, keywords []string) []AmountData {
	type span struct{ lo, hi int }
	var claimed []span
	overlaps := func(lo, hi int) bool {
		for _, s := range claimed {
			if lo < s.hi && hi > s.lo {
				return true
			}
		}
		return false
	}

	type hit struct {
		pos    int
		amount AmountData
	}
	var hits []hit
	record := func(lo, hi int, raw, original, code string) {
		if overlaps(lo, hi) {
			return
		}
		value, ok := parseAmountValue(raw)
		if !ok {
			return
		}
		a, err := NewAmountData(value, code, original)
		if err != nil {
			return
		}
		claimed = append(claimed, span{lo, hi})
		hits = append(hits, hit{pos: lo, amount: a})
	}

	// currency-marked amounts, in priority order
	for _, cur := range currencies {
		re, err := currencyRegexp(cur.Symbol)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			record(m[0], m[1], text[m[2]:m[3]], text[m[0]:m[1]], cur.Code)
		}
	}

	// keyword-anchored bare amounts default to the first currency
	if len(keywords) > 0 && len(currencies) > 0 {
		re, err := keywordRegexp(keywords)
		if err == nil {
			for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
				record(m[0], m[1], text[m[2]:m[3]], text[m[0]:m[1]], currencies[0].Code)
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]AmountData, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.amount)
	}
	return out
}

// currencyRegexp matches "<symbol> <number>". Alphabetic codes get word
// boundaries so "USD" does not fire inside longer tokens.
func currencyRegexp(symbol string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(symbol)
	if isAlphabetic(symbol) {
		return regexp.Compile(`(?i)\b` + quoted + `\s*\$?\s*(` + numberPattern + `)`)
	}
	return regexp.Compile(quoted + `\s*(` + numberPattern + `)`)
}

func keywordRegexp(keywords []string) (*regexp.Regexp, error) {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	return regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\s*:?\s*(` + numberPattern + `)`)
}

// parseAmountValue strips thousands separators and parses the remainder.
func parseAmountValue(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return s != ""
}
