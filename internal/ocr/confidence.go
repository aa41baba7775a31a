package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate       = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-](19|20)\d{2}\b|\b(19|20)\d{2}-\d{2}-\d{2}\b`)
	reCurr       = regexp.MustCompile(`\b(mxn|usd|eur)\b|[$€]`)
	reAmount     = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
	reExpediente = regexp.MustCompile(`\bexp(ediente)?\b`)
)

func hasDatePattern(s string) bool       { return reDate.MatchString(s) }
func hasCurrencyPattern(s string) bool   { return reCurr.MatchString(s) }
func hasAmountPattern(s string) bool     { return reAmount.MatchString(s) }
func hasExpedientePattern(s string) bool { return reExpediente.MatchString(s) }

// naive heuristic confidence (0..100) based on decoded text characteristics,
// used when tesseract returns no word geometry. Common legal-document
// artifacts (expediente references, dates, amounts) each add a fixed bump.
func heuristicConfidence(txt string) float64 {
	txtL := strings.ToLower(txt)
	score := 20.0 // base
	if hasExpedientePattern(txtL) {
		score += 20
	}
	if hasDatePattern(txtL) {
		score += 20
	}
	if hasCurrencyPattern(txtL) {
		score += 15
	}
	if hasAmountPattern(txtL) {
		score += 15
	}
	if len(txt) > 120 {
		score += 10
	} // enough content
	if score > 100 {
		score = 100
	}
	return score
}
