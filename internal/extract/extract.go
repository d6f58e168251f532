// Package extract implements the deterministic numeric-answer path: it scans
// retrieved passage text for salary/package figures, normalizes them to LPA
// (lakhs per annum, 1 lakh = 100,000 currency units) and synthesizes a
// one-sentence aggregate answer when the query asks for a package statistic.
package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// explicit LPA/lakh mentions: "7.5 LPA", "7 lakh"
	lpaRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:lpa|lac|lakh|lakhs)`)
	// raw currency amounts: "₹700,000", "Rs 700000", "Rs. 7,50,000"
	currencyRe = regexp.MustCompile(`(?i)(?:₹|rs\.?\s?)([\d,]+(?:\.\d+)?)`)
)

// Plausibility bounds in LPA. Anything outside is extraction noise (years,
// page numbers, phone fragments) and would corrupt the aggregates.
const (
	minPlausibleLPA = 0.1
	maxPlausibleLPA = 200
)

// Amounts extracts package values in LPA from the given passages. Both
// pattern families are scanned independently over the concatenated text and
// overlapping matches are not deduplicated. Malformed numbers are dropped,
// never surfaced.
func Amounts(passages []string) []float64 {
	text := strings.Join(passages, "\n")
	var values []float64
	for _, m := range lpaRe.FindAllStringSubmatch(text, -1) {
		v := parseAmount(m[1])
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	for _, m := range currencyRe.FindAllStringSubmatch(text, -1) {
		rupees := parseAmount(m[1])
		if !math.IsNaN(rupees) && rupees > 0 {
			values = append(values, rupees/100000.0)
		}
	}
	plausible := values[:0]
	for _, v := range values {
		if v >= minPlausibleLPA && v <= maxPlausibleLPA {
			plausible = append(plausible, v)
		}
	}
	return plausible
}

func parseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Intent is the package statistic a query asks for.
type Intent int

const (
	IntentNone Intent = iota
	IntentAverage
	IntentMin
	IntentMax
)

var intentKeywords = []struct {
	intent  Intent
	phrases []string
}{
	{IntentAverage, []string{"average package", "avg package", "mean package", "average salary", "avg ctc", "average ctc"}},
	{IntentMax, []string{"highest package", "max package", "maximum package", "highest ctc"}},
	{IntentMin, []string{"lowest package", "min package", "minimum package", "lowest ctc"}},
}

// ClassifyIntent maps a query to a package statistic by case-insensitive
// keyword match. IntentNone means there is no deterministic path.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(query)
	for _, group := range intentKeywords {
		for _, phrase := range group.phrases {
			if strings.Contains(q, phrase) {
				return group.intent
			}
		}
	}
	return IntentNone
}

// Aggregate composes the deterministic answer for the requested statistic,
// citing the other aggregates for context. Returns false when the intent is
// none or no values were extracted, signalling fallthrough to generation.
func Aggregate(intent Intent, values []float64) (string, bool) {
	if intent == IntentNone || len(values) == 0 {
		return "", false
	}
	lo, hi, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
	}
	avg := sum / float64(len(values))
	switch intent {
	case IntentAverage:
		return fmt.Sprintf("The average package is approximately %.2f LPA (min %.2f LPA, max %.2f LPA).", avg, lo, hi), true
	case IntentMin:
		return fmt.Sprintf("The lowest package is approximately %.2f LPA (average %.2f LPA, max %.2f LPA).", lo, avg, hi), true
	case IntentMax:
		return fmt.Sprintf("The highest package is approximately %.2f LPA (average %.2f LPA, min %.2f LPA).", hi, avg, lo), true
	}
	return "", false
}
