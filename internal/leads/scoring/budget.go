package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	amountRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(billion|bn|b|millions?|mil|mn|m|thousand|k)?\b`)
	currencyRe     = regexp.MustCompile(`\b(aed|dhs?|dirhams?|usd|eur|gbp)\b|[$€£]`)
	magnitudeRe    = regexp.MustCompile(`\b(millions?|thousands?|lakhs?|crores?|mil|bn|billion)\b`)
	upperBoundRe   = regexp.MustCompile(`\b(up\s*to|upto|under|below|max(imum)?|less\s+than|within)\b|<`)
	lowerBoundRe   = regexp.MustCompile(`\b(above|over|from|min(imum)?|more\s+than|at\s+least|starting)\b|\+|>`)
	undisclosedSet = map[string]struct{}{
		"undisclosed":       {},
		"not disclosed":     {},
		"prefer not to say": {},
		"confidential":      {},
		"tbd":               {},
		"flexible":          {},
	}
)

// budgetRange is a parsed budget in currency units. max may be +Inf.
type budgetRange struct {
	min, max float64
}

func (r budgetRange) overlaps(min, max float64) bool {
	return r.min <= max && r.max >= min
}

type amount struct {
	value   float64
	mult    float64
	hasUnit bool
}

// parseBudget extracts a numeric range from free text such as "1.5M",
// "AED 2,000,000", "800k-1.2m" or "up to 3m".
func parseBudget(raw string) (budgetRange, bool) {
	text := strings.ToLower(raw)
	text = strings.ReplaceAll(text, ",", "")
	text = currencyRe.ReplaceAllString(text, " ")

	matches := amountRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return budgetRange{}, false
	}

	amounts := make([]amount, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		mult, ok := unitMultiplier(m[2])
		amounts = append(amounts, amount{value: v, mult: mult, hasUnit: ok})
	}
	if len(amounts) == 0 {
		return budgetRange{}, false
	}

	// "1-2M": a bare number borrows the unit of the next amount that has one.
	carry := 1.0
	for i := len(amounts) - 1; i >= 0; i-- {
		if amounts[i].hasUnit {
			carry = amounts[i].mult
			continue
		}
		amounts[i].mult = carry
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, a := range amounts {
		v := a.value * a.mult
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if len(amounts) == 1 {
		switch {
		case upperBoundRe.MatchString(text):
			lo = 0
		case lowerBoundRe.MatchString(text):
			hi = math.Inf(1)
		}
	}
	return budgetRange{min: lo, max: hi}, true
}

func unitMultiplier(unit string) (float64, bool) {
	switch unit {
	case "k", "thousand":
		return 1e3, true
	case "m", "mn", "mil", "million", "millions":
		return 1e6, true
	case "b", "bn", "billion":
		return 1e9, true
	}
	return 1, false
}

func isUndisclosed(text string) bool {
	_, ok := undisclosedSet[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

func isPlausibleBudget(text string) bool {
	return magnitudeRe.MatchString(strings.ToLower(text))
}
