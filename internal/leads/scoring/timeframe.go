package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rangeDurationRe  = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)\s*(days?|weeks?|months?|mos?|years?|yrs?)?\b`)
	singleDurationRe = regexp.MustCompile(`(\d+)\s*(\+)?\s*(days?|weeks?|months?|mos?|years?|yrs?)\b`)
	plusOnlyRe       = regexp.MustCompile(`(\d+)\s*\+`)
	wordNumberRe     = regexp.MustCompile(`\b(an?|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\s+(days?|weeks?|months?|years?)\b`)
)

var wordNumbers = map[string]string{
	"a": "1", "an": "1", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"ten": "10", "eleven": "11", "twelve": "12",
}

// durationDays returns the upper bound in days of the first duration found in
// text. Open-ended durations such as "6+ months" return one day past the bound.
func durationDays(text string) (int, bool) {
	text = wordNumberRe.ReplaceAllStringFunc(strings.ToLower(text), func(m string) string {
		parts := strings.Fields(m)
		return wordNumbers[parts[0]] + " " + parts[1]
	})

	if m := rangeDurationRe.FindStringSubmatch(text); m != nil {
		hi, err := strconv.Atoi(m[2])
		if err == nil {
			return hi * unitDays(m[3]), true
		}
	}
	if m := singleDurationRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			days := n * unitDays(m[3])
			if m[2] == "+" {
				days++
			}
			return days, true
		}
	}
	if m := plusOnlyRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n*unitDays("") + 1, true
		}
	}
	return 0, false
}

// unitDays converts a unit to days. A missing unit means months.
func unitDays(unit string) int {
	switch {
	case strings.HasPrefix(unit, "day"):
		return 1
	case strings.HasPrefix(unit, "week"):
		return 7
	case strings.HasPrefix(unit, "y"):
		return 365
	default:
		return 30
	}
}
