package scoring

import (
	"regexp"
	"strings"
)

// matcher reports whether text contains any keyword on word boundaries.
// Prefix matchers only anchor the start, so "buy" also matches "buying".
type matcher struct {
	re *regexp.Regexp
}

func newMatcher(keywords []string, prefix bool) matcher {
	alts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw == "" {
			continue
		}
		parts := strings.Fields(kw)
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		alts = append(alts, strings.Join(parts, `\s+`))
	}
	if len(alts) == 0 {
		return matcher{}
	}

	pattern := `(?i)\b(?:` + strings.Join(alts, "|") + `)`
	if !prefix {
		pattern += `\b`
	}
	return matcher{re: regexp.MustCompile(pattern)}
}

func (m matcher) match(text string) bool {
	return m.re != nil && m.re.MatchString(text)
}
