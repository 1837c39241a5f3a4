package domain

import "sort"

// Report maps a source name to its HOT leads in insertion order.
type Report map[string][]Lead

// Sources returns the report's source names sorted.
func (r Report) Sources() []string {
	sources := make([]string, 0, len(r))
	for source := range r {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Len returns the number of leads across all sources.
func (r Report) Len() int {
	n := 0
	for _, leads := range r {
		n += len(leads)
	}
	return n
}
