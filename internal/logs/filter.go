package logs

import "strings"

// Filter keeps lines that contain every term. The zero value keeps all lines.
type Filter struct {
	Terms []string
}

// Match reports whether line contains every non-empty term.
func (f Filter) Match(line string) bool {
	for _, term := range f.Terms {
		if term == "" {
			continue
		}
		if !strings.Contains(line, term) {
			return false
		}
	}
	return true
}

// Apply returns the lines that match f.
func (f Filter) Apply(lines []string) []string {
	out := lines[:0:0]
	for _, line := range lines {
		if f.Match(line) {
			out = append(out, line)
		}
	}
	return out
}
