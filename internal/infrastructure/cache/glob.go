package cache

import "strings"

// globMatcher matches keys against a pattern where '*' matches any substring.
// Built by splitting on '*' rather than compiling a regexp so that literal
// key segments (which may contain user-supplied identifiers) can never be
// interpreted as pattern syntax.
type globMatcher struct {
	literal  string
	segments []string
	hasStar  bool
}

func compileGlob(pattern string) *globMatcher {
	if !strings.Contains(pattern, "*") {
		return &globMatcher{literal: pattern}
	}
	return &globMatcher{segments: strings.Split(pattern, "*"), hasStar: true}
}

func (m *globMatcher) Match(s string) bool {
	if !m.hasStar {
		return s == m.literal
	}

	first := m.segments[0]
	last := m.segments[len(m.segments)-1]

	if !strings.HasPrefix(s, first) {
		return false
	}
	s = s[len(first):]

	if !strings.HasSuffix(s, last) {
		return false
	}
	s = s[:len(s)-len(last)]

	// Remaining segments must appear in order within what's left.
	for _, seg := range m.segments[1 : len(m.segments)-1] {
		if seg == "" {
			continue
		}
		idx := strings.Index(s, seg)
		if idx < 0 {
			return false
		}
		s = s[idx+len(seg):]
	}
	return true
}
