package cache

import "testing"

func TestGlobMatcher(t *testing.T) {
	cases := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"product:*", "product:id:P1", true},
		{"product:*", "product:", true},
		{"product:*", "product", false},
		{"product:*", "category:id:C1", false},
		{"product:id:P1", "product:id:P1", true},
		{"product:id:P1", "product:id:P10", false},
		{"product:category:C1:*", "product:category:C1:1:20", true},
		{"product:category:C1:*", "product:category:C10:1:20", false},
		{"*", "anything", true},
		{"*", "", true},
		{"*:all", "category:all", true},
		{"*:all", "category:all:1", false},
		{"product:*:20", "product:all:1:20", true},
		{"product:*:20", "product:all:1:21", false},
		{"a*b*c", "aXbYc", true},
		{"a*b*c", "abc", true},
		{"a*b*c", "acb", false},
		{"", "", true},
		{"", "x", false},
	}
	for _, tc := range cases {
		m := compileGlob(tc.pattern)
		if got := m.Match(tc.key); got != tc.want {
			t.Errorf("compileGlob(%q).Match(%q) = %v, want %v", tc.pattern, tc.key, got, tc.want)
		}
	}
}

func TestGlobMatcher_LiteralSpecialChars(t *testing.T) {
	// Key segments may carry characters that regexp would treat as syntax;
	// the matcher must take them literally.
	m := compileGlob("search:result:a.b+c:*")
	if !m.Match("search:result:a.b+c:1:20") {
		t.Fatalf("expected literal match for regex metacharacters")
	}
	if m.Match("search:result:aXb+c:1:20") {
		t.Fatalf("'.' must not act as a wildcard")
	}
}
