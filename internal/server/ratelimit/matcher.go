package ratelimit

import "strings"

type matchKind int

const (
	noMatch matchKind = iota
	prefixMatch
	wildcardMatch
	exactMatch
)

// Match returns the rule for method and path, or nil when none applies.
// An exact pattern wins over one with "*" segments, which wins over a
// prefix pattern ending in "/". Among equals the first rule wins.
func Match(rules []Rule, method, path string) *Rule {
	var best *Rule
	bestKind := noMatch
	for i := range rules {
		r := &rules[i]
		if r.Method != method {
			continue
		}
		if k := classify(r.Pattern, path); k > bestKind {
			best, bestKind = r, k
		}
	}
	return best
}

func classify(pattern, path string) matchKind {
	switch {
	case pattern == path:
		return exactMatch
	case strings.Contains(pattern, "*"):
		if matchSegments(pattern, path) {
			return wildcardMatch
		}
	case strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern):
		return prefixMatch
	}
	return noMatch
}

// matchSegments compares slash separated segments. "*" matches one non-empty segment.
func matchSegments(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, w := range want {
		if w == "*" && got[i] != "" {
			continue
		}
		if w != got[i] {
			return false
		}
	}
	return true
}
