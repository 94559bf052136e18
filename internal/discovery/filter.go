package discovery

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Filter keeps the components matching pattern, compared case-insensitively.
// A pattern without wildcards matches as a substring, so "card" and "*Card*"
// are equivalent. An empty pattern keeps everything.
func Filter(components []string, pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return components, nil
	}

	pattern = strings.ToLower(pattern)
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "*" + pattern + "*"
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}

	matched := make([]string, 0, len(components))
	for _, c := range components {
		if g.Match(strings.ToLower(c)) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}
