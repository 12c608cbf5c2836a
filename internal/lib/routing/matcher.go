package routing

import (
	"regexp"
	"strconv"
)

var digitsRe = regexp.MustCompile(`\d+`)

// MatchByName finds the route a scorer picked. Exact name match first;
// when the scorer invented a name (AI output is not guaranteed to echo
// our names back), the first integer in it is treated as a 1-based index
// into the route set. Falls back to the first route rather than failing,
// so a sloppy scorer answer never aborts the request.
func MatchByName(routes []Route, name string) Route {
	for _, r := range routes {
		if r.Name == name {
			return r
		}
	}

	if m := digitsRe.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			idx := n - 1
			if idx >= 0 && idx < len(routes) {
				return routes[idx]
			}
		}
	}

	return routes[0]
}
