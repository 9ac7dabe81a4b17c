package kernel

import "strings"

// AreaMatches reports whether a worker's service area covers the requested
// delivery area. Matching ignores case and surrounding spaces. In exact mode
// the two names must be equal; otherwise either may contain the other, so
// "Dhanmondi" covers "Dhanmondi 27" and "Mirpur-10, Dhaka" covers "mirpur-10".
func AreaMatches(serviceArea, requested string, exact bool) bool {
	a := strings.ToLower(strings.TrimSpace(serviceArea))
	b := strings.ToLower(strings.TrimSpace(requested))
	if a == "" || b == "" {
		return false
	}

	if exact {
		return a == b
	}

	return strings.Contains(a, b) || strings.Contains(b, a)
}

// AnyAreaMatches reports whether any of the service areas matches requested.
func AnyAreaMatches(serviceAreas []string, requested string, exact bool) bool {
	for _, area := range serviceAreas {
		if AreaMatches(area, requested, exact) {
			return true
		}
	}
	return false
}
