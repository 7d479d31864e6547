// Package version normalizes dotted version strings to a comparison depth and orders
// them with strict semantic-version rules.
package version

import "strings"

const (
	// Delimiter separates version components
	Delimiter = "."

	// DepthUnbounded compares every component
	DepthUnbounded = 0

	normalizedComponents = 3
)

// Normalize truncates v to its first depth components and right-pads it with "0" until it
// has three components. A version without a delimiter is a single component and is never
// split. Components past the third survive when depth allows them; nothing is validated
// here. depth <= 0 keeps every component.
func Normalize(v string, depth int) string {
	var components []string
	if !strings.Contains(v, Delimiter) {
		components = []string{v}
	} else {
		components = strings.Split(v, Delimiter)
		if depth > DepthUnbounded && depth < len(components) {
			components = components[:depth]
		}
	}

	for len(components) < normalizedComponents {
		components = append(components, "0")
	}

	return strings.Join(components, Delimiter)
}
