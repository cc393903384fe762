package naming

import (
	"strconv"
	"strings"
)

const Unknown = "Unknown"

var numerals = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// Named pairs an item with its display name.
type Named[T any] struct {
	Item        T
	DisplayName string
}

// Numeral returns the Roman numeral for 1 to 10 and the decimal form otherwise.
func Numeral(n int) string {
	if n >= 1 && n <= len(numerals) {
		return numerals[n-1]
	}
	return strconv.Itoa(n)
}

// Disambiguate suffixes repeated names with I, II, ... in encounter order.
func Disambiguate(names []string) []string {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[clean(n)]++
	}

	seen := make(map[string]int, len(counts))
	out := make([]string, len(names))
	for i, n := range names {
		name := clean(n)
		if counts[name] == 1 {
			out[i] = name
			continue
		}
		seen[name]++
		out[i] = name + " " + Numeral(seen[name])
	}
	return out
}

// Apply disambiguates items by the name returned for each. Order is kept.
func Apply[T any](items []T, name func(T) string) []Named[T] {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = name(item)
	}
	display := Disambiguate(names)

	out := make([]Named[T], len(items))
	for i, item := range items {
		out[i] = Named[T]{Item: item, DisplayName: display[i]}
	}
	return out
}

func clean(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unknown
	}
	return name
}
