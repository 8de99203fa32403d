package ui

import (
	"sort"
	"strings"
)

// MaxSuggestions bounds the names returned by Suggest
const MaxSuggestions = 3

// Suggest returns up to MaxSuggestions candidates close to name, nearest
// first. Matching ignores case; a candidate qualifies when its edit distance
// is at most a third of the longer name, and at least 1.
//
// Example:
//
//	Suggest("Bx", []string{"Box", "Broken", "A"}) // ["Box"]
func Suggest(name string, candidates []string) []string {
	type match struct {
		name     string
		distance int
	}

	target := strings.ToLower(name)
	var matches []match
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c == name || seen[c] {
			continue
		}
		seen[c] = true

		limit := max(len(target), len(c)) / 3
		if limit < 1 {
			limit = 1
		}
		if d := EditDistance(target, strings.ToLower(c)); d <= limit {
			matches = append(matches, match{c, d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})

	var out []string
	for i := 0; i < len(matches) && i < MaxSuggestions; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// EditDistance returns the Levenshtein distance between a and b, counting
// runes
func EditDistance(a, b string) int {
	s, t := []rune(a), []rune(b)
	if len(s) == 0 {
		return len(t)
	}

	// one row of the matrix is enough
	prev := make([]int, len(t)+1)
	cur := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s); i++ {
		cur[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(t)]
}
