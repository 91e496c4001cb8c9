// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"regexp"
	"strings"
)

// wordPattern matches runs of three or more word characters.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}\p{Mn}_]{3,}`)

// Keywords returns the set of lowercase words of at least three characters in text.
func Keywords(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		set[w] = true
	}
	return set
}

// QueryKeywords returns the union of the persona and task keyword sets.
func QueryKeywords(q Query) map[string]bool {
	set := Keywords(q.Persona)
	for w := range Keywords(q.Task) {
		set[w] = true
	}
	return set
}

// overlap counts the words of a that also appear in b.
func overlap(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}
