package dataset

import (
	"fmt"
	"strings"
)

// naTokens mirrors the default missing-value markers of common dataframe
// readers.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNA reports whether a raw cell value denotes a missing value.
func IsNA(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// UniqueNames returns header names with repeats suffixed: the first
// occurrence keeps its name and the n-th repeat becomes "<name>.<n>".
// Blank names become "Unnamed: <position>". A suffix that would collide with
// any input name is skipped.
func UniqueNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, n := range header {
		if strings.TrimSpace(n) == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = n
		taken[n] = true
	}
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, n := range names {
		rep, ok := seen[n]
		if !ok {
			seen[n] = 0
			out[i] = n
			continue
		}
		var cand string
		for {
			rep++
			cand = fmt.Sprintf("%s.%d", n, rep)
			if !taken[cand] {
				break
			}
		}
		seen[n] = rep
		out[i] = cand
		taken[cand] = true
	}
	return out
}
