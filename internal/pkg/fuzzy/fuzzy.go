// Package fuzzy scores how closely free text matches a channel title.
//
// Scores are edit-distance ratios in the range 0 (nothing in common) to 100
// (identical after normalization).
package fuzzy

import (
	"math"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case, transliterates to ASCII and collapses everything that is not a
// letter or digit into single spaces, so "TV 2 Østjylland" and "tv2-ostjylland" compare
// on the same alphabet.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	// A Caser keeps state between calls, so each call gets its own.
	s = cases.Fold().String(s)
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Score compares a query against a candidate title. Both are normalized first; the
// comparison is also made with spaces removed so "dr 1" scores as "DR1".
func Score(query, title string) int {
	q, c := Normalize(query), Normalize(title)
	if q == c {
		return 100
	}

	spaced := Ratio(q, c)
	compact := Ratio(strings.ReplaceAll(q, " ", ""), strings.ReplaceAll(c, " ", ""))
	return max(spaced, compact)
}

// Ratio returns the normalized indel similarity of a and b, compared rune by rune.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}

	d := indelDistance(ra, rb)
	return int(math.Round(100 * float64(total-d) / float64(total)))
}

// indelDistance is the Levenshtein distance with substitutions costing two edits
// (a delete plus an insert).
func indelDistance(r1, r2 []rune) int {
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 2
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
