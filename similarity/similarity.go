// Package similarity scores how alike two short strings are on a 0-100
// scale and ranks candidate lists against a query.
//
// Score is a weighted ratio: a plain Indel-distance ratio competes with
// token-sorted and token-set ratios, and with best-window partial ratios
// when one string is much longer than the other. Case, punctuation and
// word order differences therefore cost little.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
)

const (
	tokenScale   = 0.95
	partialScale = 0.90
	// Partial matches between very different lengths are weak evidence.
	farPartialScale = 0.60
)

// Match is one ranked candidate.
type Match struct {
	Value string
	Score int
	// Index is the candidate's position in the input slice.
	Index int
}

// Normalize folds case, turns every non letter/digit into a space and
// collapses runs of whitespace.
func Normalize(s string) string {
	s = cases.Fold().String(s)
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Score returns the similarity of a and b between 0 and 100.
func Score(a, b string) int {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	base := ratio(a, b)
	la, lb := runeLen(a), runeLen(b)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	if lenRatio < 1.5 {
		best := base
		best = math.Max(best, tokenSortRatio(a, b)*tokenScale)
		best = math.Max(best, tokenSetRatio(a, b, ratio)*tokenScale)
		return int(math.Round(best))
	}

	scale := partialScale
	if lenRatio >= 8 {
		scale = farPartialScale
	}
	best := base
	best = math.Max(best, partialRatio(a, b)*scale)
	best = math.Max(best, partialRatio(sortTokens(a), sortTokens(b))*scale*tokenScale)
	best = math.Max(best, tokenSetRatio(a, b, partialRatio)*scale*tokenScale)
	return int(math.Round(best))
}

// Rank scores every candidate against query and returns them best first.
// Equal scores keep candidate order. A limit <= 0 returns all candidates.
func Rank(query string, candidates []string, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for i, c := range candidates {
		matches = append(matches, Match{Value: c, Score: Score(query, c), Index: i})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func runeLen(s string) int { return len([]rune(s)) }

// ratio is the share of characters the two strings have in common, derived
// from their Indel distance (insertions and deletions only, so a
// substitution costs 2).
func ratio(a, b string) float64 {
	total := runeLen(a) + runeLen(b)
	if total == 0 {
		return 100
	}
	indel := total - 2*edlib.LCS(a, b)
	return 100 * float64(total-indel) / float64(total)
}

// partialRatio compares the shorter string with every equally long window
// of the longer one and keeps the best ratio.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

// tokenSetRatio compares the shared tokens with each side's shared+own
// tokens, so that extra words on one side do not dominate the score.
func tokenSetRatio(a, b string, score func(string, string) float64) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	var common, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(common, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	best := score(t1, t2)
	if t0 != "" {
		best = math.Max(best, score(t0, t1))
		best = math.Max(best, score(t0, t2))
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}
