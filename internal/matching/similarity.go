package matching

import (
	"sort"
	"strings"
)

// minQueryLen guards against noisy matches on very short strings
const minQueryLen = 3

// FindBestMatch fuzzy-matches a normalized query against a corpus of
// normalized company names and returns the best candidate with its
// similarity score on a 0-100 scale. Queries shorter than three characters
// and empty corpora return ("", 0) without scanning. Ties keep the
// first-encountered entry so results are stable for a fixed corpus order.
func FindBestMatch(normalizedQuery string, corpus []string) (string, int) {
	if len(normalizedQuery) < minQueryLen || len(corpus) == 0 {
		return "", 0
	}

	queryKey := tokenSortKey(normalizedQuery)

	bestName := ""
	bestScore := 0
	for _, candidate := range corpus {
		score := ratio(queryKey, tokenSortKey(candidate))
		if score > bestScore {
			bestScore = score
			bestName = candidate
		}
	}
	return bestName, bestScore
}

// tokenSortRatio scores two strings ignoring token order
func tokenSortRatio(a, b string) int {
	return ratio(tokenSortKey(a), tokenSortKey(b))
}

// tokenSortKey rebuilds a string from its whitespace tokens in sorted
// order, making the comparison insensitive to word order.
func tokenSortKey(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio computes a normalized indel similarity between two strings,
// scaled to 0-100: 100*(len(a)+len(b)-distance)/(len(a)+len(b)), where
// distance counts single-character insertions and deletions. The scale
// truncates rather than rounds, so a fractional score never crosses a
// decision threshold from below.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	dist := indelDistance(a, b)
	total := la + lb
	return 100 * (total - dist) / total
}

// indelDistance is the edit distance with insertions and deletions only
// (substitution counted as delete+insert). Two-row dynamic programming.
func indelDistance(a, b string) int {
	la, lb := len(a), len(b)

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				del := prev[j] + 1
				ins := curr[j-1] + 1
				if del < ins {
					curr[j] = del
				} else {
					curr[j] = ins
				}
			}
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
