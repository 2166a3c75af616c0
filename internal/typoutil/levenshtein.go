package typoutil

// CalculateDamerauLevenshteinDistance computes the optimal-string-alignment
// Damerau-Levenshtein distance between two strings: the minimum number of
// single-rune insertions, deletions, substitutions or swaps of two adjacent
// runes turning one into the other.
func CalculateDamerauLevenshteinDistance(a, b string) int {
	return distance([]rune(a), []rune(b), -1)
}

// CalculateDamerauLevenshteinDistanceWithLimit is CalculateDamerauLevenshteinDistance
// with early termination. It returns maxDistance + 1 as soon as the distance is known
// to exceed maxDistance.
func CalculateDamerauLevenshteinDistanceWithLimit(a, b string, maxDistance int) int {
	return distance([]rune(a), []rune(b), maxDistance)
}

// distance runs the rolling three-row dynamic program. A negative limit
// disables early termination.
func distance(a, b []rune, limit int) int {
	if limit >= 0 && abs(len(a)-len(b)) > limit {
		return limit + 1
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prevPrev := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				curr[j] = min(curr[j], prevPrev[j-2]+cost)
			}
			rowMin = min(rowMin, curr[j])
		}
		if limit >= 0 && rowMin > limit {
			return limit + 1
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}
	return prev[len(b)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// GenerateTypos scans terms linearly and returns those within maxDistance
// (Damerau-Levenshtein) of term, excluding term itself.
func GenerateTypos(term string, terms []string, maxDistance int) []string {
	typos := make([]string, 0)
	if maxDistance <= 0 || term == "" {
		return typos
	}
	for _, candidate := range terms {
		if candidate == term {
			continue
		}
		if d := CalculateDamerauLevenshteinDistanceWithLimit(term, candidate, maxDistance); d > 0 && d <= maxDistance {
			typos = append(typos, candidate)
		}
	}
	return typos
}
