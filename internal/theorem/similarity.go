package theorem

// similarityRatio computes the Ratcliff–Obershelp similarity of a and b: the
// same matching-blocks algorithm behind Python's
// difflib.SequenceMatcher(None, a, b).ratio(), which the source grader's
// fuzzy_match_theorem uses as its last-resort cascade tier. No library
// anywhere in the retrieved pack implements this specific algorithm (the
// edit-distance libraries available offer Levenshtein/Jaro-Winkler, a
// different metric family), so it is hand-rolled here.
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	matches := matchingBlockLength([]rune(a), []rune(b))
	return float64(2*matches) / float64(len(a)+len(b))
}

// matchingBlockLength recursively sums the lengths of the longest common
// substring between a and b, then the longest common substrings to its
// left and right, exactly as SequenceMatcher.get_matching_blocks does.
func matchingBlockLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	aStart, bStart, length := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}

	total := length
	total += matchingBlockLength(a[:aStart], b[:bStart])
	total += matchingBlockLength(a[aStart+length:], b[bStart+length:])
	return total
}

// longestCommonSubstring returns the start indices in a and b and the
// length of their longest common contiguous run, preferring the earliest
// match in a, then in b, on ties (matching SequenceMatcher's tie-break).
func longestCommonSubstring(a, b []rune) (int, int, int) {
	bIndex := make(map[rune][]int, len(b))
	for j, r := range b {
		bIndex[r] = append(bIndex[r], j)
	}

	bestA, bestB, bestLen := 0, 0, 0
	// j2len[j] holds the run length ending at b[j-1] for the row being built.
	j2len := make(map[int]int)
	for i, ra := range a {
		newJ2len := make(map[int]int)
		for _, j := range bIndex[ra] {
			runLen := j2len[j-1] + 1
			newJ2len[j] = runLen
			if runLen > bestLen {
				bestLen = runLen
				bestA = i - runLen + 1
				bestB = j - runLen + 1
			}
		}
		j2len = newJ2len
	}
	return bestA, bestB, bestLen
}
