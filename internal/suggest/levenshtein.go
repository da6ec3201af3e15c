// Package suggest produces "did you mean" alternatives for query terms that
// normalize cleanly but have no postings in the index.
package suggest

// DamerauLevenshteinDistance computes the Damerau-Levenshtein distance between
// two strings: the minimum number of single-character insertions, deletions,
// substitutions, or adjacent transpositions required to change one word into
// the other. It works on runes, so a multi-byte character counts as one edit.
func DamerauLevenshteinDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// matrix[i][j] is the distance between the first i characters of a and
	// the first j characters of b.
	matrix := make([][]int, lenA+1)
	for i := range matrix {
		matrix[i] = make([]int, lenB+1)
	}

	for i := 0; i <= lenA; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min3(deletion, insertion, substitution)

			// Transposition (Damerau extension)
			if i > 1 && j > 1 &&
				runesA[i-1] == runesB[j-2] &&
				runesA[i-2] == runesB[j-1] {
				transposition := matrix[i-2][j-2] + cost
				if transposition < matrix[i][j] {
					matrix[i][j] = transposition
				}
			}
		}
	}

	return matrix[lenA][lenB]
}

// damerauLevenshteinWithLimit is the bounded variant used during vocabulary
// scans. It keeps three rolling rows (the transposition case needs i-2) and
// returns maxDistance+1 as soon as the distance provably exceeds maxDistance.
func damerauLevenshteinWithLimit(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	prevPrevRow := make([]int, lenB+1)
	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)

	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost

			currRow[j] = min3(deletion, insertion, substitution)

			if i > 1 && j > 1 &&
				runesA[i-1] == runesB[j-2] &&
				runesA[i-2] == runesB[j-1] {
				transposition := prevPrevRow[j-2] + cost
				if transposition < currRow[j] {
					currRow[j] = transposition
				}
			}

			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}

		// Once every value in a row exceeds the limit the final distance must too.
		if minInRow > maxDistance {
			return maxDistance + 1
		}

		prevPrevRow, prevRow, currRow = prevRow, currRow, prevPrevRow
	}

	return prevRow[lenB]
}

// min3 is a helper function to find the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
