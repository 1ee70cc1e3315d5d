package matcher

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// MaxScore is the score of a candidate that contains the search phrase.
	MaxScore = 100

	// exactRatio is the window similarity above which a candidate is a full match.
	exactRatio = 0.995
)

// isSeparator reports whether a character is ignored when looking for matching blocks.
func isSeparator(s string) bool {
	return s == " " || s == "."
}

// Score returns how well candidate matches searchMatch, from 0 to MaxScore.
func Score(searchMatch, candidate string) int {
	var (
		phrase = strings.Split(searchMatch, "")
		text   = strings.Split(candidate, "")
		folded = foldSeparators(phrase)
		best   float64
	)

	blocks := difflib.NewMatcherWithJunk(phrase, text, true, isSeparator).GetMatchingBlocks()

	for _, block := range blocks {
		window := alignedWindow(text, block.B-block.A, len(phrase))

		ratio := difflib.NewMatcherWithJunk(folded, foldSeparators(window), false, nil).Ratio()
		if ratio > exactRatio {
			return MaxScore
		}

		best = max(best, ratio)
	}

	return int(MaxScore * best)
}

// Best scores every candidate and returns the index of the highest one along with all scores.
// Ties go to the earliest candidate. The index is -1 when there are no candidates.
func Best(searchMatch string, candidates []string) (int, []int) {
	var (
		scores    = make([]int, len(candidates))
		bestIndex = -1
	)

	for i, candidate := range candidates {
		scores[i] = Score(searchMatch, candidate)

		if bestIndex == -1 || scores[i] > scores[bestIndex] {
			bestIndex = i
		}
	}

	return bestIndex, scores
}

// alignedWindow returns length characters of text starting at start, clamped to the text bounds.
func alignedWindow(text []string, start, length int) []string {
	end := min(start+length, len(text))
	start = max(start, 0)

	if start >= end {
		return nil
	}

	return text[start:end]
}

// foldSeparators maps periods to spaces so both separators compare equal.
func foldSeparators(chars []string) []string {
	result := make([]string, len(chars))

	for i, char := range chars {
		if char == "." {
			char = " "
		}

		result[i] = char
	}

	return result
}
