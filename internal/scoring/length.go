package scoring

// ScoreLength grades the transcript word count against a rubric's expected
// range. In-range counts earn full credit. Outside the range the credit is
// linear and capped at 0.5: undershoot scales with totalWords/minWords,
// overshoot decays with maxWords/totalWords. A zero maxWords with the count
// above the minimum is a degenerate range and earns nothing.
func ScoreLength(minWords, maxWords, totalWords int) float64 {
	switch {
	case totalWords >= minWords && totalWords <= maxWords:
		return 1.0
	case totalWords < minWords:
		floor := minWords
		if floor < 1 {
			floor = 1
		}
		score := 0.5 * float64(totalWords) / float64(floor)
		if score < 0 {
			return 0
		}
		return score
	case maxWords > 0:
		return 0.5 * float64(maxWords) / float64(totalWords)
	default:
		return 0
	}
}
