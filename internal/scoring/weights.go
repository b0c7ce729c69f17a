package scoring

// NormalizeWeights rescales raw rubric weights so they sum to 1. When every
// raw weight is zero the rubrics share the weight equally.
func NormalizeWeights(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}

	sum := 0.0
	for _, w := range raw {
		sum += w
	}

	normalized := make([]float64, len(raw))
	if sum > 0 {
		for i, w := range raw {
			normalized[i] = w / sum
		}
		return normalized
	}

	equal := 1.0 / float64(len(raw))
	for i := range normalized {
		normalized[i] = equal
	}
	return normalized
}
