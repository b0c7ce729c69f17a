package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeWeightsSumsToOne(t *testing.T) {
	normalized := NormalizeWeights([]float64{0.2, 0.25, 0.3, 0.25})

	sum := 0.0
	for _, w := range normalized {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)
	require.Greater(t, normalized[2], normalized[0], "relative order must be preserved")
}

func TestNormalizeWeightsAllZeroSplitsEqually(t *testing.T) {
	normalized := NormalizeWeights([]float64{0, 0, 0, 0})

	require.Len(t, normalized, 4)
	for _, w := range normalized {
		require.InDelta(t, 0.25, w, 1e-9)
	}
}

func TestNormalizeWeightsEmptyInput(t *testing.T) {
	require.Nil(t, NormalizeWeights(nil))
}
