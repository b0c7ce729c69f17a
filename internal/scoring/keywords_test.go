package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreKeywordsEmptySpecIsFullySatisfied(t *testing.T) {
	result := ScoreKeywords("", Tokenize("anything at all"))

	require.Equal(t, 1.0, result.Score)
	require.Equal(t, 0, result.Expected)
	require.Empty(t, result.Found)
}

func TestScoreKeywordsPartialMatch(t *testing.T) {
	result := ScoreKeywords("hello,hi", Tokenize("Hello there"))

	require.Equal(t, []string{"hello"}, result.Found)
	require.Equal(t, 2, result.Expected)
	require.Equal(t, 0.5, result.Score)
}

func TestScoreKeywordsPhraseMatchesJoinedTokens(t *testing.T) {
	tokens := Tokenize("Good morning, everyone!")

	result := ScoreKeywords("good morning", tokens)
	require.Equal(t, []string{"good morning"}, result.Found)
	require.Equal(t, 1.0, result.Score)

	result = ScoreKeywords("good evening", tokens)
	require.Empty(t, result.Found)
	require.Equal(t, 0.0, result.Score)
}

func TestScoreKeywordsSingleWordIsNotSubstring(t *testing.T) {
	// "cat" must not match inside "catalog".
	result := ScoreKeywords("cat", Tokenize("the catalog is long"))

	require.Empty(t, result.Found)
	require.Equal(t, 0.0, result.Score)
}

func TestScoreKeywordsDuplicatesCountTowardsDenominator(t *testing.T) {
	result := ScoreKeywords("hello;hello,world", Tokenize("hello hello"))

	require.Equal(t, 3, result.Expected)
	require.Equal(t, []string{"hello", "hello"}, result.Found)
	require.InDelta(t, 2.0/3.0, result.Score, 1e-9)
}

func TestScoreKeywordsTrimsAndDropsEmptyEntries(t *testing.T) {
	result := ScoreKeywords(" hello , ;; World ", Tokenize("hello world"))

	require.Equal(t, 2, result.Expected)
	require.Equal(t, []string{"hello", "world"}, result.Found)
	require.Equal(t, 1.0, result.Score)
}
