package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scribalabs/scriba-api/pkg/ai"
)

// ErrNoRubrics indicates a scoring run was attempted without any rubric.
var ErrNoRubrics = errors.New("at least one rubric is required")

// neutralSimilarity replaces the oracle's judgment whenever the oracle is
// unavailable or its reply cannot be used.
const neutralSimilarity = 0.5

const feedbackSeparator = "; "

// Rubric is a single weighted scoring criterion.
type Rubric struct {
	Name        string
	Description string
	Keywords    string
	Weight      float64
	MinWords    int
	MaxWords    int
}

// CriterionResult is the per-rubric scoring breakdown.
type CriterionResult struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Weight          float64  `json:"weight"`
	KeywordScore    float64  `json:"keyword_score"`
	SimilarityScore float64  `json:"similarity_score"`
	LengthScore     float64  `json:"length_score"`
	CombinedScore   float64  `json:"combined_score"`
	WeightedScore   float64  `json:"weighted_score"`
	MatchedKeywords []string `json:"matched_keywords"`
	Feedback        string   `json:"feedback"`
}

// Result is the full outcome of scoring one transcript.
type Result struct {
	OverallScore float64           `json:"overall_score"`
	WordCount    int               `json:"word_count"`
	Criteria     []CriterionResult `json:"criteria"`
}

// Engine runs the scoring pipeline: tokenize once, evaluate each rubric's
// keyword, similarity and length signals, then aggregate the weighted sum.
type Engine struct {
	judge  ai.SimilarityJudge
	logger zerolog.Logger
}

// NewEngine builds an engine around the given similarity judge. A nil judge
// is allowed; similarity then always scores neutral.
func NewEngine(judge ai.SimilarityJudge, logger zerolog.Logger) *Engine {
	return &Engine{
		judge:  judge,
		logger: logger.With().Str("component", "scoring_engine").Logger(),
	}
}

// Score evaluates the transcript against the rubrics, in input order. Rubric
// weights are normalized before aggregation. Oracle calls run sequentially,
// one per rubric; an oracle failure degrades that rubric's similarity to the
// neutral score and never aborts the run.
func (e *Engine) Score(ctx context.Context, transcript string, rubrics []Rubric) (Result, error) {
	if len(rubrics) == 0 {
		return Result{}, ErrNoRubrics
	}

	tokens := Tokenize(transcript)
	totalWords := len(tokens)

	weights := make([]float64, len(rubrics))
	for i, rubric := range rubrics {
		weights[i] = rubric.Weight
	}
	normalized := NormalizeWeights(weights)

	criteria := make([]CriterionResult, 0, len(rubrics))
	weightedSum := 0.0

	for i, rubric := range rubrics {
		keywords := ScoreKeywords(rubric.Keywords, tokens)
		similarity := e.similarity(ctx, transcript, rubric.Description)
		length := ScoreLength(rubric.MinWords, rubric.MaxWords, totalWords)

		combined := clamp01(0.4*keywords.Score + 0.4*similarity + 0.2*length)
		weighted := combined * normalized[i]
		weightedSum += weighted

		criteria = append(criteria, CriterionResult{
			Name:            rubric.Name,
			Description:     rubric.Description,
			Weight:          round4(normalized[i]),
			KeywordScore:    round3(keywords.Score),
			SimilarityScore: round3(similarity),
			LengthScore:     round3(length),
			CombinedScore:   round3(combined),
			WeightedScore:   round4(weighted),
			MatchedKeywords: keywords.Found,
			Feedback:        buildFeedback(keywords, similarity, totalWords, rubric.MinWords, rubric.MaxWords),
		})
	}

	overall := weightedSum * 100
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	return Result{
		OverallScore: round2(overall),
		WordCount:    totalWords,
		Criteria:     criteria,
	}, nil
}

func (e *Engine) similarity(ctx context.Context, transcript, description string) float64 {
	if e.judge == nil {
		return neutralSimilarity
	}

	score, err := e.judge.JudgeSimilarity(ctx, transcript, description)
	if err != nil {
		e.logger.Warn().Err(err).Msg("similarity judge failed, falling back to neutral score")
		return neutralSimilarity
	}

	return clamp01(score)
}

func buildFeedback(keywords KeywordResult, similarity float64, totalWords, minWords, maxWords int) string {
	parts := make([]string, 0, 3)

	if keywords.Expected > 0 {
		switch len(keywords.Found) {
		case keywords.Expected:
			parts = append(parts, "all expected keywords found")
		case 0:
			parts = append(parts, "no expected keywords found")
		default:
			parts = append(parts, fmt.Sprintf("%d/%d keywords found", len(keywords.Found), keywords.Expected))
		}
	}

	parts = append(parts, fmt.Sprintf("semantic match %d%%", int(math.Round(similarity*100))))
	parts = append(parts, fmt.Sprintf("length %d words (target %d-%d)", totalWords, minWords, maxWords))

	return strings.Join(parts, feedbackSeparator)
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
