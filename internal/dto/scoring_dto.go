package dto

import (
	"time"

	"github.com/scribalabs/scriba-api/internal/scoring"
)

// ScoreRequest carries a transcript to be scored against the active rubrics.
type ScoreRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

// CriterionResultResponse serializes one rubric's scoring breakdown.
type CriterionResultResponse struct {
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

// ScoreResponse is returned after scoring a transcript or when fetching a
// stored score.
type ScoreResponse struct {
	ID           uint                      `json:"id"`
	OverallScore float64                   `json:"overall_score"`
	WordCount    int                       `json:"word_count"`
	Criteria     []CriterionResultResponse `json:"criteria"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// ScoreSummaryResponse is the compact listing representation of a score.
type ScoreSummaryResponse struct {
	ID           uint      `json:"id"`
	OverallScore float64   `json:"overall_score"`
	WordCount    int       `json:"word_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCriterionResults maps engine output to the API representation.
func NewCriterionResults(criteria []scoring.CriterionResult) []CriterionResultResponse {
	responses := make([]CriterionResultResponse, 0, len(criteria))
	for _, criterion := range criteria {
		responses = append(responses, CriterionResultResponse{
			Name:            criterion.Name,
			Description:     criterion.Description,
			Weight:          criterion.Weight,
			KeywordScore:    criterion.KeywordScore,
			SimilarityScore: criterion.SimilarityScore,
			LengthScore:     criterion.LengthScore,
			CombinedScore:   criterion.CombinedScore,
			WeightedScore:   criterion.WeightedScore,
			MatchedKeywords: criterion.MatchedKeywords,
			Feedback:        criterion.Feedback,
		})
	}
	return responses
}
