package ai

import "context"

// SimilarityJudge estimates how closely a transcript matches a criterion
// description, returning a value in [0,1].
type SimilarityJudge interface {
	JudgeSimilarity(ctx context.Context, transcript, description string) (float64, error)
}
