package inference

import (
	"context"

	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/domain/providers"
)

// StaticProvider returns the same score for every row. Used for local runs.
type StaticProvider struct {
	score float64
}

var _ providers.InferenceProvider = (*StaticProvider)(nil)

// NewStaticProvider creates a provider that always predicts score.
func NewStaticProvider(score float64) *StaticProvider {
	return &StaticProvider{score: score}
}

// Predict returns one copy of the configured score per row.
func (p *StaticProvider) Predict(ctx context.Context, frame *entities.Frame) ([]float64, error) {
	out := make([]float64, len(frame.Rows))
	for i := range out {
		out[i] = p.score
	}
	return out, nil
}
