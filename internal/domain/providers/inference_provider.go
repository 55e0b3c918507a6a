package providers

import (
	"context"

	"github.com/zatekoja/studentscore/internal/domain/entities"
)

// InferenceProvider turns a frame into one predicted score per row.
type InferenceProvider interface {
	Predict(ctx context.Context, frame *entities.Frame) ([]float64, error)
}
