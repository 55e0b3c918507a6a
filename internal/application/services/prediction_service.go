package services

import (
	"context"
	"fmt"

	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/domain/providers"
	"github.com/zatekoja/studentscore/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/studentscore/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// PredictionService runs frames through the configured inference provider.
type PredictionService struct {
	provider providers.InferenceProvider
}

// NewPredictionService creates a new prediction service.
func NewPredictionService(provider providers.InferenceProvider) *PredictionService {
	return &PredictionService{provider: provider}
}

// Predict scores frame. Every failure, including a provider panic or an
// empty result, is returned as an inference error.
func (s *PredictionService) Predict(ctx context.Context, frame *entities.Frame) (*entities.PredictionResult, error) {
	ctx, span := observability.StartSpan(ctx, "inference.predict")
	defer span.End()

	observability.SetSpanAttributes(span, attribute.Int("frame.rows", len(frame.Rows)))

	predictions, err := s.callProvider(ctx, frame)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewInferenceError("prediction failed", err)
	}
	if len(predictions) == 0 {
		err := apperrors.NewInferenceError("model returned no predictions", nil)
		observability.RecordError(span, err)
		return nil, err
	}

	return &entities.PredictionResult{Predictions: predictions}, nil
}

func (s *PredictionService) callProvider(ctx context.Context, frame *entities.Frame) (predictions []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inference provider panicked: %v", r)
		}
	}()
	return s.provider.Predict(ctx, frame)
}
