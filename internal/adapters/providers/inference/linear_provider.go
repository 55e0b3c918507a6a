package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/domain/providers"
)

// LinearArtifact is the exported form of a fitted preprocessing + linear
// regression pipeline. Feature order is numeric columns first, then the
// one-hot expansion of each categorical column.
type LinearArtifact struct {
	Target       string               `json:"target"`
	Numeric      []NumericFeature     `json:"numeric"`
	Categorical  []CategoricalFeature `json:"categorical"`
	Coefficients []float64            `json:"coefficients"`
	Intercept    float64              `json:"intercept"`
}

// NumericFeature is a standard-scaled numeric column.
type NumericFeature struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
}

// CategoricalFeature is a one-hot encoded column. Scales, when present,
// divide each indicator (a scaler fitted without centering).
type CategoricalFeature struct {
	Column     string    `json:"column"`
	Categories []string  `json:"categories"`
	Scales     []float64 `json:"scales,omitempty"`
}

// LinearProvider evaluates a LinearArtifact in process.
type LinearProvider struct {
	artifact LinearArtifact
}

var _ providers.InferenceProvider = (*LinearProvider)(nil)

// LoadLinearProvider reads and validates the artifact at path.
func LoadLinearProvider(path string) (*LinearProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact LinearArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}

	return NewLinearProvider(artifact)
}

// NewLinearProvider validates artifact and returns a provider for it.
func NewLinearProvider(artifact LinearArtifact) (*LinearProvider, error) {
	width := len(artifact.Numeric)
	for _, num := range artifact.Numeric {
		if num.Scale == 0 {
			return nil, fmt.Errorf("numeric feature %q has zero scale", num.Column)
		}
	}
	for _, cat := range artifact.Categorical {
		if len(cat.Scales) != 0 && len(cat.Scales) != len(cat.Categories) {
			return nil, fmt.Errorf("categorical feature %q has %d scales for %d categories", cat.Column, len(cat.Scales), len(cat.Categories))
		}
		for _, s := range cat.Scales {
			if s == 0 {
				return nil, fmt.Errorf("categorical feature %q has zero scale", cat.Column)
			}
		}
		width += len(cat.Categories)
	}
	if width != len(artifact.Coefficients) {
		return nil, fmt.Errorf("model expects %d coefficients, artifact has %d", width, len(artifact.Coefficients))
	}

	return &LinearProvider{artifact: artifact}, nil
}

// Predict scores every row of frame.
func (p *LinearProvider) Predict(ctx context.Context, frame *entities.Frame) ([]float64, error) {
	predictions := make([]float64, 0, len(frame.Rows))
	for row := range frame.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		features, err := p.transform(frame, row)
		if err != nil {
			return nil, err
		}
		score := p.artifact.Intercept
		for i, x := range features {
			score += x * p.artifact.Coefficients[i]
		}
		predictions = append(predictions, score)
	}
	return predictions, nil
}

func (p *LinearProvider) transform(frame *entities.Frame, row int) ([]float64, error) {
	features := make([]float64, 0, len(p.artifact.Coefficients))

	for _, num := range p.artifact.Numeric {
		v, err := frame.FloatAt(row, num.Column)
		if err != nil {
			return nil, err
		}
		features = append(features, (v-num.Mean)/num.Scale)
	}

	for _, cat := range p.artifact.Categorical {
		v, err := frame.StringAt(row, cat.Column)
		if err != nil {
			return nil, err
		}
		// unknown categories encode as all zeros
		for i, category := range cat.Categories {
			x := 0.0
			if category == v {
				x = 1.0
				if len(cat.Scales) > 0 {
					x /= cat.Scales[i]
				}
			}
			features = append(features, x)
		}
	}

	return features, nil
}
