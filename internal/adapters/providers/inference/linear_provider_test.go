package inference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/pkg/config"
)

const testArtifact = `{
  "target": "math_score",
  "numeric": [
    {"column": "reading_score", "mean": 70, "scale": 10},
    {"column": "writing_score", "mean": 70, "scale": 10}
  ],
  "categorical": [
    {"column": "gender", "categories": ["female", "male"]},
    {"column": "lunch", "categories": ["free/reduced", "standard"], "scales": [0.5, 0.5]}
  ],
  "coefficients": [5, 3, -2, 2, 1, 4],
  "intercept": 60
}`

func writeArtifact(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLinearProvider_Predict(t *testing.T) {
	provider, err := LoadLinearProvider(writeArtifact(t, testArtifact))
	require.NoError(t, err)

	predictions, err := provider.Predict(context.Background(), testFrame())
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	// 60 + 5*0.2 + 3*0.4 - 2*1 + 4*(1/0.5)
	assert.InDelta(t, 68.2, predictions[0], 1e-9)
}

func TestLinearProvider_UnknownCategoryEncodesAsZeros(t *testing.T) {
	provider, err := LoadLinearProvider(writeArtifact(t, testArtifact))
	require.NoError(t, err)

	frame := testFrame()
	frame.Rows[0][0] = "unspecified"

	predictions, err := provider.Predict(context.Background(), frame)
	require.NoError(t, err)
	assert.InDelta(t, 70.2, predictions[0], 1e-9)
}

func TestLinearProvider_MissingColumn(t *testing.T) {
	provider, err := LoadLinearProvider(writeArtifact(t, testArtifact))
	require.NoError(t, err)

	frame := &entities.Frame{Columns: []string{"gender"}, Rows: [][]any{{"female"}}}
	_, err = provider.Predict(context.Background(), frame)
	assert.Error(t, err)
}

func TestNewLinearProvider_CoefficientMismatch(t *testing.T) {
	_, err := NewLinearProvider(LinearArtifact{
		Numeric:      []NumericFeature{{Column: "reading_score", Mean: 0, Scale: 1}},
		Coefficients: []float64{1, 2},
	})
	assert.Error(t, err)
}

func TestNewLinearProvider_ZeroScale(t *testing.T) {
	_, err := NewLinearProvider(LinearArtifact{
		Numeric:      []NumericFeature{{Column: "reading_score", Mean: 0, Scale: 0}},
		Coefficients: []float64{1},
	})
	assert.Error(t, err)
}

func TestLoadLinearProvider_Errors(t *testing.T) {
	_, err := LoadLinearProvider(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadLinearProvider(writeArtifact(t, "{"))
	assert.Error(t, err)
}

func TestBundledArtifactLoads(t *testing.T) {
	provider, err := LoadLinearProvider(filepath.Join("..", "..", "..", "..", "artifacts", "model.json"))
	require.NoError(t, err)

	predictions, err := provider.Predict(context.Background(), testFrame())
	require.NoError(t, err)
	assert.Greater(t, predictions[0], 0.0)
	assert.Less(t, predictions[0], 120.0)
}

func TestStaticProvider(t *testing.T) {
	frame := testFrame()
	frame.Rows = append(frame.Rows, frame.Rows[0])

	predictions, err := NewStaticProvider(68.5).Predict(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, []float64{68.5, 68.5}, predictions)
}

func TestNewInferenceProvider(t *testing.T) {
	p, err := NewInferenceProvider(config.ModelConfig{Provider: "static", StaticScore: 1})
	require.NoError(t, err)
	assert.IsType(t, &StaticProvider{}, p)

	p, err = NewInferenceProvider(config.ModelConfig{Provider: "remote", URL: "http://model:8501"})
	require.NoError(t, err)
	assert.IsType(t, &RemoteProvider{}, p)

	p, err = NewInferenceProvider(config.ModelConfig{Provider: "linear", ArtifactPath: writeArtifact(t, testArtifact)})
	require.NoError(t, err)
	assert.IsType(t, &LinearProvider{}, p)

	_, err = NewInferenceProvider(config.ModelConfig{Provider: "remote"})
	assert.Error(t, err)

	_, err = NewInferenceProvider(config.ModelConfig{Provider: "linear"})
	assert.ErrorContains(t, err, "MODEL_ARTIFACT_PATH")

	_, err = NewInferenceProvider(config.ModelConfig{Provider: "onnx"})
	assert.Error(t, err)
}
