package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/domain/providers"
)

// RemoteProvider calls a model server that exposes POST /predict.
type RemoteProvider struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

var _ providers.InferenceProvider = (*RemoteProvider)(nil)

type predictRequest struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// NewRemoteProvider creates a provider for the model server at baseURL.
func NewRemoteProvider(baseURL string, timeout time.Duration) *RemoteProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "model-server",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Predict sends the frame to the model server.
func (p *RemoteProvider) Predict(ctx context.Context, frame *entities.Frame) ([]float64, error) {
	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.doPredict(ctx, frame)
	})
	if err != nil {
		return nil, err
	}
	return out.([]float64), nil
}

func (p *RemoteProvider) doPredict(ctx context.Context, frame *entities.Frame) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Columns: frame.Columns, Data: frame.Rows})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode model server response: %w", err)
	}

	return out.Predictions, nil
}
