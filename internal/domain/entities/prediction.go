package entities

// PredictionResult holds the scores returned for a frame, one per row.
type PredictionResult struct {
	Predictions []float64 `json:"predictions"`
}

// Score returns the first prediction.
func (p *PredictionResult) Score() float64 {
	return p.Predictions[0]
}
