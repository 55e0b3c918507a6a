package entities

import "time"

// AuditStatus is the outcome recorded for a prediction request.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEvent is the write-only record stored for each POST to the prediction form.
// InputData, Predictions and Error are nil when absent.
type AuditEvent struct {
	ID          string           `json:"id" db:"id"`
	Status      AuditStatus      `json:"status" db:"status"`
	InputData   []map[string]any `json:"input_data" db:"input_data"`
	Predictions []float64        `json:"predictions" db:"predictions"`
	Error       *string          `json:"error" db:"error"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// NewSuccessAuditEvent records a served prediction.
func NewSuccessAuditEvent(frame *Frame, result *PredictionResult) *AuditEvent {
	return &AuditEvent{
		Status:      AuditStatusSuccess,
		InputData:   frame.Records(),
		Predictions: result.Predictions,
	}
}

// NewErrorAuditEvent records a failed request. Input data is never attached.
func NewErrorAuditEvent(err error) *AuditEvent {
	msg := err.Error()
	return &AuditEvent{
		Status: AuditStatusError,
		Error:  &msg,
	}
}
