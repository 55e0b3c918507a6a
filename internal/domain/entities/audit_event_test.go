package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuccessAuditEvent(t *testing.T) {
	record, err := NewStudentRecord(validForm())
	require.NoError(t, err)

	event := NewSuccessAuditEvent(record.Frame(), &PredictionResult{Predictions: []float64{68.5}})

	assert.Equal(t, AuditStatusSuccess, event.Status)
	assert.Equal(t, []float64{68.5}, event.Predictions)
	require.Len(t, event.InputData, 1)
	assert.Equal(t, "female", event.InputData[0]["gender"])
	assert.Nil(t, event.Error)
}

func TestNewErrorAuditEvent(t *testing.T) {
	event := NewErrorAuditEvent(errors.New("model unavailable"))

	assert.Equal(t, AuditStatusError, event.Status)
	assert.Nil(t, event.InputData)
	assert.Nil(t, event.Predictions)
	require.NotNil(t, event.Error)
	assert.Equal(t, "model unavailable", *event.Error)
}
