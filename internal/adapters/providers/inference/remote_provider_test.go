package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/studentscore/internal/domain/entities"
)

func testFrame() *entities.Frame {
	record := &entities.StudentRecord{
		Gender:                   "female",
		RaceEthnicity:            "group B",
		ParentalLevelOfEducation: "bachelor's degree",
		Lunch:                    "standard",
		TestPreparationCourse:    "none",
		ReadingScore:             72,
		WritingScore:             74,
	}
	return record.Frame()
}

func TestRemoteProvider_Predict(t *testing.T) {
	requests := make(chan predictRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body predictRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests <- body

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predictions":[68.5]}`))
	}))
	defer server.Close()

	provider := NewRemoteProvider(server.URL+"/", time.Second)
	predictions, err := provider.Predict(context.Background(), testFrame())

	require.NoError(t, err)
	assert.Equal(t, []float64{68.5}, predictions)

	received := <-requests
	assert.Equal(t, entities.FrameColumns, received.Columns)
	require.Len(t, received.Data, 1)
	assert.Equal(t, "group B", received.Data[0][1])
	assert.Equal(t, 72.0, received.Data[0][5])
}

func TestRemoteProvider_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewRemoteProvider(server.URL, time.Second)
	_, err := provider.Predict(context.Background(), testFrame())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRemoteProvider_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	provider := NewRemoteProvider(server.URL, time.Second)
	_, err := provider.Predict(context.Background(), testFrame())

	assert.Error(t, err)
}

func TestRemoteProvider_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewRemoteProvider(server.URL, time.Second)
	for i := 0; i < 5; i++ {
		_, err := provider.Predict(context.Background(), testFrame())
		require.Error(t, err)
	}

	_, err := provider.Predict(context.Background(), testFrame())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), calls.Load())
}
