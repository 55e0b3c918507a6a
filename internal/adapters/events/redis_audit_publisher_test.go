package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/studentscore/internal/domain/entities"
	redisclient "github.com/zatekoja/studentscore/internal/infrastructure/clients/redis"
)

func TestRedisAuditPublisher_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	publisher := NewRedisAuditPublisher(redisclient.Wrap(client), "predictions:audit")

	err := publisher.Insert(context.Background(), &entities.AuditEvent{ID: "evt-1", Status: entities.AuditStatusSuccess})
	assert.Error(t, err)
}

func TestRedisAuditPublisher_Publish(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	sub := client.Subscribe(ctx, "predictions:audit:test")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewRedisAuditPublisher(redisclient.Wrap(client), "predictions:audit:test")
	require.NoError(t, publisher.Insert(ctx, &entities.AuditEvent{
		ID:          "evt-2",
		Status:      entities.AuditStatusSuccess,
		Predictions: []float64{68.5},
	}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got entities.AuditEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "evt-2", got.ID)
	assert.Equal(t, []float64{68.5}, got.Predictions)
}
