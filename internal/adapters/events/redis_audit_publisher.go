package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/domain/repositories"
	redisclient "github.com/zatekoja/studentscore/internal/infrastructure/clients/redis"
)

// RedisAuditPublisher broadcasts audit events on a Redis Pub/Sub channel so
// live dashboards can follow predictions as they are served.
type RedisAuditPublisher struct {
	client  *redisclient.Client
	channel string
}

var _ repositories.AuditRepository = (*RedisAuditPublisher)(nil)

// NewRedisAuditPublisher creates a publisher for channel
func NewRedisAuditPublisher(client *redisclient.Client, channel string) *RedisAuditPublisher {
	return &RedisAuditPublisher{
		client:  client,
		channel: channel,
	}
}

// Insert publishes the event as JSON
func (p *RedisAuditPublisher) Insert(ctx context.Context, event *entities.AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	receivers, err := p.client.Client().Publish(ctx, p.channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	log.Debug().
		Str("channel", p.channel).
		Str("event_id", event.ID).
		Int64("receivers", receivers).
		Msg("published audit event")
	return nil
}
