package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/domain/repositories"
	"github.com/zatekoja/studentscore/internal/infrastructure/observability"
)

// DefaultAuditTimeout bounds a single store write.
const DefaultAuditTimeout = 5 * time.Second

// AuditService is a best-effort sink for audit events. Store failures are
// logged and never returned to the caller.
type AuditService struct {
	repos   []repositories.AuditRepository
	timeout time.Duration
	now     func() time.Time
}

// NewAuditService creates an audit service writing to every repo in order.
func NewAuditService(repos ...repositories.AuditRepository) *AuditService {
	return &AuditService{
		repos:   repos,
		timeout: DefaultAuditTimeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithTimeout sets how long Record waits on each store. Non-positive values
// keep the current bound.
func (s *AuditService) WithTimeout(timeout time.Duration) *AuditService {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Record assigns an ID and timestamp to event and writes it to each store.
// The write outlives cancellation of ctx so a client hanging up does not
// drop the audit entry, but each store gets at most the configured timeout.
func (s *AuditService) Record(ctx context.Context, event *entities.AuditEvent) {
	if event == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}

	for _, repo := range s.repos {
		if err := s.write(ctx, repo, event); err != nil {
			observability.LoggerFromContext(ctx).Error().
				Err(err).
				Str("event_id", event.ID).
				Str("status", string(event.Status)).
				Msg("Failed to log data to audit store")
		}
	}
}

// write stops waiting once the timeout fires, even if the store ignores its context.
func (s *AuditService) write(ctx context.Context, repo repositories.AuditRepository, event *entities.AuditEvent) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- insertSafely(writeCtx, repo, event)
	}()

	select {
	case err := <-done:
		return err
	case <-writeCtx.Done():
		return fmt.Errorf("audit write abandoned after %s: %w", s.timeout, writeCtx.Err())
	}
}

func insertSafely(ctx context.Context, repo repositories.AuditRepository, event *entities.AuditEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit store panicked: %v", r)
		}
	}()
	return repo.Insert(ctx, event)
}
