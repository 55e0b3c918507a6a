package repositories

import (
	"context"

	"github.com/zatekoja/studentscore/internal/domain/entities"
)

// AuditRepository defines the interface for persisting audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *entities.AuditEvent) error
}
