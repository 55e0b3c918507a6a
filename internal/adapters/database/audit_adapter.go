package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/zatekoja/studentscore/internal/domain/entities"
	"github.com/zatekoja/studentscore/internal/domain/repositories"
	"github.com/zatekoja/studentscore/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/studentscore/pkg/errors"
)

// AuditAdapter stores audit events as JSONB documents in Postgres. The table
// is created on first use, so the adapter works against a server that comes
// up after the process starts.
type AuditAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	table  string

	mu          sync.Mutex
	schemaReady bool
}

var _ repositories.AuditRepository = (*AuditAdapter)(nil)

// NewAuditAdapter creates a new audit adapter writing to table.
func NewAuditAdapter(client *postgres.Client, table string) *AuditAdapter {
	return &AuditAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		table:  table,
	}
}

// EnsureSchema creates the audit table when it does not exist yet. A failed
// attempt is retried on the next call.
func (a *AuditAdapter) EnsureSchema(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.schemaReady {
		return nil
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          TEXT PRIMARY KEY,
			status      TEXT NOT NULL,
			input_data  JSONB,
			predictions JSONB,
			error       TEXT,
			created_at  TIMESTAMPTZ NOT NULL
		)`, pq.QuoteIdentifier(a.table))

	if _, err := a.client.DB().ExecContext(ctx, query); err != nil {
		return apperrors.NewInternalError("failed to create audit table", err)
	}
	a.schemaReady = true
	return nil
}

// Insert writes one audit event.
func (a *AuditAdapter) Insert(ctx context.Context, event *entities.AuditEvent) error {
	if event == nil {
		return apperrors.NewInternalError("audit event is nil", fmt.Errorf("audit event is nil"))
	}

	if err := a.EnsureSchema(ctx); err != nil {
		return err
	}

	record, err := auditRecord(event)
	if err != nil {
		return apperrors.NewInternalError("failed to encode audit event", err)
	}

	query, args, err := a.db.Insert(a.table).Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build audit insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert audit event", err)
	}

	return nil
}

func auditRecord(event *entities.AuditEvent) (goqu.Record, error) {
	inputData, err := jsonColumn(event.InputData != nil, event.InputData)
	if err != nil {
		return nil, err
	}
	predictions, err := jsonColumn(event.Predictions != nil, event.Predictions)
	if err != nil {
		return nil, err
	}

	errMsg := sql.NullString{}
	if event.Error != nil {
		errMsg = sql.NullString{String: *event.Error, Valid: true}
	}

	return goqu.Record{
		"id":          event.ID,
		"status":      string(event.Status),
		"input_data":  inputData,
		"predictions": predictions,
		"error":       errMsg,
		"created_at":  event.CreatedAt,
	}, nil
}

func jsonColumn(present bool, v any) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
