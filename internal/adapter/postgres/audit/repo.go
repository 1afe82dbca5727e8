// Package audit implements the audit trail repository using PostgreSQL.
// It provides append-only operations for registration change history.
package audit

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmkivinen/trialreg/internal/adapter/postgres"
	"github.com/jmkivinen/trialreg/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const table = "audit_trail"

// Repo provides audit trail persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create appends one audit entry. A zero ID and CreatedAt are filled in.
func (r *Repo) Create(ctx context.Context, entry domain.AuditEntry) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query, args, err := builder.Insert(table).
		Columns("id", "audit_key", "message", "user_name", "created_at").
		Values(entry.ID, entry.AuditKey, entry.Message, entry.User, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "audit_entry", entry.AuditKey)
	}
	return nil
}

// ListByKey returns the change history for one audit key, oldest first.
func (r *Repo) ListByKey(ctx context.Context, auditKey string) ([]domain.AuditEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.
		Select("id", "audit_key", "message", "user_name", "created_at").
		From(table).
		Where(sq.Eq{"audit_key": auditKey}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "audit_entries", auditKey)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(&entry.ID, &entry.AuditKey, &entry.Message, &entry.User, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "audit_entries", auditKey)
	}
	return entries, nil
}
