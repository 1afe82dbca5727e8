// Package event implements the event repository using PostgreSQL.
package event

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmkivinen/trialreg/internal/adapter/postgres"
	"github.com/jmkivinen/trialreg/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const table = "events"

var columns = []string{
	"id", "event_type", "name", "state", "start_date", "end_date",
	"entries", "members", "classes", "priority",
}

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns an event by id.
func (r *Repo) Get(ctx context.Context, id string) (*domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event query: %w", err)
	}

	var (
		event        domain.Event
		name         *string
		startDate    *string
		endDate      *string
		classesJSON  []byte
		priorityJSON []byte
	)
	err = q.QueryRow(ctx, query, args...).Scan(
		&event.ID, &event.EventType, &name, &event.State, &startDate, &endDate,
		&event.Entries, &event.Members, &classesJSON, &priorityJSON,
	)
	if err != nil {
		return nil, postgres.MapError(err, "event", id)
	}

	if name != nil {
		event.Name = *name
	}
	if startDate != nil {
		event.StartDate = *startDate
	}
	if endDate != nil {
		event.EndDate = *endDate
	}
	if len(classesJSON) > 0 {
		if err := json.Unmarshal(classesJSON, &event.Classes); err != nil {
			return nil, fmt.Errorf("event %s unmarshal classes: %w", id, err)
		}
	}
	if len(priorityJSON) > 0 {
		if err := json.Unmarshal(priorityJSON, &event.Priority); err != nil {
			return nil, fmt.Errorf("event %s unmarshal priority: %w", id, err)
		}
	}

	return &event, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// UpdateCounts persists the aggregate counters: event-level entries and
// members plus the per-class counters carried in the classes document.
func (r *Repo) UpdateCounts(ctx context.Context, event *domain.Event) error {
	classesJSON, err := json.Marshal(event.Classes)
	if err != nil {
		return fmt.Errorf("event %s marshal classes: %w", event.ID, err)
	}

	update := builder.Update(table).
		Set("entries", event.Entries).
		Set("members", event.Members).
		Set("classes", classesJSON)

	return r.exec(ctx, event.ID, update)
}

// UpdateState persists the event state and the per-class states carried in
// the classes document.
func (r *Repo) UpdateState(ctx context.Context, event *domain.Event) error {
	classesJSON, err := json.Marshal(event.Classes)
	if err != nil {
		return fmt.Errorf("event %s marshal classes: %w", event.ID, err)
	}

	update := builder.Update(table).
		Set("state", event.State).
		Set("classes", classesJSON)

	return r.exec(ctx, event.ID, update)
}

// Create inserts a full event row. Used by fixtures and the import path.
func (r *Repo) Create(ctx context.Context, event *domain.Event) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	classesJSON, err := json.Marshal(event.Classes)
	if err != nil {
		return fmt.Errorf("event %s marshal classes: %w", event.ID, err)
	}
	priorityJSON, err := json.Marshal(event.Priority)
	if err != nil {
		return fmt.Errorf("event %s marshal priority: %w", event.ID, err)
	}

	query, args, err := builder.Insert(table).
		Columns(columns...).
		Values(
			event.ID, event.EventType, event.Name, event.State,
			nullable(event.StartDate), nullable(event.EndDate),
			event.Entries, event.Members, classesJSON, priorityJSON,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build event insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "event", event.ID)
	}
	return nil
}

func (r *Repo) exec(ctx context.Context, id string, update sq.UpdateBuilder) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := update.
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build event update: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "event", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
