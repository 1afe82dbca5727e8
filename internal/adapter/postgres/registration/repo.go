// Package registration implements the registration repository using
// PostgreSQL. Structured fields (group, dates, people, the message ledger)
// live in JSONB columns so the row mirrors the document shape the rest of
// the system works with.
package registration

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

const table = "registrations"

var columns = []string{
	"event_id", "id", "event_type", "class", "dates",
	"group_data", "cancelled", "cancel_reason", "confirmed", "state",
	"handler", "owner", "owner_handles", "language",
	"reserve_notified", "messages_sent", "last_email",
}

// Repo provides registration persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new registration repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns a single registration by its composite key.
func (r *Repo) Get(ctx context.Context, key domain.RegistrationKey) (*domain.Registration, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Select(columns...).
		From(table).
		Where(sq.Eq{"event_id": key.EventID, "id": key.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build registration query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "registration", key.String())
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, postgres.MapError(err, "registration", key.String())
		}
		return nil, fmt.Errorf("registration %s: %w", key, domain.ErrNotFound)
	}
	return scanRegistration(rows)
}

// ListByEvent returns every registration of an event, cancelled and
// half-submitted ones included. Callers filter by state as needed.
func (r *Repo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Select(columns...).
		From(table).
		Where(sq.Eq{"event_id": eventID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build registrations query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "registrations", eventID)
	}
	defer rows.Close()

	var items []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "registrations", eventID)
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// UpdateGroup persists the placement fields of one registration: the group,
// the cancellation flags and the reserve-notified marker. Everything else on
// the row is left untouched.
func (r *Repo) UpdateGroup(ctx context.Context, reg *domain.Registration) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	groupJSON, err := marshalNullable(reg.Group)
	if err != nil {
		return fmt.Errorf("registration %s marshal group: %w", reg.Key(), err)
	}

	query, args, err := builder.Update(table).
		Set("group_data", groupJSON).
		Set("cancelled", reg.Cancelled).
		Set("cancel_reason", reg.CancelReason).
		Set("reserve_notified", reg.ReserveNotified).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"event_id": reg.EventID, "id": reg.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build registration update: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "registration", reg.Key().String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registration %s: %w", reg.Key(), domain.ErrNotFound)
	}
	return nil
}

// MarkMessageSent merges one template id into the messages_sent ledger and
// records the lastEmail summary. The JSONB merge keeps previously sent
// templates intact.
func (r *Repo) MarkMessageSent(ctx context.Context, key domain.RegistrationKey, template domain.TemplateID, lastEmail string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	entry, err := json.Marshal(map[domain.TemplateID]bool{template: true})
	if err != nil {
		return fmt.Errorf("registration %s marshal ledger entry: %w", key, err)
	}

	query, args, err := builder.Update(table).
		Set("messages_sent", sq.Expr("coalesce(messages_sent, '{}'::jsonb) || ?::jsonb", entry)).
		Set("last_email", lastEmail).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"event_id": key.EventID, "id": key.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ledger update: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "registration", key.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registration %s: %w", key, domain.ErrNotFound)
	}
	return nil
}

// SetReserveNotified flips the reserve-notified marker on its own, used
// after a reserve-placement email went out.
func (r *Repo) SetReserveNotified(ctx context.Context, key domain.RegistrationKey, notified bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Update(table).
		Set("reserve_notified", notified).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"event_id": key.EventID, "id": key.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reserve update: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "registration", key.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registration %s: %w", key, domain.ErrNotFound)
	}
	return nil
}

// Create inserts a full registration row. Used by fixtures and the import
// path rather than the grouping pipeline.
func (r *Repo) Create(ctx context.Context, reg *domain.Registration) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	groupJSON, err := marshalNullable(reg.Group)
	if err != nil {
		return fmt.Errorf("registration %s marshal group: %w", reg.Key(), err)
	}
	datesJSON, err := json.Marshal(reg.Dates)
	if err != nil {
		return fmt.Errorf("registration %s marshal dates: %w", reg.Key(), err)
	}
	handlerJSON, err := json.Marshal(reg.Handler)
	if err != nil {
		return fmt.Errorf("registration %s marshal handler: %w", reg.Key(), err)
	}
	ownerJSON, err := json.Marshal(reg.Owner)
	if err != nil {
		return fmt.Errorf("registration %s marshal owner: %w", reg.Key(), err)
	}
	ledgerJSON, err := json.Marshal(reg.MessagesSent)
	if err != nil {
		return fmt.Errorf("registration %s marshal ledger: %w", reg.Key(), err)
	}

	query, args, err := builder.Insert(table).
		Columns(columns...).
		Values(
			reg.EventID, reg.ID, reg.EventType, reg.Class, datesJSON,
			groupJSON, reg.Cancelled, reg.CancelReason, reg.Confirmed, reg.State,
			handlerJSON, ownerJSON, reg.OwnerHandles, reg.Language,
			reg.ReserveNotified, ledgerJSON, reg.LastEmail,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build registration insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "registration", reg.Key().String())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	var (
		reg          domain.Registration
		datesJSON    []byte
		groupJSON    []byte
		handlerJSON  []byte
		ownerJSON    []byte
		ledgerJSON   []byte
		class        *string
		cancelReason *string
		state        *string
		language     *string
		lastEmail    *string
	)

	err := row.Scan(
		&reg.EventID, &reg.ID, &reg.EventType, &class, &datesJSON,
		&groupJSON, &reg.Cancelled, &cancelReason, &reg.Confirmed, &state,
		&handlerJSON, &ownerJSON, &reg.OwnerHandles, &language,
		&reg.ReserveNotified, &ledgerJSON, &lastEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}

	reg.Class = deref(class)
	reg.CancelReason = deref(cancelReason)
	reg.State = deref(state)
	reg.Language = deref(language)
	reg.LastEmail = deref(lastEmail)

	if len(datesJSON) > 0 {
		if err := json.Unmarshal(datesJSON, &reg.Dates); err != nil {
			return nil, fmt.Errorf("registration %s unmarshal dates: %w", reg.Key(), err)
		}
	}
	if len(groupJSON) > 0 {
		var group domain.RegistrationGroup
		if err := json.Unmarshal(groupJSON, &group); err != nil {
			return nil, fmt.Errorf("registration %s unmarshal group: %w", reg.Key(), err)
		}
		reg.Group = &group
	}
	if len(handlerJSON) > 0 {
		if err := json.Unmarshal(handlerJSON, &reg.Handler); err != nil {
			return nil, fmt.Errorf("registration %s unmarshal handler: %w", reg.Key(), err)
		}
	}
	if len(ownerJSON) > 0 {
		if err := json.Unmarshal(ownerJSON, &reg.Owner); err != nil {
			return nil, fmt.Errorf("registration %s unmarshal owner: %w", reg.Key(), err)
		}
	}
	if len(ledgerJSON) > 0 {
		if err := json.Unmarshal(ledgerJSON, &reg.MessagesSent); err != nil {
			return nil, fmt.Errorf("registration %s unmarshal ledger: %w", reg.Key(), err)
		}
	}

	return &reg, nil
}

func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case *domain.RegistrationGroup:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
