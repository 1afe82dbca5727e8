// Package entry implements the participant-grouping core: the group update
// pipeline, the aggregate recount and the class state transition tracker
// that decides which notifications each batch triggers.
package entry

import (
	"context"
	"log/slog"

	"github.com/jmkivinen/trialreg/internal/domain"
	"github.com/jmkivinen/trialreg/internal/service/notify"
)

type registrationRepo interface {
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error)
	UpdateGroup(ctx context.Context, reg *domain.Registration) error
	SetReserveNotified(ctx context.Context, key domain.RegistrationKey, notified bool) error
}

type eventRepo interface {
	Get(ctx context.Context, id string) (*domain.Event, error)
	UpdateCounts(ctx context.Context, event *domain.Event) error
	UpdateState(ctx context.Context, event *domain.Event) error
}

type auditRepo interface {
	Create(ctx context.Context, entry domain.AuditEntry) error
	ListByKey(ctx context.Context, auditKey string) ([]domain.AuditEntry, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, in notify.DispatchInput) (domain.DispatchResult, []string)
}

// Service provides registration grouping operations.
type Service struct {
	regs     registrationRepo
	events   eventRepo
	audits   auditRepo
	dispatch dispatcher
	log      *slog.Logger
}

// NewService creates a new entry service.
func NewService(
	log *slog.Logger,
	regs registrationRepo,
	events eventRepo,
	audits auditRepo,
	dispatch dispatcher,
) *Service {
	return &Service{
		regs:     regs,
		events:   events,
		audits:   audits,
		dispatch: dispatch,
		log:      log.With("service", "entry"),
	}
}

// audit appends one audit line, logging instead of failing when the trail
// write itself goes wrong.
func (s *Service) audit(ctx context.Context, key domain.RegistrationKey, user, message string) {
	entry := domain.AuditEntry{
		AuditKey: domain.RegistrationAuditKey(key),
		Message:  message,
		User:     user,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		s.log.ErrorContext(ctx, "audit write failed",
			"registration", key.String(),
			"error", err,
		)
	}
}

// readyOnly filters the working set down to ready registrations.
// Half-submitted forms never take part in grouping or counts.
func readyOnly(items []*domain.Registration) []*domain.Registration {
	var out []*domain.Registration
	for _, reg := range items {
		if reg.State == domain.RegistrationStateReady {
			out = append(out, reg)
		}
	}
	return out
}
