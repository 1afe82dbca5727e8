// Package notify implements the email dispatch engine. It renders and sends
// one template to a batch of registrations, keeps the per-registration
// message ledger current and records every attempt in the audit trail.
package notify

import (
	"context"
	"log/slog"

	"github.com/jmkivinen/trialreg/internal/domain"
)

type mailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type templateRenderer interface {
	Render(id domain.TemplateID, event *domain.Event, reg *domain.Registration, cancelled bool) (subject, body string, err error)
}

type registrationRepo interface {
	MarkMessageSent(ctx context.Context, key domain.RegistrationKey, template domain.TemplateID, lastEmail string) error
	SetReserveNotified(ctx context.Context, key domain.RegistrationKey, notified bool) error
}

type auditRepo interface {
	Create(ctx context.Context, entry domain.AuditEntry) error
}

// Service sends registration emails.
type Service struct {
	mail     mailSender
	renderer templateRenderer
	regs     registrationRepo
	audits   auditRepo
	log      *slog.Logger
}

// NewService creates a new notification service.
func NewService(
	log *slog.Logger,
	mail mailSender,
	renderer templateRenderer,
	regs registrationRepo,
	audits auditRepo,
) *Service {
	return &Service{
		mail:     mail,
		renderer: renderer,
		regs:     regs,
		audits:   audits,
		log:      log.With("service", "notify"),
	}
}
