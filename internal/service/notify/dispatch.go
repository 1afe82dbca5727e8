package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmkivinen/trialreg/internal/domain"
)

// lastEmailTimeFormat renders timestamps the way organizers read them,
// e.g. "29.8.2026 14:05".
const lastEmailTimeFormat = "2.1.2006 15:04"

// DispatchInput is one template send across a batch of registrations.
// Text is optional organizer free text appended to every message body.
type DispatchInput struct {
	Event         *domain.Event
	Registrations []*domain.Registration
	Template      domain.TemplateID
	Context       domain.TemplateContext
	Text          string
	User          string
}

// Dispatch sends the template to every registration in the batch, one at a
// time. A failed send is recorded and never aborts the batch. It returns the
// per-address outcome and the ids of the registrations whose email went out.
//
// For every successful send the registration's message ledger and lastEmail
// summary are updated both in the store and on the in-memory value, so
// callers can chain sends against fresh state.
func (s *Service) Dispatch(ctx context.Context, in DispatchInput) (domain.DispatchResult, []string) {
	var (
		result  domain.DispatchResult
		sentIDs []string
	)

	for _, reg := range in.Registrations {
		to := reg.Recipients()
		label := domain.TemplateLabel(in.Template, "fi")

		if err := s.send(ctx, in, reg, to); err != nil {
			s.log.ErrorContext(ctx, "email send failed",
				"registration", reg.Key().String(),
				"template", in.Template,
				"error", err,
			)
			result.Failed = append(result.Failed, to...)
			s.audit(ctx, reg, in.User, fmt.Sprintf("FAILED %s: %s", label, strings.Join(to, ", ")))
			continue
		}

		result.OK = append(result.OK, to...)
		sentIDs = append(sentIDs, reg.ID)

		lastEmail := s.lastEmail(in.Template, reg, label)
		if reg.MessagesSent == nil {
			reg.MessagesSent = make(map[domain.TemplateID]bool)
		}
		reg.MessagesSent[in.Template] = true
		reg.LastEmail = lastEmail

		if err := s.regs.MarkMessageSent(ctx, reg.Key(), in.Template, lastEmail); err != nil {
			s.log.ErrorContext(ctx, "ledger update failed",
				"registration", reg.Key().String(),
				"template", in.Template,
				"error", err,
			)
		}
		s.audit(ctx, reg, in.User, fmt.Sprintf("Email: %s, to: %s", label, strings.Join(to, ", ")))
	}

	return result, sentIDs
}

func (s *Service) send(ctx context.Context, in DispatchInput, reg *domain.Registration, to []string) error {
	cancelled := in.Context == domain.ContextCancel
	subject, body, err := s.renderer.Render(in.Template, in.Event, reg, cancelled)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if in.Text != "" {
		body += "\n" + in.Text + "\n"
	}
	return s.mail.Send(ctx, to, subject, body)
}

// lastEmail builds the "last email sent" summary. The reserve position is
// included only for reserve-placement notices.
func (s *Service) lastEmail(template domain.TemplateID, reg *domain.Registration, label string) string {
	ts := time.Now().Format(lastEmailTimeFormat)
	if template == domain.TemplateReserve && reg.Group != nil {
		return fmt.Sprintf("%s (#%s) %s", label, reg.Group.Number, ts)
	}
	return fmt.Sprintf("%s %s", label, ts)
}

// audit appends one audit line, logging instead of failing when the trail
// write itself goes wrong.
func (s *Service) audit(ctx context.Context, reg *domain.Registration, user, message string) {
	entry := domain.AuditEntry{
		AuditKey: domain.RegistrationAuditKey(reg.Key()),
		Message:  message,
		User:     user,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		s.log.ErrorContext(ctx, "audit write failed",
			"registration", reg.Key().String(),
			"error", err,
		)
	}
}
