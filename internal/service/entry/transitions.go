package entry

import (
	"context"

	"github.com/jmkivinen/trialreg/internal/domain"
	"github.com/jmkivinen/trialreg/internal/service/notify"
)

// dispatchTransitions compares the before/after grouping snapshots and runs
// the fixed notification sequence: picked, invitation, reserve and the
// cancellation variant of the registration template. Every step dispatches
// exactly once, empty recipient set included, so a batch always produces the
// same four-call sequence. Later steps observe the ledger updates written by
// earlier ones.
func (s *Service) dispatchTransitions(ctx context.Context, event *domain.Event, before map[string]*domain.Registration, after []*domain.Registration, user domain.User) domain.DispatchResult {
	var result domain.DispatchResult

	send := func(template domain.TemplateID, tctx domain.TemplateContext, regs []*domain.Registration) []string {
		r, sentIDs := s.dispatch.Dispatch(ctx, notify.DispatchInput{
			Event:         event,
			Registrations: regs,
			Template:      template,
			Context:       tctx,
			User:          user.Name,
		})
		result.Append(r)
		return sentIDs
	}

	send(domain.TemplatePicked, domain.ContextNone, pickedRecipients(event, after))
	send(domain.TemplateInvitation, domain.ContextNone, invitationRecipients(event, after))

	sentIDs := send(domain.TemplateReserve, domain.ContextNone, reserveRecipients(event, before, after))
	for _, id := range sentIDs {
		key := domain.RegistrationKey{EventID: event.ID, ID: id}
		if err := s.regs.SetReserveNotified(ctx, key, true); err != nil {
			s.log.ErrorContext(ctx, "reserve flag write failed",
				"registration", key.String(), "error", err)
		}
	}
	for _, reg := range after {
		for _, id := range sentIDs {
			if reg.ID == id {
				reg.ReserveNotified = true
			}
		}
	}

	cancelled := cancelRecipients(before, after)
	send(domain.TemplateRegistration, domain.ContextCancel, cancelled)
	for _, reg := range cancelled {
		s.audit(ctx, reg.Key(), user.Name, cancelAuditMessage(reg))
	}

	return result
}

// pickedRecipients selects, per class, the participant-group registrations
// of a wholly un-notified class. A class where even one participant already
// holds a picked notice stays quiet.
func pickedRecipients(event *domain.Event, after []*domain.Registration) []*domain.Registration {
	return perClassUnnotified(event, after, domain.TemplatePicked, nil)
}

// invitationRecipients applies the same whole-class rule as picked, gated on
// the event or class having published its invitation.
func invitationRecipients(event *domain.Event, after []*domain.Registration) []*domain.Registration {
	gate := func(class string) bool {
		return event.HasState(class, domain.EventStateInvited)
	}
	return perClassUnnotified(event, after, domain.TemplateInvitation, gate)
}

func perClassUnnotified(event *domain.Event, after []*domain.Registration, template domain.TemplateID, gate func(class string) bool) []*domain.Registration {
	byClass := make(map[string][]*domain.Registration)
	var order []string
	for _, reg := range after {
		if !domain.InParticipantGroup(reg.GroupKey()) {
			continue
		}
		class := reg.ClassOrType()
		if _, ok := byClass[class]; !ok {
			order = append(order, class)
		}
		byClass[class] = append(byClass[class], reg)
	}

	var out []*domain.Registration
	for _, class := range order {
		if gate != nil && !gate(class) {
			continue
		}
		participants := byClass[class]
		eligible := true
		for _, reg := range participants {
			if reg.MessageSent(template) {
				eligible = false
				break
			}
		}
		if eligible {
			out = append(out, participants...)
		}
	}
	return out
}

// reserveRecipients selects the registrations newly placed or newly
// confirmed in the reserve group: present in the new reserve list but absent
// from the old one, not yet notified for this reserve stay, and belonging to
// an event or class that has reached the picked or invited state. A reserve
// whose rank merely changed is never resent.
func reserveRecipients(event *domain.Event, before map[string]*domain.Registration, after []*domain.Registration) []*domain.Registration {
	var out []*domain.Registration
	for _, reg := range after {
		if reg.GroupKey() != domain.GroupKeyReserve || reg.ReserveNotified {
			continue
		}
		class := reg.ClassOrType()
		if !event.HasState(class, domain.EventStatePicked) && !event.HasState(class, domain.EventStateInvited) {
			continue
		}
		old := before[reg.ID]
		if old != nil && old.Group != nil && old.Group.Key == domain.GroupKeyReserve && !old.Cancelled {
			// Already on the explicit reserve list before this batch.
			continue
		}
		out = append(out, reg)
	}
	return out
}

// cancelRecipients selects the registrations that turned cancelled in this
// batch.
func cancelRecipients(before map[string]*domain.Registration, after []*domain.Registration) []*domain.Registration {
	var out []*domain.Registration
	for _, reg := range after {
		if !reg.Cancelled {
			continue
		}
		if old := before[reg.ID]; old != nil && old.Cancelled {
			continue
		}
		out = append(out, reg)
	}
	return out
}

func cancelAuditMessage(reg *domain.Registration) string {
	if reg.CancelReason != "" {
		return "Peruttu: " + reg.CancelReason
	}
	return "Peruttu"
}
