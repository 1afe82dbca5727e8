package entry

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmkivinen/trialreg/internal/domain"
	"github.com/jmkivinen/trialreg/internal/service/notify"
)

// SendMessagesInput asks for one template to be sent to an explicit set of
// an event's registrations. Text is free-form organizer text appended to the
// message body.
type SendMessagesInput struct {
	EventID         string
	Template        domain.TemplateID
	RegistrationIDs []string
	Text            string
}

// SendMessages dispatches one template to the named registrations. A reserve
// send marks the recipients reserve-notified; picked and invitation sends
// upgrade the affected class and event states.
func (s *Service) SendMessages(ctx context.Context, user domain.User, in SendMessagesInput) (domain.DispatchResult, error) {
	event, err := s.events.Get(ctx, in.EventID)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("load event: %w", err)
	}
	all, err := s.regs.ListByEvent(ctx, in.EventID)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("load registrations: %w", err)
	}

	byID := make(map[string]*domain.Registration, len(all))
	for _, reg := range all {
		byID[reg.ID] = reg
	}

	targets := make([]*domain.Registration, 0, len(in.RegistrationIDs))
	var missing []string
	for _, id := range in.RegistrationIDs {
		reg, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		targets = append(targets, reg)
	}
	if len(missing) > 0 {
		return domain.DispatchResult{}, domain.NewValidationError(
			"registrationIds", "unknown registrations: "+strings.Join(missing, ", "))
	}

	result, sentIDs := s.dispatch.Dispatch(ctx, notify.DispatchInput{
		Event:         event,
		Registrations: targets,
		Template:      in.Template,
		User:          user.Name,
		Text:          in.Text,
	})

	switch in.Template {
	case domain.TemplateReserve:
		for _, id := range sentIDs {
			key := domain.RegistrationKey{EventID: event.ID, ID: id}
			if err := s.regs.SetReserveNotified(ctx, key, true); err != nil {
				s.log.ErrorContext(ctx, "reserve flag write failed",
					"registration", key.String(), "error", err)
			}
		}
	case domain.TemplatePicked, domain.TemplateInvitation:
		state := domain.EventStatePicked
		if in.Template == domain.TemplateInvitation {
			state = domain.EventStateInvited
		}
		if err := s.MarkParticipants(ctx, event, state, classesOf(targets)); err != nil {
			s.log.ErrorContext(ctx, "class state upgrade failed",
				"event", event.ID, "state", state, "error", err)
		}
	}

	return result, nil
}

func classesOf(items []*domain.Registration) []string {
	var out []string
	for _, reg := range items {
		class := reg.ClassOrType()
		found := false
		for _, c := range out {
			if c == class {
				found = true
				break
			}
		}
		if !found {
			out = append(out, class)
		}
	}
	return out
}
