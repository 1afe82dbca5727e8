package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmkivinen/trialreg/internal/domain"
	"github.com/jmkivinen/trialreg/internal/service/entry/ranking"
)

// Audit reasons for a group change: an organizer-requested move vs. a
// sibling displaced by the renumbering that followed it.
const (
	reasonRequested = "siirto"
	reasonFollowOn  = "seuraus"
	reasonAutomatic = "(automaattinen sijoitus)"
)

// UpdateResult is the outcome of one group update batch: the full updated
// registration list, the recounted event summary and the per-address email
// outcome of the notifications the batch triggered.
type UpdateResult struct {
	Items   []*domain.Registration `json:"items"`
	Entries int                    `json:"entries"`
	Classes []domain.EventClass    `json:"classes"`
	OK      []string               `json:"ok"`
	Failed  []string               `json:"failed"`
}

// UpdateGroups applies a batch of group changes to one event's registrations:
// it rejects requests targeting other events, applies the moves in memory,
// renumbers every affected group, persists the changed registrations one by
// one, recounts the event and finally dispatches the notifications the
// transition tracker selects.
//
// Requested moves are persisted before the siblings they displaced, and all
// registrations are persisted before the recounted event, so a reader never
// sees a total that matches none of the applied registrations. A write
// failure on one registration is logged and never unwinds the others.
func (s *Service) UpdateGroups(ctx context.Context, eventID string, user domain.User, changes []domain.GroupChangeRequest) (*UpdateResult, error) {
	requested := filterChanges(eventID, changes)
	if len(requested) == 0 {
		return nil, domain.NewValidationError("groups", "no group changes for event "+eventID)
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	all, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	items := readyOnly(all)

	before := snapshot(items)
	byID := make(map[string]*domain.Registration, len(items))
	for _, reg := range items {
		byID[reg.ID] = reg
	}

	requestedIDs := make(map[string]bool, len(requested))
	for _, change := range requested {
		reg, ok := byID[change.ID]
		if !ok {
			s.log.WarnContext(ctx, "group change for unknown registration",
				"event", eventID, "registration", change.ID)
			continue
		}
		requestedIDs[change.ID] = true
		applyChange(reg, change)
	}

	ranking.FixGroups(items)

	// Requested moves first, displaced siblings second.
	for _, change := range requested {
		if reg, ok := byID[change.ID]; ok {
			s.persistGroup(ctx, reg, before[reg.ID], user, reasonRequested)
		}
	}
	for _, reg := range items {
		if !requestedIDs[reg.ID] {
			s.persistGroup(ctx, reg, before[reg.ID], user, reasonFollowOn)
		}
	}

	if Recount(event, items) {
		if err := s.events.UpdateCounts(ctx, event); err != nil {
			s.log.ErrorContext(ctx, "event recount write failed",
				"event", eventID, "error", err)
		}
	}

	emails := s.dispatchTransitions(ctx, event, before, items, user)

	return &UpdateResult{
		Items:   items,
		Entries: event.Entries,
		Classes: event.Classes,
		OK:      emails.OK,
		Failed:  emails.Failed,
	}, nil
}

// filterChanges drops requests whose eventId does not match the target event.
func filterChanges(eventID string, changes []domain.GroupChangeRequest) []domain.GroupChangeRequest {
	var out []domain.GroupChangeRequest
	for _, change := range changes {
		if change.EventID == eventID {
			out = append(out, change)
		}
	}
	return out
}

// snapshot captures the pre-update state of every registration, group
// included, keyed by id.
func snapshot(items []*domain.Registration) map[string]*domain.Registration {
	out := make(map[string]*domain.Registration, len(items))
	for _, reg := range items {
		c := *reg
		if reg.Group != nil {
			g := *reg.Group
			c.Group = &g
		}
		out[reg.ID] = &c
	}
	return out
}

// applyChange mutates one registration per the request: new group,
// cancellation flags, and the reserve-notified marker cleared whenever the
// registration leaves the reserve group.
func applyChange(reg *domain.Registration, change domain.GroupChangeRequest) {
	wasReserve := reg.GroupKey() == domain.GroupKeyReserve

	if change.Group != nil {
		g := *change.Group
		reg.Group = &g
	}
	if change.Cancelled != nil {
		reg.Cancelled = *change.Cancelled
	}
	if change.CancelReason != "" {
		reg.CancelReason = change.CancelReason
	}

	if wasReserve && reg.GroupKey() != domain.GroupKeyReserve {
		reg.ReserveNotified = false
	}
}

// persistGroup writes one registration whose group changed against the
// snapshot, deriving the cancelled flag from the final group key so counts
// stay consistent, and appends the group-change audit line.
func (s *Service) persistGroup(ctx context.Context, reg, old *domain.Registration, user domain.User, reason string) {
	if old != nil && !groupChanged(old, reg) {
		return
	}

	reg.Cancelled = reg.GroupKey() == domain.GroupKeyCancelled

	if err := s.regs.UpdateGroup(ctx, reg); err != nil {
		s.log.ErrorContext(ctx, "group write failed",
			"registration", reg.Key().String(), "error", err)
		return
	}

	var oldGroup *domain.RegistrationGroup
	if old != nil {
		oldGroup = old.Group
	}
	s.audit(ctx, reg.Key(), user.Name, groupAuditMessage(oldGroup, reg.Group, reason))
}

func groupChanged(old, now *domain.Registration) bool {
	if old.Cancelled != now.Cancelled {
		return true
	}
	og, ng := old.Group, now.Group
	if (og == nil) != (ng == nil) {
		return true
	}
	if og == nil {
		return false
	}
	return og.Key != ng.Key || og.Number != ng.Number
}

// ---------------------------------------------------------------------------
// Audit formatting
// ---------------------------------------------------------------------------

var finnishWeekdays = map[time.Weekday]string{
	time.Monday:    "ma",
	time.Tuesday:   "ti",
	time.Wednesday: "ke",
	time.Thursday:  "to",
	time.Friday:    "pe",
	time.Saturday:  "la",
	time.Sunday:    "su",
}

// groupAuditMessage renders "Ryhmä: <old> -> <new> <reason>", omitting the
// arrow part when the registration had no group before.
func groupAuditMessage(old, now *domain.RegistrationGroup, reason string) string {
	var b strings.Builder
	b.WriteString("Ryhmä: ")
	if old != nil {
		b.WriteString(formatGroupInfo(old))
		b.WriteString(" -> ")
	}
	b.WriteString(formatGroupInfo(now))
	if reason != "" {
		b.WriteString(" ")
		b.WriteString(reason)
	}
	return strings.TrimSpace(b.String())
}

// formatGroupInfo renders one group for the audit trail, e.g.
// "Peruneet #2", "Ilmoittautuneet #1" or "la 1.8. ap #3".
func formatGroupInfo(g *domain.RegistrationGroup) string {
	if g == nil {
		return ""
	}
	switch g.Key {
	case domain.GroupKeyCancelled:
		return fmt.Sprintf("Peruneet #%s", g.Number)
	case domain.GroupKeyReserve:
		return fmt.Sprintf("Ilmoittautuneet #%s", g.Number)
	}

	var parts []string
	if g.Date != "" {
		if d, err := time.Parse("2006-01-02", g.Date); err == nil {
			parts = append(parts, fmt.Sprintf("%s %d.%d.", finnishWeekdays[d.Weekday()], d.Day(), int(d.Month())))
		} else {
			parts = append(parts, g.Date)
		}
	}
	if g.Time != "" {
		parts = append(parts, string(g.Time))
	}
	parts = append(parts, fmt.Sprintf("#%s", g.Number))
	return strings.Join(parts, " ")
}
