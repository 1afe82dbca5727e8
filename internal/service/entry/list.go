package entry

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmkivinen/trialreg/internal/domain"
	"github.com/jmkivinen/trialreg/internal/service/entry/ranking"
)

// ListRegistrations returns the event's ready registrations in display
// order. Clients may have written stale or out-of-bounds group info, so a
// renumbering pass runs first and any correction is persisted and audited
// as an automatic placement.
func (s *Service) ListRegistrations(ctx context.Context, eventID string, user domain.User) ([]*domain.Registration, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	all, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	items := readyOnly(all)

	before := snapshot(items)
	for _, reg := range ranking.FixGroups(items) {
		s.persistGroup(ctx, reg, before[reg.ID], user, reasonAutomatic)
	}

	if items == nil {
		items = []*domain.Registration{}
	}
	return items, nil
}

// AuditTrail returns one registration's change history, newest first.
func (s *Service) AuditTrail(ctx context.Context, key domain.RegistrationKey) ([]domain.AuditEntry, error) {
	entries, err := s.audits.ListByKey(ctx, domain.RegistrationAuditKey(key))
	if err != nil {
		return nil, fmt.Errorf("load audit trail: %w", err)
	}
	slices.Reverse(entries)
	return entries, nil
}
