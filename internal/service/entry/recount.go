package entry

import "github.com/jmkivinen/trialreg/internal/domain"

// Recount recomputes the per-class and event-level entry/member counters
// from the full registration set. Cancelled and half-submitted entries are
// excluded; members are the registrations holding the event's membership
// priority. The function is pure apart from mutating the event value and
// reports whether any counter actually changed, so callers can skip the
// store write when nothing moved.
func Recount(event *domain.Event, items []*domain.Registration) bool {
	active := make([]*domain.Registration, 0, len(items))
	for _, reg := range items {
		if reg.State == domain.RegistrationStateReady && !reg.Cancelled {
			active = append(active, reg)
		}
	}

	changed := false
	for i := range event.Classes {
		cls := &event.Classes[i]
		entries, members := 0, 0
		for _, reg := range active {
			if reg.Class != cls.Class {
				continue
			}
			entries++
			if reg.HasPriority(event) {
				members++
			}
		}
		if cls.Entries != entries || cls.Members != members {
			cls.Entries = entries
			cls.Members = members
			changed = true
		}
	}

	entries, members := len(active), 0
	for _, reg := range active {
		if reg.HasPriority(event) {
			members++
		}
	}
	if event.Entries != entries || event.Members != members {
		event.Entries = entries
		event.Members = members
		changed = true
	}

	return changed
}
