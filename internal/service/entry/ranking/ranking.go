// Package ranking implements the pure position algebra for registration
// groups: deterministic ordering, gap-free renumbering, and the midpoint
// arithmetic behind insert-before/insert-after moves.
package ranking

import (
	"math"
	"sort"

	"github.com/jmkivinen/trialreg/internal/domain"
)

// unranked sorts entries without a group number after everything else.
const unranked = 999

// Sort orders registrations by group date, class, group time, rank and
// finally id. The id tie-break keeps the order stable across runs even
// when two entries share a rank.
func Sort(items []*domain.Registration) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ad, bd := groupDate(a), groupDate(b); ad != bd {
			return ad < bd
		}
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if at, bt := groupTime(a), groupTime(b); at != bt {
			return at < bt
		}
		if an, bn := rankValue(a), rankValue(b); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
}

// Renumber assigns contiguous 1-based ranks to the already-ordered entries
// of one numbering group, resolving any provisional ranks, and normalizes
// each entry's group key. It returns the entries whose group changed.
func Renumber(group []*domain.Registration) []*domain.Registration {
	var changed []*domain.Registration
	for i, reg := range group {
		key := reg.GroupKey()
		number := domain.Finalized(i + 1)
		if reg.Group != nil && reg.Group.Key == key && reg.Group.Number == number {
			continue
		}
		g := domain.RegistrationGroup{Key: key, Number: number}
		if reg.Group != nil {
			g.Date = reg.Group.Date
			g.Time = reg.Group.Time
		}
		reg.Group = &g
		changed = append(changed, reg)
	}
	return changed
}

// FixGroups sorts the full registration set, buckets it by numbering group
// and renumbers each bucket. It returns the registrations whose group
// changed, in their final sorted order.
func FixGroups(items []*domain.Registration) []*domain.Registration {
	Sort(items)

	buckets := make(map[string][]*domain.Registration)
	var order []string
	for _, reg := range items {
		key := reg.NumberingGroupKey()
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], reg)
	}

	var changed []*domain.Registration
	for _, key := range order {
		changed = append(changed, Renumber(buckets[key])...)
	}
	return changed
}

// InsertAt computes the rank for inserting before 1-based position target
// among the given ascending ranks. The result is the midpoint between the
// surrounding ranks and stays provisional until the next renumbering pass.
// Inserting at the head halves the first rank; a target past the end
// appends at lastRank+1.
func InsertAt(target int, ranks []domain.Rank) domain.Rank {
	if len(ranks) == 0 {
		return domain.Finalized(1)
	}
	if target <= 1 {
		return rankFor(ranks[0].Value() / 2)
	}
	if target > len(ranks) {
		return rankFor(ranks[len(ranks)-1].Value() + 1)
	}
	return Midpoint(ranks[target-2], ranks[target-1])
}

// Midpoint returns the provisional rank halfway between two ranks.
func Midpoint(before, after domain.Rank) domain.Rank {
	return rankFor((before.Value() + after.Value()) / 2)
}

// rankFor wraps a numeric value: whole values are finalized, fractions are
// provisional.
func rankFor(v float64) domain.Rank {
	if v == math.Trunc(v) {
		return domain.Finalized(int(v))
	}
	return domain.Provisional(v)
}

func groupDate(r *domain.Registration) string {
	if r.Group == nil {
		return ""
	}
	return r.Group.Date
}

func groupTime(r *domain.Registration) string {
	if r.Group == nil {
		return ""
	}
	return string(r.Group.Time)
}

func rankValue(r *domain.Registration) float64 {
	if r.Group == nil {
		return unranked
	}
	return r.Group.Number.Value()
}
