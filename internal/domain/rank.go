package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Rank is a registration's position within its group. A rank is either
// finalized (a 1-based integer assigned by a renumbering pass) or
// provisional (a fractional midpoint produced by an insert-before/after
// operation that has not been renumbered yet). Provisional ranks are a
// user-visible pending state, not an error.
type Rank struct {
	value       float64
	provisional bool
}

// Finalized returns an integer rank.
func Finalized(n int) Rank {
	return Rank{value: float64(n)}
}

// Provisional returns a fractional midpoint rank.
func Provisional(v float64) Rank {
	return Rank{value: v, provisional: true}
}

// Value returns the numeric value of the rank.
func (r Rank) Value() float64 { return r.value }

// Int returns the integer value of a finalized rank.
// The second return is false for provisional ranks.
func (r Rank) Int() (int, bool) {
	if r.provisional {
		return 0, false
	}
	return int(r.value), true
}

// IsProvisional reports whether the rank is a pending midpoint.
func (r Rank) IsProvisional() bool { return r.provisional }

// Less orders ranks by numeric value.
func (r Rank) Less(other Rank) bool { return r.value < other.value }

func (r Rank) String() string {
	if r.provisional {
		return fmt.Sprintf("%g", r.value)
	}
	return fmt.Sprintf("%d", int(r.value))
}

// MarshalJSON encodes the rank as a plain JSON number, so finalized ranks
// round-trip as integers and provisional ranks as fractions.
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}

// UnmarshalJSON decodes a JSON number; a fractional value is provisional.
func (r *Rank) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rank: %w", err)
	}
	*r = Rank{value: v, provisional: v != math.Trunc(v)}
	return nil
}
