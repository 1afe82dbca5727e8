package domain

import "slices"

// Event states, in lifecycle order. A confirmed event has published its
// entry list; picked means participant places have been confirmed, invited
// means the invitation has gone out.
const (
	EventStateConfirmed = "confirmed"
	EventStatePicked    = "picked"
	EventStateInvited   = "invited"
	EventStateStarted   = "started"
	EventStateEnded     = "ended"
)

// classStateOrder drives the upgrade-only state lattice for classes.
var classStateOrder = []string{EventStatePicked, EventStateInvited, EventStateStarted, EventStateEnded}

// eventStateOrder additionally includes confirmed as the lowest state.
var eventStateOrder = []string{EventStateConfirmed, EventStatePicked, EventStateInvited, EventStateStarted, EventStateEnded}

// EventClass is one class run at an event, with capacity and live counters.
type EventClass struct {
	Class   string `json:"class"`
	Date    string `json:"date,omitempty"`
	Places  int    `json:"places"`
	Entries int    `json:"entries"`
	Members int    `json:"members"`
	State   string `json:"state,omitempty"`
}

// Event is the aggregate container for registrations.
type Event struct {
	ID        string       `json:"id"`
	EventType string       `json:"eventType"`
	Name      string       `json:"name,omitempty"`
	State     string       `json:"state"`
	StartDate string       `json:"startDate,omitempty"`
	EndDate   string       `json:"endDate,omitempty"`
	Entries   int          `json:"entries"`
	Members   int          `json:"members"`
	Classes   []EventClass `json:"classes"`
	// Priority lists the entry priority rules in effect, e.g. "member".
	Priority []string `json:"priority,omitempty"`
}

// PrioritizesMembers reports whether organization members get entry priority.
func (e *Event) PrioritizesMembers() bool {
	return slices.Contains(e.Priority, "member")
}

// Class returns the class entry for the given code, or nil.
func (e *Event) Class(class string) *EventClass {
	for i := range e.Classes {
		if e.Classes[i].Class == class {
			return &e.Classes[i]
		}
	}
	return nil
}

// HasState reports whether the event, or the named class, is in the given
// state. An empty class checks the event state only.
func (e *Event) HasState(class, state string) bool {
	if e.State == state {
		return true
	}
	if class == "" {
		return false
	}
	c := e.Class(class)
	return c != nil && c.State == state
}

// UpgradeClassState returns the later of the two class states. States never
// downgrade: re-sending a picked notice to an invited class keeps it invited.
func UpgradeClassState(oldState, newState string) string {
	return upgrade(classStateOrder, oldState, newState)
}

// UpgradeEventState returns the later of the two event states.
func UpgradeEventState(oldState, newState string) string {
	return upgrade(eventStateOrder, oldState, newState)
}

func upgrade(order []string, oldState, newState string) string {
	if oldState == "" {
		return newState
	}
	if slices.Index(order, oldState) < slices.Index(order, newState) {
		return newState
	}
	return oldState
}
