package domain

import "fmt"

// Reserved group keys. Any other key names a participant bucket, either a
// slot key derived from a registered date/time (e.g. "2026-08-01-ap") or a
// free-form bucket such as "participants-1".
const (
	GroupKeyReserve   = "reserve"
	GroupKeyCancelled = "cancelled"
)

// Registration states. Only ready registrations take part in grouping and
// aggregate counts; creating is a half-submitted form.
const (
	RegistrationStateCreating = "creating"
	RegistrationStateReady    = "ready"
)

// RegistrationTime is a time-of-day slot: ap (morning), ip (afternoon),
// kp (full day).
type RegistrationTime string

const (
	TimeMorning   RegistrationTime = "ap"
	TimeAfternoon RegistrationTime = "ip"
	TimeFullDay   RegistrationTime = "kp"
)

// RegistrationDate is one (date, time-of-day) slot the entrant is
// available for. Date is an ISO date string (yyyy-mm-dd).
type RegistrationDate struct {
	Date string           `json:"date"`
	Time RegistrationTime `json:"time,omitempty"`
}

// RegistrationGroup places a registration into an ordered bucket.
type RegistrationGroup struct {
	Key    string           `json:"key"`
	Number Rank             `json:"number"`
	Date   string           `json:"date,omitempty"`
	Time   RegistrationTime `json:"time,omitempty"`
}

// Person is a handler or owner attached to a registration.
type Person struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Membership bool   `json:"membership"`
}

// Registration is one dog's entry to one event, keyed by (EventID, ID).
type Registration struct {
	EventID string `json:"eventId"`
	ID      string `json:"id"`

	EventType string `json:"eventType"`
	// Class is optional; when absent the event's single type stands in.
	Class string             `json:"class,omitempty"`
	Dates []RegistrationDate `json:"dates"`

	Group        *RegistrationGroup `json:"group,omitempty"`
	Cancelled    bool               `json:"cancelled"`
	CancelReason string             `json:"cancelReason,omitempty"`
	Confirmed    bool               `json:"confirmed,omitempty"`
	State        string             `json:"state,omitempty"`

	Handler      Person `json:"handler"`
	Owner        Person `json:"owner"`
	OwnerHandles bool   `json:"ownerHandles,omitempty"`

	Language string `json:"language,omitempty"`

	// ReserveNotified is true once a reserve-placement email has gone out
	// for the current reserve stay. Cleared when the registration leaves
	// the reserve group.
	ReserveNotified bool `json:"reserveNotified,omitempty"`
	// MessagesSent is the idempotency ledger: template id -> sent.
	MessagesSent map[TemplateID]bool `json:"messagesSent,omitempty"`
	// LastEmail is a human-readable summary of the last email sent.
	LastEmail string `json:"lastEmail,omitempty"`
}

// Key returns the composite store key "<eventId>:<id>".
func (r *Registration) Key() RegistrationKey {
	return RegistrationKey{EventID: r.EventID, ID: r.ID}
}

// RegistrationKey identifies a registration in the store.
type RegistrationKey struct {
	EventID string
	ID      string
}

func (k RegistrationKey) String() string {
	return fmt.Sprintf("%s:%s", k.EventID, k.ID)
}

// ClassOrType returns the class code, falling back to the event type for
// events that run a single class.
func (r *Registration) ClassOrType() string {
	if r.Class != "" {
		return r.Class
	}
	return r.EventType
}

// GroupKey returns the effective group key: cancelled registrations always
// report the cancelled group, unplaced registrations fall back to reserve.
func (r *Registration) GroupKey() string {
	if r.Cancelled {
		return GroupKeyCancelled
	}
	if r.Group == nil {
		return GroupKeyReserve
	}
	return r.Group.Key
}

// NumberingGroupKey returns the bucket within which ranks are contiguous.
// All participant slots of a class number as one sequence; reserve and
// cancelled number per class.
func (r *Registration) NumberingGroupKey() string {
	ct := r.ClassOrType()
	if r.Cancelled {
		return GroupKeyCancelled + "-" + ct
	}
	if r.Group != nil && r.Group.Date != "" {
		return "participants-" + ct
	}
	return GroupKeyReserve + "-" + ct
}

// InParticipantGroup reports whether the key names a participant bucket,
// i.e. anything other than reserve or cancelled.
func InParticipantGroup(key string) bool {
	return key != "" && key != GroupKeyReserve && key != GroupKeyCancelled
}

// MessageSent reports whether the given template has been sent.
func (r *Registration) MessageSent(id TemplateID) bool {
	return r.MessagesSent[id]
}

// Recipients returns the de-duplicated recipient addresses for the
// registration: the handler's email, plus the owner's when different.
func (r *Registration) Recipients() []string {
	to := []string{r.Handler.Email}
	if r.Owner.Email != "" && r.Owner.Email != r.Handler.Email {
		to = append(to, r.Owner.Email)
	}
	return to
}

// HasPriority reports whether the registration qualifies for the event's
// membership priority: the event prioritizes members and the handler or
// owner is one. When the owner handles the dog, only the owner counts.
func (r *Registration) HasPriority(event *Event) bool {
	if !event.PrioritizesMembers() {
		return false
	}
	if r.OwnerHandles {
		return r.Owner.Membership
	}
	return r.Handler.Membership || r.Owner.Membership
}

// GroupChangeRequest asks to move one registration to a new group.
type GroupChangeRequest struct {
	EventID      string             `json:"eventId"`
	ID           string             `json:"id"`
	Group        *RegistrationGroup `json:"group"`
	Cancelled    *bool              `json:"cancelled,omitempty"`
	CancelReason string             `json:"cancelReason,omitempty"`
}

// DispatchResult is the per-address outcome of one template send across a
// batch of registrations.
type DispatchResult struct {
	OK     []string `json:"ok"`
	Failed []string `json:"failed"`
}

// Append merges another result into this one.
func (d *DispatchResult) Append(other DispatchResult) {
	d.OK = append(d.OK, other.OK...)
	d.Failed = append(d.Failed, other.Failed...)
}
