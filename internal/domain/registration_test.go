package domain

import (
	"reflect"
	"testing"
)

func TestRegistration_GroupKey(t *testing.T) {
	cases := []struct {
		name string
		reg  Registration
		want string
	}{
		{"cancelled wins over group", Registration{Cancelled: true, Group: &RegistrationGroup{Key: "2026-08-01-ap"}}, GroupKeyCancelled},
		{"no group falls back to reserve", Registration{}, GroupKeyReserve},
		{"participant slot key", Registration{Group: &RegistrationGroup{Key: "2026-08-01-ap"}}, "2026-08-01-ap"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.reg.GroupKey(); got != tc.want {
				t.Errorf("GroupKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRegistration_NumberingGroupKey(t *testing.T) {
	cases := []struct {
		name string
		reg  Registration
		want string
	}{
		{
			"participant slots number as one class sequence",
			Registration{Class: "ALO", Group: &RegistrationGroup{Key: "2026-08-01-ap", Date: "2026-08-01"}},
			"participants-ALO",
		},
		{
			"reserve numbers per class",
			Registration{Class: "ALO", Group: &RegistrationGroup{Key: GroupKeyReserve}},
			"reserve-ALO",
		},
		{
			"cancelled numbers per class",
			Registration{Class: "AVO", Cancelled: true},
			"cancelled-AVO",
		},
		{
			"event type stands in for missing class",
			Registration{EventType: "NOU"},
			"reserve-NOU",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.reg.NumberingGroupKey(); got != tc.want {
				t.Errorf("NumberingGroupKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInParticipantGroup(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"2026-08-01-ap", true},
		{"participants-1", true},
		{GroupKeyReserve, false},
		{GroupKeyCancelled, false},
		{"", false},
	}
	for _, tc := range cases {
		if got := InParticipantGroup(tc.key); got != tc.want {
			t.Errorf("InParticipantGroup(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestRegistration_Recipients(t *testing.T) {
	reg := Registration{
		Handler: Person{Email: "handler@example.org"},
		Owner:   Person{Email: "owner@example.org"},
	}
	want := []string{"handler@example.org", "owner@example.org"}
	if got := reg.Recipients(); !reflect.DeepEqual(got, want) {
		t.Errorf("Recipients() = %v, want %v", got, want)
	}

	reg.Owner.Email = reg.Handler.Email
	want = []string{"handler@example.org"}
	if got := reg.Recipients(); !reflect.DeepEqual(got, want) {
		t.Errorf("same address should not repeat: %v", got)
	}
}

func TestRegistration_HasPriority(t *testing.T) {
	memberEvent := &Event{Priority: []string{"member"}}
	openEvent := &Event{}

	cases := []struct {
		name  string
		reg   Registration
		event *Event
		want  bool
	}{
		{
			"handler membership counts",
			Registration{Handler: Person{Membership: true}},
			memberEvent, true,
		},
		{
			"owner membership counts",
			Registration{Owner: Person{Membership: true}},
			memberEvent, true,
		},
		{
			"owner handles: only owner counts",
			Registration{OwnerHandles: true, Handler: Person{Membership: true}},
			memberEvent, false,
		},
		{
			"no membership",
			Registration{},
			memberEvent, false,
		},
		{
			"event without member priority",
			Registration{Handler: Person{Membership: true}},
			openEvent, false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.reg.HasPriority(tc.event); got != tc.want {
				t.Errorf("HasPriority() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRegistration_ClassOrType(t *testing.T) {
	reg := Registration{EventType: "NOU"}
	if got := reg.ClassOrType(); got != "NOU" {
		t.Errorf("ClassOrType() = %q, want NOU", got)
	}
	reg.Class = "ALO"
	if got := reg.ClassOrType(); got != "ALO" {
		t.Errorf("ClassOrType() = %q, want ALO", got)
	}
}
