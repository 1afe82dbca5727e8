package domain

import "testing"

func TestUpgradeClassState(t *testing.T) {
	cases := []struct {
		oldState, newState, want string
	}{
		{"", EventStatePicked, EventStatePicked},
		{EventStatePicked, EventStateInvited, EventStateInvited},
		{EventStateInvited, EventStatePicked, EventStateInvited},
		{EventStateEnded, EventStatePicked, EventStateEnded},
		{EventStatePicked, EventStatePicked, EventStatePicked},
	}
	for _, tc := range cases {
		if got := UpgradeClassState(tc.oldState, tc.newState); got != tc.want {
			t.Errorf("UpgradeClassState(%q, %q) = %q, want %q", tc.oldState, tc.newState, got, tc.want)
		}
	}
}

func TestUpgradeEventState(t *testing.T) {
	if got := UpgradeEventState(EventStateConfirmed, EventStatePicked); got != EventStatePicked {
		t.Errorf("confirmed should upgrade to picked, got %q", got)
	}
	if got := UpgradeEventState(EventStateInvited, EventStateConfirmed); got != EventStateInvited {
		t.Errorf("invited should not downgrade to confirmed, got %q", got)
	}
}

func TestEvent_HasState(t *testing.T) {
	event := &Event{
		State: EventStatePicked,
		Classes: []EventClass{
			{Class: "ALO", State: EventStateInvited},
			{Class: "AVO"},
		},
	}

	if !event.HasState("", EventStatePicked) {
		t.Error("event state should match")
	}
	if !event.HasState("ALO", EventStateInvited) {
		t.Error("class state should match")
	}
	if !event.HasState("AVO", EventStatePicked) {
		t.Error("event state should cover classes without their own state")
	}
	if event.HasState("AVO", EventStateInvited) {
		t.Error("AVO is not invited")
	}
}

func TestEvent_Class(t *testing.T) {
	event := &Event{Classes: []EventClass{{Class: "ALO"}, {Class: "AVO"}}}
	if c := event.Class("AVO"); c == nil || c.Class != "AVO" {
		t.Errorf("Class(AVO) = %+v", c)
	}
	if c := event.Class("VOI"); c != nil {
		t.Errorf("Class(VOI) = %+v, want nil", c)
	}
}

func TestTemplateLabel(t *testing.T) {
	if got := TemplateLabel(TemplateReserve, "fi"); got != "Varasijailmoitus" {
		t.Errorf("fi label = %q", got)
	}
	if got := TemplateLabel(TemplatePicked, "en"); got != "Participation notice" {
		t.Errorf("en label = %q", got)
	}
	if got := TemplateLabel(TemplatePicked, "sv"); got != "Koepaikkailmoitus" {
		t.Errorf("unknown language should fall back to Finnish, got %q", got)
	}
}
