package events

import "testing"

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		pattern   string
		want      bool
	}{
		{"exact", "rounds.checkin.recorded", "rounds.checkin.recorded", true},
		{"tail wildcard", "rounds.checkin.recorded", "rounds.*", true},
		{"mid wildcard", "rounds.checkin.recorded", "rounds.checkin.*", true},
		{"match all star", "rounds.checkin.recorded", "*", true},
		{"match all arrow", "rounds.checkin.recorded", ">", true},
		{"wrong prefix", "users.created", "rounds.*", false},
		{"shorter type", "rounds", "rounds.checkin.recorded", false},
		{"longer type", "rounds.checkin.recorded.v2", "rounds.checkin.recorded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesPattern(tt.eventType, tt.pattern); got != tt.want {
				t.Errorf("matchesPattern(%q, %q) = %v, want %v", tt.eventType, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestPatternToRegex(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"rounds.*", `rounds\..*`},
		{"rounds.checkin.recorded", `rounds\.checkin\.recorded`},
		{"*", `.*`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := patternToRegex(tt.pattern); got != tt.want {
				t.Errorf("patternToRegex(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestEventWithActor(t *testing.T) {
	e := NewEvent("rounds.checkin.recorded", "patient", nil)
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Error("NewEvent should stamp an ID and timestamp")
	}

	withActor := e.WithActor("uid-1")
	if withActor.ActorUID != "uid-1" {
		t.Errorf("Expected actor uid-1, got %q", withActor.ActorUID)
	}
	if e.ActorUID != "" {
		t.Error("WithActor must not mutate the receiver")
	}
}
