package rehearse

import (
	"encoding/json"
	"testing"
)

// TestState_String verifies state names, including the fallback for
// invalid values.
func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{New, "New"},
		{Learning, "Learning"},
		{Review, "Review"},
		{Relearning, "Relearning"},
		{State(0), "State(0)"},
		{State(7), "State(7)"},
	}

	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

// TestState_IsValid verifies the valid range.
func TestState_IsValid(t *testing.T) {
	for _, s := range []State{New, Learning, Review, Relearning} {
		if !s.IsValid() {
			t.Errorf("State %v should be valid", s)
		}
	}
	for _, s := range []State{State(0), State(5), State(-1)} {
		if s.IsValid() {
			t.Errorf("State(%d) should be invalid", int(s))
		}
	}
}

// TestState_JSONRoundTrip verifies states serialize as JSON strings and
// parse back to the same value.
func TestState_JSONRoundTrip(t *testing.T) {
	for _, s := range []State{New, Learning, Review, Relearning} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", s, err)
		}

		var back State
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %s -> %v", s, data, back)
		}
	}
}

// TestState_UnmarshalInvalid verifies unknown state names are rejected.
func TestState_UnmarshalInvalid(t *testing.T) {
	for _, data := range []string{`"Suspended"`, `""`, `2`} {
		var s State
		if err := json.Unmarshal([]byte(data), &s); err == nil {
			t.Errorf("Unmarshal(%s) should fail", data)
		}
	}
}
