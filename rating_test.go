package rehearse

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestTranslateRating_Flashcard verifies the flashcard scale maps onto the
// canonical ratings one-to-one.
func TestTranslateRating_Flashcard(t *testing.T) {
	tests := []struct {
		in   FlashcardRating
		want Rating
	}{
		{FlashcardRating(Again), Again},
		{FlashcardRating(Hard), Hard},
		{FlashcardRating(Good), Good},
		{FlashcardRating(Easy), Easy},
	}

	for _, tt := range tests {
		got, err := TranslateRating(tt.in)
		if err != nil {
			t.Fatalf("TranslateRating(%v) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("TranslateRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestTranslateRating_LogicScore verifies the 1-5 logic scale, including
// the intentional collapse of scores 4 and 5 onto Easy.
func TestTranslateRating_LogicScore(t *testing.T) {
	tests := []struct {
		in   LogicScore
		want Rating
	}{
		{1, Again},
		{2, Hard},
		{3, Good},
		{4, Easy},
		{5, Easy},
	}

	for _, tt := range tests {
		got, err := TranslateRating(tt.in)
		if err != nil {
			t.Fatalf("TranslateRating(%v) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("TranslateRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestTranslateRating_OutOfRange verifies out-of-range domain inputs
// return ErrInvalidRating.
func TestTranslateRating_OutOfRange(t *testing.T) {
	inputs := []DomainRating{
		FlashcardRating(0),
		FlashcardRating(5),
		LogicScore(0),
		LogicScore(6),
		LogicScore(-1),
	}

	for _, in := range inputs {
		if _, err := TranslateRating(in); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("TranslateRating(%v) error = %v, want ErrInvalidRating", in, err)
		}
	}
}

// TestRating_String verifies String names for valid and invalid ratings.
func TestRating_String(t *testing.T) {
	tests := []struct {
		r    Rating
		want string
	}{
		{Again, "Again"},
		{Hard, "Hard"},
		{Good, "Good"},
		{Easy, "Easy"},
		{Rating(0), "Rating(0)"},
		{Rating(9), "Rating(9)"},
	}

	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Rating(%d).String() = %q, want %q", int(tt.r), got, tt.want)
		}
	}
}

// TestRating_JSONRoundTrip verifies ratings serialize as JSON strings and
// parse back to the same value.
func TestRating_JSONRoundTrip(t *testing.T) {
	for _, r := range []Rating{Again, Hard, Good, Easy} {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", r, err)
		}

		var back Rating
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if back != r {
			t.Errorf("round trip %v -> %s -> %v", r, data, back)
		}
	}
}

// TestRating_UnmarshalInvalid verifies unknown names and invalid JSON
// return ErrInvalidRating.
func TestRating_UnmarshalInvalid(t *testing.T) {
	for _, data := range []string{`"Okay"`, `""`, `3`} {
		var r Rating
		if err := json.Unmarshal([]byte(data), &r); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrInvalidRating", data, err)
		}
	}
}

// TestRating_MarshalInvalid verifies invalid ratings refuse to serialize.
func TestRating_MarshalInvalid(t *testing.T) {
	if _, err := json.Marshal(Rating(0)); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("Marshal(Rating(0)) error = %v, want ErrInvalidRating", err)
	}
}
