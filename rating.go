package rehearse

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Rating represents the user's assessment of recall quality. It is the
// canonical four-level scale consumed by the scheduling engine; domain
// scales are mapped onto it by TranslateRating.
type Rating int

const (
	Again Rating = iota + 1 // Complete failure to recall.
	Hard                    // Recalled with significant difficulty.
	Good                    // Recalled with some effort.
	Easy                    // Recalled effortlessly.
)

var (
	ratingNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}
	ratingByName = map[string]Rating{
		"Again": Again,
		"Hard":  Hard,
		"Good":  Good,
		"Easy":  Easy,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Rating(0)
	_ json.Marshaler           = Rating(0)
	_ json.Unmarshaler         = (*Rating)(nil)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// String returns the name of the rating ("Again", "Hard", "Good", "Easy").
// For invalid values it returns "Rating(n)".
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// IsValid reports whether r is a valid rating (Again through Easy).
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, ok := ratingByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRating, text)
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. Rating serializes as a JSON string.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRating, data)
	}
	return r.UnmarshalText([]byte(s))
}

// DomainRating is a performance rating expressed in one of the review
// domains. The set of implementations is closed: FlashcardRating and
// LogicScore are the only two domains.
type DomainRating interface {
	domainRating()
}

// FlashcardRating is a flashcard review outcome. Flashcards use the four
// canonical levels directly; translation is the identity.
type FlashcardRating Rating

func (FlashcardRating) domainRating() {}

// LogicScore is a 1-5 logic-training performance score.
//
// Translation collapses the top two scores: 1 maps to Again, 2 to Hard,
// 3 to Good, and both 4 and 5 to Easy. The many-to-one mapping is
// intentional: a near-perfect and a perfect solve carry the same
// scheduling signal.
type LogicScore int

func (LogicScore) domainRating() {}

// TranslateRating maps a domain-specific rating onto the canonical scale.
// It is pure and deterministic; out-of-range inputs return ErrInvalidRating.
func TranslateRating(dr DomainRating) (Rating, error) {
	switch v := dr.(type) {
	case FlashcardRating:
		r := Rating(v)
		if !r.IsValid() {
			return 0, fmt.Errorf("%w: flashcard rating %d", ErrInvalidRating, int(v))
		}
		return r, nil
	case LogicScore:
		switch v {
		case 1:
			return Again, nil
		case 2:
			return Hard, nil
		case 3:
			return Good, nil
		case 4, 5:
			return Easy, nil
		default:
			return 0, fmt.Errorf("%w: logic score %d outside 1-5", ErrInvalidRating, int(v))
		}
	default:
		return 0, fmt.Errorf("%w: unknown rating domain %T", ErrInvalidRating, dr)
	}
}
