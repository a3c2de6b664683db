// Package rehearse implements an adaptive spaced-repetition scheduling
// engine for two review domains: flashcards and logic-training exercises.
//
// The core is a numeric state machine in the FSRS family: each review
// rating updates a card's stability and difficulty estimates and produces
// the next due date. A load-adaptive layer scales the resulting interval
// by an external cognitive-load estimate without touching the memory
// model, and a session composer turns the due queue into bounded, ordered
// review sessions.
//
// Basic usage:
//
//	client, err := rehearse.NewClient(rehearse.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	card, _ := client.AddCard(ctx, rehearse.DomainFlashcard, "ohm's law")
//	result, _ := client.SubmitReview(ctx, card.ID, rehearse.FlashcardRating(rehearse.Good), 0.5)
//	fmt.Println(result.Card.Due)
//
// The Engine, rating translator, interval adjuster, session composer, and
// progress analyzer are pure and safe for concurrent use; persistence goes
// through the SQLite-backed Store or any CardStore implementation.
package rehearse
