package player

import "time"

// Deck is the contract for one audio deck, for dependency injection and
// testing. Two decks share the output device; each has its own source, gain
// and transport state so one can fade in while the other fades out.
type Deck interface {
	// Load cues a source without starting playback. Any previously loaded
	// source is stopped and released first. Fails if the source cannot be
	// opened or decoded.
	Load(uri, title string) error
	Play()
	Pause()
	Stop()
	Seek(pos time.Duration)

	// SetGain sets the output gain (0.0 silent .. 1.0 full).
	SetGain(level float64)
	Gain() float64

	State() State
	Title() string
	Position() time.Duration
	Duration() time.Duration

	// Positions emits the playback position periodically while playing.
	Positions() <-chan time.Duration
	// Finished emits once when a loaded source plays to its natural end.
	Finished() <-chan struct{}

	// Close stops playback and releases the deck. Idempotent.
	Close()
}

// Verify BeepDeck implements Deck at compile time.
var _ Deck = (*BeepDeck)(nil)
