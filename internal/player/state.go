package player

// State represents the deck transport state machine.
//
// Valid transitions:
//   - Stopped → Paused  (via Load: a source is cued but not audible)
//   - Paused  → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - Playing → Stopped (via Stop, or natural completion)
//   - Paused  → Stopped (via Stop)
//
// Invalid/no-op transitions are handled gracefully:
//   - Play/Pause with no source loaded (ignored)
//   - Stop when already Stopped (ignored)
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
