package playlist

// LoopMode defines what happens when playback reaches the end of a track.
type LoopMode int

const (
	LoopOff LoopMode = iota // stop after the last track
	LoopAll                 // wrap around to the other end
	LoopOne                 // repeat the current track indefinitely
)

// String returns the loop mode name.
func (m LoopMode) String() string {
	switch m {
	case LoopOff:
		return "Off"
	case LoopAll:
		return "All"
	case LoopOne:
		return "One"
	default:
		return "Unknown"
	}
}

// Next returns the mode that follows in the Off -> All -> One -> Off cycle.
func (m LoopMode) Next() LoopMode {
	switch m {
	case LoopOff:
		return LoopAll
	case LoopAll:
		return LoopOne
	default:
		return LoopOff
	}
}
