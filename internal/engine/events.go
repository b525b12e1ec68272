package engine

import "time"

// TrackChange is emitted when the current track changes.
//
// Emitted by:
//   - SetPlaylist/PlayIndex: when a track is loaded directly
//   - Next/Previous: after the jump or the post-fade deck swap
//   - SetShuffle: when enabling reorders the queue (the current track moves
//     to index 0 without interrupting audio)
//   - automatic end-of-track advancement
type TrackChange struct {
	Title string
	Index int
}

// StateChange is emitted when the playing flag changes.
type StateChange struct {
	Playing bool
}

// PositionChange carries position notifications forwarded from the active
// deck, except the one that triggers a proximity crossfade.
type PositionChange struct {
	Position time.Duration
}

// DurationChange is emitted when a source is loaded.
type DurationChange struct {
	Duration time.Duration
}

// CrossfadeChange is emitted when the crossfade length setting changes.
type CrossfadeChange struct {
	Seconds int
}

// ErrorEvent is emitted when an asynchronous operation fails, e.g. a track
// fails to load during automatic advancement.
type ErrorEvent struct {
	Op  string // e.g. "crossfade", "advance"
	URI string // source URI if applicable
	Err error
}
