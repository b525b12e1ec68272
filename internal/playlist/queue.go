package playlist

import "math/rand/v2"

// PlayingQueue wraps a Playlist with playback position, loop mode and shuffle
// state. It is a purely logical structure: reordering or moving the index
// never touches the audio decks.
type PlayingQueue struct {
	playlist     *Playlist
	currentIndex int // -1 if nothing playing
	loop         LoopMode
	shuffle      bool
}

// NewQueue creates a new empty playing queue.
func NewQueue() *PlayingQueue {
	return &PlayingQueue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
	}
}

// Current returns the current track, or nil if none.
func (q *PlayingQueue) Current() *Track {
	if q.currentIndex < 0 || q.currentIndex >= q.playlist.Len() {
		return nil
	}
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the index of the current track (-1 if none).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// JumpTo moves the current index to the given position, clamped into valid
// bounds. Returns the track at the resulting position, or nil if the queue is
// empty.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if q.playlist.Len() == 0 {
		q.currentIndex = -1
		return nil
	}
	q.currentIndex = clampIndex(index, q.playlist.Len())
	return q.Current()
}

// Replace clears the queue, adds tracks, and sets the index to startIndex
// (clamped). Loop mode and shuffle flag persist across replacement.
// Returns the track at the new index, or nil if tracks is empty.
func (q *PlayingQueue) Replace(tracks []Track, startIndex int) *Track {
	q.playlist.Clear()
	q.currentIndex = -1
	if len(tracks) == 0 {
		return nil
	}
	q.playlist.Add(tracks...)
	q.currentIndex = clampIndex(startIndex, q.playlist.Len())
	return q.Current()
}

// Clear removes all tracks and resets the position.
func (q *PlayingQueue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
}

// TargetIndex resolves the index a transition in the given direction should
// land on, honoring the loop mode. dir is +1 (forward) or -1 (backward).
// manual selects the boundary policy for LoopOff: manual triggers restart the
// current track, automatic triggers have no successor (ok is false).
func (q *PlayingQueue) TargetIndex(dir int, manual bool) (index int, ok bool) {
	n := q.playlist.Len()
	if n == 0 || q.currentIndex < 0 {
		return -1, false
	}
	if q.loop == LoopOne {
		return q.currentIndex, true
	}

	target := q.currentIndex + dir
	if target >= 0 && target < n {
		return target, true
	}

	switch q.loop {
	case LoopAll:
		if target < 0 {
			return n - 1, true
		}
		return 0, true
	default: // LoopOff at a boundary
		if manual {
			return q.currentIndex, true
		}
		return -1, false
	}
}

// LoopMode returns the current loop mode.
func (q *PlayingQueue) LoopMode() LoopMode {
	return q.loop
}

// SetLoopMode sets the loop mode.
func (q *PlayingQueue) SetLoopMode(mode LoopMode) {
	q.loop = mode
}

// CycleLoopMode advances Off -> All -> One -> Off and returns the new mode.
func (q *PlayingQueue) CycleLoopMode() LoopMode {
	q.loop = q.loop.Next()
	return q.loop
}

// Shuffle returns whether shuffle is enabled.
func (q *PlayingQueue) Shuffle() bool {
	return q.shuffle
}

// SetShuffle records the shuffle flag. Enabling it on a queue with more than
// one track physically reorders the playlist: the current track is pinned to
// index 0 and the remainder is permuted randomly. Returns true if the
// playlist was reordered.
func (q *PlayingQueue) SetShuffle(enabled bool) bool {
	q.shuffle = enabled
	if !enabled || q.playlist.Len() <= 1 {
		return false
	}

	tracks := q.playlist.Tracks()
	if q.currentIndex > 0 {
		tracks[0], tracks[q.currentIndex] = tracks[q.currentIndex], tracks[0]
	}
	rest := tracks[1:]
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	q.playlist.Clear()
	q.playlist.Add(tracks...)
	q.currentIndex = 0
	return true
}

// Tracks returns all tracks in the queue.
func (q *PlayingQueue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Track returns the track at the given index, or nil if out of bounds.
func (q *PlayingQueue) Track(index int) *Track {
	return q.playlist.Track(index)
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}

// clampIndex clamps index into [0, n) for n > 0.
func clampIndex(index, n int) int {
	if index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
