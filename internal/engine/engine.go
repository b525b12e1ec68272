package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/llehouerou/crossdeck/internal/player"
	"github.com/llehouerou/crossdeck/internal/playlist"
)

const (
	minCrossfadeSeconds = 0
	maxCrossfadeSeconds = 10
)

// Engine is the playback controller. It owns two decks and the playing
// queue, drives timed crossfades between tracks, and fans playback events
// out to subscribers.
//
// Every public operation and every deck notification is serialized under one
// mutex, so queue and deck state cannot be mutated concurrently. Operations
// arriving while a crossfade ramp is in flight are ignored (see fading).
type Engine struct {
	mu sync.Mutex

	decks  [2]player.Deck
	active int // index of the deck bound to transport commands and events

	queue *playlist.PlayingQueue

	crossfade time.Duration
	volume    float64
	playing   bool

	// fading is set while a crossfade ramp is in flight. Transition and
	// transport requests arriving during a ramp are ignored rather than
	// queued or raced against the ramp's deck access.
	fading bool

	closed        bool
	monitorCancel chan struct{}
	done          chan struct{}

	subsMu sync.Mutex
	subs   []*Subscription
}

// New creates an engine owning the two given decks. Deck a starts active.
func New(a, b player.Deck) *Engine {
	return &Engine{
		decks:  [2]player.Deck{a, b},
		queue:  playlist.NewQueue(),
		volume: 1.0,
		done:   make(chan struct{}),
	}
}

// SetPlaylist replaces the queue with the given tracks, stops both decks,
// loads the track at startIndex (clamped) into the active deck and, when
// resume is true, starts playback. A load failure is returned to the caller;
// the queue is still replaced.
func (e *Engine) SetPlaylist(tracks []playlist.Track, startIndex int, resume bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading {
		return nil
	}

	e.unbindMonitorLocked()
	e.decks[0].Stop()
	e.decks[1].Stop()

	track := e.queue.Replace(tracks, startIndex)
	if track == nil {
		e.setPlayingLocked(false)
		return nil
	}
	return e.loadCurrentLocked(*track, resume)
}

// PlayIndex jumps to the track at index i (clamped into valid bounds) with a
// hard cut: both decks stop, the target loads into the active deck and plays.
func (e *Engine) PlayIndex(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading || e.queue.IsEmpty() {
		return nil
	}

	e.unbindMonitorLocked()
	e.decks[0].Stop()
	e.decks[1].Stop()

	track := e.queue.JumpTo(i)
	return e.loadCurrentLocked(*track, true)
}

// loadCurrentLocked loads the queue's current track into the active deck at
// full gain and rebinds monitoring. Caller must hold e.mu.
func (e *Engine) loadCurrentLocked(track playlist.Track, play bool) error {
	deck := e.decks[e.active]
	deck.SetGain(e.volume)
	if err := deck.Load(track.URI, track.Title); err != nil {
		e.setPlayingLocked(false)
		return fmt.Errorf("load %s: %w", track.URI, err)
	}
	if play {
		deck.Play()
	}
	e.setPlayingLocked(play)
	e.publishTrackLocked()
	e.publishDuration(deck.Duration())
	e.bindMonitorLocked()
	return nil
}

// Play resumes playback on the active deck.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading || e.queue.IsEmpty() {
		return
	}
	deck := e.decks[e.active]
	deck.Play()
	e.setPlayingLocked(deck.State() == player.Playing)
}

// Pause pauses playback on the active deck.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading || e.queue.IsEmpty() {
		return
	}
	deck := e.decks[e.active]
	deck.Pause()
	e.setPlayingLocked(deck.State() == player.Playing)
}

// Toggle issues the command complementary to the current playing state.
func (e *Engine) Toggle() {
	e.mu.Lock()
	playing := e.playing
	e.mu.Unlock()
	if playing {
		e.Pause()
	} else {
		e.Play()
	}
}

// Stop stops both decks and clears the playing flag.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading {
		return
	}
	e.unbindMonitorLocked()
	e.decks[0].Stop()
	e.decks[1].Stop()
	e.setPlayingLocked(false)
}

// Seek moves the active deck to the given absolute position. Bounds are the
// deck's concern.
func (e *Engine) Seek(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading || e.queue.IsEmpty() {
		return
	}
	e.decks[e.active].Seek(pos)
}

// Next moves to the next track, crossfading when useCrossfade is true and a
// crossfade length is configured, hard-cutting otherwise.
func (e *Engine) Next(useCrossfade bool) error {
	return e.skip(1, useCrossfade)
}

// Previous moves to the previous track, crossfading when useCrossfade is
// true and a crossfade length is configured, hard-cutting otherwise.
func (e *Engine) Previous(useCrossfade bool) error {
	return e.skip(-1, useCrossfade)
}

func (e *Engine) skip(dir int, useCrossfade bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading || e.queue.IsEmpty() {
		return nil
	}

	target, ok := e.queue.TargetIndex(dir, true)
	if !ok {
		return nil
	}

	if !useCrossfade || e.crossfade <= 0 {
		e.unbindMonitorLocked()
		e.decks[0].Stop()
		e.decks[1].Stop()
		track := e.queue.JumpTo(target)
		return e.loadCurrentLocked(*track, true)
	}
	return e.startTransitionLocked(target, "skip")
}

// SetShuffle records the shuffle flag. Enabling it reorders the queue with
// the current track pinned to index 0; audio is not interrupted.
func (e *Engine) SetShuffle(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading {
		return
	}
	if e.queue.SetShuffle(enabled) {
		e.publishTrackLocked()
	}
}

// CycleLoopMode advances Off -> All -> One -> Off and returns the new mode.
func (e *Engine) CycleLoopMode() playlist.LoopMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return e.queue.LoopMode()
	}
	return e.queue.CycleLoopMode()
}

// SetCrossfadeSeconds sets the crossfade length, clamped to [0, 10] seconds,
// and returns the clamped value. Zero disables crossfading entirely. An
// in-flight ramp keeps the length captured at its start.
func (e *Engine) SetCrossfadeSeconds(seconds int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seconds < minCrossfadeSeconds {
		seconds = minCrossfadeSeconds
	}
	if seconds > maxCrossfadeSeconds {
		seconds = maxCrossfadeSeconds
	}
	e.crossfade = time.Duration(seconds) * time.Second
	e.publishCrossfade(seconds)
	return seconds
}

// SetVolume sets the master volume (0.0 to 1.0), applied multiplicatively
// with crossfade gain fractions.
func (e *Engine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	e.volume = level
	if !e.fading {
		e.decks[e.active].SetGain(level)
	}
}

// State queries

// Playing returns whether the active deck is playing.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// CurrentIndex returns the index of the current track (-1 if none).
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.CurrentIndex()
}

// CurrentTrack returns a copy of the current track, or nil if none.
func (e *Engine) CurrentTrack() *playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	track := e.queue.Current()
	if track == nil {
		return nil
	}
	t := *track
	return &t
}

// Tracks returns a copy of the queue contents.
func (e *Engine) Tracks() []playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Tracks()
}

// Len returns the number of tracks in the queue.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// LoopMode returns the current loop mode.
func (e *Engine) LoopMode() playlist.LoopMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.LoopMode()
}

// Shuffle returns whether shuffle is enabled.
func (e *Engine) Shuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Shuffle()
}

// CrossfadeSeconds returns the configured crossfade length in seconds.
func (e *Engine) CrossfadeSeconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int(e.crossfade / time.Second)
}

// Volume returns the master volume.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Position returns the active deck's playback position.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decks[e.active].Position()
}

// Duration returns the active deck's track duration.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decks[e.active].Duration()
}

// Subscribe creates a new event subscription. After Close it returns a
// subscription whose Done is already closed instead of one that would wait
// forever.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	select {
	case <-e.done:
		sub.close()
	default:
		e.subs = append(e.subs, sub)
	}
	return sub
}

// Close tears the engine down: cancels monitoring, closes all subscription
// channels, then stops and releases both decks, in that order. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.unbindMonitorLocked()
	e.mu.Unlock()
	close(e.done)

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	e.decks[0].Stop()
	e.decks[1].Stop()
	e.decks[0].Close()
	e.decks[1].Close()
	return nil
}

// setPlayingLocked updates the playing flag and publishes the change.
// Caller must hold e.mu.
func (e *Engine) setPlayingLocked(playing bool) {
	if e.playing == playing {
		return
	}
	e.playing = playing
	e.publish(func(s *Subscription) {
		s.sendState(StateChange{Playing: playing})
	})
}

// publishTrackLocked emits the current track's title and index.
// Caller must hold e.mu.
func (e *Engine) publishTrackLocked() {
	track := e.queue.Current()
	if track == nil {
		return
	}
	change := TrackChange{Title: track.Title, Index: e.queue.CurrentIndex()}
	e.publish(func(s *Subscription) {
		s.sendTrack(change)
	})
}

func (e *Engine) publishPosition(pos time.Duration) {
	e.publish(func(s *Subscription) {
		s.sendPosition(pos)
	})
}

func (e *Engine) publishDuration(d time.Duration) {
	e.publish(func(s *Subscription) {
		s.sendDuration(d)
	})
}

func (e *Engine) publishCrossfade(seconds int) {
	e.publish(func(s *Subscription) {
		s.sendCrossfade(seconds)
	})
}

func (e *Engine) publishError(ev ErrorEvent) {
	e.publish(func(s *Subscription) {
		s.sendError(ev)
	})
}

func (e *Engine) publish(fn func(*Subscription)) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, sub := range e.subs {
		fn(sub)
	}
}
