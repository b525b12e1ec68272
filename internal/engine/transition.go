package engine

import (
	"fmt"
	"time"

	"github.com/llehouerou/crossdeck/internal/player"
)

const (
	// fadeSteps is the number of discrete gain steps in a crossfade ramp.
	fadeSteps = 24

	// Step intervals are clamped to bound CPU churn on long fades and
	// audible steppiness on short ones.
	minStepInterval = 10 * time.Millisecond
	maxStepInterval = 200 * time.Millisecond
)

// startTransitionLocked begins a crossfade toward the track at target: the
// standby deck loads it at zero gain and starts playing, then the ramp runs
// on its own goroutine. A standby load failure aborts the transition leaving
// the active deck and index untouched; the error is published and returned.
// Caller must hold e.mu.
func (e *Engine) startTransitionLocked(target int, op string) error {
	track := e.queue.Track(target)
	if track == nil {
		return nil
	}

	out := e.decks[e.active]
	in := e.decks[1-e.active]

	in.Stop()
	in.SetGain(0)
	if err := in.Load(track.URI, track.Title); err != nil {
		err = fmt.Errorf("load %s: %w", track.URI, err)
		e.publishError(ErrorEvent{Op: op, URI: track.URI, Err: err})
		return err
	}
	in.Play()

	e.unbindMonitorLocked()
	e.fading = true
	go e.runRamp(out, in, target, e.crossfade, e.volume)
	return nil
}

// runRamp interpolates deck gains linearly over fadeSteps discrete steps,
// then swaps deck roles. The crossfade length and master volume are the
// values captured at ramp start; changing either mid-ramp has no effect on
// the ramp in flight.
func (e *Engine) runRamp(out, in player.Deck, target int, fade time.Duration, master float64) {
	interval := fade / fadeSteps
	if interval < minStepInterval {
		interval = minStepInterval
	}
	if interval > maxStepInterval {
		interval = maxStepInterval
	}

	for i := 1; i <= fadeSteps; i++ {
		select {
		case <-e.done:
			return
		case <-time.After(interval):
		}
		t := float64(i) / fadeSteps
		out.SetGain(master * (1 - t))
		in.SetGain(master * t)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	out.Stop()
	e.active = 1 - e.active
	e.queue.JumpTo(target)
	e.fading = false
	e.setPlayingLocked(true)
	e.publishTrackLocked()
	e.publishDuration(in.Duration())
	e.bindMonitorLocked()
}
