package engine

import (
	"time"

	"github.com/llehouerou/crossdeck/internal/player"
)

// bindMonitorLocked cancels the previous monitor and subscribes a new one to
// the active deck's notification streams. Caller must hold e.mu.
func (e *Engine) bindMonitorLocked() {
	e.unbindMonitorLocked()
	cancel := make(chan struct{})
	e.monitorCancel = cancel
	go e.monitor(e.decks[e.active], cancel)
}

// unbindMonitorLocked cancels the current monitor, if any.
// Caller must hold e.mu.
func (e *Engine) unbindMonitorLocked() {
	if e.monitorCancel != nil {
		close(e.monitorCancel)
		e.monitorCancel = nil
	}
}

// monitor watches one deck's position and completion streams. It retires
// when cancelled (rebind, teardown), after handing off to a crossfade
// transition, or after handling a completion - so each completion advances
// the queue exactly once.
func (e *Engine) monitor(d player.Deck, cancel <-chan struct{}) {
	// armed is cleared after the proximity trigger fires once, whether the
	// transition started, aborted (no successor) or failed - there is no
	// automatic retry for a given source.
	armed := true
	for {
		select {
		case <-cancel:
			return
		case pos := <-d.Positions():
			retire, stillArmed := e.handlePosition(d, pos, cancel, armed)
			if retire {
				return
			}
			armed = stillArmed
		case <-d.Finished():
			e.handleFinished(cancel)
			return
		}
	}
}

// handlePosition forwards a position notification to subscribers, unless the
// remaining time has fallen below the crossfade length, in which case it
// starts the automatic transition instead. Returns retire=true when the
// monitor should stop watching this deck.
func (e *Engine) handlePosition(d player.Deck, pos time.Duration, cancel <-chan struct{}, armed bool) (retire, stillArmed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading {
		return true, false
	}
	// A rebind may have raced this delivery; a stale monitor must not act.
	select {
	case <-cancel:
		return true, false
	default:
	}

	duration := d.Duration()
	if armed && e.playing && e.crossfade > 0 && duration > 0 && duration-pos <= e.crossfade {
		if target, ok := e.queue.TargetIndex(1, false); ok {
			if err := e.startTransitionLocked(target, "crossfade"); err == nil {
				return true, false
			}
			// Load failure was reported on the error stream; the current
			// track keeps playing to its natural end.
		}
		// No successor (loop Off on the last track) or failed load: keep
		// forwarding positions, but do not trigger again.
		armed = false
	}

	e.publishPosition(pos)
	return false, armed
}

// handleFinished advances the queue after a natural completion with a hard
// cut, or stops playback when loop mode Off has no successor.
func (e *Engine) handleFinished(cancel <-chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.fading {
		return
	}
	select {
	case <-cancel:
		return
	default:
	}

	target, ok := e.queue.TargetIndex(1, false)
	if !ok {
		// Loop Off after the final track: playback stops.
		e.decks[e.active].Stop()
		e.setPlayingLocked(false)
		return
	}

	track := e.queue.JumpTo(target)
	if err := e.loadCurrentLocked(*track, true); err != nil {
		e.publishError(ErrorEvent{Op: "advance", URI: track.URI, Err: err})
	}
}
