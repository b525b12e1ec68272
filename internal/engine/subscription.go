package engine

import "time"

const eventBufferSize = 16

// Subscription provides event channels for one subscriber. Multiple
// subscribers are supported; each gets its own buffered channels and slow
// consumers miss events rather than blocking the engine.
type Subscription struct {
	Track     <-chan TrackChange
	State     <-chan StateChange
	Position  <-chan PositionChange
	Duration  <-chan DurationChange
	Crossfade <-chan CrossfadeChange
	Error     <-chan ErrorEvent
	Done      <-chan struct{}

	// Internal write channels
	trackCh     chan TrackChange
	stateCh     chan StateChange
	positionCh  chan PositionChange
	durationCh  chan DurationChange
	crossfadeCh chan CrossfadeChange
	errorCh     chan ErrorEvent
	doneCh      chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		trackCh:     make(chan TrackChange, eventBufferSize),
		stateCh:     make(chan StateChange, eventBufferSize),
		positionCh:  make(chan PositionChange, eventBufferSize),
		durationCh:  make(chan DurationChange, eventBufferSize),
		crossfadeCh: make(chan CrossfadeChange, eventBufferSize),
		errorCh:     make(chan ErrorEvent, eventBufferSize),
		doneCh:      make(chan struct{}),
	}
	s.Track = s.trackCh
	s.State = s.stateCh
	s.Position = s.positionCh
	s.Duration = s.durationCh
	s.Crossfade = s.crossfadeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh. The event channels
// are left open on purpose: the engine publishes nothing after teardown, so
// readers can drain buffered events and then see Done, without racing a
// send-on-closed-channel panic.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}

// sendPosition sends a position event (non-blocking).
func (s *Subscription) sendPosition(pos time.Duration) {
	select {
	case s.positionCh <- PositionChange{Position: pos}:
	default:
	}
}

// sendDuration sends a duration event (non-blocking).
func (s *Subscription) sendDuration(d time.Duration) {
	select {
	case s.durationCh <- DurationChange{Duration: d}:
	default:
	}
}

// sendCrossfade sends a crossfade length event (non-blocking).
func (s *Subscription) sendCrossfade(seconds int) {
	select {
	case s.crossfadeCh <- CrossfadeChange{Seconds: seconds}:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
