package player

import (
	"sync"
	"time"
)

// Mock is a test double for a Deck.
type Mock struct {
	mu sync.Mutex

	state    State
	position time.Duration
	duration time.Duration
	gain     float64
	title    string

	loadErr   error
	durations map[string]time.Duration

	loadCalls []string
	gainCalls []float64
	seekCalls []time.Duration
	stopCalls int

	posCh      chan time.Duration
	finishedCh chan struct{}
	closed     bool
}

// NewMock creates a new mock deck for testing.
func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		gain:       1.0,
		durations:  make(map[string]time.Duration),
		posCh:      make(chan time.Duration, 1),
		finishedCh: make(chan struct{}, 1),
	}
}

func (m *Mock) Load(uri, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, uri)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.title = title
	m.position = 0
	m.duration = m.durations[uri]
	m.state = Paused
	select {
	case <-m.finishedCh:
	default:
	}
	return nil
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.state = Stopped
	m.title = ""
	m.position = 0
	m.duration = 0
}

func (m *Mock) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
}

func (m *Mock) SetGain(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	m.gain = level
	m.gainCalls = append(m.gainCalls, level)
}

func (m *Mock) Gain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gain
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Positions() <-chan time.Duration {
	return m.posCh
}

func (m *Mock) Finished() <-chan struct{} {
	return m.finishedCh
}

func (m *Mock) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.state = Stopped
}

// Test helpers

// SetDuration sets the duration reported for a URI on future loads.
func (m *Mock) SetDuration(uri string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[uri] = d
}

// SetPosition sets the reported position without emitting it.
func (m *Mock) SetPosition(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

// SetLoadError makes subsequent Load calls fail.
func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// EmitPosition publishes a position on the notification stream.
func (m *Mock) EmitPosition(pos time.Duration) {
	m.mu.Lock()
	m.position = pos
	m.mu.Unlock()
	select {
	case m.posCh <- pos:
	default:
	}
}

// SimulateFinished simulates the loaded source playing to its end.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	if m.state == Playing {
		m.state = Stopped
	}
	m.mu.Unlock()
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) GainCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.gainCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Deck at compile time.
var _ Deck = (*Mock)(nil)
