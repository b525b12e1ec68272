// Package ui is the presentation layer: a single-screen bubbletea program
// that renders playback state and maps keys onto engine operations. All
// player logic lives in the engine; this model only mirrors its events.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/crossdeck/internal/engine"
)

// Model is the bubbletea model for the player screen.
type Model struct {
	engine *engine.Engine
	sub    *engine.Subscription

	width     int
	title     string
	index     int
	total     int
	playing   bool
	position  time.Duration
	duration  time.Duration
	crossfade int
	lastErr   string

	quitting bool
}

// New creates the model and subscribes it to the engine's event streams.
func New(e *engine.Engine) Model {
	return Model{
		engine:    e,
		sub:       e.Subscribe(),
		index:     e.CurrentIndex(),
		total:     e.Len(),
		playing:   e.Playing(),
		crossfade: e.CrossfadeSeconds(),
		title:     currentTitle(e),
	}
}

func currentTitle(e *engine.Engine) string {
	if track := e.CurrentTrack(); track != nil {
		return track.Title
	}
	return ""
}

func (m Model) Init() tea.Cmd {
	return m.watchEvents()
}

// Event messages forwarded from the engine subscription.
type (
	trackMsg      engine.TrackChange
	stateMsg      engine.StateChange
	positionMsg   engine.PositionChange
	durationMsg   engine.DurationChange
	crossfadeMsg  engine.CrossfadeChange
	errorMsg      engine.ErrorEvent
	engineDoneMsg struct{}
)

// watchEvents waits for the next engine event and turns it into a message.
// Re-armed after every delivery.
func (m Model) watchEvents() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.Track:
			return trackMsg(e)
		case e := <-sub.State:
			return stateMsg(e)
		case e := <-sub.Position:
			return positionMsg(e)
		case e := <-sub.Duration:
			return durationMsg(e)
		case e := <-sub.Crossfade:
			return crossfadeMsg(e)
		case e := <-sub.Error:
			return errorMsg(e)
		case <-sub.Done:
			return engineDoneMsg{}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case trackMsg:
		m.title = msg.Title
		m.index = msg.Index
		m.total = m.engine.Len()
		m.position = 0
		return m, m.watchEvents()

	case stateMsg:
		m.playing = msg.Playing
		return m, m.watchEvents()

	case positionMsg:
		m.position = msg.Position
		return m, m.watchEvents()

	case durationMsg:
		m.duration = msg.Duration
		return m, m.watchEvents()

	case crossfadeMsg:
		m.crossfade = msg.Seconds
		return m, m.watchEvents()

	case errorMsg:
		m.lastErr = msg.Err.Error()
		return m, m.watchEvents()

	case engineDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case " ", "space":
		m.engine.Toggle()

	case "n", "pgdown":
		if err := m.engine.Next(true); err != nil {
			m.lastErr = err.Error()
		}

	case "p", "pgup":
		if err := m.engine.Previous(true); err != nil {
			m.lastErr = err.Error()
		}

	case "N":
		if err := m.engine.Next(false); err != nil {
			m.lastErr = err.Error()
		}

	case "P":
		if err := m.engine.Previous(false); err != nil {
			m.lastErr = err.Error()
		}

	case "s":
		m.engine.SetShuffle(!m.engine.Shuffle())
		m.index = m.engine.CurrentIndex()
		m.title = currentTitle(m.engine)

	case "l":
		m.engine.CycleLoopMode()

	case "+", "=":
		m.crossfade = m.engine.SetCrossfadeSeconds(m.engine.CrossfadeSeconds() + 1)

	case "-":
		m.crossfade = m.engine.SetCrossfadeSeconds(m.engine.CrossfadeSeconds() - 1)

	case "right":
		m.engine.Seek(m.engine.Position() + 5*time.Second)

	case "left":
		pos := m.engine.Position() - 5*time.Second
		if pos < 0 {
			pos = 0
		}
		m.engine.Seek(pos)

	case "up":
		m.engine.SetVolume(m.engine.Volume() + 0.05)

	case "down":
		m.engine.SetVolume(m.engine.Volume() - 0.05)
	}

	return m, nil
}
