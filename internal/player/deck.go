package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Both decks stream into the same speaker mixer at a fixed rate; sources with
// a different sample rate are resampled on the fly.
const mixRate = beep.SampleRate(44100)

// positionInterval is the period of the position notification stream.
const positionInterval = 250 * time.Millisecond

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(mixRate, mixRate.N(time.Second/10))
	})
	return speakerErr
}

// BeepDeck is a Deck backed by the beep speaker mixer.
type BeepDeck struct {
	mu sync.Mutex

	state    State
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	file     *os.File

	gain     float64
	title    string
	duration time.Duration

	// gen identifies the currently loaded source. The end-of-stream callback
	// carries the gen it was created for, so completions of stopped or
	// replaced sources are ignored.
	gen int

	posCh      chan time.Duration
	finishedCh chan struct{}
	endCh      chan int
	done       chan struct{}
	closed     bool
}

// NewDeck creates a deck and starts its notification goroutines.
// The audio device is initialized lazily on first Load.
func NewDeck() *BeepDeck {
	d := &BeepDeck{
		state:      Stopped,
		gain:       1.0,
		posCh:      make(chan time.Duration, 1),
		finishedCh: make(chan struct{}, 1),
		endCh:      make(chan int, 2),
		done:       make(chan struct{}),
	}
	go d.positionLoop()
	go d.endLoop()
	return d
}

// Load cues the given source without starting playback.
func (d *BeepDeck) Load(uri, title string) error {
	ext := strings.ToLower(filepath.Ext(uri))
	switch ext {
	case ".mp3", ".flac", ".wav", ".ogg":
	default:
		return fmt.Errorf("unsupported format: %s", ext)
	}

	if err := initSpeaker(); err != nil {
		return fmt.Errorf("init audio device: %w", err)
	}

	f, err := os.Open(uri)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(uri), err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	var stream beep.Streamer = streamer
	if format.SampleRate != mixRate {
		stream = beep.Resample(4, format.SampleRate, mixRate, streamer)
	}

	d.streamer = streamer
	d.format = format
	d.file = f
	d.title = title
	d.duration = format.SampleRate.D(streamer.Len())
	d.ctrl = &beep.Ctrl{Streamer: stream, Paused: true}
	d.volume = &effects.Volume{
		Streamer: d.ctrl,
		Base:     2,
		Volume:   levelToVolume(d.gain),
		Silent:   d.gain <= 0,
	}
	d.state = Paused

	// Discard any completion signal left over from the previous source.
	select {
	case <-d.finishedCh:
	default:
	}

	gen := d.gen
	speaker.Play(beep.Seq(d.volume, beep.Callback(func() {
		// Runs on the speaker goroutine with its lock held; hand off to
		// endLoop instead of touching deck state here.
		select {
		case d.endCh <- gen:
		default:
		}
	})))

	return nil
}

// Play starts or resumes playback of the loaded source.
func (d *BeepDeck) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctrl == nil || d.state == Playing {
		return
	}
	speaker.Lock()
	d.ctrl.Paused = false
	speaker.Unlock()
	d.state = Playing
}

// Pause pauses playback.
func (d *BeepDeck) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctrl == nil || d.state != Playing {
		return
	}
	speaker.Lock()
	d.ctrl.Paused = true
	speaker.Unlock()
	d.state = Paused
}

// Stop stops playback and releases the loaded source.
func (d *BeepDeck) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// stopLocked detaches the deck's streamer from the mixer and releases it.
// Caller must hold d.mu.
func (d *BeepDeck) stopLocked() {
	// After a natural completion the state is already Stopped but the source
	// is still attached; release on either condition.
	if d.ctrl == nil {
		return
	}

	// Invalidate the end-of-stream callback before detaching, so the
	// completion it fires on removal is ignored.
	d.gen++

	speaker.Lock()
	d.ctrl.Streamer = nil
	speaker.Unlock()

	if d.streamer != nil {
		d.streamer.Close()
		d.streamer = nil
	}
	if d.file != nil {
		d.file.Close()
		d.file = nil
	}
	d.ctrl = nil
	d.volume = nil
	d.title = ""
	d.duration = 0
	d.state = Stopped
}

// Seek moves playback to the given absolute position, clamped to the source
// length. Seeking is the deck's concern: callers pass positions unvalidated.
func (d *BeepDeck) Seek(pos time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streamer == nil {
		return
	}

	n := d.format.SampleRate.N(pos)
	n = max(n, 0)
	if maxN := d.streamer.Len(); n > maxN {
		n = maxN
	}

	speaker.Lock()
	_ = d.streamer.Seek(n)
	speaker.Unlock()
}

// SetGain sets the output gain (0.0 silent .. 1.0 full).
func (d *BeepDeck) SetGain(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.gain = level
	if d.volume == nil {
		return
	}
	speaker.Lock()
	d.volume.Volume = levelToVolume(level)
	d.volume.Silent = level <= 0
	speaker.Unlock()
}

// Gain returns the current output gain.
func (d *BeepDeck) Gain() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gain
}

// State returns the deck transport state.
func (d *BeepDeck) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Title returns the title of the loaded source, or "" if none.
func (d *BeepDeck) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// Position returns the current playback position.
func (d *BeepDeck) Position() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.positionLocked()
}

func (d *BeepDeck) positionLocked() time.Duration {
	if d.streamer == nil {
		return 0
	}
	// Read without the speaker lock - may be slightly stale but cannot
	// deadlock against the mixer.
	return d.format.SampleRate.D(d.streamer.Position())
}

// Duration returns the duration of the loaded source, or 0 if none.
func (d *BeepDeck) Duration() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duration
}

// Positions emits the playback position periodically while playing.
func (d *BeepDeck) Positions() <-chan time.Duration {
	return d.posCh
}

// Finished emits once when a loaded source plays to its natural end.
func (d *BeepDeck) Finished() <-chan struct{} {
	return d.finishedCh
}

// Close stops playback and shuts down the notification goroutines.
func (d *BeepDeck) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.stopLocked()
	d.mu.Unlock()
	close(d.done)
}

// positionLoop publishes the position while the deck is playing.
func (d *BeepDeck) positionLoop() {
	ticker := time.NewTicker(positionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.mu.Lock()
			playing := d.state == Playing
			pos := d.positionLocked()
			d.mu.Unlock()
			if !playing {
				continue
			}
			select {
			case d.posCh <- pos:
			default:
				// Drop if the subscriber is behind
			}
		}
	}
}

// endLoop turns end-of-stream callbacks into Finished notifications,
// discarding completions that belong to a replaced or stopped source.
func (d *BeepDeck) endLoop() {
	for {
		select {
		case <-d.done:
			return
		case gen := <-d.endCh:
			d.mu.Lock()
			current := gen == d.gen && d.state == Playing
			if current {
				d.state = Stopped
			}
			d.mu.Unlock()
			if !current {
				continue
			}
			select {
			case d.finishedCh <- struct{}{}:
			default:
			}
		}
	}
}
