package engine

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendTrack(TrackChange{Title: "Song", Index: 1})
		sub.sendState(StateChange{Playing: true})
		sub.sendPosition(30 * time.Second)
		sub.sendDuration(3 * time.Minute)
		sub.sendCrossfade(5)
		sub.sendError(ErrorEvent{Op: "advance", URI: "/x.mp3", Err: errors.New("boom")})

		track := <-sub.Track
		if track.Title != "Song" || track.Index != 1 {
			t.Errorf("Track = %+v, want {Song 1}", track)
		}

		state := <-sub.State
		if !state.Playing {
			t.Error("State.Playing = false, want true")
		}

		pos := <-sub.Position
		if pos.Position != 30*time.Second {
			t.Errorf("Position = %v, want 30s", pos.Position)
		}

		dur := <-sub.Duration
		if dur.Duration != 3*time.Minute {
			t.Errorf("Duration = %v, want 3m", dur.Duration)
		}

		fade := <-sub.Crossfade
		if fade.Seconds != 5 {
			t.Errorf("Crossfade.Seconds = %d, want 5", fade.Seconds)
		}

		ev := <-sub.Error
		if ev.Op != "advance" || ev.URI != "/x.mp3" {
			t.Errorf("Error = %+v, want advance for /x.mp3", ev)
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()

	// Fill the buffer and keep sending; the extra events must be dropped,
	// never blocked on.
	for i := 0; i < eventBufferSize+5; i++ {
		sub.sendPosition(time.Duration(i) * time.Second)
	}

	count := 0
	for {
		select {
		case <-sub.Position:
			count++
		default:
			if count != eventBufferSize {
				t.Errorf("buffered events = %d, want %d", count, eventBufferSize)
			}
			return
		}
	}
}

func TestEngine_MultipleSubscribers(t *testing.T) {
	e, _, _ := newTestEngine()
	defer e.Close()
	sub1 := e.Subscribe()
	sub2 := e.Subscribe()

	e.SetCrossfadeSeconds(7)

	for _, sub := range []*Subscription{sub1, sub2} {
		fade := <-sub.Crossfade
		if fade.Seconds != 7 {
			t.Errorf("Crossfade.Seconds = %d, want 7", fade.Seconds)
		}
	}
}
