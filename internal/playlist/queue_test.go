package playlist

import "testing"

func mkTracks(uris ...string) []Track {
	tracks := make([]Track, len(uris))
	for i, u := range uris {
		tracks[i] = Track{Title: u, URI: u, Path: u}
	}
	return tracks
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
}

func TestQueue_Replace(t *testing.T) {
	q := NewQueue()

	track := q.Replace(mkTracks("/a.mp3", "/b.mp3", "/c.mp3"), 1)

	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
	if track == nil || track.URI != "/b.mp3" {
		t.Errorf("returned track = %v, want /b.mp3", track)
	}
}

func TestQueue_Replace_ClampsStartIndex(t *testing.T) {
	tests := []struct {
		name       string
		startIndex int
		wantIndex  int
	}{
		{name: "negative clamps to 0", startIndex: -5, wantIndex: 0},
		{name: "past end clamps to last", startIndex: 99, wantIndex: 2},
		{name: "in range unchanged", startIndex: 2, wantIndex: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			q.Replace(mkTracks("/a.mp3", "/b.mp3", "/c.mp3"), tt.startIndex)
			if q.CurrentIndex() != tt.wantIndex {
				t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), tt.wantIndex)
			}
		})
	}
}

func TestQueue_Replace_Empty(t *testing.T) {
	q := NewQueue()
	q.Replace(mkTracks("/a.mp3"), 0)

	track := q.Replace(nil, 0)

	if track != nil {
		t.Errorf("returned track = %v, want nil", track)
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_Replace_KeepsModes(t *testing.T) {
	q := NewQueue()
	q.SetLoopMode(LoopAll)
	q.SetShuffle(true)

	q.Replace(mkTracks("/a.mp3"), 0)

	if q.LoopMode() != LoopAll {
		t.Errorf("LoopMode() = %v, want All", q.LoopMode())
	}
	if !q.Shuffle() {
		t.Error("Shuffle() = false, want true")
	}
}

func TestQueue_JumpTo_Clamps(t *testing.T) {
	q := NewQueue()
	q.Replace(mkTracks("/a.mp3", "/b.mp3", "/c.mp3"), 0)

	if track := q.JumpTo(99); track == nil || track.URI != "/c.mp3" {
		t.Errorf("JumpTo(99) = %v, want /c.mp3", track)
	}
	if track := q.JumpTo(-1); track == nil || track.URI != "/a.mp3" {
		t.Errorf("JumpTo(-1) = %v, want /a.mp3", track)
	}
}

func TestQueue_JumpTo_Empty(t *testing.T) {
	q := NewQueue()

	if track := q.JumpTo(0); track != nil {
		t.Errorf("JumpTo(0) = %v, want nil", track)
	}
}

func TestQueue_TargetIndex(t *testing.T) {
	tests := []struct {
		name    string
		loop    LoopMode
		current int
		dir     int
		manual  bool
		want    int
		wantOK  bool
	}{
		{name: "forward in range", loop: LoopOff, current: 0, dir: 1, want: 1, wantOK: true},
		{name: "backward in range", loop: LoopOff, current: 2, dir: -1, want: 1, wantOK: true},
		{name: "off at end automatic aborts", loop: LoopOff, current: 2, dir: 1, wantOK: false},
		{name: "off at end manual restarts", loop: LoopOff, current: 2, dir: 1, manual: true, want: 2, wantOK: true},
		{name: "off at start manual restarts", loop: LoopOff, current: 0, dir: -1, manual: true, want: 0, wantOK: true},
		{name: "all wraps forward", loop: LoopAll, current: 2, dir: 1, want: 0, wantOK: true},
		{name: "all wraps backward", loop: LoopAll, current: 0, dir: -1, want: 2, wantOK: true},
		{name: "one targets same index", loop: LoopOne, current: 1, dir: 1, want: 1, wantOK: true},
		{name: "one targets same index backward", loop: LoopOne, current: 1, dir: -1, want: 1, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			q.Replace(mkTracks("/a.mp3", "/b.mp3", "/c.mp3"), tt.current)
			q.SetLoopMode(tt.loop)

			got, ok := q.TargetIndex(tt.dir, tt.manual)
			if ok != tt.wantOK {
				t.Fatalf("TargetIndex() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("TargetIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQueue_TargetIndex_Empty(t *testing.T) {
	q := NewQueue()

	if _, ok := q.TargetIndex(1, true); ok {
		t.Error("TargetIndex() on empty queue should not resolve")
	}
}

func TestQueue_CycleLoopMode(t *testing.T) {
	q := NewQueue()

	if got := q.CycleLoopMode(); got != LoopAll {
		t.Errorf("first cycle = %v, want All", got)
	}
	if got := q.CycleLoopMode(); got != LoopOne {
		t.Errorf("second cycle = %v, want One", got)
	}
	if got := q.CycleLoopMode(); got != LoopOff {
		t.Errorf("third cycle = %v, want Off", got)
	}
}

func TestQueue_SetShuffle_PinsCurrentTrack(t *testing.T) {
	q := NewQueue()
	q.Replace(mkTracks("/a.mp3", "/b.mp3", "/c.mp3", "/d.mp3", "/e.mp3"), 2)

	reordered := q.SetShuffle(true)

	if !reordered {
		t.Fatal("SetShuffle(true) should reorder a 5-track queue")
	}
	if q.Len() != 5 {
		t.Errorf("Len() = %d, want 5", q.Len())
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
	if q.Current().URI != "/c.mp3" {
		t.Errorf("Current().URI = %q, want /c.mp3 (pre-shuffle current)", q.Current().URI)
	}

	// Remaining tracks must be a permutation of the others.
	want := map[string]int{"/a.mp3": 1, "/b.mp3": 1, "/d.mp3": 1, "/e.mp3": 1}
	got := map[string]int{}
	for _, track := range q.Tracks()[1:] {
		got[track.URI]++
	}
	for uri, n := range want {
		if got[uri] != n {
			t.Errorf("track %s appears %d times after shuffle, want %d", uri, got[uri], n)
		}
	}
}

func TestQueue_SetShuffle_SingleTrack(t *testing.T) {
	q := NewQueue()
	q.Replace(mkTracks("/a.mp3"), 0)

	reordered := q.SetShuffle(true)

	if reordered {
		t.Error("SetShuffle(true) should not reorder a single-track queue")
	}
	if !q.Shuffle() {
		t.Error("Shuffle() = false, want true (flag recorded even without reorder)")
	}
}

func TestQueue_SetShuffle_Disable(t *testing.T) {
	q := NewQueue()
	q.Replace(mkTracks("/a.mp3", "/b.mp3"), 0)
	q.SetShuffle(true)

	reordered := q.SetShuffle(false)

	if reordered {
		t.Error("SetShuffle(false) should not reorder")
	}
	if q.Shuffle() {
		t.Error("Shuffle() = true, want false")
	}
}
