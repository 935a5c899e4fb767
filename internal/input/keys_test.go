package input

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(hold time.Duration) (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := NewTracker(hold)
	tr.now = clock.now
	return tr, clock
}

func TestKeySet(t *testing.T) {
	s := NewKeySet("z", "q", "z")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Has("q") || !s.Has("z") {
		t.Errorf("Has() missing keys in %v", s.Keys())
	}
	if s.Has("s") {
		t.Error("Has(\"s\") = true, want false")
	}
	if got := s.String(); got != "qz" {
		t.Errorf("String() = %q, want %q", got, "qz")
	}

	var empty KeySet
	if empty.Has("z") || empty.Len() != 0 || empty.String() != "" {
		t.Error("zero KeySet should be empty")
	}
}

func TestTrackerPressRelease(t *testing.T) {
	tr, clock := newTestTracker(100 * time.Millisecond)

	tr.Press(KeyMoveForward)
	clock.advance(time.Hour)
	if !tr.IsPressed(KeyMoveForward) {
		t.Error("pressed key expired without release")
	}

	snap := tr.Snapshot()
	tr.Release(KeyMoveForward)
	if tr.IsPressed(KeyMoveForward) {
		t.Error("IsPressed() after Release = true, want false")
	}
	if !snap.Has(KeyMoveForward) {
		t.Error("snapshot changed after Release")
	}
}

func TestTrackerTapExpires(t *testing.T) {
	tr, clock := newTestTracker(100 * time.Millisecond)

	tr.Tap(KeyRotateLeft)
	if !tr.Snapshot().Has(KeyRotateLeft) {
		t.Fatal("tapped key missing from snapshot")
	}

	clock.advance(60 * time.Millisecond)
	tr.Tap(KeyRotateLeft) // auto-repeat extends the hold
	clock.advance(60 * time.Millisecond)
	if !tr.IsPressed(KeyRotateLeft) {
		t.Error("repeat did not extend hold")
	}

	clock.advance(50 * time.Millisecond)
	if tr.Snapshot().Len() != 0 {
		t.Error("tapped key still pressed after hold elapsed")
	}
}

func TestTrackerTapDoesNotShortenPress(t *testing.T) {
	tr, clock := newTestTracker(10 * time.Millisecond)
	tr.Press(KeyMoveBackward)
	tr.Tap(KeyMoveBackward)
	clock.advance(time.Second)
	if !tr.IsPressed(KeyMoveBackward) {
		t.Error("Tap turned a held key into a timed one")
	}
}

func TestTrackerReset(t *testing.T) {
	tr, _ := newTestTracker(time.Second)
	tr.Press("q")
	tr.Tap("d")
	tr.Reset()
	if n := tr.Snapshot().Len(); n != 0 {
		t.Errorf("Snapshot().Len() after Reset = %d, want 0", n)
	}
}

func TestTrackerConcurrentUse(t *testing.T) {
	tr := NewTracker(time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				tr.Press("z")
				tr.Tap("q")
				tr.Release("z")
			}
		}()
	}
	for j := 0; j < 500; j++ {
		tr.Snapshot()
	}
	wg.Wait()
}
