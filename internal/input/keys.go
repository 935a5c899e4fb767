// Package input tracks pressed keys for the game loop.
//
// Hosts feed key events from their own goroutines into a Tracker. Once per
// tick the loop takes a Snapshot, which is immutable for the rest of the tick.
package input

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zyedidia/generic/mapset"
)

// Key names the engine reacts to. They are arbitrary single-character tokens
// and must stay as they are.
const (
	KeyRotateLeft   = "q"
	KeyRotateRight  = "d"
	KeyMoveForward  = "z"
	KeyMoveBackward = "s"
)

// KeySet is an immutable set of pressed key names.
type KeySet struct {
	set mapset.Set[string]
}

// NewKeySet returns a set holding the given keys.
func NewKeySet(keys ...string) KeySet {
	set := mapset.New[string]()
	for _, k := range keys {
		set.Put(k)
	}
	return KeySet{set: set}
}

// Has reports whether key is pressed.
func (s KeySet) Has(key string) bool {
	return s.set.Has(key)
}

// Len returns the number of pressed keys.
func (s KeySet) Len() int {
	return s.set.Size()
}

// Keys returns the pressed keys in sorted order.
func (s KeySet) Keys() []string {
	keys := make([]string, 0, s.Len())
	s.set.Each(func(k string) {
		keys = append(keys, k)
	})
	sort.Strings(keys)
	return keys
}

// String joins the sorted keys, e.g. "dz".
func (s KeySet) String() string {
	return strings.Join(s.Keys(), "")
}

// Tracker holds the live pressed-key state. It is safe for concurrent use:
// host listeners write to it while the loop reads snapshots.
type Tracker struct {
	mu      sync.Mutex
	pressed map[string]time.Time // release deadline; zero means held until Release
	hold    time.Duration
	now     func() time.Time
}

// NewTracker creates a tracker. hold is how long Tap keeps a key pressed.
func NewTracker(hold time.Duration) *Tracker {
	return &Tracker{
		pressed: make(map[string]time.Time),
		hold:    hold,
		now:     time.Now,
	}
}

// Press marks key as held until Release is called. Use this for hosts that
// deliver key-up events.
func (t *Tracker) Press(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed[key] = time.Time{}
}

// Release marks key as no longer pressed.
func (t *Tracker) Release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pressed, key)
}

// Tap marks key as pressed for the hold duration. Terminals only report key
// presses (and auto-repeat), so each repeat extends the deadline.
func (t *Tracker) Tap(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if deadline, ok := t.pressed[key]; ok && deadline.IsZero() {
		return
	}
	t.pressed[key] = t.now().Add(t.hold)
}

// Reset releases every key.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.pressed)
}

// IsPressed reports whether key is currently pressed.
func (t *Tracker) IsPressed(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	deadline, ok := t.pressed[key]
	return ok && t.live(deadline)
}

// Snapshot returns the keys pressed right now and drops expired taps.
func (t *Tracker) Snapshot() KeySet {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := mapset.New[string]()
	for key, deadline := range t.pressed {
		if !t.live(deadline) {
			delete(t.pressed, key)
			continue
		}
		set.Put(key)
	}
	return KeySet{set: set}
}

// live must be called with mu held.
func (t *Tracker) live(deadline time.Time) bool {
	return deadline.IsZero() || t.now().Before(deadline)
}
