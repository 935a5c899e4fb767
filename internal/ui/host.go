// Package ui provides the hosts a game can run on: a tcell screen, a raw
// text stream, and a browser page fed over a websocket.
package ui

import (
	"sync"
	"time"

	"github.com/samdwyer/tilecaster/internal/gamedata"
	"github.com/samdwyer/tilecaster/internal/input"
)

// Host is where frames go and where key state comes from.
type Host interface {
	// PushFrame replaces whatever the host showed last with frame.
	PushFrame(frame string) error
	// IsPressed reports whether key is held right now.
	IsPressed(key string) bool
	// CurrentKeys returns a snapshot of every held key.
	CurrentKeys() input.KeySet
	// Viewport returns the size of the 3D view in cells, excluding the status line.
	Viewport() (width, height int)
	// LineBreaks reports whether frames need a line break at the start of
	// every row because the sink has no fixed row width.
	LineBreaks() bool
	// Close releases the host and restores the terminal if it owns one.
	Close() error
}

// Kind selects a host implementation.
type Kind string

const (
	KindTerminal Kind = "terminal"
	KindStream   Kind = "stream"
	KindBrowser  Kind = "browser"
)

// Options configure a host.
type Options struct {
	// Width and Height override the viewport size. Zero means measure the
	// terminal, or use the default for hosts without one.
	Width, Height int

	// KeyHold is how long a keypress counts as held on hosts that never
	// see the key go up.
	KeyHold time.Duration

	// OnQuit is called once when the user asks to quit (Escape or Ctrl-C).
	OnQuit func()

	// Palette colors the terminal host. MiniMapWidth and MiniMapHeight
	// mark the overlay region so it can be colored separately.
	Palette                     gamedata.Palette
	MiniMapWidth, MiniMapHeight int

	// Addr is the browser host's listen address.
	Addr string
}

// Default viewport for hosts that cannot measure a terminal.
const (
	DefaultWidth  = 120
	DefaultHeight = 40
)

// viewport resolves the configured size against a measured one, keeping
// statusRows free for the status line.
func (o Options) viewport(measuredW, measuredH, statusRows int) (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = measuredW
	}
	if h <= 0 {
		h = measuredH - statusRows
	}
	return max(w, 1), max(h, 1)
}

// quitter wraps OnQuit so it fires at most once.
type quitter struct {
	once sync.Once
	fn   func()
}

func (q *quitter) quit() {
	q.once.Do(func() {
		if q.fn != nil {
			q.fn()
		}
	})
}
