package ui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tilecaster/internal/gamedata"
	"github.com/samdwyer/tilecaster/internal/input"
)

// Screen is a tcell host. Rows are native, so frames carry no line breaks
// and wrap at the screen width.
type Screen struct {
	screen tcell.Screen
	keys   *input.Tracker
	quit   *quitter
	styles styleSet

	width, height int // View size; the status line sits above it
	miniW, miniH  int
}

// NewScreen creates and initializes a new terminal screen.
func NewScreen(opts Options) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newScreen(s, opts)
}

func newScreen(s tcell.Screen, opts Options) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()

	w, h := s.Size()
	width, height := opts.viewport(w, h, 1)

	scr := &Screen{
		screen: s,
		keys:   input.NewTracker(opts.KeyHold),
		quit:   &quitter{fn: opts.OnQuit},
		styles: newStyleSet(opts.Palette),
		width:  width,
		height: height,
		miniW:  opts.MiniMapWidth,
		miniH:  opts.MiniMapHeight,
	}
	go scr.pollEvents()
	return scr, nil
}

// pollEvents feeds key presses into the tracker until the screen is closed.
func (s *Screen) pollEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return // Fini was called
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			s.handleKey(ev.Key(), ev.Rune())
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// handleKey records a key. tcell reports no key-up, so runes are tapped.
func (s *Screen) handleKey(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.quit.quit()
	case tcell.KeyRune:
		s.keys.Tap(string(unicode.ToLower(r)))
	}
}

// PushFrame draws frame row by row and shows it.
func (s *Screen) PushFrame(frame string) error {
	s.screen.Clear()

	x, y := 0, 0
	for _, r := range frame {
		s.screen.SetContent(x, y, r, nil, s.styleAt(x, y, r))
		x++
		if x == s.width {
			x = 0
			y++
		}
	}

	s.screen.Show()
	return nil
}

// styleAt picks a style for a cell. Row 0 is the status line, so frame
// row y is screen row y+1.
func (s *Screen) styleAt(x, y int, r rune) tcell.Style {
	if y == 0 {
		return s.styles.status
	}
	if x >= 1 && x <= s.miniW && y-1 >= 1 && y-1 <= s.miniH {
		if r >= '←' && r <= '⇿' { // Arrows block
			return s.styles.marker
		}
		return s.styles.miniMap
	}
	switch r {
	case '█', '▓', '▒', '░':
		return s.styles.wall
	case '#', 'x', '.', '-':
		return s.styles.floor
	default:
		return s.styles.status
	}
}

// IsPressed reports whether key is held.
func (s *Screen) IsPressed(key string) bool {
	return s.keys.IsPressed(key)
}

// CurrentKeys returns a snapshot of held keys.
func (s *Screen) CurrentKeys() input.KeySet {
	return s.keys.Snapshot()
}

// Viewport returns the view size below the status line.
func (s *Screen) Viewport() (int, int) {
	return s.width, s.height
}

// LineBreaks is false: the screen has native rows.
func (s *Screen) LineBreaks() bool {
	return false
}

// Close finalizes the screen and restores terminal state.
func (s *Screen) Close() error {
	s.screen.Fini()
	return nil
}

// styleSet holds the cell styles derived from a palette.
type styleSet struct {
	status, wall, floor, miniMap, marker tcell.Style
}

func newStyleSet(p gamedata.Palette) styleSet {
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	return styleSet{
		status:  base.Foreground(tcell.ColorWhite),
		wall:    base.Foreground(p.Wall),
		floor:   base.Foreground(p.Floor),
		miniMap: base.Foreground(p.MiniMap),
		marker:  base.Foreground(p.Marker).Bold(true),
	}
}
