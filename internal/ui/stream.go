package ui

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/samdwyer/tilecaster/internal/input"
)

// ANSI sequences for the stream host.
const (
	ansiClear      = "\x1b[2J\x1b[H"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// Control bytes that end the run.
const (
	byteCtrlC  = 0x03
	byteEscape = 0x1b
)

// Stream writes every frame as plain text after an ANSI clear and reads
// single keypresses from a raw-mode stdin.
type Stream struct {
	out  *bufio.Writer
	mu   sync.Mutex
	keys *input.Tracker
	quit *quitter

	width, height int
	raw           bool // Terminal is in raw mode, so \n needs a \r
	restore       func() error
}

// NewStream puts stdin into raw mode and measures stdout.
func NewStream(opts Options) (*Stream, error) {
	inFd := int(os.Stdin.Fd())
	outFd := int(os.Stdout.Fd())

	w, h, err := term.GetSize(outFd)
	if err != nil {
		w, h = DefaultWidth, DefaultHeight
	}

	restore := func() error { return nil }
	raw := false
	if term.IsTerminal(inFd) {
		state, err := term.MakeRaw(inFd)
		if err != nil {
			return nil, err
		}
		raw = true
		restore = func() error { return term.Restore(inFd, state) }
	}

	// Status line plus the break that ends it.
	width, height := opts.viewport(w, h, 2)
	s := newStream(os.Stdin, os.Stdout, width, height, opts)
	s.raw = raw
	s.restore = restore
	s.out.WriteString(ansiHideCursor)
	return s, nil
}

func newStream(in io.Reader, out io.Writer, width, height int, opts Options) *Stream {
	s := &Stream{
		out:     bufio.NewWriter(out),
		keys:    input.NewTracker(opts.KeyHold),
		quit:    &quitter{fn: opts.OnQuit},
		width:   width,
		height:  height,
		restore: func() error { return nil },
	}
	go s.readKeys(in)
	return s
}

// readKeys taps every printable byte read from in. A lone Escape or Ctrl-C
// quits; longer escape sequences (arrow keys) are ignored.
func (s *Stream) readKeys(in io.Reader) {
	buf := make([]byte, 1024)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			s.handleInput(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (s *Stream) handleInput(chunk []byte) {
	if len(chunk) == 1 && chunk[0] == byteEscape {
		s.quit.quit()
		return
	}
	if chunk[0] == byteEscape {
		return
	}
	for len(chunk) > 0 {
		r, size := utf8.DecodeRune(chunk)
		chunk = chunk[size:]
		switch {
		case r == byteCtrlC:
			s.quit.quit()
			return
		case unicode.IsPrint(r):
			s.keys.Tap(string(unicode.ToLower(r)))
		}
	}
}

// PushFrame clears the terminal and writes frame.
func (s *Stream) PushFrame(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raw {
		// Raw mode turns off output post-processing.
		frame = strings.ReplaceAll(frame, "\n", "\r\n")
	}
	s.out.WriteString(ansiClear)
	s.out.WriteString(frame)
	return s.out.Flush()
}

// IsPressed reports whether key is held.
func (s *Stream) IsPressed(key string) bool {
	return s.keys.IsPressed(key)
}

// CurrentKeys returns a snapshot of held keys.
func (s *Stream) CurrentKeys() input.KeySet {
	return s.keys.Snapshot()
}

// Viewport returns the view size below the status line.
func (s *Stream) Viewport() (int, int) {
	return s.width, s.height
}

// LineBreaks is true: a text stream has no row width of its own.
func (s *Stream) LineBreaks() bool {
	return true
}

// Close shows the cursor again and leaves raw mode.
func (s *Stream) Close() error {
	s.mu.Lock()
	s.out.WriteString(ansiShowCursor)
	s.out.Flush()
	s.mu.Unlock()
	return s.restore()
}
