package ui

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/samdwyer/tilecaster/internal/input"
)

//go:embed static/index.html
var indexHTML []byte

const (
	writeWait       = time.Second
	shutdownTimeout = 2 * time.Second
)

// keyMessage is what the page sends for every key event.
type keyMessage struct {
	Type string `json:"type"` // "down", "up", "blur" or "quit"
	Key  string `json:"key"`
}

// Browser serves a page that renders frames into a <pre> block and reports
// key-down and key-up events over a websocket. Only the most recent
// connection receives frames.
type Browser struct {
	keys     *input.Tracker
	quit     *quitter
	upgrader websocket.Upgrader
	router   chi.Router
	server   *http.Server

	width, height int

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewBrowser starts listening on opts.Addr and serves in the background.
func NewBrowser(opts Options) (*Browser, error) {
	b := newBrowser(opts)

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, err
	}
	b.server = &http.Server{Handler: b.router}
	go func() {
		if err := b.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("browser host: %v", err)
		}
	}()
	log.Printf("browser host listening on %s", ln.Addr())
	return b, nil
}

func newBrowser(opts Options) *Browser {
	width, height := opts.viewport(DefaultWidth, DefaultHeight+2, 2)
	b := &Browser{
		keys: input.NewTracker(opts.KeyHold),
		quit: &quitter{fn: opts.OnQuit},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		width:  width,
		height: height,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", b.serveIndex)
	r.Get("/ws", b.serveWS)
	r.Get("/health", b.serveHealth)
	b.router = r
	return b
}

// Handler returns the host's routes.
func (b *Browser) Handler() http.Handler {
	return b.router
}

func (b *Browser) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (b *Browser) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"connected": b.Connected(),
	})
}

func (b *Browser) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	b.mu.Lock()
	if b.conn != nil {
		b.conn.Close()
	}
	b.conn = conn
	b.mu.Unlock()
	b.keys.Reset()

	b.readLoop(conn)
}

// readLoop applies key events from conn until it fails.
func (b *Browser) readLoop(conn *websocket.Conn) {
	defer b.drop(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg keyMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("websocket message: %v", err)
			continue
		}
		b.handleMessage(msg)
	}
}

func (b *Browser) handleMessage(msg keyMessage) {
	key := strings.ToLower(msg.Key)
	switch msg.Type {
	case "down":
		b.keys.Press(key)
	case "up":
		b.keys.Release(key)
	case "blur":
		b.keys.Reset()
	case "quit":
		b.quit.quit()
	}
}

// drop forgets conn if it is still the active connection.
func (b *Browser) drop(conn *websocket.Conn) {
	b.mu.Lock()
	active := b.conn == conn
	if active {
		b.conn = nil
	}
	b.mu.Unlock()

	conn.Close()
	if active {
		b.keys.Reset()
	}
}

// Connected reports whether a page is attached.
func (b *Browser) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// PushFrame sends frame to the attached page. Frames are dropped while no
// page is attached, and a failed write detaches the page.
func (b *Browser) PushFrame(frame string) error {
	b.mu.Lock()
	conn := b.conn
	if conn == nil {
		b.mu.Unlock()
		return nil
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteMessage(websocket.TextMessage, []byte(frame))
	b.mu.Unlock()

	if err != nil {
		log.Printf("websocket write: %v", err)
		b.drop(conn)
	}
	return nil
}

// IsPressed reports whether key is held.
func (b *Browser) IsPressed(key string) bool {
	return b.keys.IsPressed(key)
}

// CurrentKeys returns a snapshot of held keys.
func (b *Browser) CurrentKeys() input.KeySet {
	return b.keys.Snapshot()
}

// Viewport returns the configured view size.
func (b *Browser) Viewport() (int, int) {
	return b.width, b.height
}

// LineBreaks is true: the page shows frames in a <pre> block.
func (b *Browser) LineBreaks() bool {
	return true
}

// Close detaches the page and stops the server.
func (b *Browser) Close() error {
	b.mu.Lock()
	if b.conn != nil {
		b.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		b.conn.Close()
		b.conn = nil
	}
	b.mu.Unlock()

	if b.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return b.server.Shutdown(ctx)
}
