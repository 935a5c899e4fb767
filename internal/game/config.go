package game

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samdwyer/tilecaster/internal/gamedata"
	"github.com/samdwyer/tilecaster/internal/raycast"
	"github.com/samdwyer/tilecaster/internal/ui"
)

// GeneratedMapID selects a procedurally generated map instead of a
// catalogue entry.
const GeneratedMapID = "generated"

// Config holds game configuration options.
type Config struct {
	// Host selects where frames are shown.
	Host ui.Kind

	// MapID is a catalogue map ID or GeneratedMapID.
	MapID string

	// MapsFile is an optional JSON file of extra maps, in the same format as
	// the built-in catalogue.
	MapsFile string

	// Seed for random number generation. Used for reproducible map generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// FPS is the tick rate of the loop.
	FPS int

	FOVDegrees     float64
	RenderDistance float64

	// Addr is the browser host's listen address.
	Addr string

	// ViewportWidth and ViewportHeight override the measured view size.
	ViewportWidth, ViewportHeight int

	// KeyHold is how long a keypress counts as held on hosts without key-up events.
	KeyHold time.Duration

	// TraceRatio is the fraction of traces sampled.
	TraceRatio float64

	// LogFile receives log output while a host owns the terminal. Empty discards it.
	LogFile string
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Host:           ui.KindTerminal,
		MapID:          gamedata.DefaultMapID,
		FPS:            30,
		FOVDegrees:     45,
		RenderDistance: 16,
		Addr:           ":8080",
		KeyHold:        500 * time.Millisecond,
		TraceRatio:     0.05,
	}
}

// LoadConfig reads TILECASTER_* environment variables over the defaults.
func LoadConfig() (Config, error) {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	var err error

	if v, ok := lookup("TILECASTER_HOST"); ok {
		cfg.Host = ui.Kind(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup("TILECASTER_MAP"); ok {
		cfg.MapID = strings.TrimSpace(v)
	}
	if v, ok := lookup("TILECASTER_MAPS_FILE"); ok {
		cfg.MapsFile = strings.TrimSpace(v)
	}
	if v, ok := lookup("TILECASTER_SEED"); ok {
		if cfg.Seed, err = strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			return cfg, fmt.Errorf("TILECASTER_SEED: %w", err)
		}
	}
	if v, ok := lookup("TILECASTER_FPS"); ok {
		if cfg.FPS, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return cfg, fmt.Errorf("TILECASTER_FPS: %w", err)
		}
	}
	if v, ok := lookup("TILECASTER_FOV_DEGREES"); ok {
		if cfg.FOVDegrees, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return cfg, fmt.Errorf("TILECASTER_FOV_DEGREES: %w", err)
		}
	}
	if v, ok := lookup("TILECASTER_RENDER_DISTANCE"); ok {
		if cfg.RenderDistance, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return cfg, fmt.Errorf("TILECASTER_RENDER_DISTANCE: %w", err)
		}
	}
	if v, ok := lookup("TILECASTER_ADDR"); ok {
		cfg.Addr = strings.TrimSpace(v)
	}
	if v, ok := lookup("TILECASTER_VIEWPORT"); ok {
		if cfg.ViewportWidth, cfg.ViewportHeight, err = parseViewport(v); err != nil {
			return cfg, fmt.Errorf("TILECASTER_VIEWPORT: %w", err)
		}
	}
	if v, ok := lookup("TILECASTER_KEY_HOLD_MS"); ok {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cfg, fmt.Errorf("TILECASTER_KEY_HOLD_MS: %w", err)
		}
		cfg.KeyHold = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup("TILECASTER_TRACE_RATIO"); ok {
		if cfg.TraceRatio, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return cfg, fmt.Errorf("TILECASTER_TRACE_RATIO: %w", err)
		}
	}
	if v, ok := lookup("TILECASTER_LOG"); ok {
		cfg.LogFile = strings.TrimSpace(v)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseViewport parses "WxH", e.g. "120x40".
func parseViewport(v string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not WxH", v)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%q must be positive", v)
	}
	return w, h, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Host {
	case ui.KindTerminal, ui.KindStream, ui.KindBrowser:
	default:
		return fmt.Errorf("unknown host %q", c.Host)
	}
	if c.MapID == "" {
		return fmt.Errorf("map id is empty")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	// Written as negated ranges so NaN fails them too.
	if !(c.FOVDegrees > 0 && c.FOVDegrees < 180) {
		return fmt.Errorf("fov must be between 0 and 180 degrees, got %v", c.FOVDegrees)
	}
	if !(c.RenderDistance > 0) || math.IsInf(c.RenderDistance, 0) {
		return fmt.Errorf("render distance must be positive, got %v", c.RenderDistance)
	}
	if c.KeyHold < 0 {
		return fmt.Errorf("key hold must not be negative, got %v", c.KeyHold)
	}
	if !(c.TraceRatio >= 0 && c.TraceRatio <= 1) {
		return fmt.Errorf("trace ratio must be within [0, 1], got %v", c.TraceRatio)
	}
	return nil
}

// Params returns the ray-cast parameters.
func (c Config) Params() raycast.Params {
	return raycast.Params{
		RenderDistance: c.RenderDistance,
		FOV:            c.FOVDegrees * math.Pi / 180,
	}
}

// FrameInterval is the time between ticks.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
