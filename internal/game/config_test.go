package game

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/samdwyer/tilecaster/internal/gamedata"
	"github.com/samdwyer/tilecaster/internal/ui"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(envLookup(nil))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("loadConfig() = %+v, want %+v", cfg, DefaultConfig())
	}

	p := cfg.Params()
	if p.RenderDistance != 16 || math.Abs(p.FOV-math.Pi/4) > 1e-12 {
		t.Errorf("Params() = %+v, want render distance 16 and fov pi/4", p)
	}
	if got := cfg.FrameInterval(); got != time.Second/30 {
		t.Errorf("FrameInterval() = %v, want %v", got, time.Second/30)
	}
	// Must outlast a terminal's initial auto-repeat delay.
	if cfg.KeyHold != 500*time.Millisecond {
		t.Errorf("KeyHold = %v, want 500ms", cfg.KeyHold)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(envLookup(map[string]string{
		"TILECASTER_HOST":            " Browser ",
		"TILECASTER_MAP":             "generated",
		"TILECASTER_MAPS_FILE":       "maps/extra.json",
		"TILECASTER_SEED":            "42",
		"TILECASTER_FPS":             "60",
		"TILECASTER_FOV_DEGREES":     "90",
		"TILECASTER_RENDER_DISTANCE": "8.5",
		"TILECASTER_ADDR":            "127.0.0.1:9000",
		"TILECASTER_VIEWPORT":        "100x30",
		"TILECASTER_KEY_HOLD_MS":     "250",
		"TILECASTER_TRACE_RATIO":     "1",
		"TILECASTER_LOG":             "/tmp/tilecaster.log",
	}))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	want := Config{
		Host:           ui.KindBrowser,
		MapID:          GeneratedMapID,
		MapsFile:       "maps/extra.json",
		Seed:           42,
		FPS:            60,
		FOVDegrees:     90,
		RenderDistance: 8.5,
		Addr:           "127.0.0.1:9000",
		ViewportWidth:  100,
		ViewportHeight: 30,
		KeyHold:        250 * time.Millisecond,
		TraceRatio:     1,
		LogFile:        "/tmp/tilecaster.log",
	}
	if cfg != want {
		t.Errorf("loadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TILECASTER_HOST", "gui"},
		{"TILECASTER_MAP", " "},
		{"TILECASTER_SEED", "abc"},
		{"TILECASTER_FPS", "0"},
		{"TILECASTER_FPS", "fast"},
		{"TILECASTER_FOV_DEGREES", "180"},
		{"TILECASTER_FOV_DEGREES", "NaN"},
		{"TILECASTER_RENDER_DISTANCE", "-1"},
		{"TILECASTER_RENDER_DISTANCE", "NaN"},
		{"TILECASTER_RENDER_DISTANCE", "+Inf"},
		{"TILECASTER_VIEWPORT", "100"},
		{"TILECASTER_VIEWPORT", "0x10"},
		{"TILECASTER_VIEWPORT", "ax10"},
		{"TILECASTER_KEY_HOLD_MS", "-5"},
		{"TILECASTER_TRACE_RATIO", "1.5"},
		{"TILECASTER_TRACE_RATIO", "NaN"},
	}
	for _, tt := range tests {
		if _, err := loadConfig(envLookup(map[string]string{tt.key: tt.value})); err == nil {
			t.Errorf("loadConfig(%s=%q) error = nil, want error", tt.key, tt.value)
		}
	}
}

func TestLoadLevelCatalogue(t *testing.T) {
	maps := gamedata.MustLoadMapRegistry()
	cfg := DefaultConfig()

	level, err := LoadLevel(context.Background(), cfg, maps)
	if err != nil {
		t.Fatalf("LoadLevel() error = %v", err)
	}
	def := maps.GetByID(gamedata.DefaultMapID)
	if level.Name != def.Name || level.SpawnX != def.Spawn.X || level.SpawnY != def.Spawn.Y {
		t.Errorf("LoadLevel() = %q at (%v, %v), want %q at (%v, %v)",
			level.Name, level.SpawnX, level.SpawnY, def.Name, def.Spawn.X, def.Spawn.Y)
	}
	if level.Grid.Width() != len(def.Rows[0]) || level.Grid.Height() != len(def.Rows) {
		t.Errorf("grid = %dx%d, want %dx%d", level.Grid.Width(), level.Grid.Height(), len(def.Rows[0]), len(def.Rows))
	}

	cfg.MapID = "nowhere"
	if _, err := LoadLevel(context.Background(), cfg, maps); err == nil {
		t.Error("LoadLevel(unknown map) error = nil, want error")
	}
}

func TestLoadLevelGenerated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MapID = GeneratedMapID
	cfg.Seed = 7

	first, err := LoadLevel(context.Background(), cfg, gamedata.MustLoadMapRegistry())
	if err != nil {
		t.Fatalf("LoadLevel() error = %v", err)
	}
	second, _ := LoadLevel(context.Background(), cfg, gamedata.MustLoadMapRegistry())

	if first.Grid.String() != second.Grid.String() {
		t.Error("same seed produced different maps")
	}
	if first.Grid.IsWall(int(first.SpawnX), int(first.SpawnY)) {
		t.Errorf("spawn (%v, %v) is inside a wall", first.SpawnX, first.SpawnY)
	}
	if first.Palette != gamedata.DefaultPalette() {
		t.Errorf("Palette = %+v, want default", first.Palette)
	}
}

func TestValidateRejectsNaN(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.FOVDegrees = math.NaN() },
		func(c *Config) { c.RenderDistance = math.NaN() },
		func(c *Config) { c.TraceRatio = math.NaN() },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%+v) error = nil, want error", cfg)
		}
	}
}
