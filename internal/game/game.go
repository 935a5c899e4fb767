package game

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/tilecaster/internal/entity"
	"github.com/samdwyer/tilecaster/internal/raycast"
	"github.com/samdwyer/tilecaster/internal/render"
	"github.com/samdwyer/tilecaster/internal/telemetry"
	"github.com/samdwyer/tilecaster/internal/ui"
	"github.com/samdwyer/tilecaster/internal/world"
)

// Game holds the entire game state. Everything here is owned by the loop
// and only touched from Tick.
type Game struct {
	host   ui.Host
	grid   *world.GridMap
	caster *raycast.Caster
	player *entity.Player
	speeds entity.Speeds

	frame *render.Frame
	rays  []raycast.Ray

	interval time.Duration
	prev     time.Time
	fps      float64
	now      func() time.Time

	state  State
	tracer trace.Tracer
}

// New creates a game on level that draws to host.
func New(level Level, host ui.Host, cfg Config) *Game {
	return &Game{
		host:     host,
		grid:     level.Grid,
		caster:   raycast.NewCaster(level.Grid, cfg.Params()),
		player:   entity.NewPlayer(level.SpawnX, level.SpawnY),
		speeds:   entity.DefaultSpeeds(),
		interval: cfg.FrameInterval(),
		now:      time.Now,
		state:    StateIdle,
		tracer:   telemetry.Tracer("game"),
	}
}

// State returns the loop state.
func (g *Game) State() State {
	return g.state
}

// Player returns the player. It must not be modified outside the loop.
func (g *Game) Player() *entity.Player {
	return g.player
}

// Start moves the game to Running and sets the clock. Calling it again is a no-op.
func (g *Game) Start(ctx context.Context) {
	if g.state == StateRunning {
		return
	}

	_, span := g.tracer.Start(ctx, "game.init")
	defer span.End()

	w, h := g.host.Viewport()
	span.SetAttributes(
		attribute.Int("map.width", g.grid.Width()),
		attribute.Int("map.height", g.grid.Height()),
		attribute.Float64("player.start_x", g.player.X),
		attribute.Float64("player.start_y", g.player.Y),
		attribute.Int("viewport.width", w),
		attribute.Int("viewport.height", h),
	)

	g.prev = g.now()
	g.state = StateRunning
}

// Tick runs one frame: snapshot the keys, move the player, cast every
// column, compose the frame and push it to the host.
func (g *Game) Tick(ctx context.Context) error {
	if g.state != StateRunning {
		g.Start(ctx)
	}

	_, span := g.tracer.Start(ctx, "game.tick")
	defer span.End()

	now := g.now()
	elapsed := now.Sub(g.prev)
	if elapsed <= 0 {
		// Clock went backwards or did not move; count it as one tick.
		elapsed = g.interval
	}
	g.prev = now
	seconds := elapsed.Seconds()
	g.fps = 1 / seconds

	keys := g.host.CurrentKeys()
	g.player.Advance(keys, seconds, g.speeds)

	w, h := g.host.Viewport()
	if g.frame == nil || g.frame.Width != w || g.frame.Height != h {
		g.frame = render.NewFrame(w, h)
	}
	g.rays = g.caster.CastAll(g.player, w, g.rays)

	text := render.Compose(g.frame, g.rays, g.grid, render.Status{
		Player: g.player,
		Keys:   keys,
		FPS:    g.fps,
	}, render.Options{
		RenderDistance: g.caster.Params().RenderDistance,
		LineBreaks:     g.host.LineBreaks(),
	})

	span.SetAttributes(
		attribute.String("keys", keys.String()),
		attribute.Float64("player.x", g.player.X),
		attribute.Float64("player.y", g.player.Y),
		attribute.Float64("player.angle", g.player.Angle),
		attribute.Float64("fps", g.fps),
		attribute.Int("rays", len(g.rays)),
	)

	if err := g.host.PushFrame(text); err != nil {
		span.RecordError(err)
		return fmt.Errorf("push frame: %w", err)
	}
	return nil
}

// Run ticks at the configured rate until ctx is cancelled. A tick never
// overlaps the next one; if a tick runs long, the ticker drops the
// intervals it missed.
func (g *Game) Run(ctx context.Context) error {
	g.Start(ctx)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		if err := g.Tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
