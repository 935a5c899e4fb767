package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/samdwyer/tilecaster/internal/gamedata"
	"github.com/samdwyer/tilecaster/internal/world"
)

// Level is a parsed map with where to start and how to color it.
type Level struct {
	Name           string
	Grid           *world.GridMap
	SpawnX, SpawnY float64
	Palette        gamedata.Palette
}

// LoadLevel resolves cfg.MapID against the catalogue, or generates a map
// when it is GeneratedMapID.
func LoadLevel(ctx context.Context, cfg Config, maps *gamedata.MapRegistry) (Level, error) {
	if cfg.MapID == GeneratedMapID {
		return generateLevel(ctx, cfg.Seed)
	}

	def := maps.GetByID(cfg.MapID)
	if def == nil {
		return Level{}, fmt.Errorf("unknown map %q (have %v)", cfg.MapID, maps.IDs())
	}
	grid, err := def.Grid()
	if err != nil {
		return Level{}, fmt.Errorf("map %q: %w", def.ID, err)
	}
	return Level{
		Name:    def.Name,
		Grid:    grid,
		SpawnX:  def.Spawn.X,
		SpawnY:  def.Spawn.Y,
		Palette: def.Palette.Resolve(),
	}, nil
}

func generateLevel(ctx context.Context, seed int64) (Level, error) {
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	gen := world.NewGenerator(world.DefaultWidth, world.DefaultHeight, rng)
	layout, err := gen.Generate(ctx)
	if err != nil {
		return Level{}, err
	}
	grid, err := world.Parse(layout.Source)
	if err != nil {
		return Level{}, fmt.Errorf("generated map: %w", err)
	}

	x, y := layout.Spawn(grid.Width(), grid.Height())
	return Level{
		Name:    fmt.Sprintf("Generated (seed %d)", seed),
		Grid:    grid,
		SpawnX:  x,
		SpawnY:  y,
		Palette: gamedata.DefaultPalette(),
	}, nil
}
