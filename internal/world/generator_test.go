package world

import (
	"context"
	"math/rand"
	"testing"
)

func TestGeneratorReproducibility(t *testing.T) {
	seed := int64(12345)

	g1 := NewGenerator(DefaultWidth, DefaultHeight, rand.New(rand.NewSource(seed)))
	g2 := NewGenerator(DefaultWidth, DefaultHeight, rand.New(rand.NewSource(seed)))

	ctx := context.Background()
	l1, err := g1.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	l2, err := g2.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if l1.Source != l2.Source {
		t.Errorf("Same seed produced different maps:\n%s\n%s", l1.Source, l2.Source)
	}
	if len(l1.Rooms) != len(l2.Rooms) {
		t.Fatalf("Room count mismatch: %d != %d", len(l1.Rooms), len(l2.Rooms))
	}
	for i := range l1.Rooms {
		if l1.Rooms[i] != l2.Rooms[i] {
			t.Errorf("Room %d mismatch: %+v != %+v", i, l1.Rooms[i], l2.Rooms[i])
		}
	}
}

func TestGeneratedLayoutParses(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g := NewGenerator(DefaultWidth, DefaultHeight, rand.New(rand.NewSource(seed)))
		layout, err := g.Generate(context.Background())
		if err != nil {
			t.Fatalf("seed %d: Generate() error = %v", seed, err)
		}

		m, err := Parse(layout.Source)
		if err != nil {
			t.Fatalf("seed %d: Parse(generated) error = %v", seed, err)
		}
		if m.Width() != DefaultWidth || m.Height() != DefaultHeight {
			t.Errorf("seed %d: size = %dx%d, want %dx%d",
				seed, m.Width(), m.Height(), DefaultWidth, DefaultHeight)
		}

		// Outer ring stays solid.
		for x := 0; x < m.Width(); x++ {
			if !m.IsWall(x, 0) || !m.IsWall(x, m.Height()-1) {
				t.Errorf("seed %d: border column %d is open", seed, x)
			}
		}
		for y := 0; y < m.Height(); y++ {
			if !m.IsWall(0, y) || !m.IsWall(m.Width()-1, y) {
				t.Errorf("seed %d: border row %d is open", seed, y)
			}
		}

		if len(layout.Rooms) == 0 {
			t.Errorf("seed %d: no rooms generated", seed)
			continue
		}
		sx, sy := layout.Spawn(m.Width(), m.Height())
		if m.HitTest(int(sx), int(sy)) != HitFloor {
			t.Errorf("seed %d: spawn (%.1f, %.1f) is not on floor", seed, sx, sy)
		}
		if !layout.Rooms[0].Contains(int(sx), int(sy)) {
			t.Errorf("seed %d: spawn (%.1f, %.1f) is outside the first room", seed, sx, sy)
		}

		// Rooms are fully carved.
		for _, room := range layout.Rooms {
			for y := 0; y < m.Height(); y++ {
				for x := 0; x < m.Width(); x++ {
					if room.Contains(x, y) && m.IsWall(x, y) {
						t.Errorf("seed %d: room %+v has a wall at (%d, %d)", seed, room, x, y)
					}
				}
			}
		}
	}
}

func TestGenerateTooSmall(t *testing.T) {
	g := NewGenerator(2, 10, rand.New(rand.NewSource(1)))
	if _, err := g.Generate(context.Background()); err == nil {
		t.Error("Generate() on a 2x10 map error = nil, want error")
	}
}

func TestGenerateTinyMapHasNoRooms(t *testing.T) {
	g := NewGenerator(5, 5, rand.New(rand.NewSource(1)))
	layout, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(layout.Rooms) != 0 {
		t.Errorf("len(Rooms) = %d, want 0", len(layout.Rooms))
	}
	x, y := layout.Spawn(5, 5)
	if x != 3 || y != 3 {
		t.Errorf("Spawn() = (%v, %v), want (3, 3)", x, y)
	}
}
