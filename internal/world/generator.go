package world

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tilecaster/internal/telemetry"
)

const (
	// Default generated map dimensions. Small enough for the mini-map to fit
	// in an 80x24 terminal.
	DefaultWidth  = 32
	DefaultHeight = 20

	// BSP parameters
	minRoomSize = 4 // Minimum room dimension
	maxRoomSize = 9 // Maximum room dimension
	minLeafSize = 6 // Minimum BSP leaf size before stopping split
)

// Layout is a generated map: its source string plus the rooms carved into it.
type Layout struct {
	Source string
	Rooms  []Room
}

// Spawn returns the continuous spawn position at the center of the first
// room, or the middle of the map if no room was carved.
func (l Layout) Spawn(width, height int) (float64, float64) {
	if len(l.Rooms) == 0 {
		return float64(width)/2 + 0.5, float64(height)/2 + 0.5
	}
	x, y := l.Rooms[0].Center()
	return float64(x) + 0.5, float64(y) + 0.5
}

// Generator carves rooms and corridors out of a solid block using binary
// space partitioning.
type Generator struct {
	Width  int
	Height int
	tiles  [][]Tile
	rooms  []Room
	rng    *rand.Rand
}

// NewGenerator creates a generator for a width x height map.
// A nil rng gets a time-seeded source.
func NewGenerator(width, height int, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		Width:  width,
		Height: height,
		rng:    rng,
	}
}

// Generate produces a new layout. The outer ring of the map is always wall.
func (g *Generator) Generate(ctx context.Context) (Layout, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.generate")
	defer span.End()

	if g.Width < 3 || g.Height < 3 {
		return Layout{}, fmt.Errorf("generate %dx%d map: need at least 3x3", g.Width, g.Height)
	}

	startTime := time.Now()

	g.tiles = make([][]Tile, g.Height)
	for y := range g.tiles {
		g.tiles[y] = make([]Tile, g.Width)
		for x := range g.tiles[y] {
			g.tiles[y][x] = TileWall
		}
	}
	g.rooms = make([]Room, 0)

	root := &bspNode{
		x:      1,
		y:      1,
		width:  g.Width - 2,
		height: g.Height - 2,
	}

	g.splitNode(root)
	g.createRooms(root)
	g.connectRooms(root)

	rows := make([]string, g.Height)
	for y, row := range g.tiles {
		var b strings.Builder
		for _, t := range row {
			b.WriteRune(t.Rune())
		}
		rows[y] = b.String()
	}

	span.SetAttributes(
		attribute.Int("map.width", g.Width),
		attribute.Int("map.height", g.Height),
		attribute.Int("map.room_count", len(g.rooms)),
		attribute.Int64("map.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return Layout{
		Source: strings.Join(rows, RowSeparator),
		Rooms:  g.rooms,
	}, nil
}

// bspNode represents a node in the BSP tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// splitNode recursively splits a BSP node.
func (g *Generator) splitNode(node *bspNode) {
	if node.width < minLeafSize*2 && node.height < minLeafSize*2 {
		return
	}

	var splitHorizontally bool
	if node.width > node.height && node.width >= minLeafSize*2 {
		splitHorizontally = false
	} else if node.height >= minLeafSize*2 {
		splitHorizontally = true
	} else if node.width >= minLeafSize*2 {
		splitHorizontally = false
	} else {
		return
	}

	size := node.width
	if splitHorizontally {
		size = node.height
	}
	lo, hi := minLeafSize, size-minLeafSize
	if hi < lo {
		return
	}
	splitPos := lo + g.rng.Intn(hi-lo+1)

	if splitHorizontally {
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: splitPos}
		node.right = &bspNode{x: node.x, y: node.y + splitPos, width: node.width, height: node.height - splitPos}
	} else {
		node.left = &bspNode{x: node.x, y: node.y, width: splitPos, height: node.height}
		node.right = &bspNode{x: node.x + splitPos, y: node.y, width: node.width - splitPos, height: node.height}
	}

	g.splitNode(node.left)
	g.splitNode(node.right)
}

// createRooms carves one room into every leaf large enough to hold it.
func (g *Generator) createRooms(node *bspNode) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		g.createRooms(node.left)
		g.createRooms(node.right)
		return
	}

	// A room plus a one-tile margin on each side.
	if node.width < minRoomSize+2 || node.height < minRoomSize+2 {
		return
	}

	roomWidth := minRoomSize + g.rng.Intn(min(maxRoomSize, node.width-2)-minRoomSize+1)
	roomHeight := minRoomSize + g.rng.Intn(min(maxRoomSize, node.height-2)-minRoomSize+1)

	room := Room{
		X:      node.x + 1 + g.rng.Intn(node.width-roomWidth-1),
		Y:      node.y + 1 + g.rng.Intn(node.height-roomHeight-1),
		Width:  roomWidth,
		Height: roomHeight,
	}
	node.room = &room
	g.rooms = append(g.rooms, room)

	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			g.carve(x, y)
		}
	}
}

// connectRooms joins sibling subtrees with an L-shaped corridor.
func (g *Generator) connectRooms(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}

	g.connectRooms(node.left)
	g.connectRooms(node.right)

	left := firstRoom(node.left)
	right := firstRoom(node.right)
	if left == nil || right == nil {
		return
	}

	x1, y1 := left.Center()
	x2, y2 := right.Center()
	if g.rng.Intn(2) == 0 {
		g.carveHorizontal(x1, x2, y1)
		g.carveVertical(y1, y2, x2)
	} else {
		g.carveVertical(y1, y2, x1)
		g.carveHorizontal(x1, x2, y2)
	}
}

// firstRoom returns any room from a subtree.
func firstRoom(node *bspNode) *Room {
	if node == nil {
		return nil
	}
	if node.room != nil {
		return node.room
	}
	if room := firstRoom(node.left); room != nil {
		return room
	}
	return firstRoom(node.right)
}

func (g *Generator) carveHorizontal(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		g.carve(x, y)
	}
}

func (g *Generator) carveVertical(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		g.carve(x, y)
	}
}

// carve turns an interior tile into floor, leaving the outer ring intact.
func (g *Generator) carve(x, y int) {
	if x > 0 && x < g.Width-1 && y > 0 && y < g.Height-1 {
		g.tiles[y][x] = TileFloor
	}
}
