package gamedata

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tilecaster/internal/world"
)

// MapDef defines a built-in map loaded from JSON.
type MapDef struct {
	ID      string     `json:"id"`      // Unique identifier (e.g., "arena")
	Name    string     `json:"name"`    // Display name (e.g., "Arena")
	Rows    []string   `json:"rows"`    // Tile rows, '#' wall and '.' floor
	Spawn   SpawnDef   `json:"spawn"`   // Starting position in map units
	Palette PaletteDef `json:"palette"` // Host colors for this map
}

// SpawnDef is a starting position.
type SpawnDef struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Source returns the rows in '|' separated map source form.
func (m *MapDef) Source() string {
	return strings.Join(m.Rows, world.RowSeparator)
}

// Grid parses the map.
func (m *MapDef) Grid() (*world.GridMap, error) {
	return world.Parse(m.Source())
}

// PaletteDef holds hex colors (e.g., "#C8C8C8") for terminal hosts.
type PaletteDef struct {
	Wall    string `json:"wall"`
	Floor   string `json:"floor"`
	MiniMap string `json:"minimap"`
	Marker  string `json:"marker"`
}

// Palette is a resolved set of host colors.
type Palette struct {
	Wall    tcell.Color
	Floor   tcell.Color
	MiniMap tcell.Color
	Marker  tcell.Color
}

// DefaultPalette is used for generated maps and for colors that fail to parse.
func DefaultPalette() Palette {
	return Palette{
		Wall:    tcell.ColorSilver,
		Floor:   tcell.ColorGray,
		MiniMap: tcell.ColorTeal,
		Marker:  tcell.ColorYellow,
	}
}

// Resolve parses the hex colors, keeping defaults for invalid entries.
func (p PaletteDef) Resolve() Palette {
	out := DefaultPalette()
	resolve := func(hex string, dst *tcell.Color) {
		if c, err := ParseHexColor(hex); err == nil {
			*dst = c
		}
	}
	resolve(p.Wall, &out.Wall)
	resolve(p.Floor, &out.Floor)
	resolve(p.MiniMap, &out.MiniMap)
	resolve(p.Marker, &out.Marker)
	return out
}

// MapsFile represents the structure of maps.json.
type MapsFile struct {
	Maps []MapDef `json:"maps"`
}

// LoadMaps loads map definitions from the embedded maps.json file.
func LoadMaps() ([]MapDef, error) {
	file, err := Load[MapsFile]("maps.json")
	if err != nil {
		return nil, err
	}
	return file.Maps, nil
}

// LoadMapsFS loads map definitions in the maps.json format from fsys.
func LoadMapsFS(fsys fs.FS, filename string) ([]MapDef, error) {
	file, err := LoadFS[MapsFile](fsys, filename)
	if err != nil {
		return nil, err
	}
	return file.Maps, nil
}

// LoadMapsFile loads map definitions from a file on disk.
func LoadMapsFile(path string) ([]MapDef, error) {
	return LoadMapsFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
