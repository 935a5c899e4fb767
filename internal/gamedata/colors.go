package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts "#RRGGBB", "RRGGBB" or the short "#RGB" form to a
// tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	digits := strings.TrimPrefix(hex, "#")

	if len(digits) == 3 {
		// #abc is shorthand for #aabbcc
		digits = string([]byte{
			digits[0], digits[0],
			digits[1], digits[1],
			digits[2], digits[2],
		})
	}
	if len(digits) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %q", hex)
	}

	rgb, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	return tcell.NewHexColor(int32(rgb)), nil
}
