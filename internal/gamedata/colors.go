package gamedata

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseColor resolves a colour given as a W3C name ("red"), "#RRGGBB" or "RRGGBB".
func ParseColor(value string) (tcell.Color, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return tcell.ColorDefault, fmt.Errorf("empty color")
	}
	if len(name) == 6 && isHex(name) {
		name = "#" + name
	}
	if strings.HasPrefix(name, "#") && len(name) != 7 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", value)
	}

	color := tcell.GetColor(name)
	if color == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("unknown color %q", value)
	}
	return color, nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
