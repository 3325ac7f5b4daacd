package gamedata

import "github.com/gdamore/tcell/v2"

// EnemyDef defines an enemy loaded from data. Definitions are read-only once loaded.
type EnemyDef struct {
	ID        string         `json:"id" yaml:"id"`                                   // Unique identifier (e.g., "slime")
	Name      string         `json:"name" yaml:"name"`                               // Display name (e.g., "Green Slime")
	Glyph     string         `json:"glyph" yaml:"glyph"`                             // Single character for rendering
	Color     string         `json:"color" yaml:"color"`                             // Hex code or colour name
	HP        int            `json:"hp" yaml:"hp"`                                   // Maximum hit points
	Template  string         `json:"template" yaml:"template"`                       // Actor template the factory instantiates
	Resources map[string]int `json:"resources,omitempty" yaml:"resources,omitempty"` // Initial resources (energy, block, ...)
	Summons   []string       `json:"summons,omitempty" yaml:"summons,omitempty"`     // Enemy IDs this enemy can summon
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	color, err := ParseColor(e.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies" yaml:"enemies"`
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := Load[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}
