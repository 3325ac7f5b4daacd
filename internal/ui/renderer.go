package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// EnemyView is the active enemy as drawn.
type EnemyView struct {
	Name   string
	Glyph  rune
	Color  tcell.Color
	HP     int
	MaxHP  int
	Reveal float64 // Entrance progress, 0 to 1
}

// SlotLine is one combat slot as drawn.
type SlotLine struct {
	Position string
	Card     string // Empty when the slot is free
	Owner    string
}

// View is everything the renderer draws in one frame. The game builds it
// from a snapshot so drawing never holds game locks.
type View struct {
	Title       string
	Progress    string
	Phase       string
	Enemy       *EnemyView
	Suspended   []string
	PlayerHP    int
	PlayerMaxHP int
	Gold        int
	Slots       []SlotLine
	Messages    []string
	Overlay     string
	Help        string
}

const hpBarWidth = 20

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame.
func (r *Renderer) Render(v View) {
	r.screen.Clear()

	header := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	plain := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	y := 0
	r.text(0, y, v.Title, header)
	r.text(len(v.Title)+2, y, v.Progress, dim)
	y++
	r.text(0, y, "Phase: "+v.Phase, dim)
	y += 2

	if v.Enemy != nil {
		r.drawEnemy(y, v.Enemy)
	} else {
		r.text(2, y, "(no enemy)", dim)
	}
	y += 3

	for i, s := range v.Suspended {
		r.text(2, y+i, "behind the summon: "+s, dim)
	}
	y += len(v.Suspended) + 1

	r.text(0, y, fmt.Sprintf("You  %s %d/%d   Gold %d", HPBar(v.PlayerHP, v.PlayerMaxHP, hpBarWidth), v.PlayerHP, v.PlayerMaxHP, v.Gold), plain)
	y += 2

	for _, slot := range v.Slots {
		card := slot.Card
		if card == "" {
			card = "-"
		} else {
			card += " (" + slot.Owner + ")"
		}
		r.text(2, y, fmt.Sprintf("[%-7s] %s", slot.Position, card), plain)
		y++
	}
	y++

	for _, msg := range v.Messages {
		r.text(0, y, msg, plain)
		y++
	}

	_, height := r.screen.Size()
	r.text(0, height-1, v.Help, dim)

	if v.Overlay != "" {
		r.drawOverlay(v.Overlay)
	}

	r.screen.Show()
}

func (r *Renderer) drawEnemy(y int, e *EnemyView) {
	style := tcell.StyleDefault.Foreground(e.Color).Bold(true)
	if e.Reveal < 1 {
		style = style.Dim(true)
	}
	glyph := e.Glyph
	if e.Reveal < 0.5 {
		glyph = '.'
	}
	r.screen.SetContent(2, y, glyph, style)
	r.text(4, y, e.Name, style)
	r.text(4, y+1, fmt.Sprintf("%s %d/%d", HPBar(e.HP, e.MaxHP, hpBarWidth), e.HP, e.MaxHP), tcell.StyleDefault.Foreground(tcell.ColorRed))
}

func (r *Renderer) drawOverlay(msg string) {
	width, height := r.screen.Size()
	lines := strings.Split(msg, "\n")
	boxWidth := 0
	for _, line := range lines {
		boxWidth = max(boxWidth, len(line))
	}
	boxWidth += 4
	x0 := max((width-boxWidth)/2, 0)
	y0 := max((height-len(lines)-2)/2, 0)

	style := tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite).Bold(true)
	for dy := 0; dy < len(lines)+2; dy++ {
		for dx := 0; dx < boxWidth; dx++ {
			r.screen.SetContent(x0+dx, y0+dy, ' ', style)
		}
	}
	for i, line := range lines {
		r.text(x0+2, y0+1+i, line, style)
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, style)
	}
}

// HPBar renders hp as a fixed-width bar of '#' and '.'.
func HPBar(hp, maxHP, width int) string {
	if maxHP <= 0 || width <= 0 {
		return ""
	}
	filled := min(max(hp, 0)*width/maxHP, width)
	if hp > 0 && filled == 0 {
		filled = 1
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
