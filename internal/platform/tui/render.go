package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vmarchenko/brickwave/internal/game"
	"github.com/vmarchenko/brickwave/internal/physics"
	"github.com/vmarchenko/brickwave/internal/rewards"
	"github.com/vmarchenko/brickwave/internal/session"
)

// styleID selects a lipgloss style for one cell. Consecutive cells with
// the same style are grouped into a single Render call.
type styleID int

const (
	styleDefault styleID = iota
	styleBrickNormal
	styleBrickFortified
	styleBrickGamble
	styleBrickSolid
	styleBall
	stylePaddle
	styleCoin
	stylePowerUp
	styleGhost
)

var cellStyles = map[styleID]lipgloss.Style{
	styleDefault:        lipgloss.NewStyle(),
	styleBrickNormal:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	styleBrickFortified: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	styleBrickGamble:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	styleBrickSolid:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	styleBall:           lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	stylePaddle:         lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	styleCoin:           lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	stylePowerUp:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	styleGhost:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

type cell struct {
	r     rune
	style styleID
}

// screen is a flat cell buffer rebuilt every frame.
type screen struct {
	w, h  int
	cells []cell
}

func newScreen(w, h int) *screen {
	s := &screen{w: w, h: h, cells: make([]cell, w*h)}
	for i := range s.cells {
		s.cells[i] = cell{r: ' '}
	}
	return s
}

func (s *screen) set(x, y int, r rune, st styleID) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	s.cells[y*s.w+x] = cell{r: r, style: st}
}

// String groups adjacent same-style cells to minimize escape sequences.
func (s *screen) String() string {
	var sb strings.Builder
	sb.Grow(s.w*s.h*2 + s.h)

	for y := 0; y < s.h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < s.w {
			start := s.cells[y*s.w+x].style
			var run strings.Builder
			for x < s.w && s.cells[y*s.w+x].style == start {
				run.WriteRune(s.cells[y*s.w+x].r)
				x++
			}
			sb.WriteString(cellStyles[start].Render(run.String()))
		}
	}
	return sb.String()
}

func brickGlyph(form string) rune {
	switch form {
	case "cracked":
		return '▓'
	case "critical":
		return '░'
	}
	return '█'
}

func brickStyle(variant string, ghosted bool) styleID {
	if ghosted {
		return styleGhost
	}
	switch variant {
	case "fortified":
		return styleBrickFortified
	case "gamble":
		return styleBrickGamble
	case "solid":
		return styleBrickSolid
	}
	return styleBrickNormal
}

// Playfield draws the world into a w x h character grid. World
// coordinates scale linearly onto the grid; the aspect mismatch of
// terminal cells is accepted rather than corrected.
func Playfield(g *game.Game, w, h int) string {
	if w < 1 || h < 1 {
		return ""
	}
	s := newScreen(w, h)

	cfg := g.Config().Physics
	sx := float64(w) / cfg.WorldWidth
	sy := float64(h) / cfg.WorldHeight
	ghosted := g.GhostActive()

	for _, sp := range g.Frame() {
		switch sp.Tag {
		case physics.TagBrick:
			x0 := int((sp.Pos.X - sp.Half.X) * sx)
			x1 := int((sp.Pos.X + sp.Half.X) * sx)
			y := int(sp.Pos.Y * sy)
			glyph := brickGlyph(sp.Form)
			st := brickStyle(sp.Variant, ghosted && sp.Variant != "solid")
			for x := x0; x <= x1; x++ {
				s.set(x, y, glyph, st)
			}
		case physics.TagPaddle:
			x0 := int((sp.Pos.X - sp.Half.X) * sx)
			x1 := int((sp.Pos.X + sp.Half.X) * sx)
			y := int(sp.Pos.Y * sy)
			for x := x0; x <= x1; x++ {
				s.set(x, y, '▀', stylePaddle)
			}
		case physics.TagBall:
			s.set(int(sp.Pos.X*sx), int(sp.Pos.Y*sy), '●', styleBall)
		case physics.TagCoin:
			s.set(int(sp.Pos.X*sx), int(sp.Pos.Y*sy), '$', styleCoin)
		case physics.TagPowerUp:
			s.set(int(sp.Pos.X*sx), int(sp.Pos.Y*sy), '?', stylePowerUp)
		}
	}

	return s.String()
}

var (
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	hudBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	rewardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
)

// bar renders a fixed-width gauge for a [0,1] value.
func bar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v * float64(width))
	return strings.Repeat("■", filled) + strings.Repeat("·", width-filled)
}

// HUD renders the one-line status header above the playfield.
func HUD(snap session.Snapshot, reward rewards.Kind) string {
	parts := []string{
		hudStyle.Render(snap.HUD.ScoreLabel),
		hudStyle.Render(snap.HUD.LivesLabel),
		hudStyle.Render(snap.HUD.RoundLabel),
		hudBarStyle.Render("combo " + bar(snap.HUD.ComboBar, 10)),
		hudBarStyle.Render("flow " + bar(snap.HUD.EntropyBar, 10) + " " + snap.HUD.EntropyTrend),
	}
	if reward != rewards.KindNone {
		parts = append(parts, rewardStyle.Render(string(reward)))
	}
	return strings.Join(parts, "  ")
}

// centered overlays a message box in the middle of a w x h region.
func centered(w, h int, lines ...string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
