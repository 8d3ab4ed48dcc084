package arena

import (
	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/physics"
)

// Layout is a parsed brick arrangement.
type Layout struct {
	ID     string
	Name   string
	Width  int // Columns
	Height int // Rows
	Cells  [][]Cell
}

// Cell describes one grid slot of a layout.
type Cell struct {
	Present   bool
	Breakable bool
	Gamble    bool
	Fortified bool
	HP        int
}

// ParseLayout creates a Layout from an ASCII map.
// Characters:
//
//	'#'     = normal brick (1 hp)
//	'2'-'9' = normal brick with that many hp
//	'F'     = fortified brick (3 hp)
//	'G'     = gamble brick (2 hp)
//	'X'     = unbreakable brick
//	'.'     = empty
func ParseLayout(id, name string, lines []string) Layout {
	maxWidth := 0
	for _, line := range lines {
		if len(line) > maxWidth {
			maxWidth = len(line)
		}
	}

	l := Layout{
		ID:     id,
		Name:   name,
		Width:  maxWidth,
		Height: len(lines),
		Cells:  make([][]Cell, len(lines)),
	}

	for row, line := range lines {
		l.Cells[row] = make([]Cell, maxWidth)
		for col := 0; col < maxWidth; col++ {
			var ch byte = '.'
			if col < len(line) {
				ch = line[col]
			}

			switch {
			case ch == '#':
				l.Cells[row][col] = Cell{Present: true, Breakable: true, HP: 1}
			case ch >= '2' && ch <= '9':
				l.Cells[row][col] = Cell{Present: true, Breakable: true, HP: int(ch - '0')}
			case ch == 'F' || ch == 'f':
				l.Cells[row][col] = Cell{Present: true, Breakable: true, Fortified: true, HP: 3}
			case ch == 'G' || ch == 'g':
				l.Cells[row][col] = Cell{Present: true, Breakable: true, Gamble: true, HP: 2}
			case ch == 'X' || ch == 'x':
				l.Cells[row][col] = Cell{Present: true, Breakable: false, HP: 1}
			}
		}
	}

	return l
}

// BuiltinLayouts returns the round rotation.
func BuiltinLayouts() []Layout {
	return []Layout{
		ParseLayout("lattice", "Lattice", []string{
			"####################",
			"####################",
			"##G##############G##",
			"####################",
			"####################",
		}),
		ParseLayout("rampart", "Rampart", []string{
			"FFFFFFFFFFFFFFFFFFFF",
			"F..................F",
			"F.####G######G####.F",
			"F.################.F",
			"F..................F",
			"FFFFFFFFFFFFFFFFFFFF",
		}),
		ParseLayout("weave", "Weave", []string{
			"#.#.#.#.#.#.#.#.#.#.",
			".2.2.2.2.2.2.2.2.2.2",
			"#.#.#G#.#.#.#G#.#.#.",
			".2.2.2.2.2.2.2.2.2.2",
			"#.#.#.#.#.#.#.#.#.#.",
		}),
		ParseLayout("keep", "Keep", []string{
			"X..X....X..X....X..X",
			"XFFX....XFFX....XFFX",
			"X..X....X..X....X..X",
			"....................",
			"######G######G######",
			"####################",
			"####################",
		}),
		ParseLayout("crucible", "Crucible", []string{
			"GFFFFFFFFFFFFFFFFFFG",
			"F33333333333333333 F",
			"F3################3F",
			"F3####GG####GG####3F",
			"F3################3F",
			"GFFFFFFFFFFFFFFFFFFG",
		}),
	}
}

// LayoutByIndex returns a layout, wrapping past the end of the rotation.
func LayoutByIndex(index int) Layout {
	layouts := BuiltinLayouts()
	if index < 0 {
		index = 0
	}
	return layouts[index%len(layouts)]
}

// LayoutCount returns the rotation length.
func LayoutCount() int {
	return len(BuiltinLayouts())
}

// Geometry positions a layout inside the playfield.
type Geometry struct {
	WorldWidth float64
	TopOffset  float64 // Distance of the first brick row from the top wall
	RowHeight  float64
}

// DefaultGeometry lays bricks across the full width with two rows of
// headroom at the top.
func DefaultGeometry(worldWidth float64) Geometry {
	return Geometry{WorldWidth: worldWidth, TopOffset: 4, RowHeight: 2}
}

// Build instantiates the layout into the arena and the physics world: one
// body and one brick record per present cell, created together.
func Build(a *Arena, w physics.World, l Layout, geo Geometry) {
	if l.Width == 0 || l.Height == 0 {
		return
	}

	brickW := geo.WorldWidth / float64(l.Width)
	halfW := brickW / 2
	halfH := geo.RowHeight / 2

	for row := 0; row < l.Height; row++ {
		for col := 0; col < l.Width; col++ {
			cell := l.Cells[row][col]
			if !cell.Present {
				continue
			}

			cx := float64(col)*brickW + halfW
			cy := geo.TopOffset + float64(row)*geo.RowHeight + halfH

			body := w.Add(physics.Body{
				Tag:    physics.TagBrick,
				Pos:    core.Vec2{X: cx, Y: cy},
				Half:   core.Vec2{X: halfW, Y: halfH},
				Static: true,
			})

			a.Place(Brick{
				Body:      body,
				Row:       row,
				Col:       col,
				Breakable: cell.Breakable,
				Gamble:    cell.Gamble,
				Fortified: cell.Fortified,
				BaseHP:    cell.HP,
			})
		}
	}
}
