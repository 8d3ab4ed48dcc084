// Package arena owns the brick records of a round. Bricks live in an arena
// keyed by stable integer ids; physics body handles are an index into the
// arena, never an identity key. Metadata, health and visual state are
// created together at level load and removed together on destruction.
package arena

import (
	"sort"

	"github.com/vmarchenko/brickwave/internal/physics"
)

// BrickID is a stable brick handle, unique within a round.
type BrickID int

// VisualState is the renderer-facing slice of a brick: enough to pick a
// glyph/damage form without touching gameplay fields.
type VisualState struct {
	MaxHP int
	HP    int
	Form  string // "intact", "cracked", "critical"
}

// Brick bundles the metadata, mutable health and visual state of one brick.
type Brick struct {
	ID   BrickID
	Body physics.BodyID

	Row, Col  int
	Breakable bool
	Gamble    bool
	Fortified bool
	BaseHP    int

	HP     int
	Visual VisualState
}

// Type returns the brick's wire-facing type name.
func (b *Brick) Type() string {
	switch {
	case !b.Breakable:
		return "solid"
	case b.Gamble:
		return "gamble"
	case b.Fortified:
		return "fortified"
	}
	return "normal"
}

// Arena is the id-stable brick store for one round.
type Arena struct {
	bricks map[BrickID]*Brick
	order  []BrickID
	byBody map[physics.BodyID]BrickID
	nextID BrickID
	total  int // Breakable bricks placed at load
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{
		bricks: make(map[BrickID]*Brick),
		byBody: make(map[physics.BodyID]BrickID),
		nextID: 1,
	}
}

// Place registers a brick and its body handle together. Returns the new id.
func (a *Arena) Place(b Brick) BrickID {
	id := a.nextID
	a.nextID++
	b.ID = id
	b.HP = b.BaseHP
	b.Visual = VisualState{MaxHP: b.BaseHP, HP: b.BaseHP, Form: "intact"}

	a.bricks[id] = &b
	a.order = append(a.order, id)
	a.byBody[b.Body] = id
	if b.Breakable {
		a.total++
	}
	return id
}

// Get returns the brick for an id.
func (a *Arena) Get(id BrickID) (*Brick, bool) {
	b, ok := a.bricks[id]
	return b, ok
}

// ByBody resolves a physics handle to its brick.
func (a *Arena) ByBody(body physics.BodyID) (*Brick, bool) {
	id, ok := a.byBody[body]
	if !ok {
		return nil, false
	}
	return a.bricks[id], true
}

// Damage reduces a brick's hp by n (min 0) and refreshes its visual state.
// Returns the remaining hp.
func (a *Arena) Damage(id BrickID, n int) int {
	b, ok := a.bricks[id]
	if !ok {
		return 0
	}
	b.HP -= n
	if b.HP < 0 {
		b.HP = 0
	}
	a.refreshVisual(b)
	return b.HP
}

// ResetHP sets a brick's hp to the given value (gamble penalty path) and
// refreshes its visual state.
func (a *Arena) ResetHP(id BrickID, hp int) {
	b, ok := a.bricks[id]
	if !ok {
		return
	}
	if hp < 1 {
		hp = 1
	}
	b.HP = hp
	a.refreshVisual(b)
}

func (a *Arena) refreshVisual(b *Brick) {
	b.Visual.HP = b.HP
	switch {
	case b.HP >= b.Visual.MaxHP:
		b.Visual.Form = "intact"
	case b.HP > 1:
		b.Visual.Form = "cracked"
	default:
		b.Visual.Form = "critical"
	}
}

// Destroy removes the brick record and its body index together. The caller
// removes the physics body; the arena never reaches into the world.
func (a *Arena) Destroy(id BrickID) {
	b, ok := a.bricks[id]
	if !ok {
		return
	}
	delete(a.bricks, id)
	delete(a.byBody, b.Body)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Remaining counts breakable bricks still standing.
func (a *Arena) Remaining() int {
	n := 0
	for _, id := range a.order {
		if a.bricks[id].Breakable {
			n++
		}
	}
	return n
}

// Total returns the breakable brick count at load time.
func (a *Arena) Total() int {
	return a.total
}

// ForEach visits bricks in id order.
func (a *Arena) ForEach(fn func(*Brick)) {
	for _, id := range a.order {
		fn(a.bricks[id])
	}
}

// GambleIDs returns the ids of live gamble bricks in id order.
func (a *Arena) GambleIDs() []BrickID {
	var ids []BrickID
	for _, id := range a.order {
		if a.bricks[id].Gamble {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clear drops every record (round reset).
func (a *Arena) Clear() {
	a.bricks = make(map[BrickID]*Brick)
	a.byBody = make(map[physics.BodyID]BrickID)
	a.order = a.order[:0]
	a.total = 0
}
