package physics

import (
	"math"
	"sort"

	"github.com/vmarchenko/brickwave/internal/core"
)

// pairKey identifies an unordered body pair for collision-start
// deduplication: a contact fires once when the pair begins overlapping and
// not again until the pair separates.
type pairKey struct {
	lo, hi BodyID
}

func makePair(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// ArcadeWorld is the bundled World implementation: swept circle-vs-AABB for
// balls, overlap tests for sensors, elastic axis bounces against solid
// boxes. Iteration is always in ascending id order so identical input
// produces identical contact sequences.
type ArcadeWorld struct {
	bodies   map[BodyID]*Body
	order    []BodyID // Sorted id list, rebuilt on add/remove
	nextID   BodyID
	contacts []Contact
	touching map[pairKey]bool
}

// NewArcadeWorld creates an empty world.
func NewArcadeWorld() *ArcadeWorld {
	return &ArcadeWorld{
		bodies:   make(map[BodyID]*Body),
		touching: make(map[pairKey]bool),
		nextID:   1,
	}
}

// Add inserts a body and returns its handle.
func (w *ArcadeWorld) Add(b Body) BodyID {
	id := w.nextID
	w.nextID++
	b.ID = id
	w.bodies[id] = &b
	w.order = append(w.order, id)
	sort.Slice(w.order, func(i, j int) bool { return w.order[i] < w.order[j] })
	return id
}

// Remove deletes a body and forgets its touch state.
func (w *ArcadeWorld) Remove(id BodyID) {
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	for k := range w.touching {
		if k.lo == id || k.hi == id {
			delete(w.touching, k)
		}
	}
}

// Get returns a copy of the body.
func (w *ArcadeWorld) Get(id BodyID) (Body, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// SetPosition moves a body.
func (w *ArcadeWorld) SetPosition(id BodyID, pos core.Vec2) {
	if b, ok := w.bodies[id]; ok {
		b.Pos = pos
	}
}

// SetVelocity changes a body's velocity.
func (w *ArcadeWorld) SetVelocity(id BodyID, vel core.Vec2) {
	if b, ok := w.bodies[id]; ok {
		b.Vel = vel
	}
}

// SetSensor toggles pass-through behavior.
func (w *ArcadeWorld) SetSensor(id BodyID, sensor bool) {
	if b, ok := w.bodies[id]; ok {
		b.Sensor = sensor
	}
}

// SetHalf resizes a box body.
func (w *ArcadeWorld) SetHalf(id BodyID, half core.Vec2) {
	if b, ok := w.bodies[id]; ok {
		b.Half = half
	}
}

// ForEach visits live bodies with the tag in id order.
func (w *ArcadeWorld) ForEach(tag Tag, fn func(Body)) {
	for _, id := range w.order {
		b := w.bodies[id]
		if b.Tag == tag {
			fn(*b)
		}
	}
}

// Contacts drains collision-start events recorded by the last steps.
func (w *ArcadeWorld) Contacts() []Contact {
	out := w.contacts
	w.contacts = nil
	return out
}

// Step integrates dynamic bodies and records collision starts. Balls bounce
// off solid boxes; sensors and sensor contacts only report.
func (w *ArcadeWorld) Step(dt float64) {
	if dt <= 0 {
		return
	}

	// Integrate.
	for _, id := range w.order {
		b := w.bodies[id]
		if b.Static {
			continue
		}
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	}

	// Collide dynamic bodies against everything else. Only balls, powerups
	// and coins move; the pair loop keeps the dynamic body first.
	seen := make(map[pairKey]bool, len(w.touching))
	for _, aid := range w.order {
		a := w.bodies[aid]
		if a == nil || a.Static {
			continue
		}
		for _, bid := range w.order {
			if bid == aid {
				continue
			}
			b := w.bodies[bid]
			if b == nil {
				continue
			}
			if !a.Bounds().Intersects(b.Bounds()) {
				continue
			}
			// Two dynamic bodies (ball vs ball, pickup vs pickup) never
			// interact; only dynamic-vs-static pairs matter here.
			if !b.Static {
				continue
			}

			key := makePair(aid, bid)
			seen[key] = true
			if !w.touching[key] {
				w.touching[key] = true
				w.contacts = append(w.contacts, w.makeContact(a, b))
			}
			if !a.Sensor && !b.Sensor {
				w.bounce(a, b)
			}
		}
	}

	// Forget pairs that separated so their next overlap fires again.
	for k := range w.touching {
		if !seen[k] {
			delete(w.touching, k)
		}
	}
}

// makeContact builds the collision-start record for dynamic body a hitting
// static body b.
func (w *ArcadeWorld) makeContact(a, b *Body) Contact {
	normal := contactNormal(a, b)
	speed := math.Abs(a.Vel.X*normal.X + a.Vel.Y*normal.Y)
	return Contact{
		A: a.ID, B: b.ID,
		ATag: a.Tag, BTag: b.Tag,
		Pos:    a.Pos,
		Normal: normal,
		Speed:  speed,
	}
}

// contactNormal picks the axis of least penetration, pointing from b toward a.
func contactNormal(a, b *Body) core.Vec2 {
	ab := a.Bounds()
	bb := b.Bounds()
	dx := a.Pos.X - b.Pos.X
	dy := a.Pos.Y - b.Pos.Y
	px := ab.Half.X + bb.Half.X - math.Abs(dx)
	py := ab.Half.Y + bb.Half.Y - math.Abs(dy)

	if px < py {
		if dx < 0 {
			return core.Vec2{X: -1, Y: 0}
		}
		return core.Vec2{X: 1, Y: 0}
	}
	if dy < 0 {
		return core.Vec2{X: 0, Y: -1}
	}
	return core.Vec2{X: 0, Y: 1}
}

// bounce separates a from b along the contact normal and reflects a's
// velocity on that axis.
func (w *ArcadeWorld) bounce(a, b *Body) {
	n := contactNormal(a, b)
	ab := a.Bounds()
	bb := b.Bounds()

	if n.X != 0 {
		overlap := ab.Half.X + bb.Half.X - math.Abs(a.Pos.X-b.Pos.X)
		a.Pos.X += n.X * overlap
		if a.Vel.X*n.X < 0 {
			a.Vel.X = -a.Vel.X
		}
		return
	}
	overlap := ab.Half.Y + bb.Half.Y - math.Abs(a.Pos.Y-b.Pos.Y)
	a.Pos.Y += n.Y * overlap
	if a.Vel.Y*n.Y < 0 {
		a.Vel.Y = -a.Vel.Y
	}
}
