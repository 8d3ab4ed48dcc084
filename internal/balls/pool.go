// Package balls owns the primary ball and the bounded pool of extra balls
// spawned by the multi-ball reward.
package balls

import (
	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/physics"
)

// spawnFan is the total angular spread, in radians, over which extra-ball
// copies of one source ball are fanned out.
const spawnFan = 1.1

// Ball is one live ball entity.
type Ball struct {
	Body     physics.BodyID
	Attached bool // Stuck to the paddle, waiting for launch
	order    int
}

// Pool tracks the primary ball plus capacity-bounded extras. A body id is
// never held by both the primary slot and the extras list.
type Pool struct {
	capacity  int
	primary   *Ball
	extras    []*Ball
	nextOrder int
}

// NewPool creates a pool. Capacity counts extras only; non-positive values
// are treated as 1.
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{capacity: capacity}
}

// SetPrimary installs the primary ball, replacing any previous one.
func (p *Pool) SetPrimary(body physics.BodyID, attached bool) {
	p.primary = &Ball{Body: body, Attached: attached, order: p.nextOrder}
	p.nextOrder++
}

// Primary returns the primary ball, or nil before the first serve.
func (p *Pool) Primary() *Ball { return p.primary }

// Extras returns the live extras in spawn order. Callers must not retain
// the slice across mutations.
func (p *Pool) Extras() []*Ball { return p.extras }

// ExtrasAlive reports the extra-ball count.
func (p *Pool) ExtrasAlive() int { return len(p.extras) }

// Capacity reports the extras bound.
func (p *Pool) Capacity() int { return p.capacity }

// IsPrimary reports whether body is the current primary ball.
func (p *Pool) IsPrimary(body physics.BodyID) bool {
	return p.primary != nil && p.primary.Body == body
}

// ByBody finds the live ball owning body, primary included.
func (p *Pool) ByBody(body physics.BodyID) (*Ball, bool) {
	if p.IsPrimary(body) {
		return p.primary, true
	}
	for _, b := range p.extras {
		if b.Body == body {
			return b, true
		}
	}
	return nil, false
}

// SpawnExtras clones every live ball into count angularly-offset copies,
// stopping once capacity is reached. Each copy inherits its source speed or
// minSpeed, whichever is larger. Returns the new body ids in creation order.
func (p *Pool) SpawnExtras(w physics.World, count int, minSpeed float64) []physics.BodyID {
	if count <= 0 || w == nil {
		return nil
	}

	var sources []physics.BodyID
	if p.primary != nil && !p.primary.Attached {
		sources = append(sources, p.primary.Body)
	}
	for _, b := range p.extras {
		sources = append(sources, b.Body)
	}

	var spawned []physics.BodyID
	for _, src := range sources {
		body, ok := w.Get(src)
		if !ok {
			continue
		}
		speed := core.MaxF(body.Speed(), minSpeed)
		dir := body.Vel.Normalized()
		if dir.Len() == 0 {
			dir = core.Vec2{X: 0, Y: -1}
		}
		for i := 0; i < count; i++ {
			if len(p.extras) >= p.capacity {
				return spawned
			}
			// Fan the copies evenly around the source direction.
			offset := spawnFan * (float64(i+1)/float64(count+1) - 0.5)
			clone := body
			clone.Vel = dir.Rotated(offset).Scale(speed)
			id := w.Add(clone)
			p.extras = append(p.extras, &Ball{Body: id, order: p.nextOrder})
			p.nextOrder++
			spawned = append(spawned, id)
		}
	}
	return spawned
}

// PromotePrimary moves the oldest extra into the primary slot. Returns the
// promoted body id, or false when no extra is alive. The caller is expected
// to have already dropped the old primary.
func (p *Pool) PromotePrimary() (physics.BodyID, bool) {
	if len(p.extras) == 0 {
		return 0, false
	}
	oldest := p.extras[0]
	p.extras = p.extras[1:]
	p.primary = oldest
	return oldest.Body, true
}

// DropPrimary forgets the primary ball without touching the extras.
func (p *Pool) DropPrimary() { p.primary = nil }

// RemoveByBody deallocates the extra owning body. Returns false for unknown
// bodies and for the primary; the primary is only ever dropped or replaced.
func (p *Pool) RemoveByBody(body physics.BodyID) bool {
	for i, b := range p.extras {
		if b.Body == body {
			p.extras = append(p.extras[:i], p.extras[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every extra from the world and forgets all balls.
func (p *Pool) Clear(w physics.World) {
	if w != nil {
		for _, b := range p.extras {
			w.Remove(b.Body)
		}
	}
	p.extras = nil
	p.primary = nil
}
