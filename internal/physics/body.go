// Package physics defines the opaque physics collaborator the simulation
// core consumes, plus a deterministic arcade implementation. The core only
// reads collision-start events and body positions/velocities; contact
// resolution belongs to the world.
package physics

import "github.com/vmarchenko/brickwave/internal/core"

// Tag classifies a body for collision interpretation.
type Tag string

const (
	TagBall       Tag = "ball"
	TagBrick      Tag = "brick"
	TagPaddle     Tag = "paddle"
	TagWallLeft   Tag = "wall-left"
	TagWallRight  Tag = "wall-right"
	TagWallTop    Tag = "wall-top"
	TagWallBottom Tag = "wall-bottom"
	TagPowerUp    Tag = "powerup"
	TagCoin       Tag = "coin"
)

// WallSide extracts the side name from a wall tag, or "" for non-walls.
func WallSide(t Tag) string {
	switch t {
	case TagWallLeft:
		return "left"
	case TagWallRight:
		return "right"
	case TagWallTop:
		return "top"
	case TagWallBottom:
		return "bottom"
	}
	return ""
}

// BodyID is a stable handle to a body. Zero is never a valid id.
type BodyID int

// Body is the world's view of an entity. Balls are circles (Radius set);
// everything else is a box (Half set). A Sensor generates contacts but never
// deflects anything. Static bodies are not integrated.
type Body struct {
	ID     BodyID
	Tag    Tag
	Pos    core.Vec2
	Vel    core.Vec2
	Half   core.Vec2
	Radius float64
	Sensor bool
	Static bool
}

// Bounds returns the body's AABB. Circles use their radius as half extents.
func (b Body) Bounds() core.AABB {
	if b.Radius > 0 {
		return core.AABB{Center: b.Pos, Half: core.Vec2{X: b.Radius, Y: b.Radius}}
	}
	return core.AABB{Center: b.Pos, Half: b.Half}
}

// Speed returns the body's velocity magnitude.
func (b Body) Speed() float64 {
	return b.Vel.Len()
}

// Contact is a collision-start event between two tagged bodies. Normal
// points from B's surface toward A.
type Contact struct {
	A, B       BodyID
	ATag, BTag Tag
	Pos        core.Vec2
	Normal     core.Vec2
	Speed      float64 // Relative impact speed along the normal
}

// World is the collaborator boundary. Implementations must be deterministic
// for identical call sequences.
type World interface {
	// Step integrates all dynamic bodies by dt and records collision-start
	// events.
	Step(dt float64)

	// Contacts drains the collision-start events recorded since the last
	// call, in deterministic order.
	Contacts() []Contact

	Add(b Body) BodyID
	Remove(id BodyID)
	Get(id BodyID) (Body, bool)

	SetPosition(id BodyID, pos core.Vec2)
	SetVelocity(id BodyID, vel core.Vec2)
	SetSensor(id BodyID, sensor bool)
	SetHalf(id BodyID, half core.Vec2)

	// ForEach visits every live body with the given tag in id order.
	ForEach(tag Tag, fn func(Body))
}
