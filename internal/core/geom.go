// Package core provides fundamental types and utilities for the simulation
// core. It contains no external dependencies to keep game logic pure and
// testable.
package core

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the vector magnitude.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns a unit-length copy of v, or the zero vector if v has
// no magnitude.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rotated returns v rotated by the given angle in radians.
func (v Vec2) Rotated(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// AABB is an axis-aligned bounding box described by its center and half
// extents.
type AABB struct {
	Center Vec2
	Half   Vec2
}

// NewAABB creates a box from a center point and half extents.
func NewAABB(cx, cy, hw, hh float64) AABB {
	return AABB{Center: Vec2{cx, cy}, Half: Vec2{hw, hh}}
}

// Min returns the minimum corner.
func (b AABB) Min() Vec2 {
	return Vec2{b.Center.X - b.Half.X, b.Center.Y - b.Half.Y}
}

// Max returns the maximum corner.
func (b AABB) Max() Vec2 {
	return Vec2{b.Center.X + b.Half.X, b.Center.Y + b.Half.Y}
}

// Expanded returns a copy grown by r on every side. Used to test a circle of
// radius r against the box as a point query.
func (b AABB) Expanded(r float64) AABB {
	return AABB{Center: b.Center, Half: Vec2{b.Half.X + r, b.Half.Y + r}}
}

// Intersects reports whether two boxes overlap.
func (b AABB) Intersects(other AABB) bool {
	if math.Abs(b.Center.X-other.Center.X) > b.Half.X+other.Half.X {
		return false
	}
	return math.Abs(b.Center.Y-other.Center.Y) <= b.Half.Y+other.Half.Y
}

// Contains reports whether the point lies inside the box.
func (b AABB) Contains(p Vec2) bool {
	min, max := b.Min(), b.Max()
	return p.X >= min.X && p.X <= max.X && p.Y >= min.Y && p.Y <= max.Y
}

// RayIntersect performs a slab test of a ray (origin + t*dir) against the
// box. It returns the entry time and true when the ray hits the box at some
// t > 0. A zero direction component outside the slab is a guaranteed miss.
func (b AABB) RayIntersect(origin, dir Vec2) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	min, max := b.Min(), b.Max()

	for axis := 0; axis < 2; axis++ {
		var o, d, lo, hi float64
		if axis == 0 {
			o, d, lo, hi = origin.X, dir.X, min.X, max.X
		} else {
			o, d, lo, hi = origin.Y, dir.Y, min.Y, max.Y
		}

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax <= 0 {
		// Box is behind the origin.
		return 0, false
	}
	if tMin <= 0 {
		// Origin is inside the box; the exit time is the first boundary
		// crossing ahead.
		return tMax, true
	}
	return tMin, true
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max]. Non-finite
// values collapse to min.
func ClampF(val, min, max float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return min
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Sanitize returns val unless it is negative or non-finite, in which case
// the fallback is returned.
func Sanitize(val, fallback float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return fallback
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MaxF returns the larger of two float64 values.
func MaxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
