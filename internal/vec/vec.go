// Package vec provides the 3D vector, rotation and box math used by the
// cluster engine and its renderers.
package vec

import "math"

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the zero vector.
var Zero = Vec3{}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared length of v.
// Use this when comparing lengths to avoid the sqrt cost.
func (v Vec3) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Dist returns the distance between the points v and o.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns a unit vector in the direction of v.
// The zero vector normalizes to the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Limit returns v with its length capped at max.
func (v Vec3) Limit(max float64) Vec3 {
	lsq := v.LenSq()
	if lsq > max*max && lsq > 0 {
		return v.Scale(max / math.Sqrt(lsq))
	}
	return v
}

// Lerp returns the linear interpolation from v to o at t in [0,1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// IsFinite reports whether all components are finite (no NaN or Inf).
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
