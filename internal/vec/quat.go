package vec

import "math"

// Quat is a rotation stored as a unit quaternion (w + xi + yj + zk).
type Quat struct {
	W, X, Y, Z float64
}

// Identity is the no-rotation quaternion.
var Identity = Quat{W: 1}

// FromAxisAngle builds a rotation of angle radians around the given axis.
// The axis does not need to be normalized.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	half := angle / 2
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// RotationBetween returns the shortest rotation taking unit vector from onto
// unit vector to. For antiparallel inputs an arbitrary perpendicular axis is
// used so the result is still a valid half-turn.
func RotationBetween(from, to Vec3) Quat {
	d := from.Dot(to)
	if d > 1-1e-9 {
		return Identity
	}
	if d < -1+1e-9 {
		// 180 degrees: any axis perpendicular to from works.
		axis := Vec3{X: 1}.Cross(from)
		if axis.LenSq() < 1e-12 {
			axis = Vec3{Y: 1}.Cross(from)
		}
		return FromAxisAngle(axis, math.Pi)
	}
	axis := from.Cross(to)
	q := Quat{
		W: 1 + d,
		X: axis.X,
		Y: axis.Y,
		Z: axis.Z,
	}
	return q.Normalize()
}

// Mul returns the composition q*o (apply o first, then q).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Normalize returns q scaled to unit length. A degenerate quaternion
// normalizes to Identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l < 1e-12 {
		return Identity
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*cross(q.xyz, cross(q.xyz, v) + q.w*v)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp returns the spherical interpolation from q to o at t in [0,1].
// Falls back to normalized lerp when the rotations are nearly identical.
func (q Quat) Slerp(o Quat, t float64) Quat {
	d := q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
	// Take the short way around.
	if d < 0 {
		o = Quat{-o.W, -o.X, -o.Y, -o.Z}
		d = -d
	}
	if d > 1-1e-9 {
		return Quat{
			W: q.W + (o.W-q.W)*t,
			X: q.X + (o.X-q.X)*t,
			Y: q.Y + (o.Y-q.Y)*t,
			Z: q.Z + (o.Z-q.Z)*t,
		}.Normalize()
	}
	theta := math.Acos(d)
	sin := math.Sin(theta)
	a := math.Sin((1-t)*theta) / sin
	b := math.Sin(t*theta) / sin
	return Quat{
		W: q.W*a + o.W*b,
		X: q.X*a + o.X*b,
		Y: q.Y*a + o.Y*b,
		Z: q.Z*a + o.Z*b,
	}
}

// IsFinite reports whether all components are finite.
func (q Quat) IsFinite() bool {
	return !math.IsNaN(q.W) && !math.IsInf(q.W, 0) &&
		!math.IsNaN(q.X) && !math.IsInf(q.X, 0) &&
		!math.IsNaN(q.Y) && !math.IsInf(q.Y, 0) &&
		!math.IsNaN(q.Z) && !math.IsInf(q.Z, 0)
}
