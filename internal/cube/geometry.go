package cube

import (
	"math"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// Tags are rendered as flat plates: wide along their local X, shorter along
// local Y, and thin along local Z (the face normal). The bounding box is the
// axis-aligned hull of that plate under the tag's current orientation.
const (
	plateHeight = 0.6
	plateDepth  = 0.25
)

// updateBounds recomputes the tag's axis-aligned bounding box from its
// position, size and orientation. The box is only valid for the current frame.
func (t *Tag) updateBounds() {
	hx := t.Size / 2
	hy := t.Size * plateHeight / 2
	hz := t.Size * plateDepth / 2

	// Conservative AABB of the rotated plate: |R| applied to the half extents.
	q := t.Orientation
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	ex := math.Abs(1-2*(yy+zz))*hx + math.Abs(2*(xy-wz))*hy + math.Abs(2*(xz+wy))*hz
	ey := math.Abs(2*(xy+wz))*hx + math.Abs(1-2*(xx+zz))*hy + math.Abs(2*(yz-wx))*hz
	ez := math.Abs(2*(xz-wy))*hx + math.Abs(2*(yz+wx))*hy + math.Abs(1-2*(xx+yy))*hz

	t.bounds = vec.BoxFromCenter(t.Position, vec.Vec3{X: 2 * ex, Y: 2 * ey, Z: 2 * ez})
}

// extentScale derives the size scalar back from a bounding extent. It is the
// inverse of the plate construction above and keeps resize requests expressed
// in box units consistent with tag sizes.
func extentScale(b vec.Box) float64 {
	s := b.Size()
	m := s.X
	if s.Y > m {
		m = s.Y
	}
	if s.Z > m {
		m = s.Z
	}
	return m
}

// requiredSeparation is the minimum center distance at which two tags are
// considered clear of each other.
func requiredSeparation(a, b *Tag) float64 {
	return (a.Size + b.Size) / 2
}
