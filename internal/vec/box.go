package vec

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// BoxFromCenter creates a box from a center point and full size per axis.
func BoxFromCenter(center, size Vec3) Box {
	half := size.Scale(0.5)
	return Box{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// Expand grows the box outward by m on every side.
func (b Box) Expand(m float64) Box {
	d := Vec3{m, m, m}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Intersects reports whether b and o overlap (touching counts).
func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Center returns the center point of the box.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box on each axis.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
