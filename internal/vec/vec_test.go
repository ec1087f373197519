package vec

import (
	"math"
	"testing"
)

func almostEqual(a, b Vec3) bool {
	return a.Dist(b) < 1e-9
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"unit x", Vec3{X: 5}, Vec3{X: 1}},
		{"negative y", Vec3{Y: -0.25}, Vec3{Y: -1}},
		{"zero stays zero", Vec3{}, Vec3{}},
		{"diagonal", Vec3{X: 3, Y: 4}, Vec3{X: 0.6, Y: 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Normalize(); !almostEqual(got, tt.want) {
				t.Errorf("Normalize(%+v) = %+v, want %+v", tt.v, got, tt.want)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	v := Vec3{X: 3, Y: 4}
	if got := v.Limit(10); got != v {
		t.Errorf("Limit below cap changed vector: %+v", got)
	}
	capped := v.Limit(1)
	if math.Abs(capped.Len()-1) > 1e-9 {
		t.Errorf("Limit(1) length = %v, want 1", capped.Len())
	}
	if capped.Normalize().Dist(v.Normalize()) > 1e-9 {
		t.Error("Limit changed direction")
	}
}

func TestCrossOrthogonality(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -2, Y: 0.5, Z: 1}
	c := a.Cross(b)
	if math.Abs(c.Dot(a)) > 1e-9 || math.Abs(c.Dot(b)) > 1e-9 {
		t.Errorf("cross product %+v not orthogonal to inputs", c)
	}
}

func TestIsFinite(t *testing.T) {
	nan := math.NaN()
	if (Vec3{X: nan}).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if (Vec3{Z: math.Inf(1)}).IsFinite() {
		t.Error("Inf component reported finite")
	}
	if !(Vec3{X: 1e300}).IsFinite() {
		t.Error("large finite component reported non-finite")
	}
}

func TestRotationBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec3
	}{
		{"x to y", Vec3{X: 1}, Vec3{Y: 1}},
		{"z to x", Vec3{Z: 1}, Vec3{X: 1}},
		{"identity", Vec3{Y: 1}, Vec3{Y: 1}},
		{"antiparallel", Vec3{Z: 1}, Vec3{Z: -1}},
		{"antiparallel x", Vec3{X: 1}, Vec3{X: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := RotationBetween(tt.from, tt.to)
			if got := q.Rotate(tt.from); !almostEqual(got, tt.to) {
				t.Errorf("RotationBetween rotated %+v to %+v, want %+v", tt.from, got, tt.to)
			}
		})
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a := FromAxisAngle(Vec3{Y: 1}, 0.3)
	b := FromAxisAngle(Vec3{Y: 1}, 2.1)
	v := Vec3{X: 1}

	if got := a.Slerp(b, 0).Rotate(v); !almostEqual(got, a.Rotate(v)) {
		t.Errorf("Slerp(0) = %+v, want start rotation", got)
	}
	if got := a.Slerp(b, 1).Rotate(v); !almostEqual(got, b.Rotate(v)) {
		t.Errorf("Slerp(1) = %+v, want end rotation", got)
	}
	// Halfway around the same axis is the mean angle.
	mid := FromAxisAngle(Vec3{Y: 1}, 1.2)
	if got := a.Slerp(b, 0.5).Rotate(v); !almostEqual(got, mid.Rotate(v)) {
		t.Errorf("Slerp(0.5) = %+v, want mean-angle rotation", got)
	}
}

func TestBoxIntersects(t *testing.T) {
	a := BoxFromCenter(Vec3{}, Vec3{X: 2, Y: 2, Z: 2})
	tests := []struct {
		name string
		b    Box
		want bool
	}{
		{"overlapping", BoxFromCenter(Vec3{X: 1}, Vec3{X: 2, Y: 2, Z: 2}), true},
		{"touching faces", BoxFromCenter(Vec3{X: 2}, Vec3{X: 2, Y: 2, Z: 2}), true},
		{"disjoint x", BoxFromCenter(Vec3{X: 5}, Vec3{X: 2, Y: 2, Z: 2}), false},
		{"disjoint diagonal", BoxFromCenter(Vec3{X: 3, Y: 3, Z: 3}, Vec3{X: 2, Y: 2, Z: 2}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxExpand(t *testing.T) {
	b := BoxFromCenter(Vec3{}, Vec3{X: 2, Y: 2, Z: 2}).Expand(0.5)
	if got := b.Size(); !almostEqual(got, Vec3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("expanded size = %+v, want 3x3x3", got)
	}
	if got := b.Center(); !almostEqual(got, Vec3{}) {
		t.Errorf("expand moved center to %+v", got)
	}
}
