package view

import (
	"math"
	"testing"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

func TestClampTermSize(t *testing.T) {
	cases := []struct {
		name               string
		termW, termH       int
		wantW, wantH       int
		wantOffC, wantOffR int
	}{
		{"small terminal", 80, 24, 80, 24, 0, 0},
		{"exact max", MaxTermWidth, MaxTermHeight, MaxTermWidth, MaxTermHeight, 0, 0},
		{"oversized", MaxTermWidth + 40, MaxTermHeight + 10, MaxTermWidth, MaxTermHeight, 20, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h, offC, offR := clampTermSize(tc.termW, tc.termH)
			if w != tc.wantW || h != tc.wantH || offC != tc.wantOffC || offR != tc.wantOffR {
				t.Errorf("clampTermSize(%d,%d) = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					tc.termW, tc.termH, w, h, offC, offR,
					tc.wantW, tc.wantH, tc.wantOffC, tc.wantOffR)
			}
		})
	}
}

func TestCameraProjectsCenterToScreenCenter(t *testing.T) {
	cam := camera{
		yawSin: 0, yawCos: 1,
		pitchSin: 0, pitchCos: 1,
		distance: 30,
	}
	p := cam.transform(vec.Vec3{})
	sx, sy, depth := cam.project(p)
	if sx != ViewWidth/2 || sy != ViewHeight/2 {
		t.Errorf("center projects to (%v,%v), want (%v,%v)", sx, sy, float64(ViewWidth)/2, float64(ViewHeight)/2)
	}
	if depth != 30 {
		t.Errorf("center depth = %v, want 30", depth)
	}
}

func TestCameraYawRotatesAroundY(t *testing.T) {
	// Quarter turn: +X in world lands on the camera's depth axis
	cam := camera{
		yawSin: 1, yawCos: 0,
		pitchSin: 0, pitchCos: 1,
		distance: 30,
	}
	p := cam.transform(vec.Vec3{X: 5})
	if math.Abs(p.X) > 1e-12 || math.Abs(p.Z+5) > 1e-12 {
		t.Errorf("yaw transform = %+v, want X=0 Z=-5", p)
	}
	if math.Abs(p.Y) > 1e-12 {
		t.Errorf("yaw moved Y: %+v", p)
	}
}

func TestShadeNearerIsBrighter(t *testing.T) {
	v := &Viewer{distance: 30}
	near := v.shade(25, 5, 0)
	far := v.shade(35, 5, 0)
	if near <= far {
		t.Errorf("near shade %v not brighter than far shade %v", near, far)
	}
	if near > 1 || far < 0 {
		t.Errorf("shade out of range: near=%v far=%v", near, far)
	}
}

func TestShadeFadesRemovals(t *testing.T) {
	v := &Viewer{distance: 30}
	solid := v.shade(30, 5, 0)
	fading := v.shade(30, 5, 0.9)
	if fading >= solid {
		t.Errorf("fading shade %v not dimmer than solid %v", fading, solid)
	}
	if fading < 0 {
		t.Errorf("fading shade negative: %v", fading)
	}
}
