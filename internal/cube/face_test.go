package cube

import (
	"math/rand"
	"testing"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

func TestFaceDirectionsAreUnit(t *testing.T) {
	for f := Face(0); f < NumFaces; f++ {
		if l := f.Direction().Len(); l < 0.999 || l > 1.001 {
			t.Errorf("face %v direction length = %v, want 1", f, l)
		}
	}
}

func TestFaceRotationMatchesDirection(t *testing.T) {
	// The canonical rotation must turn the tag's forward axis onto the
	// face's outward direction.
	for f := Face(0); f < NumFaces; f++ {
		got := f.Rotation().Rotate(tagForward)
		want := f.Direction()
		if got.Dist(want) > 1e-9 {
			t.Errorf("face %v: rotated forward = %+v, want %+v", f, got, want)
		}
	}
}

func TestSelectTargetFacePicksMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name      string
		occupancy [NumFaces]int
		want      map[Face]bool // Acceptable results
	}{
		{
			name:      "single minimum",
			occupancy: [NumFaces]int{2, 1, 2, 3, 2, 2},
			want:      map[Face]bool{FaceNegX: true},
		},
		{
			name:      "all equal",
			occupancy: [NumFaces]int{1, 1, 1, 1, 1, 1},
			want: map[Face]bool{
				FacePosX: true, FaceNegX: true, FacePosY: true,
				FaceNegY: true, FacePosZ: true, FaceNegZ: true,
			},
		},
		{
			name:      "two minima",
			occupancy: [NumFaces]int{0, 5, 5, 0, 5, 5},
			want:      map[Face]bool{FacePosX: true, FaceNegY: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				occ := tt.occupancy
				got := selectTargetFace(&occ, rng)
				if !tt.want[got] {
					t.Fatalf("selectTargetFace = %v, want one of %v", got, tt.want)
				}
			}
		})
	}
}

func TestSelectTargetFaceTieBreakVaries(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	occ := [NumFaces]int{}
	seen := map[Face]bool{}
	for i := 0; i < 200; i++ {
		seen[selectTargetFace(&occ, rng)] = true
	}
	if len(seen) < NumFaces {
		t.Errorf("tie break covered %d faces out of %d", len(seen), NumFaces)
	}
}

func TestClassifyFace(t *testing.T) {
	tests := []struct {
		name   string
		offset vec.Vec3
		want   Face
	}{
		{"straight +x", vec.Vec3{X: 5}, FacePosX},
		{"straight -z", vec.Vec3{Z: -2}, FaceNegZ},
		{"mostly +y", vec.Vec3{X: 0.2, Y: 3, Z: 0.1}, FacePosY},
		{"diagonal is interior", vec.Vec3{X: 1, Y: 1, Z: 1}, FaceNone},
		{"zero offset is interior", vec.Vec3{}, FaceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyFace(tt.offset, 0.7); got != tt.want {
				t.Errorf("classifyFace(%+v) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestNearestFaceIgnoresThreshold(t *testing.T) {
	// A perfectly diagonal offset is interior for classifyFace but must
	// still commit to some face for the flip.
	offset := vec.Vec3{X: 1, Y: 1, Z: 1}
	if classifyFace(offset, 0.7) != FaceNone {
		t.Fatal("diagonal offset should classify as interior")
	}
	if f := nearestFace(offset); f == FaceNone {
		t.Errorf("nearestFace returned FaceNone for %+v", offset)
	}
}
