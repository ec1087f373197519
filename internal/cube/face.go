package cube

import (
	"math/rand"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// Face identifies one of the six canonical outward directions of the cluster.
// FaceNone marks an interior tag, not aligned with any direction.
type Face int8

const (
	FaceNone Face = iota - 1
	FacePosX
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ

	// NumFaces is the number of canonical directions.
	NumFaces = 6
)

// tagForward is the local axis a tag's label faces along. The canonical
// rotation for a face turns this axis onto the face direction.
var tagForward = vec.Vec3{Z: 1}

var faceDirections = [NumFaces]vec.Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

var faceRotations [NumFaces]vec.Quat

func init() {
	for i, d := range faceDirections {
		faceRotations[i] = vec.RotationBetween(tagForward, d)
	}
}

var faceNames = [NumFaces]string{"+x", "-x", "+y", "-y", "+z", "-z"}

// Direction returns the outward unit vector for the face.
// FaceNone returns the zero vector.
func (f Face) Direction() vec.Vec3 {
	if f < 0 || f >= NumFaces {
		return vec.Zero
	}
	return faceDirections[f]
}

// Rotation returns the canonical orientation for a tag resting on the face.
func (f Face) Rotation() vec.Quat {
	if f < 0 || f >= NumFaces {
		return vec.Identity
	}
	return faceRotations[f]
}

func (f Face) String() string {
	if f < 0 || f >= NumFaces {
		return "interior"
	}
	return faceNames[f]
}

// selectTargetFace picks the face with the lowest occupancy, breaking ties
// uniformly at random so concurrent spawns spread across equally-empty faces.
func selectTargetFace(occupancy *[NumFaces]int, rng *rand.Rand) Face {
	min := occupancy[0]
	for _, n := range occupancy[1:] {
		if n < min {
			min = n
		}
	}

	// Reservoir-style uniform choice among the minima.
	var chosen Face
	seen := 0
	for f, n := range occupancy {
		if n != min {
			continue
		}
		seen++
		if rng.Intn(seen) == 0 {
			chosen = Face(f)
		}
	}
	return chosen
}

// classifyFace maps the direction from the cluster center to a tag onto the
// best-aligned face, or FaceNone when no face direction clears the alignment
// threshold (the tag sits in the interior).
func classifyFace(fromCenter vec.Vec3, threshold float64) Face {
	dir := fromCenter.Normalize()
	if dir == (vec.Zero) {
		return FaceNone
	}

	best := FaceNone
	bestDot := threshold
	for f, d := range faceDirections {
		if dot := dir.Dot(d); dot > bestDot {
			bestDot = dot
			best = Face(f)
		}
	}
	return best
}
