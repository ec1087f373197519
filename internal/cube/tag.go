package cube

import (
	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// TagID uniquely identifies a tag within one cluster. IDs are assigned from a
// monotonic counter at creation and never reused.
type TagID int64

// Phase is the lifecycle state of a tag.
type Phase uint8

const (
	// PhaseEntering: flying in from outside the cluster on a straight line.
	PhaseEntering Phase = iota
	// PhaseSettling: inside the cluster, driven by the force model, not yet stable.
	PhaseSettling
	// PhaseFlipping: stable enough; orientation interpolating to the face rotation.
	PhaseFlipping
	// PhaseSettled: at rest on its face.
	PhaseSettled
	// PhaseResizing: size animating toward a new target; forces active again.
	PhaseResizing
	// PhaseRemoving: flying out; deleted when the animation completes.
	PhaseRemoving
)

var phaseNames = [...]string{"entering", "settling", "flipping", "settled", "resizing", "removing"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Tag is the physics record for one item in the cluster. The engine owns all
// fields; renderers copy Position/Orientation/Size through the accessors each
// frame.
type Tag struct {
	ID TagID

	Position    vec.Vec3
	Velocity    vec.Vec3
	Orientation vec.Quat

	Size       float64 // Edge length of the tag's visual extent
	Importance float64 // External weight factored into mass
	Mass       float64 // max(size^3 * importance, mass floor)

	Face  Face // Assigned face, or FaceNone for interior tags
	Phase Phase
	Age   float64 // Seconds since creation

	bounds vec.Box  // Recomputed each frame, valid within one update only
	force  vec.Vec3 // Force accumulated this frame

	// resting marks a settled tag whose forces can be skipped entirely.
	// Cleared whenever a collision correction or resize touches the tag;
	// never drives a phase change, so settled tags stay settled while being
	// nudged back into place.
	resting bool

	lastGood vec.Vec3 // Last position known to be finite

	// Flip animation
	flipFrom vec.Quat
	flipT    float64

	// Resize animation (spring toward targetSize)
	targetSize float64
	sizeVel    float64

	// Removal animation
	removeFrom vec.Vec3
	removeTo   vec.Vec3
	removeT    float64
}

// Bounds returns the tag's bounding box as of the last update.
func (t *Tag) Bounds() vec.Box {
	return t.bounds
}

// setSize clamps the size to the configured floor and rederives mass.
// Mass is always strictly positive.
func (t *Tag) setSize(size float64, tn *Tuning) {
	if size < tn.MinSize {
		size = tn.MinSize
	}
	t.Size = size

	mass := size * size * size * t.Importance
	if mass < tn.MassFloor {
		mass = tn.MassFloor
	}
	t.Mass = mass
}

// settleSpeedSq returns the squared speed threshold below which the tag is
// considered at rest.
func settleSpeedSq(tn *Tuning) float64 {
	return tn.SettleSpeed * tn.SettleSpeed
}
