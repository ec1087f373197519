package cube

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// advanceLifecycle drives the phase-specific animations for one frame:
// settle detection, the orientation flip, the resize spring and the removal
// fly-out. Phase transitions are monotonic
// (Entering → Settling → Flipping → Settled); only Resizing and Removing can
// interrupt a settled tag.
func (c *Cluster) advanceLifecycle(dt float64) {
	var done []*Tag

	for _, t := range c.tags {
		switch t.Phase {
		case PhaseSettling:
			c.checkSettle(t)
		case PhaseFlipping:
			c.advanceFlip(t, dt)
		case PhaseSettled:
			// Re-arm the skip optimisation once the tag is slow again.
			if !t.resting && t.Velocity.LenSq() <= settleSpeedSq(&c.tuning) {
				t.Velocity = vec.Zero
				t.resting = true
			}
		case PhaseRemoving:
			if c.advanceRemoval(t, dt) {
				done = append(done, t)
			}
		}

		c.advanceResize(t, dt)
	}

	for _, t := range done {
		c.deleteTag(t)
	}
}

// checkSettle starts the orientation flip once a settling tag is slow enough
// and either close to the structure or past its minimum flight time.
func (c *Cluster) checkSettle(t *Tag) {
	tn := &c.tuning
	if t.Velocity.LenSq() > settleSpeedSq(tn) {
		return
	}
	near := t.Position.Dist(c.center) <= c.radius*tn.SettleRadiusFactor
	if !near && t.Age < tn.MinFlightTime {
		return
	}

	// Interior tags commit to the best-aligned face regardless of the
	// threshold; the flip needs a concrete target.
	if t.Face == FaceNone {
		c.assignFace(t, nearestFace(t.Position.Sub(c.center)))
	}

	t.Phase = PhaseFlipping
	t.flipFrom = t.Orientation
	t.flipT = 0
}

// nearestFace returns the face whose direction best matches the given
// offset, ignoring the alignment threshold. Degenerate offsets map to +X.
func nearestFace(offset vec.Vec3) Face {
	dir := offset.Normalize()
	if dir == (vec.Zero) {
		return FacePosX
	}
	best := FacePosX
	bestDot := math.Inf(-1)
	for f, d := range faceDirections {
		if dot := dir.Dot(d); dot > bestDot {
			bestDot = dot
			best = Face(f)
		}
	}
	return best
}

// advanceFlip interpolates orientation toward the canonical face rotation
// over the configured duration. Position keeps integrating normally
// throughout; only the rotation is scripted. On completion the orientation
// snaps exactly to the target.
func (c *Cluster) advanceFlip(t *Tag, dt float64) {
	t.flipT += dt / c.tuning.FlipDuration
	target := t.Face.Rotation()
	if t.flipT >= 1 {
		t.Orientation = target
		t.flipT = 0
		t.Phase = PhaseSettled
		return
	}
	// Ease-out so the flip lands softly.
	p := 1 - (1-t.flipT)*(1-t.flipT)
	t.Orientation = t.flipFrom.Slerp(target, p)
}

// advanceResize steps the size spring toward the requested target size,
// keeping mass in sync every step. Runs for any phase; a tag resized while
// still settling simply grows in flight.
func (c *Cluster) advanceResize(t *Tag, dt float64) {
	tn := &c.tuning
	if t.Size == t.targetSize && t.sizeVel == 0 {
		return
	}

	spring := harmonica.NewSpring(dt, tn.ResizeStiff, tn.ResizeDamping)
	size, vel := spring.Update(t.Size, t.sizeVel, t.targetSize)
	t.sizeVel = vel
	t.setSize(size, tn)

	if math.Abs(t.Size-t.targetSize) < tn.ResizeEpsilon && math.Abs(t.sizeVel) < tn.ResizeEpsilon {
		t.sizeVel = 0
		t.setSize(t.targetSize, tn)
		if t.Phase == PhaseResizing {
			t.Phase = PhaseSettled
		}
	}
}

// advanceRemoval interpolates the fly-out and reports true once the
// animation has completed and the tag should be deleted.
func (c *Cluster) advanceRemoval(t *Tag, dt float64) bool {
	t.removeT += dt / c.tuning.RemoveDuration
	if t.removeT >= 1 {
		t.Position = t.removeTo
		return true
	}
	t.Position = t.removeFrom.Lerp(t.removeTo, t.removeT)
	return false
}

// RemoveProgress reports how far a removing tag is through its fly-out, in
// [0,1]. Renderers use it as a fade factor. Zero for tags not being removed.
func (t *Tag) RemoveProgress() float64 {
	if t.Phase != PhaseRemoving {
		return 0
	}
	return math.Min(t.removeT, 1)
}
