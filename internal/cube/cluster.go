// Package cube implements the tag-cluster layout engine: a continuously
// running physics simulation that arranges floating tags into a loose
// cube-shaped structure. Tags fly in from outside, settle without
// overlapping, orient onto one of six canonical faces, resize smoothly and
// fly out on removal.
//
// The engine is strictly single-threaded: all mutation and all accessors must
// be called from the goroutine that drives Update.
package cube

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Rotwang9000/memecube-sub001/internal/physics"
	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// Cluster is one independent tag-cluster simulation. Create with New.
type Cluster struct {
	tuning Tuning

	tags   []*Tag // Update order; insertion-ordered for determinism
	byID   map[TagID]*Tag
	nextID TagID

	center    vec.Vec3
	radius    float64
	occupancy [NumFaces]int

	chains chainSet
	grid   *physics.SpatialGrid

	rng *rand.Rand
	log *log.Logger

	now float64 // Accumulated simulation time in seconds

	// Reusable scratch for the collision pass
	pairBuf []tagPair
}

// Option configures a Cluster.
type Option func(*Cluster)

// WithTuning replaces the default simulation parameters.
func WithTuning(t Tuning) Option {
	return func(c *Cluster) { c.tuning = t }
}

// WithRand sets the random source. Fixing the seed makes identical call
// sequences at fixed dt produce identical trajectories.
func WithRand(r *rand.Rand) Option {
	return func(c *Cluster) { c.rng = r }
}

// WithLogger sets the logger for invalid-reference and numeric-reset events.
func WithLogger(l *log.Logger) Option {
	return func(c *Cluster) { c.log = l }
}

// New creates an empty cluster.
func New(opts ...Option) *Cluster {
	c := &Cluster{
		tuning: DefaultTuning(),
		byID:   make(map[TagID]*Tag),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.log == nil {
		c.log = log.New(io.Discard)
	}
	c.grid = physics.NewSpatialGrid(1)
	return c
}

// AddTag registers a new tag with the given visual size and importance weight
// and starts its entry flight. The very first tag in an empty cluster is
// placed directly at the center, already settled.
func (c *Cluster) AddTag(size, importance float64) TagID {
	if importance <= 0 {
		importance = c.tuning.DefaultImportance
	}

	t := &Tag{
		ID:          c.nextID,
		Importance:  importance,
		Face:        FaceNone,
		Orientation: vec.Identity,
	}
	c.nextID++
	t.setSize(size, &c.tuning)
	t.targetSize = t.Size

	c.recomputeShape()
	face := selectTargetFace(&c.occupancy, c.rng)

	if len(c.tags) == 0 {
		// First tag: no flight, straight to the center.
		t.Position = c.center
		t.Phase = PhaseSettled
		t.Orientation = face.Rotation()
		t.resting = true
	} else {
		c.placeEntering(t, face)
	}

	c.assignFace(t, face)
	t.updateBounds()
	t.lastGood = t.Position

	c.tags = append(c.tags, t)
	c.byID[t.ID] = t

	c.log.Debug("tag added", "id", t.ID, "face", face, "size", t.Size, "phase", t.Phase)
	return t.ID
}

// AddTagDefault registers a new tag with the default importance weight.
func (c *Cluster) AddTagDefault(size float64) TagID {
	return c.AddTag(size, c.tuning.DefaultImportance)
}

// placeEntering positions a new tag far outside the cluster on the opposite
// side of its target face, aimed at the center with some angular jitter so
// entries are not perfectly aligned.
func (c *Cluster) placeEntering(t *Tag, face Face) {
	tn := &c.tuning

	dir := face.Direction().Scale(-1)
	dir = c.jitterDirection(dir, tn.EntryJitter)

	dist := c.radius + tn.EntryMargin + t.Size
	t.Position = c.center.Add(dir.Scale(dist))

	toCenter := c.center.Sub(t.Position).Normalize()
	t.Velocity = toCenter.Scale(tn.EntrySpeed)
	t.Orientation = vec.RotationBetween(tagForward, toCenter)
	t.Phase = PhaseEntering
}

// jitterDirection rotates dir by a random angle up to max radians around a
// random perpendicular axis.
func (c *Cluster) jitterDirection(dir vec.Vec3, max float64) vec.Vec3 {
	if max <= 0 {
		return dir
	}
	perp := dir.Cross(vec.Vec3{X: c.rng.Float64()*2 - 1, Y: c.rng.Float64()*2 - 1, Z: c.rng.Float64()*2 - 1})
	if perp.LenSq() < 1e-12 {
		perp = dir.Cross(vec.Vec3{Y: 1})
	}
	angle := c.rng.Float64() * max
	return vec.FromAxisAngle(perp, angle).Rotate(dir).Normalize()
}

// RemoveTag deletes a tag. With animated set, the tag first flies out of the
// cluster and is deleted when the animation completes; otherwise it is removed
// immediately. Unknown ids and repeated removals are logged no-ops.
func (c *Cluster) RemoveTag(id TagID, animated bool) {
	t, ok := c.byID[id]
	if !ok {
		c.log.Warn("remove: unknown tag", "id", id)
		return
	}
	if !animated {
		c.deleteTag(t)
		return
	}
	if t.Phase == PhaseRemoving {
		return
	}

	t.Phase = PhaseRemoving
	t.removeT = 0
	t.removeFrom = t.Position

	// Fly out opposite to the current motion, or radially outward when the
	// tag is effectively at rest. Reversing means a tag removed mid-approach
	// backs out the way it came instead of crossing the cluster.
	dir := t.Velocity.Scale(-1).Normalize()
	if dir == (vec.Zero) {
		dir = t.Position.Sub(c.center).Normalize()
	}
	if dir == (vec.Zero) {
		dir = t.Face.Direction()
	}
	if dir == (vec.Zero) {
		dir = vec.Vec3{X: 1}
	}
	t.removeTo = t.Position.Add(dir.Scale(c.radius + c.tuning.EntryMargin + t.Size))
	c.log.Debug("tag removing", "id", id)
}

// ResizeTag starts a smooth resize toward newSize. Growth injects an outward
// impulse and opens a movement chain so the push propagates to neighbours
// without looping back. Resizes on removing tags are ignored: removal is
// terminal.
func (c *Cluster) ResizeTag(id TagID, newSize float64) {
	t, ok := c.byID[id]
	if !ok {
		c.log.Warn("resize: unknown tag", "id", id)
		return
	}
	if t.Phase == PhaseRemoving {
		return
	}
	if newSize < c.tuning.MinSize {
		newSize = c.tuning.MinSize
	}

	growth := newSize - t.Size
	t.targetSize = newSize
	t.resting = false

	if growth > 0 {
		dir := t.Face.Direction()
		if dir == (vec.Zero) {
			dir = t.Position.Sub(c.center).Normalize()
		}
		if dir == (vec.Zero) {
			dir = vec.Vec3{X: 1}
		}
		t.Velocity = t.Velocity.Add(dir.Scale(c.tuning.GrowthImpulse * growth))
		c.chains.start(t.ID, c.now)
	}

	if t.Phase == PhaseSettled {
		t.Phase = PhaseResizing
	}
	c.log.Debug("tag resizing", "id", id, "from", t.Size, "to", newSize)
}

// deleteTag removes a tag from all bookkeeping immediately.
func (c *Cluster) deleteTag(t *Tag) {
	c.assignFace(t, FaceNone)
	c.chains.drop(t.ID)
	delete(c.byID, t.ID)

	kept := c.tags[:0]
	for _, other := range c.tags {
		if other != t {
			kept = append(kept, other)
		}
	}
	c.tags = kept
	c.log.Debug("tag deleted", "id", t.ID)
}

// assignFace moves a tag between faces, keeping the occupancy counters
// consistent with the set of live tags.
func (c *Cluster) assignFace(t *Tag, f Face) {
	if t.Face == f {
		return
	}
	if t.Face != FaceNone {
		c.occupancy[t.Face]--
	}
	if f != FaceNone {
		c.occupancy[f]++
	}
	t.Face = f
}

// recomputeShape rederives the cluster center and radius from the live tags.
// The center is a size^2-weighted centroid; the radius is the larger of the
// farthest tag distance and a packing-density floor that grows with count.
func (c *Cluster) recomputeShape() {
	if len(c.tags) == 0 {
		c.center = vec.Zero
		c.radius = c.tuning.MinRadius
		return
	}

	var sum vec.Vec3
	var weight, sizeSum float64
	for _, t := range c.tags {
		if t.Phase == PhaseEntering || t.Phase == PhaseRemoving {
			continue // In-flight tags would drag the centroid outward
		}
		w := t.Size * t.Size
		sum = sum.Add(t.Position.Scale(w))
		weight += w
		sizeSum += t.Size
	}
	if weight > 0 {
		c.center = sum.Scale(1 / weight)
	}

	maxDist := 0.0
	n := 0
	for _, t := range c.tags {
		if t.Phase == PhaseEntering || t.Phase == PhaseRemoving {
			continue
		}
		n++
		if d := t.Position.Dist(c.center) + t.Size/2; d > maxDist {
			maxDist = d
		}
	}

	avgSize := 1.0
	if n > 0 {
		avgSize = sizeSum / float64(n)
	}
	floor := c.tuning.MinRadius + c.tuning.PackingFactor*math.Cbrt(float64(n))*avgSize
	c.radius = math.Max(maxDist, floor)
}

// Len returns the number of live tags, including ones still flying in or out.
func (c *Cluster) Len() int {
	return len(c.tags)
}

// Center returns the current cluster centroid.
func (c *Cluster) Center() vec.Vec3 {
	return c.center
}

// Radius returns the current cluster radius.
func (c *Cluster) Radius() float64 {
	return c.radius
}

// FaceOccupancy returns the per-face tag counts. Interior tags are not
// counted on any face.
func (c *Cluster) FaceOccupancy() [NumFaces]int {
	return c.occupancy
}

// Position returns the tag's position, with ok=false for unknown ids.
func (c *Cluster) Position(id TagID) (vec.Vec3, bool) {
	if t, ok := c.byID[id]; ok {
		return t.Position, true
	}
	return vec.Zero, false
}

// Orientation returns the tag's rotation, with ok=false for unknown ids.
func (c *Cluster) Orientation(id TagID) (vec.Quat, bool) {
	if t, ok := c.byID[id]; ok {
		return t.Orientation, true
	}
	return vec.Identity, false
}

// Phase returns the tag's lifecycle phase, with ok=false for unknown ids.
func (c *Cluster) Phase(id TagID) (Phase, bool) {
	if t, ok := c.byID[id]; ok {
		return t.Phase, true
	}
	return 0, false
}

// Size returns the tag's current (possibly mid-animation) size.
func (c *Cluster) Size(id TagID) (float64, bool) {
	if t, ok := c.byID[id]; ok {
		return t.Size, true
	}
	return 0, false
}

// Each calls fn for every live tag in insertion order. The *Tag is owned by
// the engine and must not be retained or mutated; fn returning false stops
// the iteration.
func (c *Cluster) Each(fn func(*Tag) bool) {
	for _, t := range c.tags {
		if !fn(t) {
			return
		}
	}
}
