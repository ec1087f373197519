package cube

import (
	"math"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// tagPair is one candidate collision found by the broad phase.
type tagPair struct {
	a, b *Tag
}

// nearbyPairs runs the broad phase: each tag's bounding box is expanded by
// the separation constant, tags are bucketed into the spatial grid, and only
// pairs whose expanded boxes intersect survive. Entering and removing tags
// are excluded; they follow scripted trajectories.
func (c *Cluster) nearbyPairs() []tagPair {
	c.pairBuf = c.pairBuf[:0]

	// Cell size must cover the largest possible interaction distance.
	maxSize := 0.0
	for _, t := range c.tags {
		if t.Size > maxSize {
			maxSize = t.Size
		}
	}
	c.grid.SetCellSize(maxSize + 2*c.tuning.Separation)
	c.grid.Clear()

	for i, t := range c.tags {
		if t.Phase == PhaseEntering || t.Phase == PhaseRemoving {
			continue
		}
		c.grid.Insert(t.Position, i)
	}

	sep := c.tuning.Separation
	for i, a := range c.tags {
		if a.Phase == PhaseEntering || a.Phase == PhaseRemoving {
			continue
		}
		boxA := a.bounds.Expand(sep)
		c.grid.QueryAround(a.Position, func(j int) bool {
			if j <= i {
				return false // Each unordered pair once
			}
			b := c.tags[j]
			if boxA.Intersects(b.bounds.Expand(sep)) {
				c.pairBuf = append(c.pairBuf, tagPair{a, b})
			}
			return false
		})
	}
	return c.pairBuf
}

// resolveCollisions runs the two-phase overlap resolver for a bounded number
// of iterations. Corrections are positional, not velocity-based: each
// overlapping pair is moved directly apart along the line between centers,
// split inversely by mass. Not run to convergence; residual overlap shrinks
// over the following frames because the resolver re-runs every update.
func (c *Cluster) resolveCollisions() {
	for iter := 0; iter < c.tuning.CollisionIterations; iter++ {
		if !c.separateOnce() {
			return
		}
		// Positions moved; boxes must be refreshed before the next pass.
		for _, t := range c.tags {
			t.updateBounds()
		}
	}
}

// separateOnce performs one correction pass and reports whether any overlap
// was found.
func (c *Cluster) separateOnce() bool {
	moved := false
	for _, p := range c.nearbyPairs() {
		a, b := p.a, p.b

		dir := b.Position.Sub(a.Position)
		dist := dir.Len()
		if dist < 1e-9 {
			// Coincident centers: use a varied but reproducible direction so
			// the pair never normalizes a zero vector.
			dir = separationJitter(a.ID, b.ID)
			dist = dir.Len()
		}
		dir = dir.Scale(1 / dist)

		overlap := requiredSeparation(a, b) - dist
		if overlap <= 0 {
			continue
		}
		moved = true

		total := a.Mass + b.Mass
		a.Position = a.Position.Sub(dir.Scale(overlap * b.Mass / total))
		b.Position = b.Position.Add(dir.Scale(overlap * a.Mass / total))
		a.resting = false
		b.resting = false
	}
	return moved
}

// separationJitter derives a small deterministic offset vector from a pair of
// tag ids. Used when two tags occupy (near-)identical positions, where the
// true separation direction is undefined.
func separationJitter(a, b TagID) vec.Vec3 {
	h := uint64(a)*0x9e3779b97f4a7c15 ^ uint64(b)*0xbf58476d1ce4e5b9
	h ^= h >> 31
	v := vec.Vec3{
		X: float64(int8(h))/127 + 0.01,
		Y: float64(int8(h>>8)) / 127,
		Z: float64(int8(h>>16)) / 127,
	}
	return v.Normalize().Scale(1e-3)
}

// maxPairOverlap returns the largest current pairwise overlap, or zero when
// the layout is clear. Exposed for tests and diagnostics.
func (c *Cluster) maxPairOverlap() float64 {
	worst := 0.0
	for i, a := range c.tags {
		for _, b := range c.tags[i+1:] {
			overlap := requiredSeparation(a, b) - a.Position.Dist(b.Position)
			worst = math.Max(worst, overlap)
		}
	}
	return worst
}
