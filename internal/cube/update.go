package cube

import (
	"math"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// Update advances the simulation by dt seconds. This is the only entry point
// the host render loop needs to call per frame; all add/remove/resize
// requests made since the previous call are already folded into tag state.
//
// The step order is fixed: expire stale movement chains, recompute the
// cluster shape and face classification, advance entry flights, accumulate
// forces, integrate, advance lifecycle animations, then resolve collisions.
func (c *Cluster) Update(dt float64) {
	if dt <= 0 || len(c.tags) == 0 {
		return
	}
	// A long host pause must not become one huge catch-up step.
	if dt > c.tuning.MaxStep {
		dt = c.tuning.MaxStep
	}
	c.now += dt

	c.expireChains()

	c.recomputeShape()
	c.reclassify()

	for _, t := range c.tags {
		t.Age += dt
		t.force = vec.Zero
	}

	c.advanceEntering(dt)
	c.accumulateForces()
	c.integrate(dt)
	c.advanceLifecycle(dt)
	c.resolveCollisions()

	for _, t := range c.tags {
		c.sanitize(t)
		t.updateBounds()
	}
}

// expireChains drops movement chains that are past their TTL or whose
// members have all come to rest.
func (c *Cluster) expireChains() {
	c.chains.expire(c.now, c.tuning.ChainTTL, func(id TagID) bool {
		t, ok := c.byID[id]
		return !ok || t.Velocity.LenSq() <= settleSpeedSq(&c.tuning)
	})
}

// reclassify reassigns faces from the current geometry. Entry and removal
// flights keep their reserved assignment, new tags keep their spawn face
// until old enough, and flipping/settled tags keep the face they committed
// to so orientation never oscillates.
func (c *Cluster) reclassify() {
	for _, t := range c.tags {
		switch t.Phase {
		case PhaseEntering, PhaseRemoving, PhaseFlipping, PhaseSettled:
			continue
		}
		if t.Age < c.tuning.FaceLockAge {
			continue
		}
		c.assignFace(t, classifyFace(t.Position.Sub(c.center), c.tuning.AlignThreshold))
	}
}

// advanceEntering moves entering tags on their straight line toward the
// center and ends the flight on proximity or on the first bounding-box
// contact with an existing tag.
func (c *Cluster) advanceEntering(dt float64) {
	for _, t := range c.tags {
		if t.Phase != PhaseEntering {
			continue
		}
		t.Position = t.Position.Add(t.Velocity.Scale(dt))
		t.updateBounds()

		arrived := t.Position.Dist(c.center) <= c.radius*c.tuning.EntryProximity
		if !arrived {
			box := t.bounds
			for _, other := range c.tags {
				if other == t || other.Phase == PhaseEntering || other.Phase == PhaseRemoving {
					continue
				}
				if box.Intersects(other.bounds) {
					arrived = true
					break
				}
			}
		}
		if arrived {
			t.Phase = PhaseSettling
		}
	}
}

// integrate applies accumulated forces to velocity, damps, caps speed and
// advances position for every force-driven tag.
func (c *Cluster) integrate(dt float64) {
	tn := &c.tuning
	damp := math.Exp(-tn.Damping * dt)

	for _, t := range c.tags {
		switch t.Phase {
		case PhaseEntering, PhaseRemoving:
			continue // Entry is straight-line, removal is interpolated
		}
		if t.resting {
			continue
		}

		t.Velocity = t.Velocity.Add(t.force.Scale(dt / t.Mass))
		t.Velocity = t.Velocity.Scale(damp).Limit(tn.MaxSpeed)
		t.Position = t.Position.Add(t.Velocity.Scale(dt))
	}
}
