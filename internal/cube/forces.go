package cube

import (
	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// accumulateForces computes one frame of layout forces for every tag driven
// by the force model (settling, flipping and resizing tags; entering and
// removing tags follow their own trajectories, resting settled tags skip the
// pass entirely).
//
// Four contributions are summed into Tag.force:
//   - a radial spring holding surface tags at half the cluster radius,
//   - a stronger straight pull to the center for interior tags,
//   - a tangent-plane spread between tags sharing a face,
//   - a mass-weighted repulsion between nearly-touching pairs.
func (c *Cluster) accumulateForces() {
	for _, t := range c.tags {
		if !forceDriven(t) {
			continue
		}
		c.addRadialForce(t)
	}

	c.addFaceSpread()
	c.addPairRepulsion()
}

// forceDriven reports whether the force model applies to the tag this frame.
func forceDriven(t *Tag) bool {
	switch t.Phase {
	case PhaseEntering, PhaseRemoving:
		return false
	}
	return !t.resting
}

// addRadialForce applies the central attraction. Surface tags are held at
// SurfaceRadiusFactor of the cluster radius by a spring on the signed
// distance error; interior tags are pulled straight toward the center with a
// stronger gain so they work free of the structure instead of idling inside.
func (c *Cluster) addRadialForce(t *Tag) {
	tn := &c.tuning
	offset := t.Position.Sub(c.center)
	dist := offset.Len()

	if t.Face == FaceNone {
		t.force = t.force.Add(offset.Scale(-tn.InteriorPull))
		return
	}

	radial := offset.Normalize()
	if radial == (vec.Zero) {
		radial = t.Face.Direction()
	}
	target := c.radius * tn.SurfaceRadiusFactor
	t.force = t.force.Add(radial.Scale((target - dist) * tn.SurfaceSpring))
}

// addFaceSpread nudges tags sharing a face apart across the face's tangent
// plane, evening out the angular distribution.
func (c *Cluster) addFaceSpread() {
	tn := &c.tuning
	if tn.FaceSpread <= 0 {
		return
	}

	for i, a := range c.tags {
		if !forceDriven(a) || a.Face == FaceNone {
			continue
		}
		n := a.Face.Direction()
		for _, b := range c.tags[i+1:] {
			if b.Face != a.Face || !forceDriven(b) {
				continue
			}
			d := a.Position.Sub(b.Position)
			tangent := d.Sub(n.Scale(d.Dot(n)))
			distSq := tangent.LenSq()
			if distSq < 1e-9 {
				tangent = separationJitter(a.ID, b.ID)
				distSq = 1
			}
			push := tangent.Normalize().Scale(tn.FaceSpread / (1 + distSq))
			a.force = a.force.Add(push)
			b.force = b.force.Sub(push)
		}
	}
}

// addPairRepulsion pushes nearly-touching pairs apart along the line between
// their centers, proportional to overlap depth and split inversely by mass so
// light tags yield to heavy ones. Pairs linked by an active movement chain
// are skipped: the chain's push already moved them and must not feed back.
// When a chained tag presses into an unchained neighbour, the neighbour joins
// the chain so the push propagates outward exactly once.
func (c *Cluster) addPairRepulsion() {
	tn := &c.tuning
	pairs := c.nearbyPairs()

	for _, p := range pairs {
		a, b := p.a, p.b
		if !forceDriven(a) && !forceDriven(b) {
			continue
		}
		if c.chains.linked(a.ID, b.ID) {
			continue
		}

		dir := b.Position.Sub(a.Position)
		dist := dir.Len()
		if dist < 1e-9 {
			dir = separationJitter(a.ID, b.ID)
			dist = dir.Len()
		}
		dir = dir.Scale(1 / dist)

		overlap := requiredSeparation(a, b) - dist
		if overlap <= 0 {
			continue
		}

		total := a.Mass + b.Mass
		push := dir.Scale(overlap * tn.RepulsionStrength)
		a.force = a.force.Sub(push.Scale(b.Mass / total))
		b.force = b.force.Add(push.Scale(a.Mass / total))

		// Propagate an active push into the neighbour.
		if chA, chB := c.chains.find(a.ID), c.chains.find(b.ID); chA != nil && chB == nil {
			chA.members[b.ID] = struct{}{}
		} else if chB != nil && chA == nil {
			chB.members[a.ID] = struct{}{}
		}
	}
}
