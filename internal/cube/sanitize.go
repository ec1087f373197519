package cube

import "github.com/Rotwang9000/memecube-sub001/internal/vec"

// sanitize detects non-finite state on a tag and resets the offending parts
// to safe defaults instead of letting NaNs spread through the simulation.
// Degenerate normalizations and extreme mass ratios can both produce them;
// the policy is local recovery, never propagation.
func (c *Cluster) sanitize(t *Tag) {
	if !t.Velocity.IsFinite() {
		c.log.Warn("non-finite velocity reset", "id", t.ID)
		t.Velocity = vec.Zero
	}
	if !t.Position.IsFinite() {
		c.log.Warn("non-finite position reset", "id", t.ID, "restored", t.lastGood)
		t.Position = t.lastGood
		t.Velocity = vec.Zero
	}
	if !t.Orientation.IsFinite() {
		c.log.Warn("non-finite orientation reset", "id", t.ID)
		t.Orientation = t.Face.Rotation()
	}
	t.lastGood = t.Position
}
