package cube

// chain tracks a set of tags linked by one propagated push, typically started
// by a resize growth impulse. While two tags share a chain the repulsion pass
// skips them, so a push cascades outward without feeding back into tags it
// already moved.
type chain struct {
	created float64 // Cluster time at creation
	members map[TagID]struct{}
}

// chainSet owns all live chains for a cluster.
type chainSet struct {
	chains []*chain
}

// start opens a new chain seeded with one tag and returns it.
func (cs *chainSet) start(seed TagID, now float64) *chain {
	ch := &chain{
		created: now,
		members: map[TagID]struct{}{seed: {}},
	}
	cs.chains = append(cs.chains, ch)
	return ch
}

// find returns the chain containing id, or nil.
func (cs *chainSet) find(id TagID) *chain {
	for _, ch := range cs.chains {
		if _, ok := ch.members[id]; ok {
			return ch
		}
	}
	return nil
}

// linked reports whether a and b belong to the same chain.
func (cs *chainSet) linked(a, b TagID) bool {
	for _, ch := range cs.chains {
		if _, ok := ch.members[a]; !ok {
			continue
		}
		_, ok := ch.members[b]
		return ok
	}
	return false
}

// drop removes id from whichever chain holds it.
func (cs *chainSet) drop(id TagID) {
	if ch := cs.find(id); ch != nil {
		delete(ch.members, id)
	}
}

// expire removes chains past their TTL, and chains whose members have all
// come to rest (looked up through alive; missing tags count as at rest).
// Runs at the start of every update so stale bookkeeping never leaks into
// the force pass.
func (cs *chainSet) expire(now, ttl float64, atRest func(TagID) bool) {
	kept := cs.chains[:0]
	for _, ch := range cs.chains {
		if now-ch.created >= ttl || len(ch.members) == 0 {
			continue
		}
		allRest := true
		for id := range ch.members {
			if !atRest(id) {
				allRest = false
				break
			}
		}
		if allRest {
			continue
		}
		kept = append(kept, ch)
	}
	cs.chains = kept
}
