package sim

import (
	"testing"
)

func newTestServer(target int) *Server {
	return NewServer(Options{Seed: 42, FeedTarget: target})
}

// tick advances the simulation one step without the realtime loop.
func (s *Server) tick(dt float64) {
	s.processRegistrations()
	s.processCommands()
	s.feed.Update(dt)
	s.cluster.Update(dt)
	if s.spinning {
		s.spin += SpinRate * dt
	}
	s.publishSnapshot()
}

func TestSnapshotReflectsWorld(t *testing.T) {
	s := newTestServer(6)
	s.tick(1.0 / 60)

	snap := s.Snapshot()
	if len(snap.Tags) != 6 {
		t.Fatalf("snapshot has %d tags, want 6", len(snap.Tags))
	}
	for _, tag := range snap.Tags {
		if tag.Symbol == "" {
			t.Errorf("tag %d has no symbol", tag.ID)
		}
		if tag.Size <= 0 {
			t.Errorf("tag %d size = %v, want > 0", tag.ID, tag.Size)
		}
		if tag.Phase == "" {
			t.Errorf("tag %d has no phase", tag.ID)
		}
	}
	if snap.Radius <= 0 {
		t.Errorf("snapshot radius = %v, want > 0", snap.Radius)
	}
}

func TestSnapshotIsImmutableAcrossTicks(t *testing.T) {
	s := newTestServer(4)
	s.tick(1.0 / 60)
	first := s.Snapshot()
	firstTags := make([]TagView, len(first.Tags))
	copy(firstTags, first.Tags)

	// Several more ticks: the held snapshot's backing slice must never be
	// rewritten, no matter how many frames are published meanwhile. A reader
	// (the web write pump) can hold a frame across a slow network write.
	for i := 0; i < 5; i++ {
		s.tick(1.0 / 60)
	}
	if s.Snapshot() == first {
		t.Fatal("ticks did not publish a new snapshot")
	}

	for i := range first.Tags {
		if first.Tags[i].Position != firstTags[i].Position {
			t.Fatalf("held snapshot mutated by a later tick (tag %d)", i)
		}
	}
}

func TestCommands(t *testing.T) {
	s := newTestServer(4)
	s.tick(1.0 / 60)
	base := len(s.Snapshot().Tags)

	s.Do(CmdListToken)
	s.tick(1.0 / 60)
	if got := len(s.Snapshot().Tags); got != base+1 {
		t.Errorf("tags after CmdListToken = %d, want %d", got, base+1)
	}

	s.Do(CmdToggleSpin)
	s.tick(1.0 / 60)
	spin := s.Snapshot().Spin
	s.tick(1.0 / 60)
	if got := s.Snapshot().Spin; got != spin {
		t.Errorf("spin advanced from %v to %v while paused", spin, got)
	}

	s.Do(CmdDelistToken)
	s.tick(1.0 / 60)
	removing := 0
	for _, tag := range s.Snapshot().Tags {
		if tag.Phase == "removing" {
			removing++
		}
	}
	if removing == 0 {
		t.Error("CmdDelistToken did not start a removal")
	}
}

func TestClientRegistration(t *testing.T) {
	s := newTestServer(1)
	h1 := s.RegisterClient()
	h2 := s.RegisterClient()
	s.tick(1.0 / 60)
	if got := s.ClientCount(); got != 2 {
		t.Fatalf("client count = %d, want 2", got)
	}
	if h1.ID == h2.ID {
		t.Error("client ids collide")
	}

	s.UnregisterClient(h1.ID)
	s.tick(1.0 / 60)
	if got := s.ClientCount(); got != 1 {
		t.Errorf("client count = %d after unregister, want 1", got)
	}
}
