package sim

import (
	"github.com/Rotwang9000/memecube-sub001/internal/cube"
	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// TagView is the renderable state of one tag, copied out of the engine.
type TagView struct {
	ID          cube.TagID `json:"id"`
	Symbol      string     `json:"symbol"`
	Price       float64    `json:"price"`
	Position    vec.Vec3   `json:"position"`
	Orientation vec.Quat   `json:"orientation"`
	Size        float64    `json:"size"`
	Phase       string     `json:"phase"`
	Fade        float64    `json:"fade"` // Removal progress in [0,1]
}

// Snapshot is one immutable frame of world state. Published via an atomic
// pointer; readers must never mutate it.
type Snapshot struct {
	Spin   float64   `json:"spin"` // Decorative rotation angle around Y
	Center vec.Vec3  `json:"center"`
	Radius float64   `json:"radius"`
	Tags   []TagView `json:"tags"`
}

// publishSnapshot copies the current engine state into a fresh snapshot and
// swaps it in for readers. Each snapshot owns its tag slice: readers (the web
// write pump in particular) hold frames across slow network writes, so a
// recycled buffer would be rewritten under them.
func (s *Server) publishSnapshot() {
	tags := make([]TagView, 0, s.cluster.Len())

	s.cluster.Each(func(t *cube.Tag) bool {
		view := TagView{
			ID:          t.ID,
			Position:    t.Position,
			Orientation: t.Orientation,
			Size:        t.Size,
			Phase:       t.Phase.String(),
			Fade:        t.RemoveProgress(),
		}
		if tok, ok := s.feed.ByTag(t.ID); ok {
			view.Symbol = tok.Symbol
			view.Price = tok.Price
		}
		tags = append(tags, view)
		return true
	})

	s.snapshot.Store(&Snapshot{
		Spin:   s.spin,
		Center: s.cluster.Center(),
		Radius: s.cluster.Radius(),
		Tags:   tags,
	})
}
