package physics

import (
	"testing"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

func collect(g *SpatialGrid, p vec.Vec3) map[int]bool {
	found := map[int]bool{}
	g.QueryAround(p, func(i int) bool {
		found[i] = true
		return false
	})
	return found
}

func TestQueryFindsNeighbours(t *testing.T) {
	g := NewSpatialGrid(2)
	g.Insert(vec.Vec3{}, 0)
	g.Insert(vec.Vec3{X: 1.5}, 1)
	g.Insert(vec.Vec3{X: -1.5, Y: 1}, 2)
	g.Insert(vec.Vec3{X: 40}, 3)

	found := collect(g, vec.Vec3{})
	for _, want := range []int{0, 1, 2} {
		if !found[want] {
			t.Errorf("query around origin missed item %d", want)
		}
	}
	if found[3] {
		t.Error("query around origin returned a distant item")
	}
}

func TestQueryHandlesNegativeCoordinates(t *testing.T) {
	g := NewSpatialGrid(2)
	g.Insert(vec.Vec3{X: -0.1, Y: -0.1, Z: -0.1}, 0)
	g.Insert(vec.Vec3{X: 0.1, Y: 0.1, Z: 0.1}, 1)

	// The two items straddle the origin cell boundary; each must see the other.
	if found := collect(g, vec.Vec3{X: -0.1, Y: -0.1, Z: -0.1}); !found[1] {
		t.Error("negative-side query missed positive-side neighbour")
	}
	if found := collect(g, vec.Vec3{X: 0.1, Y: 0.1, Z: 0.1}); !found[0] {
		t.Error("positive-side query missed negative-side neighbour")
	}
}

func TestClearKeepsNothing(t *testing.T) {
	g := NewSpatialGrid(1)
	for i := 0; i < 10; i++ {
		g.Insert(vec.Vec3{X: float64(i) * 0.1}, i)
	}
	g.Clear()
	if found := collect(g, vec.Vec3{}); len(found) != 0 {
		t.Errorf("query after Clear returned %d items", len(found))
	}
}

func TestEarlyExit(t *testing.T) {
	g := NewSpatialGrid(5)
	for i := 0; i < 10; i++ {
		g.Insert(vec.Vec3{}, i)
	}
	calls := 0
	g.QueryAround(vec.Vec3{}, func(int) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Errorf("early-exit query made %d calls, want 1", calls)
	}
}

func TestBadCellSizeFallsBack(t *testing.T) {
	g := NewSpatialGrid(0)
	if g.CellSize() <= 0 {
		t.Errorf("cell size = %v, want positive fallback", g.CellSize())
	}
	g.SetCellSize(-3)
	if g.CellSize() <= 0 {
		t.Errorf("cell size = %v after negative set, want positive fallback", g.CellSize())
	}
}
