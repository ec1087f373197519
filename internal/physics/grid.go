// Package physics provides broad-phase spatial indexing for the cluster engine.
package physics

import (
	"math"

	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

// SpatialGrid is a sparse uniform grid for broad-phase proximity queries in
// unbounded 3D space. Items are inserted by position and index each frame,
// then nearby items can be found via a 3x3x3 cell neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// items so that all potential pairs are found within the neighborhood.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cells       map[cellKey][]int
}

// cellKey identifies a grid cell by its integer coordinates.
type cellKey struct {
	x, y, z int32
}

// NewSpatialGrid creates a grid with the given cell size.
// cellSize should be >= the maximum collision distance for the items
// being inserted; values <= 0 fall back to 1.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	g := &SpatialGrid{cells: make(map[cellKey][]int)}
	g.SetCellSize(cellSize)
	return g
}

// SetCellSize changes the cell size. Call Clear afterwards before reuse;
// existing entries are bucketed under the old size.
func (g *SpatialGrid) SetCellSize(cellSize float64) {
	if cellSize <= 0 {
		cellSize = 1
	}
	g.cellSize = cellSize
	g.invCellSize = 1 / cellSize
}

// CellSize returns the current cell size.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all items while keeping allocated cell slices for reuse.
func (g *SpatialGrid) Clear() {
	for k, items := range g.cells {
		g.cells[k] = items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p vec.Vec3, index int) {
	k := g.posToCell(p)
	g.cells[k] = append(g.cells[k], index)
}

// QueryAround calls fn for each item index in the 3x3x3 cell neighborhood
// around the given position. If fn returns true, iteration stops early
// (useful for "find first" queries).
func (g *SpatialGrid) QueryAround(p vec.Vec3, fn func(index int) bool) {
	c := g.posToCell(p)
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				for _, idx := range g.cells[cellKey{c.x + dx, c.y + dy, c.z + dz}] {
					if fn(idx) {
						return
					}
				}
			}
		}
	}
}

// posToCell converts a world position to grid cell coordinates.
func (g *SpatialGrid) posToCell(p vec.Vec3) cellKey {
	return cellKey{
		x: int32(math.Floor(p.X * g.invCellSize)),
		y: int32(math.Floor(p.Y * g.invCellSize)),
		z: int32(math.Floor(p.Z * g.invCellSize)),
	}
}
