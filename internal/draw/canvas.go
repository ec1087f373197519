package draw

import (
	"math"
	"sort"
	"strings"
)

// Point represents a 2D coordinate in logical canvas space.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for an intensity between 0.0 (empty)
// and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := 1 + int(intensity*float64(len(Shades)-1))
	if idx >= len(Shades) {
		idx = len(Shades) - 1
	}
	return Shades[idx]
}

// Canvas is a drawing buffer of per-cell intensities. Each cell holds the
// maximum intensity written to it, so nearer (brighter) geometry naturally
// wins over farther geometry drawn into the same cell. Supports scaling from
// logical coordinates to terminal cells.
type Canvas struct {
	termWidth  int       // Terminal columns
	termHeight int       // Terminal rows
	cells      []float64 // Flat slice: [y * termWidth + x], intensity in [0,1]
	prev       []float64 // Last rendered intensities; -1 forces a rewrite

	// Scaling from logical to cell coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // termHeight / logicalHeight

	// Offset for centering the render area when the terminal is larger than
	// the max resolution. 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas with a 1:1 mapping from logical coordinates to
// terminal cells.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal cells. logicalWidth/Height define the coordinate space used by the
// renderer; termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	return &Canvas{
		termWidth:     termWidth,
		termHeight:    termHeight,
		cells:         make([]float64, termWidth*termHeight),
		prev:          make([]float64, termWidth*termHeight),
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		scaleX:        float64(termWidth) / logicalWidth,
		scaleY:        float64(termHeight) / logicalHeight,
	}
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.cells = make([]float64, termWidth*termHeight)
		c.prev = make([]float64, termWidth*termHeight)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.ForceRedraw()
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(termHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at
// (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all cells in the canvas. The previous frame's contents are
// kept so Render only rewrites cells that changed.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// ForceRedraw invalidates the previous-frame buffer so the next Render
// rewrites every cell. Call after a full terminal clear.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = -1
	}
}

// MarkTextDirty marks n cells starting at the 1-based terminal position
// (col, row) as overwritten by text, so the next Render cleans them up.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	y := row - 1
	if y < 0 || y >= c.termHeight {
		return
	}
	for k := 0; k < n; k++ {
		x := col - 1 + k
		if x < 0 || x >= c.termWidth {
			continue
		}
		c.prev[y*c.termWidth+x] = -1
	}
}

// setCell writes an intensity at terminal cell coordinates, keeping the
// maximum of the existing and new values.
func (c *Canvas) setCell(x, y int, intensity float64) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.termHeight {
		i := y*c.termWidth + x
		if intensity > c.cells[i] {
			c.cells[i] = intensity
		}
	}
}

// Set writes an intensity at logical coordinates (applies scaling).
func (c *Canvas) Set(x, y, intensity float64) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setCell(px, py, intensity)
}

// At returns the intensity at terminal cell coordinates. Out-of-bounds reads
// return 0.
func (c *Canvas) At(x, y int) float64 {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.termHeight {
		return 0
	}
	return c.cells[y*c.termWidth+x]
}

// DrawLine draws a line using Bresenham's algorithm. Coordinates are in
// logical space and get scaled to cells.
func (c *Canvas) DrawLine(p1, p2 Point, intensity float64) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setCell(x1, y1, intensity)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon at the given intensity. If filled is true, the
// interior is filled using a scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, intensity float64, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, intensity)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], intensity)
	}
}

// fillPolygon fills a polygon using a scanline algorithm. Works in cell space
// for proper scaling.
func (c *Canvas) fillPolygon(points []Point, intensity float64) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5 // Sample at cell center

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setCell(x, y, intensity)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes fits a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render writes the canvas to the ChunkWriter as shade characters. Only
// cells that changed since the last Render are rewritten, and horizontal
// runs of changes are coalesced into single cursor moves.
func (c *Canvas) Render(cw *ChunkWriter) {
	for row := 0; row < c.termHeight; row++ {
		rowOffset := row * c.termWidth

		col := 0
		for col < c.termWidth {
			if c.cells[rowOffset+col] == c.prev[rowOffset+col] {
				col++
				continue
			}

			cw.MoveCursor(col+1, row+1)
			for col < c.termWidth && c.cells[rowOffset+col] != c.prev[rowOffset+col] {
				i := rowOffset + col
				cw.WriteRune(ShadeLevel(c.cells[i]))
				c.prev[i] = c.cells[i]
				col++
			}
		}
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(cw *ChunkWriter) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions relative to the canvas (1-based, offset applied by
	// the writer).
	left := 0
	right := c.termWidth + 1
	top := 0
	bottom := c.termHeight + 1

	if hasV {
		if hasH {
			cw.MoveCursor(left, top)
			cw.WriteString("┌" + strings.Repeat("─", c.termWidth) + "┐")
			cw.MoveCursor(left, bottom)
			cw.WriteString("└" + strings.Repeat("─", c.termWidth) + "┘")
		} else {
			cw.MoveCursor(1, top)
			cw.WriteString(strings.Repeat("─", c.termWidth))
			cw.MoveCursor(1, bottom)
			cw.WriteString(strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = 1
			endRow = c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			cw.MoveCursor(left, row)
			cw.WriteString("│")
			cw.MoveCursor(right, row)
			cw.WriteString("│")
		}
	}
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// position (col, row). Useful for placing text overlays at positions matching
// canvas-drawn geometry.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
// Thread-safe as long as each goroutine uses its own Canvas instance.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
