package view

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Rotwang9000/memecube-sub001/internal/sim"
	"github.com/Rotwang9000/memecube-sub001/internal/vec"
)

const (
	// tagAspect is the height of a tag plate relative to its width.
	tagAspect = 0.6

	// charAspect compensates for terminal cells being roughly twice as tall
	// as they are wide.
	charAspect = 0.5

	focalLength = 46.0

	// nearPlane: geometry closer than this to the camera is skipped.
	nearPlane = 1.0
)

// camera caches the per-frame rotation terms for world-to-view transforms.
type camera struct {
	yawSin, yawCos     float64
	pitchSin, pitchCos float64
	center             vec.Vec3
	distance           float64
}

// transform maps a world point into camera space. Z grows toward the viewer.
func (c *camera) transform(p vec.Vec3) vec.Vec3 {
	q := p.Sub(c.center)
	x := q.X*c.yawCos + q.Z*c.yawSin
	z := -q.X*c.yawSin + q.Z*c.yawCos
	y := q.Y*c.pitchCos - z*c.pitchSin
	z = q.Y*c.pitchSin + z*c.pitchCos
	return vec.Vec3{X: x, Y: y, Z: z}
}

// project maps a camera-space point to logical screen coordinates and depth.
func (c *camera) project(p vec.Vec3) (sx, sy, depth float64) {
	depth = c.distance - p.Z
	scale := focalLength / depth
	sx = ViewWidth/2 + p.X*scale
	sy = ViewHeight/2 - p.Y*scale*charAspect
	return
}

// tagDepth pairs a snapshot index with its camera depth for painter's-order
// sorting.
type tagDepth struct {
	idx   int
	depth float64
}

// drawFrame renders one frame from the latest snapshot.
func (v *Viewer) drawFrame() error {
	if v.isInactive != v.wasInactive {
		v.chunkWriter.ClearScreen()
		v.canvas.ForceRedraw()
		v.wasInactive = v.isInactive
	}

	v.canvas.Clear()

	snap := v.server.Snapshot()

	// The decorative spin and the user's yaw both orbit the Y axis
	cam := camera{
		yawSin:   math.Sin(v.yaw + snap.Spin),
		yawCos:   math.Cos(v.yaw + snap.Spin),
		pitchSin: math.Sin(v.pitch),
		pitchCos: math.Cos(v.pitch),
		center:   snap.Center,
		distance: v.distance,
	}

	// Painter's order: farthest tags first, so near plates overdraw far ones
	depths := v.depthBuf[:0]
	for i := range snap.Tags {
		p := cam.transform(snap.Tags[i].Position)
		depths = append(depths, tagDepth{idx: i, depth: cam.distance - p.Z})
	}
	v.depthBuf = depths
	sort.Slice(depths, func(a, b int) bool { return depths[a].depth > depths[b].depth })

	for _, td := range depths {
		v.drawTag(&cam, &snap.Tags[td.idx], snap.Radius)
	}

	v.canvas.Render(v.chunkWriter)
	v.canvas.RenderBorder(v.chunkWriter)

	for _, td := range depths {
		v.drawLabel(&cam, &snap.Tags[td.idx])
	}

	if v.isInactive {
		v.drawInactivityScreen()
	} else {
		v.drawHUD(snap)
	}

	return v.chunkWriter.Flush()
}

// drawTag projects one tag's plate into screen space and fills it with a
// depth-shaded intensity.
func (v *Viewer) drawTag(cam *camera, tag *sim.TagView, radius float64) {
	halfW := tag.Size / 2
	halfH := tag.Size * tagAspect / 2

	// Plate corners in the tag's local frame, rotated into world space
	right := tag.Orientation.Rotate(vec.Vec3{X: halfW})
	up := tag.Orientation.Rotate(vec.Vec3{Y: halfH})

	corners := [4]vec.Vec3{
		tag.Position.Sub(right).Sub(up),
		tag.Position.Add(right).Sub(up),
		tag.Position.Add(right).Add(up),
		tag.Position.Sub(right).Add(up),
	}

	pts := v.canvas.BorrowPoints(4)
	minDepth := math.MaxFloat64
	for i, corner := range corners {
		p := cam.transform(corner)
		sx, sy, depth := cam.project(p)
		if depth < nearPlane {
			return
		}
		if depth < minDepth {
			minDepth = depth
		}
		pts[i].X = sx
		pts[i].Y = sy
	}

	v.canvas.DrawPolygon(pts, v.shade(minDepth, radius, tag.Fade), true)
}

// shade maps camera depth to an intensity: nearer is brighter, and removing
// tags fade out with their fly-out progress.
func (v *Viewer) shade(depth, radius, fade float64) float64 {
	near := v.distance - radius
	far := v.distance + radius
	t := 0.5
	if far > near {
		t = (far - depth) / (far - near)
	}
	t = math.Max(0, math.Min(1, t))
	intensity := 0.2 + 0.8*t
	return intensity * (1 - 0.8*fade)
}

// drawLabel writes a tag's token symbol over its plate. Labels are text
// overlays, drawn after the canvas so they sit on top of the shading.
func (v *Viewer) drawLabel(cam *camera, tag *sim.TagView) {
	if tag.Symbol == "" || tag.Fade > 0.5 {
		return
	}

	p := cam.transform(tag.Position)
	sx, sy, depth := cam.project(p)
	if depth < nearPlane {
		return
	}

	// Skip labels on plates too small to carry text
	if tag.Size*focalLength/depth < float64(len(tag.Symbol)) {
		return
	}

	col, row := v.canvas.LogicalToTerminal(sx, sy)
	col -= len(tag.Symbol) / 2

	termWidth := v.canvas.TerminalWidth()
	termHeight := v.canvas.TerminalHeight()
	if row < 1 || row > termHeight {
		return
	}
	if col < 1 || col+len(tag.Symbol) > termWidth {
		return
	}

	v.chunkWriter.WriteAt(col, row, tag.Symbol)
	v.canvas.MarkTextDirty(col, row, len(tag.Symbol))
}

// drawHUD draws the overlay text. Fixed-width formatting so shrinking values
// don't leave residual characters on screen.
func (v *Viewer) drawHUD(snap *sim.Snapshot) {
	cw := v.chunkWriter
	termWidth := v.canvas.TerminalWidth()
	termHeight := v.canvas.TerminalHeight()

	tokenText := fmt.Sprintf("Tokens: %-4d", len(snap.Tags))
	cw.WriteAt(2, 1, tokenText)
	v.canvas.MarkTextDirty(2, 1, len(tokenText))

	viewerText := fmt.Sprintf("Viewers: %-3d", v.server.ClientCount())
	cw.WriteAt(termWidth-len(viewerText)-1, 1, viewerText)
	v.canvas.MarkTextDirty(termWidth-len(viewerText)-1, 1, len(viewerText))

	hint := "arrows rotate  +/- zoom  SPACE spin  N list  X delist  Q quit"
	if len(hint) < termWidth-2 {
		cw.WriteAt(2, termHeight, hint)
		v.canvas.MarkTextDirty(2, termHeight, len(hint))
	}
}

// drawInactivityScreen draws the inactivity warning.
func (v *Viewer) drawInactivityScreen() {
	cw := v.chunkWriter
	centerX := v.canvas.TerminalWidth() / 2
	centerY := v.canvas.TerminalHeight() / 2

	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(inactivityDisconnect-time.Since(v.lastInput).Seconds()),
	)
	cw.WriteCentered(centerX, centerY, msg)

	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}
