// Package view renders the tag cluster to a terminal. Each connection gets
// its own Viewer with a private camera; world state comes from the shared
// simulation's snapshots.
package view

import (
	"bufio"
	"io"
	"math"
	"time"

	"github.com/Rotwang9000/memecube-sub001/internal/draw"
	"github.com/Rotwang9000/memecube-sub001/internal/input"
	"github.com/Rotwang9000/memecube-sub001/internal/sim"
)

// View resolution - the logical viewport. Actual rendering scales to fit the
// terminal, clamped to the max resolution below.
const (
	ViewWidth  = 160
	ViewHeight = 50
)

// Max render resolution; larger terminals get a centered canvas with a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Camera limits and speeds.
const (
	rotateSpeed = 1.6 // Radians per second
	zoomSpeed   = 12.0
	minDistance = 6.0
	maxDistance = 80.0
	maxPitch    = 1.2
)

// Inactivity timeouts in seconds.
const (
	inactivityWarn       = 90
	inactivityDisconnect = 120
)

const (
	targetFPS       = 60
	targetFrameTime = time.Second / targetFPS
)

// Viewer handles rendering and input for a single connection.
type Viewer struct {
	server       *sim.Server
	handle       *sim.ClientHandle
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc

	// Camera orbit around the cluster center
	yaw      float64
	pitch    float64
	distance float64

	running     bool
	delta       time.Duration
	isInactive  bool
	wasInactive bool
	prevInput   input.Input

	depthBuf []tagDepth
}

// Options configures the viewer.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
}

// NewViewer creates a viewer connected to the given simulation server.
func NewViewer(srv *sim.Server, r *bufio.Reader, w io.Writer, opts Options) *Viewer {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, ViewWidth, ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Viewer{
		server:       srv,
		handle:       srv.RegisterClient(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		reader:       r,
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		yaw:          0.6,
		pitch:        0.35,
		distance:     26,
		running:      true,
	}
}

// Run starts the viewer loop. Blocks until the viewer disconnects.
func (v *Viewer) Run() error {
	draw.HideCursor(v.writer)
	defer draw.ShowCursor(v.writer)
	draw.ClearScreen(v.writer)

	lastTime := time.Now()

	for v.running {
		frameStart := time.Now()
		v.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		v.processInput()
		v.updateScreen()

		if err := v.drawFrame(); err != nil {
			v.server.UnregisterClient(v.handle.ID)
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	v.server.UnregisterClient(v.handle.ID)
	draw.ClearScreen(v.writer)
	return nil
}

// processInput reads input, moves the camera, and forwards world commands to
// the server. Toggle keys trigger on the press edge so a held key doesn't
// fire every frame.
func (v *Viewer) processInput() {
	in := input.ReadInput(v.inputStream)
	dt := v.delta.Seconds()

	if len(in.Pressed) > 0 {
		v.lastInput = time.Now()
		v.isInactive = false
	} else if time.Since(v.lastInput).Seconds() > inactivityDisconnect {
		v.running = false
	} else if time.Since(v.lastInput).Seconds() > inactivityWarn {
		v.isInactive = true
	}

	if in.Quit {
		v.running = false
	}

	if in.Left {
		v.yaw -= rotateSpeed * dt
	}
	if in.Right {
		v.yaw += rotateSpeed * dt
	}
	if in.Up {
		v.pitch += rotateSpeed * dt
	}
	if in.Down {
		v.pitch -= rotateSpeed * dt
	}
	v.pitch = math.Max(-maxPitch, math.Min(maxPitch, v.pitch))

	if in.ZoomIn {
		v.distance -= zoomSpeed * dt
	}
	if in.ZoomOut {
		v.distance += zoomSpeed * dt
	}
	v.distance = math.Max(minDistance, math.Min(maxDistance, v.distance))

	if in.Space && !v.prevInput.Space {
		v.server.Do(sim.CmdToggleSpin)
	}
	if in.List && !v.prevInput.List {
		v.server.Do(sim.CmdListToken)
	}
	if in.Delist && !v.prevInput.Delist {
		v.server.Do(sim.CmdDelistToken)
	}

	v.prevInput = in
}

// updateScreen handles terminal resize, clamping to the max render
// resolution. On actual size changes, clears the terminal to remove residual
// content outside the new canvas area.
func (v *Viewer) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(v.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != v.canvas.TerminalWidth() || renderHeight != v.canvas.TerminalHeight() ||
		offsetCol != v.canvas.OffsetCol() || offsetRow != v.canvas.OffsetRow() {
		draw.ClearScreen(v.writer)
		v.canvas.ForceRedraw()
	}

	v.canvas.Resize(renderWidth, renderHeight)
	v.canvas.SetOffset(offsetCol, offsetRow)
	v.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > MaxTermWidth {
		renderWidth = MaxTermWidth
	}
	if renderHeight > MaxTermHeight {
		renderHeight = MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
