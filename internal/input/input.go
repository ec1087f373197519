package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's viewer input state.
type Input struct {
	Quit    bool // q
	Left    bool // Rotate camera left
	Right   bool // Rotate camera right
	Up      bool // Tilt camera up
	Down    bool // Tilt camera down
	ZoomIn  bool // + or =
	ZoomOut bool // -
	Space   bool // Toggle the cluster's idle rotation
	List    bool // n: list a new token
	Delist  bool // x: delist the newest token
	Pressed []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit    time.Time
	left    time.Time
	right   time.Time
	up      time.Time
	down    time.Time
	zoomIn  time.Time
	zoomOut time.Time
	space   time.Time
	list    time.Time
	delist  time.Time
}

// Stream delivers input bytes via a channel and tracks key state so held
// rotation keys keep applying across frames.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

	// Drain all available bytes
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break
			}
			buf = append(buf, b)
		default:
			goto parse
		}
	}

parse:
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code> (arrow keys)
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
				i += 2
				continue
			case 'B':
				s.state.down = now
				i += 2
				continue
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	// Keys are "pressed" if seen within the hold duration
	return Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Left:    now.Sub(s.state.left) < keyHoldDuration,
		Right:   now.Sub(s.state.right) < keyHoldDuration,
		Up:      now.Sub(s.state.up) < keyHoldDuration,
		Down:    now.Sub(s.state.down) < keyHoldDuration,
		ZoomIn:  now.Sub(s.state.zoomIn) < keyHoldDuration,
		ZoomOut: now.Sub(s.state.zoomOut) < keyHoldDuration,
		Space:   now.Sub(s.state.space) < keyHoldDuration,
		List:    now.Sub(s.state.list) < keyHoldDuration,
		Delist:  now.Sub(s.state.delist) < keyHoldDuration,
		Pressed: buf,
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	// Lone ESC is not mapped to quit: a split arrow-key sequence would
	// otherwise read as an exit.
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case '+', '=':
		state.zoomIn = now
	case '-', '_':
		state.zoomOut = now
	case ' ':
		state.space = now
	case 'n', 'N':
		state.list = now
	case 'x', 'X':
		state.delist = now
	}
}
