// Package sim runs the shared cluster simulation: one engine plus one market
// feed ticking at a fixed rate, publishing immutable snapshots that any
// number of viewer clients can read without locking.
package sim

import (
	"context"
	"io"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Rotwang9000/memecube-sub001/internal/cube"
	"github.com/Rotwang9000/memecube-sub001/internal/feed"
)

// TickRate is the simulation frequency.
const TickRate = 60

// TickTime is the duration of one simulation step.
const TickTime = time.Second / TickRate

// SpinRate is the decorative whole-structure rotation, in radians per
// second. Applied by renderers as a post-transform; the engine itself never
// sees it.
const SpinRate = 0.15

// Command is a world-affecting request from a client.
type Command int

const (
	// CmdListToken lists a new token (spawns a tag).
	CmdListToken Command = iota
	// CmdDelistToken delists the newest token (animated removal).
	CmdDelistToken
	// CmdToggleSpin pauses or resumes the decorative rotation.
	CmdToggleSpin
)

// ClientHandle identifies a registered viewer.
type ClientHandle struct {
	ID int
}

// Server owns the simulation loop. Create with NewServer, drive with Run.
type Server struct {
	cluster *cube.Cluster
	feed    *feed.Feed
	logger  *log.Logger

	snapshot atomic.Pointer[Snapshot]

	cmdCh        chan Command
	registerCh   chan *ClientHandle
	unregisterCh chan int

	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int

	spin     float64
	spinning bool
}

// Options configures the server.
type Options struct {
	Tuning     *cube.Tuning // nil for defaults
	FeedTarget int          // 0 for the feed default
	Seed       int64        // 0 for time-based
	Logger     *log.Logger  // nil to discard
}

// NewServer creates a server with a fresh cluster and feed.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	clusterOpts := []cube.Option{
		cube.WithRand(rand.New(rand.NewSource(seed))),
		cube.WithLogger(logger),
	}
	if opts.Tuning != nil {
		clusterOpts = append(clusterOpts, cube.WithTuning(*opts.Tuning))
	}
	cluster := cube.New(clusterOpts...)

	feedOpts := []feed.Option{
		feed.WithRand(rand.New(rand.NewSource(seed + 1))),
		feed.WithLogger(logger),
	}
	if opts.FeedTarget > 0 {
		feedOpts = append(feedOpts, feed.WithTarget(opts.FeedTarget))
	}

	s := &Server{
		cluster:      cluster,
		feed:         feed.New(cluster, feedOpts...),
		logger:       logger,
		cmdCh:        make(chan Command, 64),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		spinning:     true,
	}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Run drives the simulation until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		s.processRegistrations()
		s.processCommands()

		s.feed.Update(dt)
		s.cluster.Update(dt)

		if s.spinning {
			s.spin = math.Mod(s.spin+SpinRate*dt, 2*math.Pi)
		}

		s.publishSnapshot()

		if elapsed := time.Since(frameStart); elapsed < TickTime {
			time.Sleep(TickTime - elapsed)
		}
	}
}

// RegisterClient adds a viewer and returns its handle.
func (s *Server) RegisterClient() *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{ID: id}
	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a viewer.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// Do submits a command to the simulation. Commands are dropped when the
// queue is full rather than blocking a render loop.
func (s *Server) Do(cmd Command) {
	select {
	case s.cmdCh <- cmd:
	default:
	}
}

// Snapshot returns the most recently published world snapshot.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// ClientCount returns the number of registered viewers.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown waits for all clients to disconnect, up to the given timeout.
// The caller should cancel the Run context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.ClientCount() == 0 {
				return
			}
		}
	}
}

// processRegistrations drains pending client churn.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("viewer connected", "id", handle.ID)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			delete(s.clients, clientID)
			s.mu.Unlock()
			s.logger.Info("viewer disconnected", "id", clientID)
		default:
			return
		}
	}
}

// processCommands applies all pending client commands.
func (s *Server) processCommands() {
	for {
		select {
		case cmd := <-s.cmdCh:
			switch cmd {
			case CmdListToken:
				s.feed.List()
			case CmdDelistToken:
				s.feed.DelistNewest()
			case CmdToggleSpin:
				s.spinning = !s.spinning
			}
		default:
			return
		}
	}
}
