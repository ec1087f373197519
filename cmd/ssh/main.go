package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/Rotwang9000/memecube-sub001/internal/config"
	"github.com/Rotwang9000/memecube-sub001/internal/cube"
	"github.com/Rotwang9000/memecube-sub001/internal/draw"
	"github.com/Rotwang9000/memecube-sub001/internal/sim"
	"github.com/Rotwang9000/memecube-sub001/internal/view"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = ".ssh/cube_host_key"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "ssh",
})

func main() {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("config", "host", host, "port", port, "hostKey", hostKeyPath)

	simOpts := sim.Options{Logger: logger}
	if path := config.GetEnv("CUBE_TUNING", ""); path != "" {
		tuning, err := cube.LoadTuning(path)
		if err != nil {
			logger.Fatal("failed to load tuning", "err", err)
		}
		simOpts.Tuning = &tuning
	}

	ctx, cancelServer := context.WithCancel(context.Background())
	simServer := sim.NewServer(simOpts)
	go simServer.Run(ctx)
	logger.Info("simulation started")

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			viewerMiddleware(simServer),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for camera input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	// Wait for connected viewers to drop off before stopping the simulation
	simServer.Shutdown(10 * time.Second)
	cancelServer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// viewerMiddleware handles SSH sessions and runs a cluster viewer for each.
func viewerMiddleware(simServer *sim.Server) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Info("new session",
				"user", sess.User(), "term", pty.Term,
				"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			reader := bufio.NewReader(sess)
			viewer := view.NewViewer(simServer, reader, sess, view.Options{
				TermSizeFunc: sizeTracker.getSize,
			})
			if err := viewer.Run(); err != nil {
				logger.Warn("viewer error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
