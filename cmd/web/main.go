package main

import (
	"context"
	_ "embed"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Rotwang9000/memecube-sub001/internal/config"
	"github.com/Rotwang9000/memecube-sub001/internal/cube"
	"github.com/Rotwang9000/memecube-sub001/internal/sim"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"

	// snapshotInterval is how often world state is pushed to each socket.
	// 20 Hz is plenty for browser rendering with interpolation.
	snapshotInterval = 50 * time.Millisecond

	writeTimeout = 5 * time.Second
)

//go:embed index.html
var htmlPage []byte

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "web",
})

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16384,
	// The page is served from this same process; allow all origins so the
	// server works behind proxies without extra config.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func main() {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	simOpts := sim.Options{Logger: logger}
	if path := config.GetEnv("CUBE_TUNING", ""); path != "" {
		tuning, err := cube.LoadTuning(path)
		if err != nil {
			logger.Fatal("failed to load tuning", "err", err)
		}
		simOpts.Tuning = &tuning
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	simServer := sim.NewServer(simOpts)
	go simServer.Run(ctx)
	logger.Info("simulation started")

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(htmlPage)
	})
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveSocket(simServer, w, r)
	})

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// clientCommand is the inbound message format from the browser.
type clientCommand struct {
	Cmd string `json:"cmd"`
}

// serveSocket upgrades the connection and streams world snapshots until the
// client goes away. Inbound messages carry world commands.
func serveSocket(simServer *sim.Server, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	handle := simServer.RegisterClient()
	defer simServer.UnregisterClient(handle.ID)
	logger.Info("socket connected", "id", handle.ID, "remote", r.RemoteAddr)

	// Read pump: commands in, and connection-close detection
	go func() {
		for {
			var cmd clientCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			switch cmd.Cmd {
			case "list":
				simServer.Do(sim.CmdListToken)
			case "delist":
				simServer.Do(sim.CmdDelistToken)
			case "spin":
				simServer.Do(sim.CmdToggleSpin)
			}
		}
	}()

	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for range ticker.C {
		snap := simServer.Snapshot()
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(snap); err != nil {
			logger.Info("socket closed", "id", handle.ID)
			return
		}
	}
}
