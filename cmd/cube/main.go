package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Rotwang9000/memecube-sub001/internal/config"
	"github.com/Rotwang9000/memecube-sub001/internal/cube"
	"github.com/Rotwang9000/memecube-sub001/internal/sim"
	"github.com/Rotwang9000/memecube-sub001/internal/view"
)

func main() {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.WarnLevel)

	opts := sim.Options{Logger: logger}

	if path := config.GetEnv("CUBE_TUNING", ""); path != "" {
		tuning, err := cube.LoadTuning(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load tuning: %v\n", err)
			os.Exit(1)
		}
		opts.Tuning = &tuning
	}
	if v := config.GetEnv("CUBE_TOKENS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "invalid CUBE_TOKENS: %q\n", v)
			os.Exit(1)
		}
		opts.FeedTarget = n
	}
	if v := config.GetEnv("CUBE_SEED", ""); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid CUBE_SEED: %q\n", v)
			os.Exit(1)
		}
		opts.Seed = seed
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := sim.NewServer(opts)
	go srv.Run(ctx)

	reader := bufio.NewReader(os.Stdin)
	viewer := view.NewViewer(srv, reader, os.Stdout, view.Options{})
	if err := viewer.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "viewer error: %v\n", err)
		os.Exit(1)
	}
}
