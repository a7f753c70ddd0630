package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/rendis/geofind/internal/config"
	"github.com/rendis/geofind/internal/server"
)

func runServe(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var addr string
	var debug bool

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.StringVar(&addr, "addr", cfg.ListenAddr, "Listen address")
	fs.BoolVar(&debug, "debug", false, "Run gin in debug mode")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: geofind serve [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEndpoints:\n")
		fmt.Fprintf(os.Stderr, "  GET  /api/search?category=&lat=&lng=&location=&radius=\n")
		fmt.Fprintf(os.Stderr, "  GET  /api/businesses/:placeId/details\n")
		fmt.Fprintf(os.Stderr, "  POST /api/pitch\n")
		fmt.Fprintf(os.Stderr, "  GET  /api/favorites\n")
		fmt.Fprintf(os.Stderr, "  POST /api/favorites/toggle\n")
		fmt.Fprintf(os.Stderr, "  GET  /healthz\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := setup(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	return server.New(s.finder, s.favorites, cfg.RadiusKm, s.log).Run(ctx, addr)
}
