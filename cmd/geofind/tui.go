package main

import (
	"context"
	"io"

	"github.com/rendis/geofind/internal/config"
	"github.com/rendis/geofind/internal/tui"
)

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; logs go to the session file or nowhere.
	s, err := setup(context.Background(), cfg, io.Discard)
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(tui.Deps{
		Finder:    s.finder,
		Favorites: s.favorites,
		Slots:     s.store,
		Locator:   s.locator,
		Area:      s.area,
		RadiusKm:  cfg.RadiusKm,
		Log:       s.log,
	})
}
