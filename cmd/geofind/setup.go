package main

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rendis/geofind/internal/config"
	"github.com/rendis/geofind/internal/engine/genai"
	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/engine/search"
	"github.com/rendis/geofind/internal/engine/storage"
	"github.com/rendis/geofind/internal/engine/transport"
	"github.com/rendis/geofind/internal/favorites"
	"github.com/rendis/geofind/internal/logging"
)

// services is everything a session needs, built from config.
type services struct {
	cfg       *config.Config
	log       *logrus.Logger
	logPath   string
	store     storage.SlotStore
	finder    *search.Finder
	favorites *favorites.Store
	locator   geo.Locator
	area      *geo.Area

	closeLog func() error
}

func (s *services) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.closeLog != nil {
		s.closeLog()
	}
}

// setup wires the services. logFallback receives log output when no log
// directory is configured.
func setup(ctx context.Context, cfg *config.Config, logFallback io.Writer) (*services, error) {
	session, err := logging.Open(cfg.LogDir, cfg.LogLevel, logFallback)
	if err != nil {
		return nil, err
	}
	s := &services{cfg: cfg, log: session.Logger, logPath: session.Path, closeLog: session.Close}

	s.log.WithFields(logrus.Fields{
		"store": cfg.Store,
		"model": cfg.Model,
	}).Info("session start")

	s.store, err = storage.Open(ctx, storage.Options{
		Backend:     cfg.Store,
		DBPath:      cfg.DBPath,
		DynamoTable: cfg.DynamoTable,
		Owner:       cfg.ClientID,
	})
	if err != nil {
		s.Close()
		return nil, errors.Wrap(err, "opening store")
	}

	s.favorites = favorites.New(s.store, s.log)
	if err := s.favorites.Load(ctx); err != nil {
		s.Close()
		return nil, err
	}

	client, err := transport.NewHTTPClient(cfg.ProxyURL, cfg.Timeout)
	if err != nil {
		s.Close()
		return nil, err
	}
	ai := genai.NewClient(client, cfg.APIBaseURL, cfg.Model, cfg.APIKey)
	s.finder = search.NewFinder(search.NewOrchestrator(ai, s.log), s.log)

	if cfg.GeocodeManual {
		s.finder.Geocoder = geo.NewGeocoder(client)
	}
	if cfg.AreaFile != "" {
		s.area, err = geo.LoadArea(cfg.AreaFile)
		if err != nil {
			s.Close()
			return nil, errors.Wrapf(err, "loading area %s", cfg.AreaFile)
		}
		s.finder.Area = s.area
	}

	switch {
	case cfg.StaticCoords() != nil:
		s.locator = geo.StaticLocator{Coords: *cfg.StaticCoords()}
	case cfg.LocateURL != "":
		s.locator = geo.NewIPLocator(client, cfg.LocateURL)
	default:
		s.locator = geo.NoLocator{}
	}

	return s, nil
}
