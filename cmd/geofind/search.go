package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/config"
	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/engine/search"
	"github.com/rendis/geofind/internal/model"
	"github.com/rendis/geofind/internal/tui"
	"github.com/rendis/geofind/internal/tui/styles"
)

func runSearch(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var (
		p             model.SearchParams
		lat, lng      float64
		locate        bool
		format, area  string
		geocodeManual bool
	)

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	fs.StringVar(&p.Category, "category", "", "Business category, e.g. \"coffee shops\" (required)")
	fs.StringVar(&p.ManualLocation, "location", "", "Free-text location, used when no coordinates are known")
	fs.Float64Var(&lat, "lat", 0, "Latitude of the search center")
	fs.Float64Var(&lng, "lng", 0, "Longitude of the search center")
	fs.Float64Var(&p.RadiusKm, "radius", cfg.RadiusKm, "Drop results farther than this many km (0 keeps all)")
	fs.BoolVar(&locate, "locate", false, "Estimate the current position before searching")
	fs.BoolVar(&geocodeManual, "geocode", cfg.GeocodeManual, "Geocode -location to rank results by distance")
	fs.StringVar(&area, "area", cfg.AreaFile, "GeoJSON file restricting results to an area")
	fs.StringVar(&format, "format", "table", "Output format: table, json or csv")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: geofind search [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  geofind search -category \"coffee shops\" -lat 40.7128 -lng -74.0060 -radius 2\n")
		fmt.Fprintf(os.Stderr, "  geofind search -category bakeries -location \"Brooklyn, NY\" -format json\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch format {
	case "table", "json", "csv":
	default:
		return errors.Errorf("unsupported format: %s (table, json or csv)", format)
	}

	// Coordinates apply only when both flags were given.
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["lat"] != set["lng"] {
		return errors.New("-lat and -lng must be given together")
	}
	if p.RadiusKm < 0 {
		return errors.New("-radius must not be negative")
	}
	// The category is checked before any geolocation request runs.
	if _, err := search.ValidateCategory(p.Category); err != nil {
		return err
	}

	cfg.GeocodeManual = geocodeManual
	cfg.AreaFile = area

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	s, err := setup(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.logPath != "" {
		fmt.Fprintf(os.Stderr, "Log: %s\n", s.logPath)
	}

	switch {
	case set["lat"]:
		p.Coords = &model.LocationCoords{Latitude: lat, Longitude: lng}
		if !geo.ValidCoords(*p.Coords) {
			return errors.Errorf("invalid coordinates %.6f, %.6f", lat, lng)
		}
	case locate || cfg.StaticCoords() != nil:
		c, err := geo.Resolve(ctx, s.locator)
		if err != nil {
			if p.ManualLocation == "" {
				return err
			}
			fmt.Fprintf(os.Stderr, "%v; using -location\n", err)
		} else {
			p.Coords = &c
		}
	}

	start := time.Now()
	found, err := s.finder.Find(ctx, p)
	if err != nil {
		return err
	}

	if _, err := tui.SaveRecent(ctx, s.store, p); err != nil {
		s.log.WithError(err).Warn("saving recent search failed")
	}

	fmt.Fprintf(os.Stderr, "%d results for %q near %s (%s)\n",
		len(found.Ranked), found.Category, found.Location.String(), time.Since(start).Truncate(time.Millisecond))
	if found.NoResults() {
		return nil
	}

	switch format {
	case "json":
		return writeJSON(os.Stdout, found.Ranked)
	case "csv":
		return writeCSV(os.Stdout, found.Ranked, s.favorites.Contains)
	default:
		fmt.Println(renderTable(found, s.favorites.Contains))
		return nil
	}
}

func writeJSON(w io.Writer, ranked []model.RankedBusiness) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ranked)
}

func writeCSV(w io.Writer, ranked []model.RankedBusiness, isFavorite func(string) bool) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"title", "place_id", "uri", "lat", "lng", "distance_km", "favorite"})
	for _, b := range ranked {
		lat, lng, dist := "", "", ""
		if c, ok := b.Coords(); ok {
			lat = strconv.FormatFloat(c.Latitude, 'f', 6, 64)
			lng = strconv.FormatFloat(c.Longitude, 'f', 6, 64)
		}
		if b.DistanceKm != nil {
			dist = strconv.FormatFloat(*b.DistanceKm, 'f', 3, 64)
		}
		cw.Write([]string{b.Title, b.PlaceID, b.URI, lat, lng, dist, strconv.FormatBool(isFavorite(b.PlaceID))})
	}
	cw.Flush()
	return cw.Error()
}

func renderTable(found search.Found, isFavorite func(string) bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers("★", "Name", "Distance", "Maps").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(styles.Secondary).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, b := range found.Ranked {
		star := ""
		if isFavorite(b.PlaceID) {
			star = "★"
		}
		dist := "-"
		if b.DistanceKm != nil {
			dist = fmt.Sprintf("%.1f km", *b.DistanceKm)
		}
		t.Row(star, b.Title, dist, b.URI)
	}
	return t.Render()
}
