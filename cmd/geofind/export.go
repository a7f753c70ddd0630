package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/rendis/geofind/internal/config"
	"github.com/rendis/geofind/internal/model"
)

func runExport(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var outputPath, format string

	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.StringVar(&outputPath, "output", "favorites.csv", "Output file path, - for stdout")
	fs.StringVar(&format, "format", "csv", "Export format: csv")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: geofind export [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  geofind export\n")
		fmt.Fprintf(os.Stderr, "  geofind export -output - | column -s, -t\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if format != "csv" {
		return errors.Errorf("unsupported format: %s (only csv supported)", format)
	}

	s, err := setup(context.Background(), cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if w := s.favorites.Warning(); w != "" {
		fmt.Fprintln(os.Stderr, w)
	}
	list := s.favorites.List()
	if len(list) == 0 {
		return errors.New("no favorites saved")
	}

	var out io.Writer = os.Stdout
	if outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer f.Close()
		out = f
	}

	if err := writeFavoritesCSV(out, list); err != nil {
		return err
	}

	if outputPath != "-" {
		fmt.Fprintf(os.Stderr, "Exported %d favorites to %s\n", len(list), outputPath)
	}
	return nil
}

func writeFavoritesCSV(w io.Writer, list []model.Business) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"title", "place_id", "uri", "lat", "lng"})
	for _, b := range list {
		lat, lng := "", ""
		if c, ok := b.Coords(); ok {
			lat = strconv.FormatFloat(c.Latitude, 'f', 6, 64)
			lng = strconv.FormatFloat(c.Longitude, 'f', 6, 64)
		}
		cw.Write([]string{b.Title, b.PlaceID, b.URI, lat, lng})
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing csv")
}
