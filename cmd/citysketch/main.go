package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"time"

	"github.com/samirrijal/citysketch/internal/adapters/canvas"
	"github.com/samirrijal/citysketch/internal/adapters/csvfile"
	"github.com/samirrijal/citysketch/internal/adapters/nominatim"
	"github.com/samirrijal/citysketch/internal/adapters/overpass"
	"github.com/samirrijal/citysketch/internal/adapters/postgres"
	"github.com/samirrijal/citysketch/internal/core/domain"
	"github.com/samirrijal/citysketch/internal/core/ports"
	"github.com/samirrijal/citysketch/internal/core/usecases"
	"github.com/samirrijal/citysketch/internal/pkg/config"
	"github.com/samirrijal/citysketch/internal/pkg/logging"
)

func main() {
	var (
		place = flag.String("place", "", "place name for the administrative boundary (required)")
		lat   = flag.Float64("lat", math.NaN(), "latitude, used when the dataset yields no coordinates")
		lon   = flag.Float64("lon", math.NaN(), "longitude, used when the dataset yields no coordinates")
		boxKm = flag.Float64("box-km", 0, "bounding box size in km (default from config)")
		out   = flag.String("out", "", "output PNG path (overrides config)")
	)
	flag.Parse()

	if *place == "" {
		log.Fatal("-place is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx := context.Background()

	var source ports.DatasetSource
	switch cfg.Data.Source {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		source = postgres.NewSource(db, cfg.Data.Table)
	default:
		source = csvfile.New(cfg.Data.Path)
	}

	datasets := usecases.NewDatasetService(source, logger)

	var coords []domain.GeoPoint
	if ds := datasets.Load(ctx); ds != nil {
		coords, err = ds.Coordinates()
		if err != nil {
			logger.Warn("dataset has no usable coordinates", "error", err)
		}
	}

	var point *domain.GeoPoint
	if !math.IsNaN(*lat) && !math.IsNaN(*lon) {
		point = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}

	timeout := time.Duration(cfg.Services.TimeoutSeconds) * time.Second
	op := overpass.New(cfg.Services.OverpassURL, timeout, logger)
	nom := nominatim.New(cfg.Services.NominatimURL, cfg.Services.UserAgent, timeout, logger)

	outPath := cfg.Render.OutPath
	if *out != "" {
		outPath = *out
	}
	cv := canvas.New(cfg.Render.Width, cfg.Render.Height, outPath, logger)

	renderer := usecases.NewMapRenderService(op, nom, op, cv, logger)

	size := cfg.Render.BoxSizeKm
	if *boxKm > 0 {
		size = *boxKm
	}

	err = renderer.RenderRegion(ctx, usecases.RenderRequest{
		PlaceName: *place,
		Coords:    coords,
		Point:     point,
		BoxSizeKm: size,
	})
	if err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}
