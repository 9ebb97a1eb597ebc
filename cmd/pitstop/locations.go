package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kass/pitstop/pkg/client"
	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/planner"
)

// parseLatLng parses "lat,lon"
func parseLatLng(s string) (models.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return models.LatLng{}, fmt.Errorf("expected lat,lon but got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return models.LatLng{}, fmt.Errorf("coordinates out of range in %q", s)
	}
	return models.LatLng{Lat: lat, Lon: lon}, nil
}

// resolveLocation turns a "lat,lon" pair or a place query into a location.
// A query resolves to its first search result.
func resolveLocation(ctx context.Context, searcher planner.Searcher, arg string) (models.Location, error) {
	if p, err := parseLatLng(arg); err == nil {
		return models.Location{
			Lat:     p.Lat,
			Lon:     p.Lon,
			Address: fmt.Sprintf("%s, %s", strconv.FormatFloat(p.Lat, 'f', -1, 64), strconv.FormatFloat(p.Lon, 'f', -1, 64)),
		}, nil
	}

	outcome := searcher.Search(ctx, arg)
	switch outcome.Status {
	case client.SearchFailed:
		return models.Location{}, fmt.Errorf("failed to search for %q: %w", arg, outcome.Err)
	case client.SearchEmpty:
		return models.Location{}, fmt.Errorf("no place matches %q", arg)
	}

	locations := outcome.Locations()
	if len(locations) == 0 {
		return models.Location{}, fmt.Errorf("no place with usable coordinates matches %q", arg)
	}
	return locations[0], nil
}

// warnOutside logs when a location lies off the configured map area
func warnOutside(logger *zap.Logger, bounds geo.Bounds, loc models.Location) {
	if !bounds.Contains(loc.LatLng()) {
		logger.Warn("location is outside the map area",
			zap.String("address", loc.Address),
			zap.Float64("lat", loc.Lat),
			zap.Float64("lon", loc.Lon),
		)
	}
}
