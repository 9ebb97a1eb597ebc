package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/mapview"
	"github.com/kass/pitstop/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a route as GeoJSON",
	Long: `Write the route line, its endpoints and its parking spots as a GeoJSON
FeatureCollection that any map viewer can open.`,
	RunE: runExport,
}

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Find parking spots near a point",
	Long:  `Find the parking spots of a plan closest to a point, or all spots within a radius.`,
	RunE:  runNearest,
}

var (
	exportRoute  int
	exportOut    string
	herePosition string

	nearLat      float64
	nearLon      float64
	numNeighbors int
	searchRadius float64
)

func init() {
	exportCmd.Flags().StringVarP(&planFile, "file", "f", "", "Saved plan file")
	addPlanFlags(exportCmd)
	exportCmd.Flags().IntVarP(&exportRoute, "route", "r", 0, "Route to export (1-based, default the highlighted or first route)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&herePosition, "here", "", `Your position as "lat,lon", added as a marker`)

	nearestCmd.Flags().StringVarP(&planFile, "file", "f", "", "Saved plan file")
	addPlanFlags(nearestCmd)
	nearestCmd.Flags().Float64Var(&nearLat, "lat", 0, "Latitude of the point")
	nearestCmd.Flags().Float64Var(&nearLon, "lon", 0, "Longitude of the point")
	nearestCmd.Flags().IntVarP(&numNeighbors, "neighbors", "k", 3, "Number of nearest spots to find")
	nearestCmd.Flags().Float64VarP(&searchRadius, "radius", "r", 0, "Search radius in metres (overrides -k)")
	_ = nearestCmd.MarkFlagRequired("lat")
	_ = nearestCmd.MarkFlagRequired("lon")

	rootCmd.AddCommand(exportCmd, nearestCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	state, err := planOrLoad(cmd.Context())
	if err != nil {
		return err
	}

	routes := state.Routes()
	if len(routes) == 0 {
		return errors.New("the plan has no routes to export")
	}

	idx := 0
	if exportRoute != 0 {
		idx = exportRoute - 1
	} else if _, current, ok := state.Current(); ok {
		idx = current
	}
	if idx < 0 || idx >= len(routes) {
		return fmt.Errorf("route %d does not exist, the plan has %d routes", exportRoute, len(routes))
	}

	var user *models.LatLng
	if herePosition != "" {
		p, err := parseLatLng(herePosition)
		if err != nil {
			return fmt.Errorf("failed to parse --here: %w", err)
		}
		user = &p
	}

	fc, err := mapview.FeatureCollection(&routes[idx], user)
	if err != nil {
		return err
	}
	mapview.SetViewport(fc, cfg.Map.Center)
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	log.Info("route exported",
		zap.String("file", exportOut),
		zap.Int("route", idx+1),
		zap.Int("features", len(fc.Features)),
	)
	return nil
}

func runNearest(cmd *cobra.Command, args []string) error {
	state, err := planOrLoad(cmd.Context())
	if err != nil {
		return err
	}

	index := geo.NewParkingIndex()
	if err := index.IndexRoutes(state.Routes()); err != nil {
		return fmt.Errorf("failed to index parking spots: %w", err)
	}
	log.Debug("parking spots indexed", zap.Int64("count", index.Count()))

	point := models.LatLng{Lat: nearLat, Lon: nearLon}
	var matches []geo.Match
	if searchRadius > 0 {
		matches, err = index.WithinRadius(point, searchRadius)
		if err != nil {
			return err
		}
	} else {
		matches = index.Nearest(point, numNeighbors)
	}

	fmt.Print(out.Matches(matches))
	return nil
}
