// Package geo provides spatial helpers for planned routes: geodesic
// distances, map bounds and an R-Tree index of parking spots.
package geo

import (
	"github.com/golang/geo/s2"

	"github.com/kass/pitstop/pkg/models"
)

// EarthRadiusM is the mean Earth radius used for all distances
const EarthRadiusM = 6371000.0

// Distance returns the great-circle distance between a and b in metres
func Distance(a, b models.LatLng) float64 {
	la := s2.LatLngFromDegrees(a.Lat, a.Lon)
	lb := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return la.Distance(lb).Radians() * EarthRadiusM
}

// PathLength returns the length of a polyline path in metres
func PathLength(path []models.LatLng) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1], path[i])
	}
	return total
}

// CumulativeDistances returns the distance from the first vertex to each vertex
func CumulativeDistances(path []models.LatLng) []float64 {
	if len(path) == 0 {
		return nil
	}
	out := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		out[i] = out[i-1] + Distance(path[i-1], path[i])
	}
	return out
}

// Bounds is a rectangular map area defined by two corners
type Bounds struct {
	SouthWest models.LatLng `yaml:"south_west" json:"south_west"`
	NorthEast models.LatLng `yaml:"north_east" json:"north_east"`
}

// Contains reports whether p lies inside the bounds, edges included
func (b Bounds) Contains(p models.LatLng) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lon >= b.SouthWest.Lon && p.Lon <= b.NorthEast.Lon
}

// Valid reports whether the south-west corner is below and left of the north-east one
func (b Bounds) Valid() bool {
	return b.SouthWest.Lat < b.NorthEast.Lat && b.SouthWest.Lon < b.NorthEast.Lon
}
