package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kass/pitstop/pkg/errs"
)

// LatLng is a single decoded route vertex in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location represents a geocoded point chosen by the user
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}

// LatLng returns the coordinates of the location
func (l Location) LatLng() LatLng {
	return LatLng{Lat: l.Lat, Lon: l.Lon}
}

// SearchResult is one raw row returned by the search endpoint.
// Coordinates arrive as decimal strings.
type SearchResult struct {
	SearchVal    string `json:"SEARCHVAL"`
	BlkNo        string `json:"BLK_NO"`
	RoadName     string `json:"ROAD_NAME"`
	BuildingName string `json:"BUILDING_NAME,omitempty"`
	Building     string `json:"BUILDING,omitempty"`
	Address      string `json:"ADDRESS"`
	Postal       string `json:"POSTAL"`
	X            string `json:"X"`
	Y            string `json:"Y"`
	Latitude     string `json:"LATITUDE"`
	Longitude    string `json:"LONGITUDE"`
}

// Name returns the building name, whichever key the geocoder used for it
func (r SearchResult) Name() string {
	if r.BuildingName != "" {
		return r.BuildingName
	}
	return r.Building
}

// ToLocation parses the row's coordinates into a Location
func (r SearchResult) ToLocation() (Location, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Latitude), 64)
	if err != nil {
		return Location{}, errs.Decode("latitude", fmt.Errorf("%q: %w", r.Latitude, err))
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(r.Longitude), 64)
	if err != nil {
		return Location{}, errs.Decode("longitude", fmt.Errorf("%q: %w", r.Longitude, err))
	}
	return Location{Lat: lat, Lon: lon, Address: r.Address}, nil
}

// RouteSummary holds aggregate metrics for one candidate route
type RouteSummary struct {
	StartPoint     string  `json:"start_point"`
	EndPoint       string  `json:"end_point"`
	TotalDistanceM float64 `json:"total_distance_m"`
	TotalTimeS     float64 `json:"total_time_s"`
}

// RouteResult is one candidate route returned by the routes endpoint
type RouteResult struct {
	RouteGeometry     string        `json:"route_geometry"`
	RouteInstructions []string      `json:"route_instructions"`
	RouteSummary      RouteSummary  `json:"route_summary"`
	ParkingSpots      []ParkingSpot `json:"parking_spots"`
}

// Minutes returns the travel time rounded to whole minutes
func (r RouteResult) Minutes() int {
	return int(math.Round(r.RouteSummary.TotalTimeS / 60))
}

// Kilometres returns the route length in kilometres
func (r RouteResult) Kilometres() float64 {
	return r.RouteSummary.TotalDistanceM / 1000
}

// Coordinates is a parking spot position
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParkingSpot is a suggested bike parking stop along a route
type ParkingSpot struct {
	ID               int64       `json:"id"`
	Description      string      `json:"description"`
	Coordinates      Coordinates `json:"coordinates"`
	RackType         string      `json:"rack_type"`
	RackCount        int         `json:"rack_count"`
	ShelterIndicator Shelter     `json:"shelter_indicator"`
	DeviationM       *float64    `json:"deviation_m,omitempty"`
}

// LatLng returns the spot position
func (p ParkingSpot) LatLng() LatLng {
	return LatLng{Lat: p.Coordinates.Lat, Lon: p.Coordinates.Lon}
}

// Shelter reports whether a parking spot is sheltered.
// The backend sends either a JSON bool or a "Y"/"N" flag.
type Shelter bool

// UnmarshalJSON accepts true/false, "Y"/"N" and "true"/"false"
func (s *Shelter) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = Shelter(b)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid shelter indicator %s", data)
	}
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "Y", "YES", "TRUE":
		*s = true
	case "N", "NO", "FALSE", "", "N/A":
		*s = false
	default:
		return fmt.Errorf("invalid shelter indicator %q", str)
	}
	return nil
}

// String renders the indicator the way parking popups show it
func (s Shelter) String() string {
	if s {
		return "Yes"
	}
	return "No"
}
