package mockapi

import (
	"fmt"
	"math"

	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/polyline"
)

const (
	// DefaultIntervalMins matches the backend default for intervalMins
	DefaultIntervalMins = 30

	// average cycling speed the backend assumes: 15 km/h
	metresPerMinute = 250.0

	segments = 24
)

// DefaultPlaces returns a handful of Singapore landmarks
func DefaultPlaces() []models.SearchResult {
	return []models.SearchResult{
		{
			SearchVal: "EAST COAST PARK OFFICE", BlkNo: "906", RoadName: "EAST COAST PARKWAY",
			Building: "EAST COAST PARK OFFICE", Address: "906 EAST COAST PARKWAY EAST COAST PARK OFFICE SINGAPORE 449895",
			Postal: "449895", X: "35574.200743217", Y: "31122.488094667",
			Latitude: "1.29773431957503", Longitude: "103.901376105637",
		},
		{
			SearchVal: "MARINA BAY SANDS", BlkNo: "10", RoadName: "BAYFRONT AVENUE",
			Building: "MARINA BAY SANDS", Address: "10 BAYFRONT AVENUE MARINA BAY SANDS SINGAPORE 018956",
			Postal: "018956", X: "30284.2096366", Y: "29578.9536419",
			Latitude: "1.28376015867", Longitude: "103.85975547",
		},
		{
			SearchVal: "CHANGI AIRPORT TERMINAL 3", BlkNo: "65", RoadName: "AIRPORT BOULEVARD",
			Building: "CHANGI AIRPORT TERMINAL 3", Address: "65 AIRPORT BOULEVARD CHANGI AIRPORT TERMINAL 3 SINGAPORE 819663",
			Postal: "819663", X: "45069.1937", Y: "36265.3627",
			Latitude: "1.35562", Longitude: "103.98654",
		},
		{
			SearchVal: "BISHAN-ANG MO KIO PARK", BlkNo: "1384", RoadName: "ANG MO KIO AVENUE 1",
			Building: "BISHAN-ANG MO KIO PARK", Address: "1384 ANG MO KIO AVENUE 1 BISHAN-ANG MO KIO PARK SINGAPORE 569931",
			Postal: "569931", X: "29731.56", Y: "37987.28",
			Latitude: "1.36256", Longitude: "103.84669",
		},
		{
			SearchVal: "JURONG LAKE GARDENS", BlkNo: "", RoadName: "YUAN CHING ROAD",
			Building: "JURONG LAKE GARDENS", Address: "YUAN CHING ROAD JURONG LAKE GARDENS SINGAPORE 618661",
			Postal: "618661", X: "16932.81", Y: "35012.07",
			Latitude: "1.33872", Longitude: "103.72952",
		},
	}
}

// GenerateRoutes builds a direct route and a detour between start and end,
// with parking spots placed the way the backend places them: one checkpoint
// every interval of travel plus one at the destination.
func GenerateRoutes(start, end models.LatLng, intervalMins int, places []models.SearchResult) []models.RouteResult {
	startName := nearestPlaceName(start, places)
	endName := nearestPlaceName(end, places)

	direct := straightPath(start, end)

	// Bend the detour sideways by a fifth of the direct distance
	mid := models.LatLng{Lat: (start.Lat + end.Lat) / 2, Lon: (start.Lon + end.Lon) / 2}
	dLat, dLon := end.Lat-start.Lat, end.Lon-start.Lon
	bend := models.LatLng{Lat: mid.Lat - dLon*0.2, Lon: mid.Lon + dLat*0.2}
	detour := append(straightPath(start, bend), straightPath(bend, end)[1:]...)

	return []models.RouteResult{
		buildRoute(direct, startName, endName, intervalMins, []string{
			"Head towards " + endName,
			"Continue straight",
			"Arrive at " + endName,
		}),
		buildRoute(detour, startName, endName, intervalMins, []string{
			"Head towards the park connector",
			"Turn onto the park connector",
			"Continue towards " + endName,
			"Arrive at " + endName,
		}),
	}
}

func buildRoute(path []models.LatLng, startName, endName string, intervalMins int, instructions []string) models.RouteResult {
	distance := geo.PathLength(path)
	return models.RouteResult{
		RouteGeometry:     polyline.Encode(path),
		RouteInstructions: instructions,
		RouteSummary: models.RouteSummary{
			StartPoint:     startName,
			EndPoint:       endName,
			TotalDistanceM: math.Round(distance),
			TotalTimeS:     math.Round(distance / metresPerMinute * 60),
		},
		ParkingSpots: placeSpots(path, distance, intervalMins),
	}
}

func placeSpots(path []models.LatLng, total float64, intervalMins int) []models.ParkingSpot {
	if len(path) == 0 || intervalMins <= 0 {
		return []models.ParkingSpot{}
	}
	step := float64(intervalMins) * metresPerMinute

	var checkpoints []float64
	for d := step; ; d += step {
		checkpoints = append(checkpoints, d)
		if d+step > total {
			break
		}
	}
	if checkpoints[len(checkpoints)-1] < total {
		checkpoints = append(checkpoints, total)
	}

	cum := geo.CumulativeDistances(path)
	spots := make([]models.ParkingSpot, 0, len(checkpoints))
	seen := make(map[int64]bool)
	for _, ckpt := range checkpoints {
		idx := closestIndex(cum, ckpt)
		p := path[idx]
		// Racks sit a little off the road
		rack := models.LatLng{Lat: p.Lat + 0.0002, Lon: p.Lon + 0.0001}
		id := spotID(rack)
		if seen[id] {
			continue
		}
		seen[id] = true

		deviation := math.Round(geo.Distance(p, rack)*10) / 10
		spots = append(spots, models.ParkingSpot{
			ID:               id,
			Description:      fmt.Sprintf("Bicycle rack near %.5f, %.5f", rack.Lat, rack.Lon),
			Coordinates:      models.Coordinates{Lat: rack.Lat, Lon: rack.Lon},
			RackType:         "Yellow Box",
			RackCount:        10 + int(id%20),
			ShelterIndicator: models.Shelter(id%2 == 0),
			DeviationM:       &deviation,
		})
	}
	return spots
}

func straightPath(a, b models.LatLng) []models.LatLng {
	path := make([]models.LatLng, segments+1)
	for i := 0; i <= segments; i++ {
		f := float64(i) / segments
		path[i] = models.LatLng{
			Lat: round5(a.Lat + (b.Lat-a.Lat)*f),
			Lon: round5(a.Lon + (b.Lon-a.Lon)*f),
		}
	}
	return path
}

func closestIndex(cum []float64, target float64) int {
	best := 0
	for i, d := range cum {
		if math.Abs(d-target) < math.Abs(cum[best]-target) {
			best = i
		}
	}
	return best
}

func nearestPlaceName(p models.LatLng, places []models.SearchResult) string {
	name := fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon)
	best := 200.0 // metres
	for _, place := range places {
		loc, err := place.ToLocation()
		if err != nil {
			continue
		}
		if d := geo.Distance(p, loc.LatLng()); d < best {
			best = d
			name = place.SearchVal
		}
	}
	return name
}

func spotID(p models.LatLng) int64 {
	return int64(math.Round(p.Lat*1e4))*1_000_000 + int64(math.Round(p.Lon*1e4))
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
