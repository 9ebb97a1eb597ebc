package render

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/pitstop/pkg/geo"
	"github.com/kass/pitstop/pkg/models"
)

func sampleRoutes() []models.RouteResult {
	deviation := 24.6
	return []models.RouteResult{
		{
			RouteInstructions: []string{"Head west on East Coast Park Service Road", "Turn right onto Bayfront Avenue"},
			RouteSummary: models.RouteSummary{
				StartPoint: "EAST COAST PARK OFFICE", EndPoint: "MARINA BAY SANDS",
				TotalDistanceM: 4826, TotalTimeS: 1157,
			},
			ParkingSpots: []models.ParkingSpot{{
				ID: 1, Description: "Bicycle rack at Marina Bay", RackType: "Yellow Box", RackCount: 20,
				ShelterIndicator: true, DeviationM: &deviation,
			}},
		},
		{
			RouteInstructions: []string{"Head north", "Arrive"},
			RouteSummary: models.RouteSummary{
				StartPoint: "EAST COAST PARK OFFICE", EndPoint: "MARINA BAY SANDS",
				TotalDistanceM: 6100, TotalTimeS: 1470,
			},
		},
	}
}

func TestHeader(t *testing.T) {
	testCases := []struct {
		name     string
		routes   []models.RouteResult
		expected string
	}{
		{"labels", sampleRoutes(), "EAST COAST PARK OFFICE to MARINA BAY SANDS"},
		{"missing labels", []models.RouteResult{{}}, "START POINT to END POINT"},
		{"missing end", []models.RouteResult{{RouteSummary: models.RouteSummary{StartPoint: "A"}}}, "A to END POINT"},
		{"no routes", nil, "START POINT to END POINT"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Header(tc.routes))
		})
	}
}

func TestRoutesPanelPlain(t *testing.T) {
	r := New(false)
	out := r.RoutesPanel(sampleRoutes(), PanelOptions{Selected: 1, Cursor: 0})

	lines := strings.Split(out, "\n")
	assert.Equal(t, "EAST COAST PARK OFFICE to MARINA BAY SANDS", lines[0])
	assert.Contains(t, out, "> Route 1  19 min  4.83 km\n")
	assert.Contains(t, out, "  Route 2  25 min  6.10 km  [selected]\n")
	assert.NotContains(t, out, "1. Head west")
	assert.NotContains(t, out, "\x1b[")
}

func TestRoutesPanelDetails(t *testing.T) {
	r := New(false)
	out := r.RoutesPanel(sampleRoutes(), PanelOptions{Selected: -1, Cursor: -1, Details: map[int]bool{0: true}})

	assert.Contains(t, out, "    1. Head west on East Coast Park Service Road\n")
	assert.Contains(t, out, "    2. Turn right onto Bayfront Avenue\n")
	assert.NotContains(t, out, "1. Head north")
	assert.NotContains(t, out, "[selected]")
}

func TestRoutesPanelEmpty(t *testing.T) {
	assert.Empty(t, New(false).RoutesPanel(nil, PanelOptions{Selected: -1}))
	assert.Empty(t, New(true).RoutesPanel([]models.RouteResult{}, PanelOptions{Selected: -1}))
}

func TestRoutesPanelStyled(t *testing.T) {
	out := New(true).RoutesPanel(sampleRoutes(), PanelOptions{Selected: -1, Cursor: -1})
	assert.Contains(t, out, "EAST COAST PARK OFFICE to MARINA BAY SANDS")
	assert.Contains(t, out, "19 min")
	assert.Contains(t, out, "╭")
}

func TestParkingSpot(t *testing.T) {
	r := New(false)
	routes := sampleRoutes()

	out := r.ParkingSpot(routes[0].ParkingSpots[0])
	assert.Equal(t, "Bike Parking\nBicycle rack at Marina Bay\nRack Type: Yellow Box\nRack Count: 20\nShelter: Yes\nDeviation: 24.6 m\n", out)

	out = r.ParkingSpot(models.ParkingSpot{Description: "Rack", RackType: "Racks", RackCount: 4})
	assert.Contains(t, out, "Shelter: No\n")
	assert.NotContains(t, out, "Deviation")
}

func TestRouteDetail(t *testing.T) {
	out := New(false).RouteDetail(sampleRoutes()[0])
	assert.Contains(t, out, "19 min  4.83 km")
	assert.Contains(t, out, "1. Head west")
	assert.Contains(t, out, "Rack Count: 20")
}

func TestLocations(t *testing.T) {
	r := New(false)
	assert.Equal(t, "No results found\n", r.Locations(nil))

	out := r.Locations([]models.Location{
		{Lat: 1.28376015867, Lon: 103.85975547, Address: "10 BAYFRONT AVENUE MARINA BAY SANDS SINGAPORE 018956"},
	})
	assert.Equal(t, " 1. 10 BAYFRONT AVENUE MARINA BAY SANDS SINGAPORE 018956 (1.283760, 103.859755)\n", out)
}

func TestMatches(t *testing.T) {
	r := New(false)
	assert.Equal(t, "No parking spots found\n", r.Matches(nil))

	out := r.Matches([]geo.Match{{
		Spot:      models.ParkingSpot{Description: "Rack A", ShelterIndicator: true},
		Routes:    []int{0, 2},
		DistanceM: 142.4,
	}})
	assert.Equal(t, " 1. Rack A 142 m  shelter: Yes  routes: #1,#3\n", out)
}

func TestError(t *testing.T) {
	out := New(false).Error(errors.New("routing service unavailable"))
	assert.Equal(t, "Error: routing service unavailable\n", out)
}

func TestColorEnabled(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, ColorEnabled(f))
}
