package models

import (
	"encoding/json"
	"testing"

	"github.com/kass/pitstop/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResultToLocation(t *testing.T) {
	row := SearchResult{
		SearchVal: "EAST COAST PARK OFFICE",
		Address:   "906 EAST COAST PARKWAY EAST COAST PARK OFFICE SINGAPORE 449895",
		Latitude:  "1.29773431957503",
		Longitude: " 103.901376105637",
	}

	loc, err := row.ToLocation()
	require.NoError(t, err)
	assert.Equal(t, 1.29773431957503, loc.Lat)
	assert.Equal(t, 103.901376105637, loc.Lon)
	assert.Equal(t, row.Address, loc.Address)
	assert.Equal(t, LatLng{Lat: loc.Lat, Lon: loc.Lon}, loc.LatLng())
}

func TestSearchResultToLocationInvalid(t *testing.T) {
	testCases := []struct {
		name     string
		lat, lon string
	}{
		{"empty latitude", "", "103.9"},
		{"text longitude", "1.3", "NIL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SearchResult{Latitude: tc.lat, Longitude: tc.lon}.ToLocation()
			require.Error(t, err)
			assert.True(t, errs.IsDecode(err))
		})
	}
}

func TestSearchResultBuildingAlias(t *testing.T) {
	var fromGeocoder, fromBackend SearchResult
	require.NoError(t, json.Unmarshal([]byte(`{"SEARCHVAL":"X","BUILDING":"MARINA BAY SANDS"}`), &fromGeocoder))
	require.NoError(t, json.Unmarshal([]byte(`{"SEARCHVAL":"X","BUILDING_NAME":"SUNTEC CITY"}`), &fromBackend))

	assert.Equal(t, "MARINA BAY SANDS", fromGeocoder.Name())
	assert.Equal(t, "SUNTEC CITY", fromBackend.Name())
}

func TestRouteResultUnits(t *testing.T) {
	testCases := []struct {
		timeS   float64
		distM   float64
		minutes int
		distKm  float64
	}{
		{0, 0, 0, 0},
		{89, 1234, 1, 1.234},
		{90, 1500, 2, 1.5},
		{1799, 7350, 30, 7.35},
	}

	for _, tc := range testCases {
		r := RouteResult{RouteSummary: RouteSummary{TotalTimeS: tc.timeS, TotalDistanceM: tc.distM}}
		assert.Equal(t, tc.minutes, r.Minutes())
		assert.InDelta(t, tc.distKm, r.Kilometres(), 1e-9)
	}
}

func TestRouteResultJSON(t *testing.T) {
	body := `{
		"route_geometry": "_p~iF~ps|U",
		"route_instructions": ["Head north", "Arrive"],
		"route_summary": {"start_point": "A", "end_point": "B", "total_distance_m": 1000, "total_time_s": 240},
		"parking_spots": [
			{"id": 7, "description": "Rack", "coordinates": {"lat": 1.3, "lon": 103.8},
			 "rack_type": "Yellow Box", "rack_count": 12, "shelter_indicator": "Y", "deviation_m": 12.5},
			{"id": 8, "description": "Rack", "coordinates": {"lat": 1.31, "lon": 103.81},
			 "rack_type": "Racks", "rack_count": 4, "shelter_indicator": false}
		]
	}`

	var r RouteResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, "A", r.RouteSummary.StartPoint)
	assert.Equal(t, 4, r.Minutes())
	require.Len(t, r.ParkingSpots, 2)

	first := r.ParkingSpots[0]
	assert.Equal(t, int64(7), first.ID)
	assert.True(t, bool(first.ShelterIndicator))
	require.NotNil(t, first.DeviationM)
	assert.Equal(t, 12.5, *first.DeviationM)
	assert.Equal(t, LatLng{Lat: 1.3, Lon: 103.8}, first.LatLng())

	second := r.ParkingSpots[1]
	assert.False(t, bool(second.ShelterIndicator))
	assert.Nil(t, second.DeviationM)
}

func TestShelterUnmarshal(t *testing.T) {
	testCases := []struct {
		input    string
		expected Shelter
		wantErr  bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`"Y"`, true, false},
		{`"y"`, true, false},
		{`"N"`, false, false},
		{`""`, false, false},
		{`null`, false, false},
		{`"maybe"`, false, true},
		{`3`, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			var s Shelter
			err := json.Unmarshal([]byte(tc.input), &s)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}

	assert.Equal(t, "Yes", Shelter(true).String())
	assert.Equal(t, "No", Shelter(false).String())
}
