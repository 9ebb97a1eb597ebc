package geo

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/dhconnelly/rtreego"

	"github.com/kass/pitstop/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spot(id int64, lat, lon float64) models.ParkingSpot {
	return models.ParkingSpot{
		ID:          id,
		Description: fmt.Sprintf("spot %d", id),
		Coordinates: models.Coordinates{Lat: lat, Lon: lon},
		RackType:    "Yellow Box",
		RackCount:   10,
	}
}

func TestDistance(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     models.LatLng
		expected float64
		delta    float64
	}{
		{
			name:     "Same point",
			a:        models.LatLng{Lat: 1.3521, Lon: 103.8198},
			b:        models.LatLng{Lat: 1.3521, Lon: 103.8198},
			expected: 0,
			delta:    0.01,
		},
		{
			name:     "One hundredth of a degree of latitude",
			a:        models.LatLng{Lat: 1.30, Lon: 103.85},
			b:        models.LatLng{Lat: 1.31, Lon: 103.85},
			expected: 1112,
			delta:    2,
		},
		{
			name:     "SF to LA",
			a:        models.LatLng{Lat: 37.7749, Lon: -122.4194},
			b:        models.LatLng{Lat: 34.0522, Lon: -118.2437},
			expected: 559000,
			delta:    5000,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Distance(tc.a, tc.b), tc.delta)
		})
	}
}

func TestPathLength(t *testing.T) {
	path := []models.LatLng{
		{Lat: 1.30, Lon: 103.85},
		{Lat: 1.31, Lon: 103.85},
		{Lat: 1.32, Lon: 103.85},
	}
	assert.InDelta(t, 2224, PathLength(path), 4)
	assert.Equal(t, 0.0, PathLength(path[:1]))
	assert.Equal(t, 0.0, PathLength(nil))

	cum := CumulativeDistances(path)
	require.Len(t, cum, 3)
	assert.Equal(t, 0.0, cum[0])
	assert.InDelta(t, 1112, cum[1], 2)
	assert.InDelta(t, PathLength(path), cum[2], 1e-9)
	assert.Nil(t, CumulativeDistances(nil))
}

func TestBounds(t *testing.T) {
	b := Bounds{
		SouthWest: models.LatLng{Lat: 1.144, Lon: 103.535},
		NorthEast: models.LatLng{Lat: 1.494, Lon: 104.502},
	}
	assert.True(t, b.Valid())
	assert.True(t, b.Contains(models.LatLng{Lat: 1.3521, Lon: 103.8198}))
	assert.True(t, b.Contains(b.SouthWest))
	assert.False(t, b.Contains(models.LatLng{Lat: 37.7749, Lon: -122.4194}))
	assert.False(t, Bounds{}.Valid())
}

func TestSpatialSpotBounds(t *testing.T) {
	var item rtreego.Spatial = &spatialSpot{}
	assert.Nil(t, item.Bounds())

	g := NewParkingIndex()
	require.NoError(t, g.IndexRoutes([]models.RouteResult{{ParkingSpots: []models.ParkingSpot{spot(7, 1.3, 103.8)}}}))

	bounds := g.byID[7].Bounds()
	require.NotNil(t, bounds)
	assert.InDelta(t, 1.3, bounds.PointCoord(0), 1e-9)
	assert.InDelta(t, 103.8, bounds.PointCoord(1), 1e-9)
	assert.InDelta(t, tolerance, bounds.LengthsCoord(0), 1e-12)
}

func TestNewParkingIndex(t *testing.T) {
	index := NewParkingIndex()
	assert.NotNil(t, index)
	assert.NotNil(t, index.tree)
	assert.Equal(t, int64(0), index.Count())
	assert.Empty(t, index.Nearest(models.LatLng{Lat: 1.3, Lon: 103.8}, 3))
}

func TestIndexRoutesDeduplicatesSpots(t *testing.T) {
	index := NewParkingIndex()

	routes := []models.RouteResult{
		{ParkingSpots: []models.ParkingSpot{spot(1, 1.30, 103.85), spot(2, 1.31, 103.86)}},
		{ParkingSpots: []models.ParkingSpot{spot(2, 1.31, 103.86), spot(3, 1.32, 103.87)}},
	}

	require.NoError(t, index.IndexRoutes(routes))
	assert.Equal(t, int64(3), index.Count())

	matches := index.Nearest(models.LatLng{Lat: 1.31, Lon: 103.86}, 1)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].Spot.ID)
	assert.Equal(t, []int{0, 1}, matches[0].Routes)
	assert.InDelta(t, 0, matches[0].DistanceM, 0.5)
}

func TestNearest(t *testing.T) {
	index := NewParkingIndex()

	var spots []models.ParkingSpot
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			id := int64(i*10 + j)
			spots = append(spots, spot(id, 1.30+float64(i)*0.001, 103.80+float64(j)*0.001))
		}
	}
	require.NoError(t, index.IndexRoutes([]models.RouteResult{{ParkingSpots: spots}}))

	center := models.LatLng{Lat: 1.3045, Lon: 103.8045}
	matches := index.Nearest(center, 5)
	require.Len(t, matches, 5)

	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].DistanceM, matches[i].DistanceM)
	}
	assert.Less(t, matches[0].DistanceM, 100.0)
	assert.Nil(t, index.Nearest(center, 0))
}

func TestWithinRadius(t *testing.T) {
	index := NewParkingIndex()

	origin := models.LatLng{Lat: 1.3000, Lon: 103.8000}
	spots := []models.ParkingSpot{
		spot(1, 1.3000, 103.8000), // origin
		spot(2, 1.3030, 103.8000), // ~334m north
		spot(3, 1.3000, 103.8060), // ~667m east
		spot(4, 1.3200, 103.8000), // ~2.2km north
	}
	require.NoError(t, index.IndexRoutes([]models.RouteResult{{ParkingSpots: spots}}))

	testCases := []struct {
		name     string
		radius   float64
		expected []int64
	}{
		{"100m radius", 100, []int64{1}},
		{"500m radius", 500, []int64{1, 2}},
		{"1km radius", 1000, []int64{1, 2, 3}},
		{"5km radius", 5000, []int64{1, 2, 3, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matches, err := index.WithinRadius(origin, tc.radius)
			require.NoError(t, err)

			ids := make([]int64, len(matches))
			for i, m := range matches {
				ids[i] = m.Spot.ID
			}
			assert.Equal(t, tc.expected, ids)
		})
	}

	_, err := index.WithinRadius(origin, 0)
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	index := NewParkingIndex()
	require.NoError(t, index.IndexRoutes([]models.RouteResult{{ParkingSpots: []models.ParkingSpot{spot(1, 1.3, 103.8)}}}))
	assert.Equal(t, int64(1), index.Count())

	index.Clear()
	assert.Equal(t, int64(0), index.Count())
	assert.Empty(t, index.Nearest(models.LatLng{Lat: 1.3, Lon: 103.8}, 1))
}

func TestConcurrentQueries(t *testing.T) {
	index := NewParkingIndex()
	spots := make([]models.ParkingSpot, 1000)
	for i := range spots {
		spots[i] = spot(int64(i), 1.2+rand.Float64()*0.25, 103.6+rand.Float64()*0.4)
	}
	require.NoError(t, index.IndexRoutes([]models.RouteResult{{ParkingSpots: spots}}))

	done := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		go func() {
			defer func() { done <- true }()

			center := models.LatLng{Lat: 1.2 + rand.Float64()*0.25, Lon: 103.6 + rand.Float64()*0.4}
			if rand.Intn(2) == 0 {
				_, err := index.WithinRadius(center, 500)
				assert.NoError(t, err)
			} else {
				assert.NotEmpty(t, index.Nearest(center, 3))
			}
		}()
	}

	for i := 0; i < 50; i++ {
		<-done
	}
}

func BenchmarkNearest(b *testing.B) {
	index := NewParkingIndex()
	spots := make([]models.ParkingSpot, 10000)
	for i := range spots {
		spots[i] = spot(int64(i), 1.2+rand.Float64()*0.25, 103.6+rand.Float64()*0.4)
	}
	_ = index.IndexRoutes([]models.RouteResult{{ParkingSpots: spots}})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = index.Nearest(models.LatLng{Lat: 1.35, Lon: 103.82}, 5)
	}
}
