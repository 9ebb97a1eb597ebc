package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/polyline"
)

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func routesURL(start, end string, interval string) string {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	if interval != "" {
		q.Set("intervalMins", interval)
	}
	return "/api/v1/routes?" + q.Encode()
}

func TestSearch(t *testing.T) {
	s := New()

	rec := get(t, s, "/api/v1/search?searchVal=marina")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []models.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "MARINA BAY SANDS", results[0].SearchVal)
	assert.Equal(t, int64(1), s.Requests())
}

func TestSearchNoMatches(t *testing.T) {
	s := New()

	for _, target := range []string{
		"/api/v1/search?searchVal=atlantis",
		"/api/v1/search?searchVal=",
		"/api/v1/search?searchVal=marina&pageNum=2",
	} {
		rec := get(t, s, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.JSONEq(t, "[]", rec.Body.String(), target)
	}
}

func TestSearchPagination(t *testing.T) {
	places := make([]models.SearchResult, 0, 15)
	for i := 0; i < 15; i++ {
		places = append(places, models.SearchResult{
			SearchVal: "PARK CONNECTOR", Latitude: "1.3", Longitude: "103.8",
		})
	}
	s := New(WithPlaces(places))

	var page []models.SearchResult
	rec := get(t, s, "/api/v1/search?searchVal=park")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page, pageSize)

	rec = get(t, s, "/api/v1/search?searchVal=park&pageNum=2")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page, 5)
}

func TestSearchValidation(t *testing.T) {
	s := New()

	testCases := []struct {
		name   string
		target string
	}{
		{"missing searchVal", "/api/v1/search"},
		{"bad page", "/api/v1/search?searchVal=park&pageNum=two"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, s, tc.target)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), "detail")
		})
	}
}

func TestUnknownPaths(t *testing.T) {
	s := New()

	rec := get(t, s, "/api/v1/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search?searchVal=park", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutes(t *testing.T) {
	s := New()

	rec := get(t, s, routesURL("1.29773431957503,103.901376105637", "1.28376015867,103.85975547", "10"))
	require.Equal(t, http.StatusOK, rec.Code)

	var routes []models.RouteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	require.Len(t, routes, 2)

	assert.LessOrEqual(t, routes[0].RouteSummary.TotalTimeS, routes[1].RouteSummary.TotalTimeS)
	assert.Equal(t, "EAST COAST PARK OFFICE", routes[0].RouteSummary.StartPoint)
	assert.Equal(t, "MARINA BAY SANDS", routes[0].RouteSummary.EndPoint)

	for _, r := range routes {
		path, err := polyline.RoutePath(r)
		require.NoError(t, err)
		require.NotEmpty(t, path)
		assert.InDelta(t, 1.29773, path[0].Lat, 1e-9)
		assert.InDelta(t, 103.85976, path[len(path)-1].Lon, 1e-9)
		assert.NotEmpty(t, r.ParkingSpots)
	}
}

func TestRoutesValidation(t *testing.T) {
	s := New()

	testCases := []struct {
		name   string
		target string
		status int
	}{
		{"missing start", "/api/v1/routes?end=1.28,103.85", http.StatusUnprocessableEntity},
		{"bad end", routesURL("1.29,103.90", "north", ""), http.StatusUnprocessableEntity},
		{"bad interval", routesURL("1.29,103.90", "1.28,103.85", "ten"), http.StatusUnprocessableEntity},
		{"zero interval", routesURL("1.29,103.90", "1.28,103.85", "0"), http.StatusInternalServerError},
		{"negative interval", routesURL("1.29,103.90", "1.28,103.85", "-5"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, s, tc.target)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestFixedRoutesSorted(t *testing.T) {
	fixed := []models.RouteResult{
		{RouteSummary: models.RouteSummary{StartPoint: "slow", TotalTimeS: 900}},
		{RouteSummary: models.RouteSummary{StartPoint: "fast", TotalTimeS: 300}},
	}
	s := New(WithRoutes(fixed))

	rec := get(t, s, routesURL("1.29,103.90", "1.28,103.85", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var routes []models.RouteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	require.Len(t, routes, 2)
	assert.Equal(t, "fast", routes[0].RouteSummary.StartPoint)
	assert.Equal(t, "slow", fixed[0].RouteSummary.StartPoint)
}

func TestFailAndRecover(t *testing.T) {
	s := New()
	s.Fail("/api/v1/search", http.StatusServiceUnavailable, "maintenance")

	rec := get(t, s, "/api/v1/search?searchVal=marina")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"maintenance"}`, rec.Body.String())

	rec = get(t, s, routesURL("1.29,103.90", "1.28,103.85", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	s.Recover()
	rec = get(t, s, "/api/v1/search?searchVal=marina")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), s.Requests())
}

func TestGenerateRoutesSpots(t *testing.T) {
	start := models.LatLng{Lat: 1.29773431957503, Lon: 103.901376105637}
	end := models.LatLng{Lat: 1.28376015867, Lon: 103.85975547}

	short := GenerateRoutes(start, end, 5, DefaultPlaces())
	long := GenerateRoutes(start, end, 60, DefaultPlaces())
	require.Len(t, short, 2)
	require.Len(t, long, 2)

	assert.Greater(t, len(short[0].ParkingSpots), len(long[0].ParkingSpots))
	require.NotEmpty(t, long[0].ParkingSpots)

	for _, spot := range short[0].ParkingSpots {
		require.NotNil(t, spot.DeviationM)
		assert.Greater(t, *spot.DeviationM, 0.0)
		assert.NotZero(t, spot.ID)
	}

	assert.Empty(t, placeSpots(nil, 0, 10))
}
