// Package mapview renders the highlighted route as GeoJSON so any map
// viewer (geojson.io, QGIS, Leaflet) can display it.
package mapview

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/polyline"
)

// Feature kinds, stored in the "kind" property
const (
	KindRoute   = "route"
	KindStart   = "start"
	KindEnd     = "end"
	KindParking = "parking"
	KindUser    = "user"
)

// Route line styling, matching the web map
const (
	RouteColor  = "red"
	RouteWeight = 8
)

// FeatureCollection builds the map layer for route and the user's
// position. Either may be nil. A route with empty geometry contributes
// its parking spots but no line and no endpoint markers.
func FeatureCollection(route *models.RouteResult, user *models.LatLng) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	if user != nil {
		f := geojson.NewFeature(point(*user))
		f.Properties["kind"] = KindUser
		f.Properties["title"] = "Current Location"
		fc.Append(f)
	}

	if route == nil {
		return fc, nil
	}

	path, err := polyline.RoutePath(*route)
	if err != nil {
		return nil, fmt.Errorf("failed to decode route geometry: %w", err)
	}

	if len(path) > 0 {
		line := make(orb.LineString, len(path))
		for i, p := range path {
			line[i] = point(p)
		}

		f := geojson.NewFeature(line)
		f.Properties["kind"] = KindRoute
		f.Properties["color"] = RouteColor
		f.Properties["weight"] = RouteWeight
		f.Properties["minutes"] = route.Minutes()
		f.Properties["distance_km"] = route.Kilometres()
		fc.Append(f)

		start := geojson.NewFeature(point(path[0]))
		start.Properties["kind"] = KindStart
		start.Properties["title"] = "Start Point"
		start.Properties["description"] = route.RouteSummary.StartPoint
		fc.Append(start)

		end := geojson.NewFeature(point(path[len(path)-1]))
		end.Properties["kind"] = KindEnd
		end.Properties["title"] = "End Point"
		end.Properties["description"] = route.RouteSummary.EndPoint
		fc.Append(end)
	}

	for _, spot := range route.ParkingSpots {
		fc.Append(parkingFeature(spot))
	}

	return fc, nil
}

func parkingFeature(spot models.ParkingSpot) *geojson.Feature {
	f := geojson.NewFeature(point(spot.LatLng()))
	f.ID = spot.ID
	f.Properties["kind"] = KindParking
	f.Properties["title"] = "Bike Parking"
	f.Properties["description"] = spot.Description
	f.Properties["rack_type"] = spot.RackType
	f.Properties["rack_count"] = spot.RackCount
	f.Properties["shelter"] = spot.ShelterIndicator.String()
	if spot.DeviationM != nil && *spot.DeviationM != 0 {
		f.Properties["deviation_m"] = *spot.DeviationM
	}
	return f
}

// Bound returns the box enclosing every feature, for centring a viewer.
// The bool is false for an empty collection.
func Bound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	if fc == nil || len(fc.Features) == 0 {
		return orb.Bound{}, false
	}
	b := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		b = b.Union(f.Geometry.Bound())
	}
	return b, true
}

// SetViewport stores the enclosing box as the collection bbox. An empty
// collection is centred on center instead.
func SetViewport(fc *geojson.FeatureCollection, center models.LatLng) orb.Bound {
	b, ok := Bound(fc)
	if !ok {
		c := point(center)
		b = orb.Bound{Min: c, Max: c}
	}
	if fc != nil {
		fc.BBox = geojson.NewBBox(b)
	}
	return b
}

// GeoJSON uses lon, lat order
func point(p models.LatLng) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}
