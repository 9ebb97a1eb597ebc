// Package polyline implements the encoded polyline format used for route
// geometry: zig-zag signed deltas packed into 5-bit chunks offset by 63.
package polyline

import (
	"errors"
	"math"
	"strings"

	"github.com/kass/pitstop/pkg/errs"
	"github.com/kass/pitstop/pkg/models"
)

// DefaultPrecision is the scale factor of 5-decimal polylines
const DefaultPrecision = 1e5

// ErrMalformed is returned when the input ends in the middle of a codeword
// or after the latitude of a pair.
var ErrMalformed = errors.New("malformed polyline")

// Decode converts an encoded polyline into coordinates in route order.
// An empty string yields an empty slice.
func Decode(encoded string) ([]models.LatLng, error) {
	return DecodeWithPrecision(encoded, DefaultPrecision)
}

// DecodeWithPrecision decodes a polyline written with a custom scale factor
// (1e6 for GraphHopper and OSRM polyline6).
func DecodeWithPrecision(encoded string, precision float64) ([]models.LatLng, error) {
	if err := ValidatePrecision(precision); err != nil {
		return nil, err
	}
	points := make([]models.LatLng, 0, len(encoded)/4)
	var lat, lon int64

	for i := 0; i < len(encoded); {
		dLat, next, ok := readValue(encoded, i)
		if !ok {
			return nil, errs.Decode("polyline", ErrMalformed)
		}
		if next >= len(encoded) {
			return nil, errs.Decode("polyline", ErrMalformed)
		}
		dLon, next, ok := readValue(encoded, next)
		if !ok {
			return nil, errs.Decode("polyline", ErrMalformed)
		}
		i = next

		lat += dLat
		lon += dLon
		points = append(points, models.LatLng{
			Lat: float64(lat) / precision,
			Lon: float64(lon) / precision,
		})
	}

	return points, nil
}

// readValue reads one zig-zag varint starting at i.
// It returns the decoded delta and the index after the codeword.
func readValue(s string, i int) (int64, int, bool) {
	var result int64
	var shift uint
	for {
		if i >= len(s) {
			return 0, i, false
		}
		b := int64(s[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b&0x20 == 0 {
			break
		}
	}

	if result&1 != 0 {
		return -((result + 1) >> 1), i, true
	}
	return result >> 1, i, true
}

// ValidatePrecision rejects scale factors that are not positive and finite
func ValidatePrecision(precision float64) error {
	if precision <= 0 || math.IsInf(precision, 0) || math.IsNaN(precision) {
		return errs.Validation("precision", "precision must be a positive number")
	}
	return nil
}

// Encode converts coordinates into a 5-decimal polyline
func Encode(points []models.LatLng) string {
	return EncodeWithPrecision(points, DefaultPrecision)
}

// EncodeWithPrecision encodes coordinates with a custom scale factor
func EncodeWithPrecision(points []models.LatLng, precision float64) string {
	var b strings.Builder
	var prevLat, prevLon int64

	for _, p := range points {
		lat := int64(math.Round(p.Lat * precision))
		lon := int64(math.Round(p.Lon * precision))
		writeValue(&b, lat-prevLat)
		writeValue(&b, lon-prevLon)
		prevLat, prevLon = lat, lon
	}

	return b.String()
}

func writeValue(b *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		b.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	b.WriteByte(byte(u + 63))
}

// RoutePath decodes the geometry of a route
func RoutePath(route models.RouteResult) ([]models.LatLng, error) {
	return Decode(route.RouteGeometry)
}
