package geo

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dhconnelly/rtreego"

	"github.com/kass/pitstop/pkg/models"
)

const (
	tolerance   = 1e-6
	minChildren = 4
	maxChildren = 16
	dimensions  = 2
)

// spatialSpot wraps a parking spot for R-Tree indexing
type spatialSpot struct {
	spot   models.ParkingSpot
	routes []int
	rect   *rtreego.Rect
}

func (s *spatialSpot) Bounds() *rtreego.Rect {
	return s.rect
}

// Match is a parking spot found by a query, with the indexes of the routes
// that stop there and its distance from the query point in metres.
type Match struct {
	Spot      models.ParkingSpot
	Routes    []int
	DistanceM float64
}

// ParkingIndex is a thread-safe R-Tree of the parking spots of a route collection
type ParkingIndex struct {
	tree      *rtreego.Rtree
	byID      map[int64]*spatialSpot
	mu        sync.RWMutex
	itemCount atomic.Int64
}

// NewParkingIndex creates an empty index
func NewParkingIndex() *ParkingIndex {
	return &ParkingIndex{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
		byID: make(map[int64]*spatialSpot),
	}
}

// IndexRoutes adds the parking spots of every route. A spot shared by
// several routes is stored once and remembers each route index.
func (g *ParkingIndex) IndexRoutes(routes []models.RouteResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for ri, route := range routes {
		for _, spot := range route.ParkingSpots {
			if existing, ok := g.byID[spot.ID]; ok {
				if existing.routes[len(existing.routes)-1] != ri {
					existing.routes = append(existing.routes, ri)
				}
				continue
			}

			rect, err := rtreego.NewRect(
				rtreego.Point{spot.Coordinates.Lat, spot.Coordinates.Lon},
				[]float64{tolerance, tolerance},
			)
			if err != nil {
				return fmt.Errorf("failed to index parking spot %d: %w", spot.ID, err)
			}

			item := &spatialSpot{spot: spot, routes: []int{ri}, rect: rect}
			g.tree.Insert(item)
			g.byID[spot.ID] = item
			g.itemCount.Add(1)
		}
	}
	return nil
}

// Nearest returns up to k parking spots closest to p, nearest first
func (g *ParkingIndex) Nearest(p models.LatLng, k int) []Match {
	if k <= 0 {
		return nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	// The tree ranks by planar degrees; fetch extra candidates and rerank geodesically
	results := g.tree.NearestNeighbors(k*2, rtreego.Point{p.Lat, p.Lon})

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialSpot)
		if !ok || item == nil {
			continue
		}
		matches = append(matches, toMatch(item, p))
	}

	sortMatches(matches)
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// WithinRadius returns all parking spots within radiusM metres of p, nearest first
func (g *ParkingIndex) WithinRadius(p models.LatLng, radiusM float64) ([]Match, error) {
	if radiusM <= 0 {
		return nil, fmt.Errorf("invalid radius %.1f: must be positive", radiusM)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	latDeg := (radiusM / EarthRadiusM) * (180 / math.Pi)
	lonDeg := latDeg
	if c := math.Cos(p.Lat * math.Pi / 180); c > 1e-9 {
		lonDeg = latDeg / c
	}

	bounds, err := rtreego.NewRect(
		rtreego.Point{p.Lat - latDeg, p.Lon - lonDeg},
		[]float64{2 * latDeg, 2 * lonDeg},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid radius search: %w", err)
	}

	results := g.tree.SearchIntersect(bounds)

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialSpot)
		if !ok || item == nil {
			continue
		}
		m := toMatch(item, p)
		if m.DistanceM <= radiusM {
			matches = append(matches, m)
		}
	}

	sortMatches(matches)
	return matches, nil
}

// Count returns the number of distinct indexed spots
func (g *ParkingIndex) Count() int64 {
	return g.itemCount.Load()
}

// Clear removes all spots from the index
func (g *ParkingIndex) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tree = rtreego.NewTree(dimensions, minChildren, maxChildren)
	g.byID = make(map[int64]*spatialSpot)
	g.itemCount.Store(0)
}

func toMatch(item *spatialSpot, p models.LatLng) Match {
	routes := make([]int, len(item.routes))
	copy(routes, item.routes)
	return Match{
		Spot:      item.spot,
		Routes:    routes,
		DistanceM: Distance(p, item.spot.LatLng()),
	}
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceM < matches[j].DistanceM
	})
}
