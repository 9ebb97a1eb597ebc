package planner

import (
	"context"
	"sync"

	"github.com/kass/pitstop/pkg/client"
	"github.com/kass/pitstop/pkg/models"
)

// CurrentLocationLabel is the address given to the user's own position
const CurrentLocationLabel = "Current Location"

// Searcher looks up places by free text
type Searcher interface {
	Search(ctx context.Context, query string) client.SearchOutcome
}

// SearchBox runs the lookups behind one location input. Each input has its
// own box so typing in one never discards the other's suggestions.
type SearchBox struct {
	searcher Searcher

	mu         sync.Mutex
	generation uint64
}

// NewSearchBox creates a search box backed by searcher
func NewSearchBox(searcher Searcher) *SearchBox {
	return &SearchBox{searcher: searcher}
}

// Lookup searches for query. The bool is false when a newer Lookup started
// before this one returned, in which case the outcome must be ignored.
func (b *SearchBox) Lookup(ctx context.Context, query string) (client.SearchOutcome, bool) {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	outcome := b.searcher.Search(ctx, query)

	b.mu.Lock()
	defer b.mu.Unlock()
	return outcome, gen == b.generation
}

// Reset invalidates any lookup in flight
func (b *SearchBox) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
}

// CurrentLocation returns the selectable entry for the user's position
func CurrentLocation(lat, lon float64) models.Location {
	return models.Location{Lat: lat, Lon: lon, Address: CurrentLocationLabel}
}
