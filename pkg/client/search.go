package client

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kass/pitstop/pkg/models"
)

// SearchStatus tells a caller which of the three search outcomes it got
type SearchStatus int

const (
	// SearchEmpty means the lookup ran (or was skipped for a blank query) and matched nothing
	SearchEmpty SearchStatus = iota
	// SearchFound means at least one result came back
	SearchFound
	// SearchFailed means the service could not be reached or answered garbage
	SearchFailed
)

func (s SearchStatus) String() string {
	switch s {
	case SearchEmpty:
		return "empty"
	case SearchFound:
		return "found"
	case SearchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchOutcome is the typed result of a place search.
// Err is set only when Status is SearchFailed.
type SearchOutcome struct {
	Status  SearchStatus
	Results []models.SearchResult
	Err     error
}

// Locations converts the results into selectable locations.
// Rows with unparsable coordinates are skipped.
func (o SearchOutcome) Locations() []models.Location {
	locations := make([]models.Location, 0, len(o.Results))
	for _, r := range o.Results {
		loc, err := r.ToLocation()
		if err != nil {
			continue
		}
		locations = append(locations, loc)
	}
	return locations
}

// Search looks up places matching query. A blank query short-circuits to
// SearchEmpty without a request. Failures never panic or return an error
// directly; they are reported as SearchFailed so callers can tell
// "no matches" from "service unreachable".
func (c *Client) Search(ctx context.Context, query string) SearchOutcome {
	return c.SearchPage(ctx, query, 1)
}

// SearchPage is Search for a specific result page (1-based)
func (c *Client) SearchPage(ctx context.Context, query string, page int) SearchOutcome {
	if strings.TrimSpace(query) == "" {
		return SearchOutcome{Status: SearchEmpty}
	}

	rawQuery := "searchVal=" + encodeURIComponent(query)
	if page > 1 {
		rawQuery += "&pageNum=" + strconv.Itoa(page)
	}

	var results []models.SearchResult
	if err := c.get(ctx, "search", searchPath, rawQuery, &results); err != nil {
		c.logger.Warn("search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return SearchOutcome{Status: SearchFailed, Err: err}
	}

	if len(results) == 0 {
		return SearchOutcome{Status: SearchEmpty}
	}
	return SearchOutcome{Status: SearchFound, Results: results}
}
