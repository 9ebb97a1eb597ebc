package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/store"
)

// RouteClient plans routes between two locations
type RouteClient interface {
	PlanRoute(ctx context.Context, start, end *models.Location, intervalMins int) ([]models.RouteResult, error)
}

// Planner submits forms and records the outcome in a route store
type Planner struct {
	client RouteClient
	state  store.State
	logger *zap.Logger
}

// New creates a planner. A nil logger disables logging.
func New(client RouteClient, state store.State, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{client: client, state: state, logger: logger}
}

// Submit validates the form, then plans the route. The previous plan is
// cleared before the request is sent. If a later Submit starts before this
// one finishes, this outcome is dropped and Submit returns nil.
func (p *Planner) Submit(ctx context.Context, form *Form) error {
	if err := form.Validate(); err != nil {
		return err
	}

	token := p.state.Begin()
	p.logger.Debug("planning route",
		zap.Uint64("token", uint64(token)),
		zap.Float64("start_lat", form.Start.Lat),
		zap.Float64("start_lon", form.Start.Lon),
		zap.Float64("end_lat", form.End.Lat),
		zap.Float64("end_lon", form.End.Lon),
		zap.Int("interval_mins", form.IntervalMins),
	)

	routes, err := p.client.PlanRoute(ctx, form.Start, form.End, form.IntervalMins)
	if err != nil {
		err = fmt.Errorf("failed to plan route: %w", err)
	}

	if !p.state.Finish(token, routes, err) {
		p.logger.Debug("discarding stale route result", zap.Uint64("token", uint64(token)))
		return nil
	}
	if err != nil {
		p.logger.Warn("route planning failed", zap.Error(err))
		return err
	}

	p.logger.Info("routes planned", zap.Int("count", len(routes)))
	return nil
}
