// Package client calls the PitStop backend: the place search and the
// route planner. Both are plain JSON GET endpoints under /api/v1.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kass/pitstop/pkg/errs"
	"github.com/kass/pitstop/pkg/models"
)

const (
	searchPath = "/api/v1/search"
	routesPath = "/api/v1/routes"

	// DefaultTimeout bounds every request unless WithTimeout overrides it
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 4 << 10
)

// Client talks to the PitStop backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the backend at baseURL, e.g. http://127.0.0.1:8000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
		userAgent:  "pitstop-client",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PlanRoute requests candidate routes between start and end with a parking
// stop roughly every intervalMins minutes. Failures are returned, never swallowed.
func (c *Client) PlanRoute(ctx context.Context, start, end *models.Location, intervalMins int) ([]models.RouteResult, error) {
	if start == nil {
		return nil, errs.Validation("start", "start location must be provided")
	}
	if end == nil {
		return nil, errs.Validation("end", "end location must be provided")
	}
	if intervalMins <= 0 {
		return nil, errs.Validation("intervalMins", "interval must be a positive integer")
	}

	query := "start=" + encodeURIComponent(formatCoord(start.Lat, start.Lon)) +
		"&end=" + encodeURIComponent(formatCoord(end.Lat, end.Lon)) +
		"&intervalMins=" + strconv.Itoa(intervalMins)

	var routes []models.RouteResult
	if err := c.get(ctx, "plan route", routesPath, query, &routes); err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []models.RouteResult{}
	}

	c.logger.Debug("routes received",
		zap.Int("count", len(routes)),
		zap.Int("interval_mins", intervalMins),
	)
	return routes, nil
}

func (c *Client) get(ctx context.Context, op, path, rawQuery string, out any) error {
	endpoint := c.baseURL + path
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.Network(op, endpoint, 0, fmt.Errorf("failed to build request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return errs.Network(op, endpoint, 0, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("url", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.Network(op, endpoint, resp.StatusCode, errorFromBody(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Decode("response body", err)
	}
	return nil
}

// errorFromBody extracts the backend's {"error": ...} or {"detail": ...} message
func errorFromBody(body io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return errors.New("empty response body")
	}

	var payload struct {
		Error  any `json:"error"`
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != nil {
			return fmt.Errorf("%v", payload.Error)
		}
		if payload.Detail != nil {
			return fmt.Errorf("%v", payload.Detail)
		}
	}
	return errors.New(strings.TrimSpace(string(data)))
}

func formatCoord(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// encodeURIComponent escapes s the way browsers do for query values:
// spaces become %20 and the marks !'()* stay literal.
var uriMarks = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriMarks.Replace(url.QueryEscape(s))
}
