// Package mockapi is a stand-in for the PitStop backend. It serves the
// search and routes endpoints from fixtures so the client can be developed
// and tested without the real routing service.
package mockapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kass/pitstop/pkg/models"
)

const pageSize = 10

// Server is a fixture-backed backend
type Server struct {
	router *gin.Engine
	logger *zap.Logger

	mu       sync.RWMutex
	places   []models.SearchResult
	routes   []models.RouteResult
	failures map[string]failure
	latency  time.Duration

	requests atomic.Int64
}

type failure struct {
	status  int
	message string
}

// Option configures a Server
type Option func(*Server)

// WithPlaces replaces the searchable places
func WithPlaces(places []models.SearchResult) Option {
	return func(s *Server) { s.places = places }
}

// WithRoutes makes the routes endpoint return a fixed collection instead of
// generating routes between the requested points.
func WithRoutes(routes []models.RouteResult) Option {
	return func(s *Server) { s.routes = routes }
}

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLatency delays every response
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// New creates a stub backend with the default Singapore fixtures
func New(opts ...Option) *Server {
	s := &Server{
		logger:   zap.NewNop(),
		places:   DefaultPlaces(),
		failures: make(map[string]failure),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), s.requestLogger())
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/search", s.handleSearch)
	v1.GET("/routes", s.handleRoutes)

	s.router = router
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Requests returns how many API requests reached the server
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Fail makes the endpoint at path ("/api/v1/search" or "/api/v1/routes")
// answer with status and an {"error": message} body until Recover is called.
func (s *Server) Fail(path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, message: message}
}

// Recover clears every injected failure
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		s.requests.Add(1)

		s.mu.RLock()
		latency := s.latency
		f, failing := s.failures[c.Request.URL.Path]
		s.mu.RUnlock()

		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}

		if failing {
			c.AbortWithStatusJSON(f.status, gin.H{"error": f.message})
		} else {
			c.Next()
		}

		s.logger.Debug("mock api request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) handleSearch(c *gin.Context) {
	query, ok := c.GetQuery("searchVal")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "searchVal is required"})
		return
	}

	page := 1
	if raw, ok := c.GetQuery("pageNum"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "pageNum must be an integer"})
			return
		}
		page = n
	}

	s.mu.RLock()
	matches := matchPlaces(s.places, query)
	s.mu.RUnlock()

	from := (page - 1) * pageSize
	if from < 0 || from >= len(matches) {
		c.JSON(http.StatusOK, []models.SearchResult{})
		return
	}
	to := from + pageSize
	if to > len(matches) {
		to = len(matches)
	}
	c.JSON(http.StatusOK, matches[from:to])
}

func (s *Server) handleRoutes(c *gin.Context) {
	start, err := parseCoord(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fmt.Sprintf("start: %v", err)})
		return
	}
	end, err := parseCoord(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fmt.Sprintf("end: %v", err)})
		return
	}

	interval := DefaultIntervalMins
	if raw, ok := c.GetQuery("intervalMins"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "intervalMins must be an integer"})
			return
		}
		interval = n
	}
	if interval <= 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Interval must be a positive integer."})
		return
	}

	s.mu.RLock()
	fixed := s.routes
	places := s.places
	s.mu.RUnlock()

	var routes []models.RouteResult
	if fixed != nil {
		routes = append(routes, fixed...)
	} else {
		routes = GenerateRoutes(start, end, interval, places)
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].RouteSummary.TotalTimeS < routes[j].RouteSummary.TotalTimeS
	})
	c.JSON(http.StatusOK, routes)
}

func matchPlaces(places []models.SearchResult, query string) []models.SearchResult {
	q := strings.ToUpper(strings.TrimSpace(query))
	matches := make([]models.SearchResult, 0)
	if q == "" {
		return matches
	}
	for _, p := range places {
		if strings.Contains(strings.ToUpper(p.SearchVal), q) || strings.Contains(strings.ToUpper(p.Address), q) {
			matches = append(matches, p)
		}
	}
	return matches
}

func parseCoord(raw string) (models.LatLng, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return models.LatLng{}, fmt.Errorf("expected \"lat,lon\", got %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return models.LatLng{Lat: lat, Lon: lon}, nil
}
