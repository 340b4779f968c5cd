package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/iata"
	"github.com/flightrouter/pareto/pkg/health"
	"github.com/flightrouter/pareto/revalidate"
	"github.com/flightrouter/pareto/router"
	"github.com/flightrouter/pareto/routeerr"
)

// Server holds the dependencies the handlers close over.
type Server struct {
	orchestrator *router.Orchestrator
	cache        *graphcache.Cache
	health       *health.HealthChecker
	revalidator  *revalidate.Revalidator
	epoch        time.Time
}

// NewServer wires a Server from its dependencies. revalidator may be nil,
// in which case POST /validate reports 503 rather than panicking.
func NewServer(orchestrator *router.Orchestrator, cache *graphcache.Cache, healthChecker *health.HealthChecker, revalidator *revalidate.Revalidator, epoch time.Time) *Server {
	return &Server{orchestrator: orchestrator, cache: cache, health: healthChecker, revalidator: revalidator, epoch: epoch}
}

// handleSearch serves POST /search: binds the request, runs the
// orchestrator's search pipeline, and returns every Pareto-optimal route
// sorted by ascending total cost.
func (s *Server) handleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	results, err := s.orchestrator.Search(c.Request.Context(), req.toConstraints())
	if err != nil {
		writeRouteError(c, err)
		return
	}
	if results == nil {
		results = []router.Result{}
	}

	c.JSON(http.StatusOK, SearchResponse{Results: results, Count: len(results)})
}

// handleAirports serves GET /airports: the set of airports present in the
// currently cached flight graph, for building an origin/destination picker.
func (s *Server) handleAirports(c *gin.Context) {
	graph, err := s.cache.GetGraph(c.Request.Context())
	if err != nil {
		writeRouteError(c, err)
		return
	}

	set := graph.AirportSet()
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	airports := make([]AirportInfo, len(codes))
	for i, code := range codes {
		loc := iata.IATATimeZone(code)
		airports[i] = AirportInfo{Code: code, City: loc.City, Tz: loc.Tz, Lat: loc.Lat, Lon: loc.Lon}
	}

	c.JSON(http.StatusOK, AirportsResponse{Airports: airports, Count: len(airports)})
}

// handleValidate serves POST /validate: reconciles a previously returned
// route's segments against the live offer API and reports, per segment and
// for the route overall, whether it is still bookable at a comparable
// price.
func (s *Server) handleValidate(c *gin.Context) {
	if s.revalidator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "revalidation is not configured"})
		return
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result := s.revalidator.ValidateRoute(c.Request.Context(), req.toCachedSegments(s.epoch))
	c.JSON(http.StatusOK, ValidateResponse{RouteValidation: result})
}

// handleRefresh serves POST /refresh: forces a synchronous cache rebuild,
// behind AdminAuth. The old graph keeps serving readers until the rebuild
// completes.
func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.cache.ForceRefresh(c.Request.Context()); err != nil {
		writeRouteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (s *Server) handleHealth(c *gin.Context) {
	report := s.health.CheckHealth(c.Request.Context())
	writeHealthReport(c, report)
}

func (s *Server) handleReadiness(c *gin.Context) {
	report := s.health.CheckReadiness(c.Request.Context())
	writeHealthReport(c, report)
}

func (s *Server) handleLiveness(c *gin.Context) {
	report := s.health.CheckLiveness(c.Request.Context())
	writeHealthReport(c, report)
}

func writeHealthReport(c *gin.Context, report health.Report) {
	status := http.StatusOK
	if report.Status == health.StatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// writeRouteError maps a *routeerr.Error's Kind to an HTTP status, falling
// back to 500 for anything unrecognized or uncategorized.
func writeRouteError(c *gin.Context, err error) {
	kind, ok := routeerr.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch kind {
	case routeerr.InvalidAirport, routeerr.InvalidTimeRange, routeerr.InvalidParameter:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case routeerr.GraphNotInitialized, routeerr.EmptyData:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
