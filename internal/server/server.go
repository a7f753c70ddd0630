// Package server exposes the finder over a JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rendis/geofind/internal/engine/genai"
	"github.com/rendis/geofind/internal/engine/geo"
	"github.com/rendis/geofind/internal/engine/search"
	"github.com/rendis/geofind/internal/favorites"
	"github.com/rendis/geofind/internal/logging"
	"github.com/rendis/geofind/internal/model"
)

// Server owns the favorites store for the lifetime of the process. Requests
// share it behind a mutex.
type Server struct {
	finder   *search.Finder
	log      logrus.FieldLogger
	radiusKm float64

	mu  sync.Mutex
	fav *favorites.Store
}

func New(finder *search.Finder, fav *favorites.Store, radiusKm float64, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{finder: finder, fav: fav, radiusKm: radiusKm, log: log}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/search", s.handleSearch)
		api.GET("/businesses/:placeId/details", s.handleDetails)
		api.POST("/pitch", s.handlePitch)
		api.GET("/favorites", s.handleListFavorites)
		api.POST("/favorites/toggle", s.handleToggleFavorite)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving http")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Debug("request")
	}
}

// searchResponse separates the lookup finding nothing (NoResults) from
// every result being outside the radius or area (FilteredOut).
type searchResponse struct {
	Category    string                 `json:"category"`
	Location    string                 `json:"location"`
	Reference   *model.LocationCoords  `json:"reference,omitempty"`
	RadiusKm    float64                `json:"radius_km"`
	Results     []model.RankedBusiness `json:"results"`
	Found       int                    `json:"found"`
	FilteredOut int                    `json:"filtered_out"`
	NoResults   bool                   `json:"no_results"`
}

func (s *Server) handleSearch(c *gin.Context) {
	p := model.SearchParams{
		Category:       c.Query("category"),
		ManualLocation: c.Query("location"),
		RadiusKm:       s.radiusKm,
	}

	latRaw, lngRaw := strings.TrimSpace(c.Query("lat")), strings.TrimSpace(c.Query("lng"))
	if latRaw != "" || lngRaw != "" {
		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lng, errLng := strconv.ParseFloat(lngRaw, 64)
		if errLat != nil || errLng != nil {
			badRequest(c, "lat and lng must both be numbers")
			return
		}
		p.Coords = &model.LocationCoords{Latitude: lat, Longitude: lng}
		if !geo.ValidCoords(*p.Coords) {
			badRequest(c, "lat must be within [-90, 90] and lng within [-180, 180]")
			return
		}
	}
	if raw := strings.TrimSpace(c.Query("radius")); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r < 0 {
			badRequest(c, "radius must be a non-negative number")
			return
		}
		p.RadiusKm = r
	}

	found, err := s.finder.Find(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}

	results := found.Ranked
	if results == nil {
		results = []model.RankedBusiness{}
	}
	c.JSON(http.StatusOK, searchResponse{
		Category:    found.Category,
		Location:    found.Location.String(),
		Reference:   found.Reference,
		RadiusKm:    found.RadiusKm,
		Results:     results,
		Found:       len(found.Businesses),
		FilteredOut: len(found.Businesses) - len(found.Ranked),
		NoResults:   found.Result.NoResults(),
	})
}

func (s *Server) handleDetails(c *gin.Context) {
	d, err := s.finder.Orchestrator().Details(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type pitchRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (s *Server) handlePitch(c *gin.Context) {
	var req pitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	msg, err := s.finder.Orchestrator().Pitch(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (s *Server) handleListFavorites(c *gin.Context) {
	s.mu.Lock()
	list, warning := s.fav.List(), s.fav.Warning()
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"favorites": list, "warning": warning})
}

func (s *Server) handleToggleFavorite(c *gin.Context) {
	var b model.Business
	if err := c.ShouldBindJSON(&b); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	if strings.TrimSpace(b.PlaceID) == "" {
		badRequest(c, "missing place id")
		return
	}

	s.mu.Lock()
	added, err := s.fav.Toggle(c.Request.Context(), b)
	s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).WithField("place_id", b.PlaceID).Error("favorite toggle failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": added})
}

// fail maps error kinds to status codes.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, search.ErrMissingInput):
		status = http.StatusBadRequest
	case errors.Is(err, search.ErrLookupFailure),
		errors.Is(err, search.ErrDetailFetchFailure),
		errors.Is(err, search.ErrPitchGenerationFailure):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Warn("request failed")
	}
	body := gin.H{"error": err.Error()}
	if genai.IsRateLimited(err) {
		body["rate_limited"] = true
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
