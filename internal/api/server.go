// Package api serves the stored events over a small read-only HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gigradar/internal/database"
	"gigradar/internal/logger"
	"gigradar/internal/models"
)

// Server wires the repository to the HTTP routes.
type Server struct {
	repo *database.Repository
	log  *logger.Logger
}

// NewServer creates a server.
func NewServer(repo *database.Repository, log *logger.Logger) *Server {
	return &Server{repo: repo, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/events", s.handleListEvents)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	if _, err := s.repo.CountEvents(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListEvents returns stored events ordered by start date. Optional
// query parameters: source (exact source name) and from (RFC 3339 timestamp
// or YYYY-MM-DD date, lower bound on the start).
func (s *Server) handleListEvents(c *gin.Context) {
	filter := database.ListFilter{Source: c.Query("source")}

	if raw := c.Query("from"); raw != "" {
		from, err := parseFromParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' parameter, want RFC 3339 or YYYY-MM-DD"})

			return
		}

		filter.From = from
	}

	events, err := s.repo.ListEvents(c.Request.Context(), filter)
	if err != nil {
		s.log.Error("list events failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})

		return
	}

	if events == nil {
		events = []models.StoredEvent{}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

func parseFromParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", raw)
}
