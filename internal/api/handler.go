package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/darkexploiter/saferoute-server/internal/clients/mapbox"
	"github.com/darkexploiter/saferoute-server/internal/lib/geo"
	"github.com/darkexploiter/saferoute-server/internal/services"
)

// DirectionsProvider is the service surface the HTTP layer needs.
type DirectionsProvider interface {
	SafeDirections(ctx context.Context, start, end geo.Point) (*services.SafeDirectionsResponse, error)
	Directions(ctx context.Context, start, end geo.Point) (*services.DirectionsResponse, error)
}

type Handler struct {
	directions DirectionsProvider
}

func NewHandler(directions DirectionsProvider) *Handler {
	return &Handler{directions: directions}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/health", h.health)
	r.GET("/api/directions", h.getDirections)
	r.GET("/api/directions/safe", h.getSafeDirections)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) getSafeDirections(c *gin.Context) {
	start, end, ok := parseEndpoints(c)
	if !ok {
		return
	}

	resp, err := h.directions.SafeDirections(c.Request.Context(), start, end)
	if err != nil {
		writePipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getDirections(c *gin.Context) {
	start, end, ok := parseEndpoints(c)
	if !ok {
		return
	}

	resp, err := h.directions.Directions(c.Request.Context(), start, end)
	if err != nil {
		writePipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parseEndpoints validates the start/end query parameters, writing the
// 4xx response itself when validation fails.
func parseEndpoints(c *gin.Context) (start, end geo.Point, ok bool) {
	startParam := c.Query("start")
	endParam := c.Query("end")
	if startParam == "" || endParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required parameters: start and end coordinates",
		})
		return geo.Point{}, geo.Point{}, false
	}

	start, err := geo.ParsePoint(startParam)
	if err == nil {
		end, err = geo.ParsePoint(endParam)
	}
	if err != nil {
		writeCoordinateError(c, err)
		return geo.Point{}, geo.Point{}, false
	}

	return start, end, true
}

func writeCoordinateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geo.ErrCoordinateOutOfRange), errors.Is(err, geo.ErrSentinelCoordinate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Invalid coordinates",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid coordinates",
			"message": err.Error(),
		})
	}
}

func writePipelineError(c *gin.Context, err error) {
	if errors.Is(err, mapbox.ErrNoRouteFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No routes found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": err.Error(),
	})
}
