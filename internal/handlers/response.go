package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vallmere/sitetrack-backend/internal/services"
)

const dateLayout = "2006-01-02"

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPredecessorInUse),
		errors.Is(err, services.ErrCyclicDependency),
		errors.Is(err, services.ErrSelfPredecessor):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseDate validates a "YYYY-MM-DD" string; empty input returns nil.
// Malformed dates are rejected here so they never reach the engine.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
