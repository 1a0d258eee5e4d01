// handlers/respond.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gewnthar/moviefinder/metrics"
	"github.com/gewnthar/moviefinder/models"
	"github.com/gewnthar/moviefinder/services"
	"github.com/gin-gonic/gin"
)

const msgUnavailable = "Movie dataset is unavailable."

func respondWithJSON(c *gin.Context, code int, payload any) {
	c.JSON(code, payload)
}

func respondWithError(c *gin.Context, log *slog.Logger, code int, message string) {
	if code >= http.StatusInternalServerError {
		log.Error("api error", "status", code, "path", c.Request.URL.Path, "message", message)
	} else {
		log.Debug("api error", "status", code, "path", c.Request.URL.Path, "message", message)
	}
	respondWithJSON(c, code, models.ErrorResponse{Error: message})
}

// respondWithQueryError maps query engine errors to a status code and the user-facing
// message, and records the outcome for kind. notFound is the message for ErrNotFound.
func respondWithQueryError(c *gin.Context, log *slog.Logger, kind string, err error, notFound string) {
	var invalid *services.InvalidYearError
	switch {
	case errors.As(err, &invalid):
		metrics.Queries.WithLabelValues(kind, metrics.ResultInvalidInput).Inc()
		respondWithJSON(c, http.StatusBadRequest, models.ErrorResponse{Error: services.MsgInvalidYear, Input: invalid.Text})
	case errors.Is(err, services.ErrNotFound):
		metrics.Queries.WithLabelValues(kind, metrics.ResultNotFound).Inc()
		respondWithJSON(c, http.StatusNotFound, models.ErrorResponse{Error: notFound})
	default:
		metrics.Queries.WithLabelValues(kind, metrics.ResultError).Inc()
		respondWithError(c, log, http.StatusInternalServerError, fmt.Sprintf("Failed to run %s query: %v", kind, err))
	}
}
