// handlers/movie_handler.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gewnthar/moviefinder/dataset"
	"github.com/gewnthar/moviefinder/metrics"
	"github.com/gewnthar/moviefinder/models"
	"github.com/gewnthar/moviefinder/services"
	"github.com/gin-gonic/gin"
)

// TableProvider hands out the loaded movie table. *dataset.Cache implements it.
type TableProvider interface {
	Table(ctx context.Context) (*models.Table, error)
}

// MovieHandler serves the query API over a shared read-only table.
type MovieHandler struct {
	Tables      TableProvider
	DefaultTopN int
	MinVotes    int // only used in messages
	Logger      *slog.Logger
}

func NewMovieHandler(tables TableProvider, defaultTopN, minVotes int, log *slog.Logger) *MovieHandler {
	if log == nil {
		log = slog.Default()
	}
	if defaultTopN <= 0 {
		defaultTopN = services.DefaultTopN
	}
	if minVotes <= 0 {
		minVotes = dataset.DefaultMinVotes
	}
	return &MovieHandler{Tables: tables, DefaultTopN: defaultTopN, MinVotes: minVotes, Logger: log}
}

// table loads the shared table or writes a 503 and returns nil.
func (h *MovieHandler) table(c *gin.Context) *models.Table {
	table, err := h.Tables.Table(c.Request.Context())
	if err != nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, msgUnavailable)
		return nil
	}
	return table
}

// Health handles GET /api/health.
func (h *MovieHandler) Health(c *gin.Context) {
	table, err := h.Tables.Table(c.Request.Context())
	if err != nil {
		h.Logger.Warn("health check failed", "error", err)
		respondWithJSON(c, http.StatusServiceUnavailable, models.HealthResponse{Status: "error"})
		return
	}
	respondWithJSON(c, http.StatusOK, models.HealthResponse{Status: "ok", Source: table.Source(), Movies: table.Len()})
}

// SearchByTitle handles GET /api/movies/search?title=...
// An empty result is still a 200.
func (h *MovieHandler) SearchByTitle(c *gin.Context) {
	title, ok := c.GetQuery("title")
	if !ok {
		respondWithError(c, h.Logger, http.StatusBadRequest, "Missing 'title' query parameter")
		return
	}
	table := h.table(c)
	if table == nil {
		return
	}

	results := services.SearchByTitle(table, title)
	result := metrics.ResultOK
	if len(results) == 0 {
		result = metrics.ResultNotFound
	}
	metrics.Queries.WithLabelValues("search", result).Inc()
	respondWithJSON(c, http.StatusOK, models.SearchResponse{Query: title, Count: len(results), Results: results})
}

// BestMatch handles GET /api/movies/best?year=...&genre=...
func (h *MovieHandler) BestMatch(c *gin.Context) {
	year, genre, ok := h.yearGenre(c)
	if !ok {
		return
	}
	table := h.table(c)
	if table == nil {
		return
	}

	movie, err := services.BestMatch(table, year, genre)
	if err != nil {
		respondWithQueryError(c, h.Logger, "best", err, h.yearGenreNotFound(year, genre))
		return
	}
	metrics.Queries.WithLabelValues("best", metrics.ResultOK).Inc()
	respondWithJSON(c, http.StatusOK, models.BestMatchResponse{Movie: movie})
}

// TopN handles GET /api/movies/top?year=...&genre=...&n=...
func (h *MovieHandler) TopN(c *gin.Context) {
	year, genre, ok := h.yearGenre(c)
	if !ok {
		return
	}
	n := h.DefaultTopN
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithJSON(c, http.StatusBadRequest, models.ErrorResponse{Error: "'n' must be a non-negative integer", Input: raw})
			return
		}
		n = parsed
	}
	table := h.table(c)
	if table == nil {
		return
	}

	results, err := services.TopN(table, year, genre, n)
	if err != nil {
		respondWithQueryError(c, h.Logger, "top", err, h.yearGenreNotFound(year, genre))
		return
	}
	metrics.Queries.WithLabelValues("top", metrics.ResultOK).Inc()
	respondWithJSON(c, http.StatusOK, models.SearchResponse{Count: len(results), Results: results})
}

// FindWithRank handles GET /api/movies/rank?title=...
func (h *MovieHandler) FindWithRank(c *gin.Context) {
	title, ok := c.GetQuery("title")
	if !ok {
		respondWithError(c, h.Logger, http.StatusBadRequest, "Missing 'title' query parameter")
		return
	}
	table := h.table(c)
	if table == nil {
		return
	}

	ranked, err := services.FindWithRank(table, title)
	if err != nil {
		respondWithQueryError(c, h.Logger, "rank", err, services.MsgMovieNotFound)
		return
	}
	metrics.Queries.WithLabelValues("rank", metrics.ResultOK).Inc()
	respondWithJSON(c, http.StatusOK, ranked)
}

func (h *MovieHandler) yearGenre(c *gin.Context) (year, genre string, ok bool) {
	year = c.Query("year")
	if year == "" {
		respondWithError(c, h.Logger, http.StatusBadRequest, "Missing 'year' query parameter")
		return "", "", false
	}
	genre, ok = c.GetQuery("genre")
	if !ok {
		respondWithError(c, h.Logger, http.StatusBadRequest, "Missing 'genre' query parameter")
		return "", "", false
	}
	return year, genre, true
}

// yearGenreNotFound is only reached after the year parsed, so the parse cannot fail.
func (h *MovieHandler) yearGenreNotFound(year, genre string) string {
	y, err := services.ParseYear(year)
	if err != nil {
		return fmt.Sprintf("No %s movies found in %s.", genre, year)
	}
	return services.YearGenreNotFoundMessage(genre, y, h.MinVotes)
}
