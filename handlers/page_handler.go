// handlers/page_handler.go
package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gewnthar/moviefinder/metrics"
	"github.com/gewnthar/moviefinder/models"
	"github.com/gewnthar/moviefinder/services"
	"github.com/gewnthar/moviefinder/utils"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML pages.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"runtime": utils.FormatRuntime,
		"rating":  formatRating,
		"dict":    dict,
	}).ParseFS(templateFS, "templates/*.html")
}

// dict builds a map from alternating keys and values so a nested template can take
// several arguments.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func formatRating(m models.MovieRecord) string {
	return utils.FormatRating(m.AverageRating) + " ⭐ (" + strconv.Itoa(m.NumVotes) + " votes)"
}

type pageData struct {
	Year  string
	Genre string
	Title string

	// year + genre search
	YearGenreSearched bool
	HasTop            bool
	Top               models.MovieRecord
	Others            []models.MovieRecord
	YearGenreMessage  string

	// title search
	TitleSearched bool
	Ranked        *models.RankedMovie
	TitleMessage  string
	Matches       []models.MovieRecord
	ShowAll       bool
}

// Index renders the finder page. Year and genre both set runs the top-N search; a title
// runs the rank lookup, or lists every match with all=1.
func (h *MovieHandler) Index(c *gin.Context) {
	data := pageData{
		Year:    utils.NormalizeInput(c.Query("year")),
		Genre:   utils.NormalizeInput(c.Query("genre")),
		Title:   utils.NormalizeInput(c.Query("title")),
		ShowAll: c.Query("all") == "1",
	}

	if (data.Year != "" && data.Genre != "") || data.Title != "" {
		table, err := h.Tables.Table(c.Request.Context())
		if err != nil {
			h.Logger.Error("dataset unavailable", "error", err)
			c.String(http.StatusServiceUnavailable, msgUnavailable)
			return
		}
		if data.Year != "" && data.Genre != "" {
			h.fillYearGenre(table, &data)
		}
		if data.Title != "" {
			h.fillTitle(table, &data)
		}
	}

	c.HTML(http.StatusOK, "index.html", data)
}

func (h *MovieHandler) fillYearGenre(table *models.Table, data *pageData) {
	data.YearGenreSearched = true

	results, err := services.TopN(table, data.Year, data.Genre, h.DefaultTopN)
	var invalid *services.InvalidYearError
	switch {
	case errors.As(err, &invalid):
		metrics.Queries.WithLabelValues("top", metrics.ResultInvalidInput).Inc()
		data.YearGenreMessage = services.MsgInvalidYear
	case errors.Is(err, services.ErrNotFound):
		metrics.Queries.WithLabelValues("top", metrics.ResultNotFound).Inc()
		data.YearGenreMessage = h.yearGenreNotFound(data.Year, data.Genre)
	case err != nil:
		metrics.Queries.WithLabelValues("top", metrics.ResultError).Inc()
		h.Logger.Error("top query failed", "error", err)
		data.YearGenreMessage = err.Error()
	default:
		metrics.Queries.WithLabelValues("top", metrics.ResultOK).Inc()
		if len(results) > 0 {
			data.HasTop = true
			data.Top = results[0]
			data.Others = results[1:]
		}
	}
}

func (h *MovieHandler) fillTitle(table *models.Table, data *pageData) {
	data.TitleSearched = true

	if data.ShowAll {
		data.Matches = services.SearchByTitle(table, data.Title)
		if len(data.Matches) == 0 {
			metrics.Queries.WithLabelValues("search", metrics.ResultNotFound).Inc()
			data.TitleMessage = services.TitleNotFoundMessage(data.Title)
			return
		}
		metrics.Queries.WithLabelValues("search", metrics.ResultOK).Inc()
		return
	}

	ranked, err := services.FindWithRank(table, data.Title)
	if err != nil {
		metrics.Queries.WithLabelValues("rank", metrics.ResultNotFound).Inc()
		data.TitleMessage = services.MsgMovieNotFound
		return
	}
	metrics.Queries.WithLabelValues("rank", metrics.ResultOK).Inc()
	data.Ranked = &ranked
}
