package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/moviefinder/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTables struct {
	table *models.Table
	err   error
}

func (s staticTables) Table(context.Context) (*models.Table, error) {
	return s.table, s.err
}

func intPtr(i int) *int { return &i }

func testTable() *models.Table {
	return models.NewTable("test.csv", []models.MovieRecord{
		{PrimaryTitle: "First Action", TitleType: "movie", StartYear: 2020, Genres: "Action,Adventure", AverageRating: 7.5, NumVotes: 5000, RuntimeMinutes: intPtr(101)},
		{PrimaryTitle: "Second Action", TitleType: "movie", StartYear: 2020, Genres: "Action", AverageRating: 8.1, NumVotes: 3000},
		{PrimaryTitle: "Third Action", TitleType: "movie", StartYear: 2020, Genres: "Crime,Action", AverageRating: 8.1, NumVotes: 9000, RuntimeMinutes: intPtr(128)},
		{PrimaryTitle: "Quiet Drama", TitleType: "movie", StartYear: 2019, Genres: "Drama", AverageRating: 6.9, NumVotes: 1200},
	})
}

func newTestRouter(t *testing.T, tables TableProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewMovieHandler(tables, 3, 1000, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r, err := SetupRouter(h, true)
	require.NoError(t, err)
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	w := get(t, newTestRouter(t, staticTables{table: testTable()}), "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode[models.HealthResponse](t, w)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test.csv", body.Source)
	assert.Equal(t, 4, body.Movies)
}

func TestDatasetUnavailable(t *testing.T) {
	r := newTestRouter(t, staticTables{err: errors.New("boom")})

	for _, target := range []string{
		"/api/health",
		"/api/movies/search?title=x",
		"/api/movies/best?year=2020&genre=Action",
		"/api/movies/top?year=2020&genre=Action",
		"/api/movies/rank?title=x",
		"/?title=x",
	} {
		w := get(t, r, target)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)
	}
}

func TestSearchByTitle(t *testing.T) {
	r := newTestRouter(t, staticTables{table: testTable()})

	w := get(t, r, "/api/movies/search?title=action")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[models.SearchResponse](t, w)
	assert.Equal(t, "action", body.Query)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "First Action", body.Results[0].PrimaryTitle)

	w = get(t, r, "/api/movies/search?title=nothing+here")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[models.SearchResponse](t, w)
	assert.Zero(t, body.Count)
	assert.NotNil(t, body.Results)

	w = get(t, r, "/api/movies/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBestMatch(t *testing.T) {
	r := newTestRouter(t, staticTables{table: testTable()})

	w := get(t, r, "/api/movies/best?year=2020&genre=Action")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[models.BestMatchResponse](t, w)
	assert.Equal(t, "Third Action", body.Movie.PrimaryTitle)
	require.NotNil(t, body.Movie.RuntimeMinutes)
	assert.Equal(t, 128, *body.Movie.RuntimeMinutes)
}

func TestBestMatchErrors(t *testing.T) {
	r := newTestRouter(t, staticTables{table: testTable()})

	tests := []struct {
		target string
		code   int
		body   models.ErrorResponse
	}{
		{
			target: "/api/movies/best?year=abcd&genre=Action",
			code:   http.StatusBadRequest,
			body:   models.ErrorResponse{Error: "Please enter a valid year.", Input: "abcd"},
		},
		{
			target: "/api/movies/best?year=1800&genre=Action",
			code:   http.StatusNotFound,
			body:   models.ErrorResponse{Error: "No Action movies found in 1800 with at least 1000 votes."},
		},
		{
			target: "/api/movies/best?genre=Action",
			code:   http.StatusBadRequest,
			body:   models.ErrorResponse{Error: "Missing 'year' query parameter"},
		},
		{
			target: "/api/movies/best?year=2020",
			code:   http.StatusBadRequest,
			body:   models.ErrorResponse{Error: "Missing 'genre' query parameter"},
		},
	}
	for _, tt := range tests {
		w := get(t, r, tt.target)
		assert.Equal(t, tt.code, w.Code, tt.target)
		assert.Equal(t, tt.body, decode[models.ErrorResponse](t, w), tt.target)
	}
}

func TestTopN(t *testing.T) {
	r := newTestRouter(t, staticTables{table: testTable()})

	w := get(t, r, "/api/movies/top?year=2020&genre=Action&n=2")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[models.SearchResponse](t, w)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Third Action", body.Results[0].PrimaryTitle)
	assert.Equal(t, "Second Action", body.Results[1].PrimaryTitle)

	w = get(t, r, "/api/movies/top?year=2020&genre=Action")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[models.SearchResponse](t, w).Count, "default n")

	w = get(t, r, "/api/movies/top?year=2020&genre=Action&n=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[models.SearchResponse](t, w).Count)

	w = get(t, r, "/api/movies/top?year=2020&genre=Action&n=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "-1", decode[models.ErrorResponse](t, w).Input)

	w = get(t, r, "/api/movies/top?year=2020&genre=Western")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFindWithRank(t *testing.T) {
	r := newTestRouter(t, staticTables{table: testTable()})

	w := get(t, r, "/api/movies/rank?title=first")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[models.RankedMovie](t, w)
	assert.Equal(t, "First Action", body.Movie.PrimaryTitle)
	assert.Equal(t, 2, body.Rank)

	w = get(t, r, "/api/movies/rank?title=nonexistent")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Movie not found.", decode[models.ErrorResponse](t, w).Error)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, staticTables{table: testTable()})
	get(t, r, "/api/movies/rank?title=first")

	w := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "moviefinder_queries_total")
}

func TestTopNZeroDefaultFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMovieHandler(staticTables{table: testTable()}, 0, 1000, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 3, h.DefaultTopN)
	r, err := SetupRouter(h, false)
	require.NoError(t, err)

	w := get(t, r, "/api/movies/top?year=2020&genre=Action")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[models.SearchResponse](t, w).Count)

	page := get(t, r, "/?year=2020&genre=Action")
	require.Equal(t, http.StatusOK, page.Code)
	doc, err := goquery.NewDocumentFromReader(page.Body)
	require.NoError(t, err)
	assert.Len(t, cardTitles(doc.Find("#year-genre")), 3)
}
