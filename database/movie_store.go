// database/movie_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/gewnthar/moviefinder/dataset"
	"github.com/gewnthar/moviefinder/models"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// MovieSource reads raw movie rows from a MySQL table and normalizes them exactly like
// a file. It never writes.
type MovieSource struct {
	DB      *sql.DB
	Table   string
	Options dataset.Options
	Logger  *slog.Logger
}

func (s *MovieSource) Load(ctx context.Context) (*models.Table, error) {
	rows, err := s.FetchRows(ctx)
	if err != nil {
		return nil, &dataset.LoadError{Path: s.name(), Err: err}
	}
	table := dataset.Normalize(s.name(), rows, s.Options)
	if s.Logger != nil {
		s.Logger.Info("dataset loaded", "source", s.name(), "rows", len(rows), "movies", table.Len())
	}
	return table, nil
}

// FetchRows returns every row of the table in primary key order. NULL cells come back
// as empty strings, which the normalizer treats as absent.
func (s *MovieSource) FetchRows(ctx context.Context) ([]models.RawMovieRow, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if !identifierRe.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT title_type, primary_title, start_year, runtime_minutes,
		       genres, average_rating, num_votes
		FROM %s
		ORDER BY id`, "`"+s.Table+"`"))
	if err != nil {
		return nil, fmt.Errorf("failed to query movies from %s: %w", s.Table, err)
	}
	defer rows.Close()

	var out []models.RawMovieRow
	for rows.Next() {
		var titleType, title, year, runtime, genres, rating, votes sql.NullString
		if err := rows.Scan(&titleType, &title, &year, &runtime, &genres, &rating, &votes); err != nil {
			return nil, fmt.Errorf("failed to scan movie row %d: %w", len(out)+1, err)
		}
		out = append(out, models.RawMovieRow{
			TitleType:      titleType.String,
			PrimaryTitle:   title.String,
			StartYear:      year.String,
			RuntimeMinutes: runtime.String,
			Genres:         genres.String,
			AverageRating:  rating.String,
			NumVotes:       votes.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movie rows: %w", err)
	}
	return out, nil
}

func (s *MovieSource) name() string {
	return "mysql:" + s.Table
}
