// dataset/loader.go
package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gewnthar/moviefinder/models"
	"github.com/klauspost/compress/gzip"
)

const (
	// MissingValue is the literal the IMDb dumps use for an absent cell.
	MissingValue = `\N`

	DefaultMinVotes  = 1000
	DefaultTitleType = "movie"
)

// Options tunes parsing and filtering. The zero value loads a comma separated (or, by
// file name, tab separated) file and keeps movies with at least DefaultMinVotes votes.
type Options struct {
	// Comma is the field delimiter. Zero infers it from the file name.
	Comma rune
	// MinVotes is the smallest vote count retained. Values <= 0 mean DefaultMinVotes.
	MinVotes int
	// TitleType is the only titleType retained. Empty means DefaultTitleType.
	TitleType string
}

func (o Options) minVotes() int {
	if o.MinVotes <= 0 {
		return DefaultMinVotes
	}
	return o.MinVotes
}

func (o Options) titleType() string {
	if o.TitleType == "" {
		return DefaultTitleType
	}
	return o.TitleType
}

// LoadError reports a source that could not be opened or parsed. It is fatal to
// startup.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads, normalizes and filters the file at path. A file that parses but retains
// no rows yields an empty table and no error.
func Load(path string, opts Options) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to open gzip stream: %w", err)}
		}
		defer gz.Close()
		reader = gz
	}

	if opts.Comma == 0 {
		opts.Comma = commaForPath(path)
	}
	return parse(path, reader, opts)
}

// Parse is Load for an already open stream. name is used in errors and as the table
// source.
func Parse(name string, reader io.Reader, opts Options) (*models.Table, error) {
	return parse(name, reader, opts)
}

func parse(name string, reader io.Reader, opts Options) (*models.Table, error) {
	rows, err := ParseRows(reader, opts.Comma)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return Normalize(name, rows, opts), nil
}

// Normalize turns raw rows into a table: sentinel cells become absent, numeric columns
// are coerced (failures become absent), rows missing year, rating or votes are dropped,
// then only the configured title type with enough votes is kept. The result is indexed
// by position in the surviving sequence.
func Normalize(source string, rows []models.RawMovieRow, opts Options) *models.Table {
	minVotes := opts.minVotes()
	titleType := opts.titleType()

	records := make([]models.MovieRecord, 0, len(rows))
	for _, raw := range rows {
		year, ok := parseInt(raw.StartYear)
		if !ok {
			continue
		}
		rating, ok := parseNumber(raw.AverageRating)
		if !ok {
			continue
		}
		votes, ok := parseInt(raw.NumVotes)
		if !ok {
			continue
		}
		if text(raw.TitleType) != titleType || votes < minVotes {
			continue
		}

		rec := models.MovieRecord{
			PrimaryTitle:  text(raw.PrimaryTitle),
			TitleType:     text(raw.TitleType),
			StartYear:     year,
			Genres:        text(raw.Genres),
			AverageRating: rating,
			NumVotes:      votes,
		}
		if runtime, ok := parseInt(raw.RuntimeMinutes); ok {
			rec.RuntimeMinutes = &runtime
		}
		records = append(records, rec)
	}
	return models.NewTable(source, records)
}

func commaForPath(path string) rune {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if strings.HasSuffix(p, ".tsv") {
		return '\t'
	}
	return ','
}

func text(cell string) string {
	if cell == MissingValue {
		return ""
	}
	return cell
}

func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(text(cell))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseInt(cell string) (int, bool) {
	f, ok := parseNumber(cell)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
