// models/movie.go
package models

// RawMovieRow is one source row before normalization. Every cell is kept as text so
// the missing-value sentinel and bad numerics can be handled by the loader instead of
// failing the decode. The csv tags match the IMDb column headers exactly.
type RawMovieRow struct {
	TitleType      string `csv:"titleType" db:"title_type"`
	PrimaryTitle   string `csv:"primaryTitle" db:"primary_title"`
	StartYear      string `csv:"startYear" db:"start_year"`
	RuntimeMinutes string `csv:"runtimeMinutes" db:"runtime_minutes"`
	Genres         string `csv:"genres" db:"genres"`
	AverageRating  string `csv:"averageRating" db:"average_rating"`
	NumVotes       string `csv:"numVotes" db:"num_votes"`
}

// MovieRecord is a normalized movie. RuntimeMinutes is the only column allowed to be
// absent after loading.
type MovieRecord struct {
	PrimaryTitle   string  `json:"primaryTitle"`
	TitleType      string  `json:"titleType"`
	StartYear      int     `json:"startYear"`
	RuntimeMinutes *int    `json:"runtimeMinutes"`
	Genres         string  `json:"genres"`
	AverageRating  float64 `json:"averageRating"`
	NumVotes       int     `json:"numVotes"`
}

// RankedMovie is a movie plus its 1-based position among same-year movies ordered by
// vote count.
type RankedMovie struct {
	Movie MovieRecord `json:"movie"`
	Rank  int         `json:"rank"`
}

// Table is the immutable in-memory dataset. It is safe to share between goroutines.
type Table struct {
	source  string
	records []MovieRecord
}

// NewTable takes ownership of records; the caller must not modify the slice afterwards.
func NewTable(source string, records []MovieRecord) *Table {
	if records == nil {
		records = []MovieRecord{}
	}
	return &Table{source: source, records: records}
}

// Source describes where the table was loaded from (a file path or a DB table).
func (t *Table) Source() string { return t.source }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// At returns the record at position i.
func (t *Table) At(i int) MovieRecord { return t.records[i] }

// Records returns a copy of every record in table order.
func (t *Table) Records() []MovieRecord {
	out := make([]MovieRecord, len(t.records))
	copy(out, t.records)
	return out
}
