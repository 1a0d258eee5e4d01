// services/movie_service.go
package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/gewnthar/moviefinder/models"
	"github.com/gewnthar/moviefinder/utils"
)

// DefaultTopN is the result count of TopN when the caller does not choose one.
const DefaultTopN = 3

// SearchByTitle returns every movie whose title contains query, ignoring case, in
// table order. An empty query matches the whole table. No match is an empty slice.
func SearchByTitle(table *models.Table, query string) []models.MovieRecord {
	needle := utils.Lower(query)
	results := []models.MovieRecord{}
	for i := 0; i < table.Len(); i++ {
		if rec := table.At(i); needle.In(rec.PrimaryTitle) {
			results = append(results, rec)
		}
	}
	return results
}

// ParseYear parses user-supplied year text. Surrounding whitespace is ignored.
func ParseYear(text string) (int, error) {
	year, err := strconv.Atoi(utils.NormalizeInput(text))
	if err != nil {
		return 0, &InvalidYearError{Text: text}
	}
	return year, nil
}

// BestMatch returns the highest rated movie of year whose genres contain genre. Ties go
// to the movie with more votes, then to the one earlier in the table.
func BestMatch(table *models.Table, year, genre string) (models.MovieRecord, error) {
	y, err := ParseYear(year)
	if err != nil {
		return models.MovieRecord{}, err
	}
	return BestMatchYear(table, y, genre)
}

// BestMatchYear is BestMatch for an already parsed year.
func BestMatchYear(table *models.Table, year int, genre string) (models.MovieRecord, error) {
	best := -1
	for _, i := range yearGenreMatches(table, year, genre) {
		if best < 0 || ranksAbove(table.At(i), table.At(best)) {
			best = i
		}
	}
	if best < 0 {
		return models.MovieRecord{}, yearGenreNotFound(year, genre)
	}
	return table.At(best), nil
}

// TopN returns up to n movies of year whose genres contain genre, ordered by rating then
// votes, both descending, with table order breaking remaining ties. A negative n means
// DefaultTopN. An empty match set is a *NotFoundError even when n is zero.
func TopN(table *models.Table, year, genre string, n int) ([]models.MovieRecord, error) {
	y, err := ParseYear(year)
	if err != nil {
		return nil, err
	}
	return TopNYear(table, y, genre, n)
}

// TopNYear is TopN for an already parsed year.
func TopNYear(table *models.Table, year int, genre string, n int) ([]models.MovieRecord, error) {
	if n < 0 {
		n = DefaultTopN
	}

	matches := yearGenreMatches(table, year, genre)
	if len(matches) == 0 {
		return nil, yearGenreNotFound(year, genre)
	}

	// matches is in table order, so a stable sort keeps it as the last tie-break.
	sort.SliceStable(matches, func(i, j int) bool {
		return ranksAbove(table.At(matches[i]), table.At(matches[j]))
	})

	if n > len(matches) {
		n = len(matches)
	}
	results := make([]models.MovieRecord, 0, n)
	for _, i := range matches[:n] {
		results = append(results, table.At(i))
	}
	return results, nil
}

// FindWithRank returns the first movie in table order whose title contains title,
// ignoring case, along with its rank among movies of the same year by vote count.
// Equal vote counts rank in table order.
func FindWithRank(table *models.Table, title string) (models.RankedMovie, error) {
	needle := utils.Lower(title)
	idx := -1
	for i := 0; i < table.Len(); i++ {
		if needle.In(table.At(i).PrimaryTitle) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.RankedMovie{}, &NotFoundError{Query: title}
	}

	movie := table.At(idx)
	rank := 1
	for i := 0; i < table.Len(); i++ {
		other := table.At(i)
		if i == idx || other.StartYear != movie.StartYear {
			continue
		}
		if other.NumVotes > movie.NumVotes || (other.NumVotes == movie.NumVotes && i < idx) {
			rank++
		}
	}
	return models.RankedMovie{Movie: movie, Rank: rank}, nil
}

// yearGenreMatches returns the table positions of year's movies whose genres contain
// genre, in table order.
func yearGenreMatches(table *models.Table, year int, genre string) []int {
	needle := utils.Lower(genre)
	var matches []int
	for i := 0; i < table.Len(); i++ {
		rec := table.At(i)
		if rec.StartYear == year && needle.In(rec.Genres) {
			matches = append(matches, i)
		}
	}
	return matches
}

// ranksAbove orders by rating, then votes, both descending.
func ranksAbove(a, b models.MovieRecord) bool {
	if a.AverageRating != b.AverageRating {
		return a.AverageRating > b.AverageRating
	}
	return a.NumVotes > b.NumVotes
}

func yearGenreNotFound(year int, genre string) error {
	return &NotFoundError{Query: fmt.Sprintf("%s movies in %d", genre, year)}
}
