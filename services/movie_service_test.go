package services

import (
	"errors"
	"testing"

	"github.com/gewnthar/moviefinder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movie(title string, year int, genres string, rating float64, votes int) models.MovieRecord {
	return models.MovieRecord{
		PrimaryTitle:  title,
		TitleType:     "movie",
		StartYear:     year,
		Genres:        genres,
		AverageRating: rating,
		NumVotes:      votes,
	}
}

// actionTable holds three 2020 action movies rated [7.5, 8.1, 8.1] with votes
// [5000, 3000, 9000], plus unrelated rows around them.
func actionTable() *models.Table {
	return models.NewTable("test", []models.MovieRecord{
		movie("Drama First", 2020, "Drama", 9.9, 100000),
		movie("First Action", 2020, "Action,Adventure", 7.5, 5000),
		movie("Second Action", 2020, "Action", 8.1, 3000),
		movie("Old Action", 2019, "Action", 9.0, 50000),
		movie("Third Action", 2020, "Crime,Action", 8.1, 9000),
	})
}

func TestSearchByTitle(t *testing.T) {
	table := actionTable()

	results := SearchByTitle(table, "ACTION")
	require.Len(t, results, 4)
	assert.Equal(t, "First Action", results[0].PrimaryTitle)
	assert.Equal(t, "Second Action", results[1].PrimaryTitle)
	assert.Equal(t, "Old Action", results[2].PrimaryTitle)
	assert.Equal(t, "Third Action", results[3].PrimaryTitle)

	none := SearchByTitle(table, "zzz")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSearchByTitleEmptyQueryReturnsWholeTable(t *testing.T) {
	table := actionTable()
	assert.Equal(t, table.Records(), SearchByTitle(table, ""))
}

func TestSearchByTitleIsLiteral(t *testing.T) {
	table := models.NewTable("test", []models.MovieRecord{
		movie("Se7en", 1995, "Crime", 8.6, 1800000),
		movie("Mission: Impossible (1996)", 1996, "Action", 7.1, 480000),
	})
	assert.Len(t, SearchByTitle(table, "(1996)"), 1)
	assert.Empty(t, SearchByTitle(table, "S.7"))
}

func TestBestMatch(t *testing.T) {
	table := actionTable()

	best, err := BestMatch(table, "2020", "Action")
	require.NoError(t, err)
	assert.Equal(t, "Third Action", best.PrimaryTitle)
	assert.Equal(t, 8.1, best.AverageRating)
	assert.Equal(t, 9000, best.NumVotes)
}

func TestBestMatchGenreIsCaseInsensitiveSubstring(t *testing.T) {
	table := actionTable()

	best, err := BestMatch(table, "2020", "advent")
	require.NoError(t, err)
	assert.Equal(t, "First Action", best.PrimaryTitle)
}

func TestBestMatchTieBreaks(t *testing.T) {
	t.Run("votes break equal ratings", func(t *testing.T) {
		table := models.NewTable("test", []models.MovieRecord{
			movie("Fewer", 2001, "Drama", 8.0, 2000),
			movie("More", 2001, "Drama", 8.0, 4000),
		})
		best, err := BestMatchYear(table, 2001, "drama")
		require.NoError(t, err)
		assert.Equal(t, "More", best.PrimaryTitle)
	})

	t.Run("table order breaks equal rating and votes", func(t *testing.T) {
		table := models.NewTable("test", []models.MovieRecord{
			movie("Earlier", 2001, "Drama", 8.0, 2000),
			movie("Later", 2001, "Drama", 8.0, 2000),
		})
		best, err := BestMatchYear(table, 2001, "drama")
		require.NoError(t, err)
		assert.Equal(t, "Earlier", best.PrimaryTitle)
	})
}

func TestBestMatchNotFound(t *testing.T) {
	table := actionTable()

	_, err := BestMatch(table, "1800", "Action")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var invalid *InvalidYearError
	assert.False(t, errors.As(err, &invalid))

	_, err = BestMatch(table, "2020", "Western")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBestMatchInvalidYear(t *testing.T) {
	_, err := BestMatch(actionTable(), "abcd", "Action")
	require.Error(t, err)

	var invalid *InvalidYearError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "abcd", invalid.Text)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "2020", want: 2020},
		{in: " 1999 ", want: 1999},
		{in: "+2001", want: 2001},
		{in: "", wantErr: true},
		{in: "20.5", wantErr: true},
		{in: "abcd", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseYear(tt.in)
		if tt.wantErr {
			var invalid *InvalidYearError
			if assert.True(t, errors.As(err, &invalid), "input %q", tt.in) {
				assert.Equal(t, tt.in, invalid.Text)
			}
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestTopN(t *testing.T) {
	table := actionTable()

	top, err := TopN(table, "2020", "Action", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Third Action", top[0].PrimaryTitle)
	assert.Equal(t, "Second Action", top[1].PrimaryTitle)

	all, err := TopN(table, "2020", "Action", 10)
	require.NoError(t, err)
	require.Len(t, all, 3, "fewer than n when fewer match")
	assert.Equal(t, "First Action", all[2].PrimaryTitle)

	def, err := TopN(table, "2020", "", -1)
	require.NoError(t, err)
	require.Len(t, def, DefaultTopN)
	assert.Equal(t, "Drama First", def[0].PrimaryTitle)
}

func TestTopNZeroIsDistinctFromNoMatches(t *testing.T) {
	table := actionTable()

	zero, err := TopN(table, "2020", "Action", 0)
	require.NoError(t, err)
	assert.NotNil(t, zero)
	assert.Empty(t, zero)

	_, err = TopN(table, "1800", "Action", 0)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = TopN(table, "next year", "Action", 3)
	var invalid *InvalidYearError
	assert.True(t, errors.As(err, &invalid))
}

func TestTopNResidualTiesKeepTableOrder(t *testing.T) {
	table := models.NewTable("test", []models.MovieRecord{
		movie("A", 2010, "Comedy", 7.0, 1500),
		movie("B", 2010, "Comedy", 7.0, 1500),
		movie("C", 2010, "Comedy", 7.0, 1500),
	})
	top, err := TopNYear(table, 2010, "comedy", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, []string{top[0].PrimaryTitle, top[1].PrimaryTitle, top[2].PrimaryTitle})
}

func TestFindWithRank(t *testing.T) {
	table := models.NewTable("test", []models.MovieRecord{
		movie("Middle", 2005, "Drama", 7.0, 5000),
		movie("Other Year Giant", 2006, "Drama", 7.0, 900000),
		movie("Leader", 2005, "Drama", 7.0, 8000),
		movie("Tied Early", 2005, "Drama", 7.0, 3000),
		movie("Tied Late", 2005, "Drama", 7.0, 3000),
	})

	leader, err := FindWithRank(table, "leader")
	require.NoError(t, err)
	assert.Equal(t, "Leader", leader.Movie.PrimaryTitle)
	assert.Equal(t, 1, leader.Rank)

	middle, err := FindWithRank(table, "MIDDLE")
	require.NoError(t, err)
	assert.Equal(t, 2, middle.Rank)

	early, err := FindWithRank(table, "tied early")
	require.NoError(t, err)
	assert.Equal(t, 3, early.Rank)

	late, err := FindWithRank(table, "tied late")
	require.NoError(t, err)
	assert.Equal(t, 4, late.Rank, "later row of a vote tie ranks lower")

	giant, err := FindWithRank(table, "giant")
	require.NoError(t, err)
	assert.Equal(t, 1, giant.Rank)
}

func TestFindWithRankUsesFirstMatch(t *testing.T) {
	table := models.NewTable("test", []models.MovieRecord{
		movie("Alien", 1979, "Horror", 8.5, 900000),
		movie("Aliens", 1986, "Action", 8.4, 750000),
	})
	ranked, err := FindWithRank(table, "alien")
	require.NoError(t, err)
	assert.Equal(t, "Alien", ranked.Movie.PrimaryTitle)
}

func TestFindWithRankNotFound(t *testing.T) {
	_, err := FindWithRank(actionTable(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nonexistent", nf.Query)
}

func TestQueriesOnEmptyTable(t *testing.T) {
	empty := models.NewTable("empty", nil)

	assert.Empty(t, SearchByTitle(empty, ""))
	_, err := BestMatch(empty, "2020", "Action")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = FindWithRank(empty, "")
	assert.True(t, errors.Is(err, ErrNotFound))
}
