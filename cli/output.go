// cli/output.go
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gewnthar/moviefinder/models"
	"github.com/gewnthar/moviefinder/utils"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

// printMovies lists movies one per row in the order given.
func printMovies(w io.Writer, movies []models.MovieRecord) {
	table := newTable(w, []string{"#", "Title", "Year", "Genres", "Rating", "Votes", "Runtime"})
	for i, m := range movies {
		table.Append([]string{
			strconv.Itoa(i + 1),
			m.PrimaryTitle,
			strconv.Itoa(m.StartYear),
			m.Genres,
			utils.FormatRating(m.AverageRating),
			strconv.Itoa(m.NumVotes),
			utils.FormatRuntime(m.RuntimeMinutes),
		})
	}
	table.Render()
}

// printMovieDetail shows a single movie as a field/value table. A positive rank adds the
// movie's vote ranking within its year.
func printMovieDetail(w io.Writer, m models.MovieRecord, rank int) {
	table := newTable(w, []string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"Title", m.PrimaryTitle},
		{"Year", strconv.Itoa(m.StartYear)},
		{"Genre", m.Genres},
		{"Rating", fmt.Sprintf("%s (%d votes)", utils.FormatRating(m.AverageRating), m.NumVotes)},
		{"Runtime", utils.FormatRuntime(m.RuntimeMinutes)},
	})
	if rank > 0 {
		table.Append([]string{fmt.Sprintf("Ranking in %d by votes", m.StartYear), "#" + strconv.Itoa(rank)})
	}
	table.Render()
}
