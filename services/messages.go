// services/messages.go
package services

import "fmt"

// User-facing messages shared by the web page, the JSON API and the CLI.
const (
	MsgInvalidYear   = "Please enter a valid year."
	MsgMovieNotFound = "Movie not found."
)

func YearGenreNotFoundMessage(genre string, year, minVotes int) string {
	return fmt.Sprintf("No %s movies found in %d with at least %d votes.", genre, year, minVotes)
}

func TitleNotFoundMessage(query string) string {
	return fmt.Sprintf("No movies found for '%s'", query)
}
