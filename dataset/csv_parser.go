// dataset/csv_parser.go
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gewnthar/moviefinder/models"
	"github.com/jszwec/csvutil"
)

// RequiredColumns are the header names every source file must carry. Extra columns are
// ignored.
var RequiredColumns = []string{
	"titleType",
	"primaryTitle",
	"startYear",
	"runtimeMinutes",
	"genres",
	"averageRating",
	"numVotes",
}

// ParseRows decodes delimited text with a header row into raw rows. It does not
// interpret any cell; see Normalize for that.
func ParseRows(reader io.Reader, comma rune) ([]models.RawMovieRow, error) {
	if comma == 0 {
		comma = ','
	}

	var cr csvutil.Reader
	if comma == '\t' {
		// IMDb TSV dumps have no quoting at all; a title may start with a quote.
		cr = newTSVReader(reader)
	} else {
		r := csv.NewReader(reader)
		r.Comma = comma
		cr = r
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	header = cleanHeader(header)
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("header is missing required columns: %s", strings.Join(missing, ", "))
	}

	decoder, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	var rows []models.RawMovieRow
	for {
		var row models.RawMovieRow
		if err := decoder.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// tsvReader splits each line on tabs and nothing else. Blank lines are skipped, like
// csv.Reader does.
type tsvReader struct {
	r    *bufio.Reader
	line int
}

func newTSVReader(r io.Reader) *tsvReader {
	return &tsvReader{r: bufio.NewReader(r)}
}

func (t *tsvReader) Read() ([]string, error) {
	for {
		line, err := t.r.ReadString('\n')
		if line == "" && err != nil {
			return nil, err
		}
		t.line++
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil {
				return nil, err
			}
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("line %d: %w", t.line, err)
		}
		return strings.Split(line, "\t"), nil
	}
}
