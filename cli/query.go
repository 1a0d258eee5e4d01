// cli/query.go
package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gewnthar/moviefinder/config"
	"github.com/gewnthar/moviefinder/dataset"
	"github.com/gewnthar/moviefinder/models"
	"github.com/gewnthar/moviefinder/services"
	"github.com/spf13/cobra"
)

// withTable runs fn against the loaded table.
func withTable(cmd *cobra.Command, fn func(cfg config.Config, table *models.Table) error) error {
	cfg, log, err := settings(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cache, closeFn, err := loadTable(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	defer closeFn()

	table, err := cache.Table(ctx)
	if err != nil {
		return err
	}
	return fn(cfg, table)
}

// queryError turns the query engine's typed errors into the messages the web page shows.
func queryError(err error, notFound string) error {
	var invalid *services.InvalidYearError
	switch {
	case errors.As(err, &invalid):
		return errors.New(services.MsgInvalidYear)
	case errors.Is(err, services.ErrNotFound):
		return errors.New(notFound)
	}
	return err
}

func yearGenreNotFound(cfg config.Config, year, genre string) string {
	y, err := services.ParseYear(year)
	if err != nil {
		return services.MsgInvalidYear
	}
	minVotes := cfg.Dataset.MinVotes
	if minVotes <= 0 {
		minVotes = dataset.DefaultMinVotes
	}
	return services.YearGenreNotFoundMessage(genre, y, minVotes)
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search TITLE",
		Short: "List every movie whose title contains TITLE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, func(_ config.Config, table *models.Table) error {
				results := services.SearchByTitle(table, args[0])
				if len(results) == 0 {
					return errors.New(services.TitleNotFoundMessage(args[0]))
				}
				printMovies(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}
}

func newBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best YEAR GENRE",
		Short: "Show the highest rated movie of YEAR whose genres contain GENRE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, func(cfg config.Config, table *models.Table) error {
				movie, err := services.BestMatch(table, args[0], args[1])
				if err != nil {
					return queryError(err, yearGenreNotFound(cfg, args[0], args[1]))
				}
				printMovieDetail(cmd.OutOrStdout(), movie, 0)
				return nil
			})
		},
	}
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top YEAR GENRE",
		Short: "List the highest rated movies of YEAR whose genres contain GENRE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return fmt.Errorf("failed to get limit flag: %w", err)
			}
			if cmd.Flags().Changed("limit") && limit < 0 {
				return fmt.Errorf("invalid --limit %d: must not be negative", limit)
			}
			return withTable(cmd, func(cfg config.Config, table *models.Table) error {
				if !cmd.Flags().Changed("limit") {
					limit = cfg.Query.DefaultTopN
				}
				results, err := services.TopN(table, args[0], args[1], limit)
				if err != nil {
					return queryError(err, yearGenreNotFound(cfg, args[0], args[1]))
				}
				printMovies(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}
	cmd.Flags().IntP("limit", "n", services.DefaultTopN, "number of movies to list (default from config)")
	return cmd
}

func newRankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank TITLE",
		Short: "Show the first movie whose title contains TITLE and its vote ranking within its year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, func(_ config.Config, table *models.Table) error {
				ranked, err := services.FindWithRank(table, args[0])
				if err != nil {
					return queryError(err, services.MsgMovieNotFound)
				}
				printMovieDetail(cmd.OutOrStdout(), ranked.Movie, ranked.Rank)
				return nil
			})
		},
	}
}
