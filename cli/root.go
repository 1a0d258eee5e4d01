// cli/root.go
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gewnthar/moviefinder/config"
	"github.com/gewnthar/moviefinder/metrics"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func Run(info BuildInfo, args []string) ExitCode {
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.Date).Set(1)

	rootCmd := NewRootCmd(info)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the moviefinder command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "moviefinder",
		Short:         "Search the IMDb movie dataset by title, year and genre.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringP("dataset", "d", "", "path to the dataset file (overrides config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newBestCmd(),
		newTopCmd(),
		newRankCmd(),
	)
	return rootCmd
}

// settings loads the config file named by --config and applies the persistent flags on
// top of it. Logs go to the command's stderr so stdout carries only results.
func settings(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	flags := cmd.Root().PersistentFlags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	datasetPath, err := flags.GetString("dataset")
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to get dataset flag: %w", err)
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if datasetPath != "" {
		cfg.Dataset.Source = "file"
		cfg.Dataset.Path = datasetPath
	}
	if verbose {
		cfg.Log.Verbose = true
	}
	return cfg, newLogger(cmd.ErrOrStderr(), cfg.Log.Verbose), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
