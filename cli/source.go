// cli/source.go
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gewnthar/moviefinder/config"
	"github.com/gewnthar/moviefinder/database"
	"github.com/gewnthar/moviefinder/dataset"
)

func datasetOptions(cfg config.DatasetConfig) (dataset.Options, error) {
	comma, err := cfg.Comma()
	if err != nil {
		return dataset.Options{}, err
	}
	return dataset.Options{
		Comma:     comma,
		MinVotes:  cfg.MinVotes,
		TitleType: cfg.TitleType,
	}, nil
}

// newSource builds the configured dataset source. The returned close func releases the
// database pool for the mysql source and is a no-op otherwise.
func newSource(ctx context.Context, cfg config.Config, log *slog.Logger) (dataset.Source, func(), error) {
	opts, err := datasetOptions(cfg.Dataset)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Dataset.Source {
	case "mysql":
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, &dataset.LoadError{Path: "mysql:" + cfg.Database.Table, Err: err}
		}
		src := &database.MovieSource{DB: db, Table: cfg.Database.Table, Options: opts, Logger: log}
		return src, func() { _ = db.Close() }, nil
	case "file":
		src := &dataset.FileSource{
			Path:       cfg.Dataset.Path,
			URL:        cfg.Dataset.URL,
			IndexURL:   cfg.Dataset.IndexURL,
			Options:    opts,
			Downloader: &dataset.Downloader{Logger: log},
			Logger:     log,
		}
		return src, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
}

// loadTable loads the configured dataset once through a cache, as the server does.
func loadTable(ctx context.Context, cfg config.Config, log *slog.Logger) (*dataset.Cache, func(), error) {
	src, closeFn, err := newSource(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cache := dataset.NewCache(src, log)
	if _, err := cache.Table(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return cache, closeFn, nil
}
