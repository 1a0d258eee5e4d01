// dataset/source.go
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gewnthar/moviefinder/metrics"
	"github.com/gewnthar/moviefinder/models"
)

// Source produces a normalized table. Implementations must be pure apart from reading
// their backing store, so loading twice yields the same table.
type Source interface {
	Load(ctx context.Context) (*models.Table, error)
}

// FileSource loads a delimited file from disk. When Path does not exist yet and URL is
// set, the file is downloaded first. IndexURL names an HTML listing to take the download
// link from instead; the link must point at a file named like Path.
type FileSource struct {
	Path       string
	URL        string
	IndexURL   string
	Options    Options
	Downloader *Downloader
	Logger     *slog.Logger
}

func (s *FileSource) Load(ctx context.Context) (*models.Table, error) {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	if s.Path == "" {
		return nil, &LoadError{Path: s.Path, Err: errors.New("dataset path is not configured")}
	}

	if s.URL != "" || s.IndexURL != "" {
		if _, err := os.Stat(s.Path); errors.Is(err, fs.ErrNotExist) {
			if err := s.download(ctx, log); err != nil {
				return nil, &LoadError{Path: s.Path, Err: fmt.Errorf("failed to download dataset: %w", err)}
			}
		}
	}

	table, err := Load(s.Path, s.Options)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded", "path", s.Path, "movies", table.Len())
	return table, nil
}

func (s *FileSource) download(ctx context.Context, log *slog.Logger) error {
	d := s.Downloader
	if d == nil {
		d = &Downloader{Logger: log}
	}

	link := s.URL
	if link == "" {
		var err error
		link, err = FindDatasetLink(ctx, d.Client, s.IndexURL, filepath.Base(s.Path))
		if err != nil {
			return err
		}
	}
	log.Info("dataset not found locally, downloading", "path", s.Path, "url", link)
	return d.Download(ctx, link, s.Path)
}

// Cache memoizes the first Load of its source for the life of the process. Concurrent
// first callers block on a single load and all observe its result, including its error.
type Cache struct {
	src Source
	log *slog.Logger

	once  sync.Once
	table *models.Table
	err   error
}

func NewCache(src Source, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{src: src, log: log}
}

// Table returns the memoized table, loading it on first use with the caller's context.
func (c *Cache) Table(ctx context.Context) (*models.Table, error) {
	c.once.Do(func() {
		start := time.Now()
		c.table, c.err = c.src.Load(ctx)
		metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
		if c.err != nil {
			metrics.DatasetLoadErrors.Inc()
			c.log.Error("dataset load failed", "error", c.err)
			return
		}
		metrics.DatasetRows.Set(float64(c.table.Len()))
		if c.table.Len() == 0 {
			c.log.Warn("dataset loaded but no movies survived filtering", "source", c.table.Source())
		}
	})
	return c.table, c.err
}
