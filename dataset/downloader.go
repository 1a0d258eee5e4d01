// dataset/downloader.go
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gewnthar/moviefinder/metrics"
)

const (
	defaultDownloadTimeout  = 5 * time.Minute
	defaultDownloadMaxTries = 5
)

// Downloader fetches a dataset file over HTTP. Transport errors and 5xx responses are
// retried with exponential backoff; 4xx responses are not.
type Downloader struct {
	Client   *http.Client
	MaxTries uint
	// BackOff overrides the retry schedule. Nil means exponential backoff.
	BackOff backoff.BackOff
	Logger  *slog.Logger
}

// Download saves the body of url to localSavePath. The file appears atomically: a
// partial download never replaces or creates localSavePath.
func (d *Downloader) Download(ctx context.Context, url, localSavePath string) error {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: defaultDownloadTimeout}
	}
	maxTries := d.MaxTries
	if maxTries == 0 {
		maxTries = defaultDownloadMaxTries
	}
	b := d.BackOff
	if b == nil {
		b = backoff.NewExponentialBackOff()
	}

	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	attempt := 0
	written, err := backoff.Retry(ctx, func() (int64, error) {
		attempt++
		n, err := d.fetch(ctx, client, url, localSavePath)
		if err != nil {
			metrics.DatasetDownloads.WithLabelValues(metrics.ResultError).Inc()
			log.Warn("dataset download attempt failed", "url", url, "attempt", attempt, "error", err)
			return 0, err
		}
		metrics.DatasetDownloads.WithLabelValues(metrics.ResultOK).Inc()
		return n, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(maxTries))
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}

	log.Info("dataset downloaded", "url", url, "path", localSavePath, "bytes", written)
	return nil
}

func (d *Downloader) fetch(ctx context.Context, client *http.Client, url, localSavePath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("failed to build request for %s: %w", url, err))
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("received status code %d from %s", resp.StatusCode, url)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return 0, backoff.Permanent(err)
		}
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(localSavePath), ".download-*")
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("failed to create temporary file: %w", err))
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to copy downloaded content to %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), localSavePath); err != nil {
		return 0, backoff.Permanent(fmt.Errorf("failed to move download into place at %s: %w", localSavePath, err))
	}
	return n, nil
}
