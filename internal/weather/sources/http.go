package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// HTTPSource downloads a remote CSV into a temporary file.
type HTTPSource struct {
	retrier
	tempDir string
}

// NewHTTPSource creates an HTTPSource. An empty tempDir uses os.TempDir.
func NewHTTPSource(client *http.Client, tempDir string, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		retrier: retrier{
			client:  client,
			backoff: Backoff{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			circuit: newCircuit("csv-download"),
			logger:  logger,
		},
		tempDir: tempDir,
	}
}

// Fetch downloads url and returns the path of the local copy.
func (s *HTTPSource) Fetch(ctx context.Context, url string) (string, func(), error) {
	resp, err := s.get(ctx, url)
	if err != nil {
		return "", noop, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	f, err := os.CreateTemp(s.tempDir, "weather-*.csv")
	if err != nil {
		return "", noop, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove downloaded csv", zap.String("path", path), zap.Error(err))
		}
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("download %s: %w", url, err)
	}

	s.logger.Info("csv downloaded", zap.String("url", url), zap.String("path", path), zap.Int64("bytes", n))
	return path, cleanup, nil
}

func noop() {}
