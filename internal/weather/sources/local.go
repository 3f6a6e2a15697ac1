package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i474232898/central-west-weather/internal/common"
)

// LocalSource serves CSV files from the local filesystem.
type LocalSource struct{}

// Fetch checks that path is a readable regular file and returns its absolute form.
func (LocalSource) Fetch(_ context.Context, path string) (string, func(), error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", noop, err
	}
	if info.IsDir() {
		return "", noop, fmt.Errorf("%s is a directory", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", noop, err
	}
	return abs, noop, nil
}

// Resolver dispatches remote locations to an HTTPSource and everything else to LocalSource.
type Resolver struct {
	Remote *HTTPSource
	Local  LocalSource
}

// Fetch implements weather.Source.
func (r Resolver) Fetch(ctx context.Context, location string) (string, func(), error) {
	if common.IsRemote(location) {
		if r.Remote == nil {
			return "", noop, fmt.Errorf("remote source not configured for %s", location)
		}
		return r.Remote.Fetch(ctx, location)
	}
	return r.Local.Fetch(ctx, location)
}
