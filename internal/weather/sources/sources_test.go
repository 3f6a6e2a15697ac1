package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = "Data,station,value\n2020-01-01,A,1\n"

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(fixtureCSV))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.Client(), t.TempDir(), nil)
	path, cleanup, err := src.Fetch(context.Background(), srv.URL+"/central_west.csv")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixtureCSV, string(data))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "downloaded file should be removed by cleanup")
}

func TestHTTPSourceDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.Client(), t.TempDir(), nil)
	_, cleanup, err := src.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.False(t, se.Temporary())
	assert.NotNil(t, cleanup)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	src := NewHTTPSource(srv.Client(), t.TempDir(), nil)
	_, _, err := src.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPSourceHonoursRetryAfter(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(fixtureCSV))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.Client(), t.TempDir(), nil)
	started := time.Now()
	_, cleanup, err := src.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	defer cleanup()
	assert.GreaterOrEqual(t, time.Since(started), time.Second)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestBackoffDelay(t *testing.T) {
	b := Backoff{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}
	assert.Equal(t, 100*time.Millisecond, b.delay(0))
	assert.Equal(t, 400*time.Millisecond, b.delay(2))
	assert.Equal(t, time.Second, b.delay(5))
	assert.Equal(t, time.Second, b.delay(80), "shift overflow is clamped")
}

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weather.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	r := Resolver{}

	got, cleanup, err := r.Fetch(context.Background(), path)
	require.NoError(t, err)
	cleanup()
	assert.Equal(t, path, got)

	_, _, err = r.Fetch(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.True(t, os.IsNotExist(err))

	_, _, err = r.Fetch(context.Background(), dir)
	assert.Error(t, err)

	_, _, err = r.Fetch(context.Background(), "https://example.com/weather.csv")
	assert.Error(t, err, "remote locations need an HTTPSource")
}
