package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("raster-bytes"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "bands", "red.tif")
	require.NoError(t, Fetch(context.Background(), server.URL+"/red.tif", destPath))

	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "raster-bytes", string(data))
}

func TestFetchWithProgress(t *testing.T) {
	payload := make([]byte, 100*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write(payload)
	}))
	defer server.Close()

	var last, total int64
	calls := 0
	destPath := filepath.Join(t.TempDir(), "asset.bin")
	err := FetchWithProgress(context.Background(), server.URL, destPath, func(downloaded, t int64) {
		last, total = downloaded, t
		calls++
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), last)
	assert.Equal(t, int64(len(payload)), total)
	assert.Greater(t, calls, 1)
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "asset.bin")
	err := Fetch(context.Background(), server.URL, destPath)
	assert.ErrorContains(t, err, "unexpected status code 404")
	assert.NoFileExists(t, destPath)
}

func TestFetch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("raster-bytes"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "asset.bin")
	err := Fetch(ctx, server.URL, destPath)
	require.Error(t, err)
	assert.NoFileExists(t, destPath)
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	destPath := filepath.Join(t.TempDir(), "asset.bin")

	err := Fetch(context.Background(), "ftp://example.com/asset.bin", destPath)
	assert.ErrorContains(t, err, "unsupported URL scheme")

	err = Fetch(context.Background(), "/already/local/asset.bin", destPath)
	assert.ErrorContains(t, err, "already local")
}
