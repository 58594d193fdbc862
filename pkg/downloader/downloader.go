// Package downloader stages catalogue assets on local disk before a
// workflow processes them. Assets are referenced by http(s) or s3 hrefs.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProgressFunc receives byte counts as a transfer advances. Total is -1
// when the source does not report a length.
type ProgressFunc func(downloaded, total int64)

// Fetch downloads the asset at href into destPath.
func Fetch(ctx context.Context, href, destPath string) error {
	return FetchWithProgress(ctx, href, destPath, nil)
}

// FetchWithProgress downloads the asset at href into destPath, reporting
// progress when a callback is given. A partially written destination is
// removed on failure.
func FetchWithProgress(ctx context.Context, href, destPath string, progress ProgressFunc) error {
	u, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("downloader: parsing asset href: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("downloader: creating destination dir: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return fetchHTTP(ctx, href, destPath, progress)
	case "s3":
		return fetchS3(ctx, u, destPath, progress)
	case "", "file":
		return fmt.Errorf("downloader: asset %s is already local", href)
	default:
		return fmt.Errorf("downloader: unsupported URL scheme: %s", u.Scheme)
	}
}

func fetchHTTP(ctx context.Context, href, destPath string, progress ProgressFunc) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return fmt.Errorf("downloader: creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloader: fetching asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloader: fetching asset: unexpected status code %d", resp.StatusCode)
	}

	return writeTo(ctx, destPath, resp.Body, resp.ContentLength, progress)
}

func fetchS3(ctx context.Context, u *url.URL, destPath string, progress ProgressFunc) (err error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("downloader: loading AWS config: %w", err)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	result, err := s3.NewFromConfig(cfg).GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("downloader: fetching s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	total := int64(-1)
	if result.ContentLength != nil {
		total = *result.ContentLength
	}
	return writeTo(ctx, destPath, result.Body, total, progress)
}

func writeTo(ctx context.Context, destPath string, src io.Reader, total int64, progress ProgressFunc) (err error) {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("downloader: creating destination file: %w", err)
	}
	defer func() {
		out.Close()
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	if progress != nil {
		progress(0, total)
	}
	if _, err = copyWithProgress(ctx, out, src, total, progress); err != nil {
		return fmt.Errorf("downloader: writing asset: %w", err)
	}
	return nil
}

func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			w, writeErr := dst.Write(buf[:n])
			if writeErr != nil {
				return written, writeErr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
			written += int64(w)
			if progress != nil {
				progress(written, total)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, nil
			}
			return written, readErr
		}
	}
}
