package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/buzunser/otagen/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ChunkSize is the read size used while streaming a download
const ChunkSize = 4 * 1024 * 1024

// ProgressFunc receives the number of bytes read so far and the expected
// total. total is 0 when the server did not announce a length.
type ProgressFunc func(done, total int64)

// Fetcher retrieves the full content of an archive
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// New returns a LocalFetcher reading localPath from fs when it is set, and
// an HTTPFetcher otherwise.
func New(fs afero.Fs, localPath string, progress ProgressFunc) Fetcher {
	if localPath != "" {
		return NewLocalFetcher(fs, localPath)
	}
	return NewHTTPFetcher(http.DefaultClient, progress)
}

// HTTPFetcher downloads an archive into memory
type HTTPFetcher struct {
	client   *http.Client
	progress ProgressFunc
	logger   *logrus.Entry
}

// NewHTTPFetcher creates a fetcher using client. progress may be nil.
func NewHTTPFetcher(client *http.Client, progress ProgressFunc) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:   client,
		progress: progress,
		logger:   logrus.WithField("component", "http-fetcher"),
	}
}

// Fetch streams the body at url chunk by chunk
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.logger.WithField("url", url).Debug("Starting download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, url, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, url, fmt.Errorf("failed to download file: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewError(models.ErrFetch, url, fmt.Errorf("server returned status %d", resp.StatusCode))
	}

	total := contentLength(resp)
	f.logger.WithField("total", total).Debug("Response received")

	content, err := readChunks(resp.Body, total, f.progress)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, url, fmt.Errorf("failed to read response body: %w", err))
	}

	return content, nil
}

// contentLength returns the announced body length, 0 when unknown
func contentLength(resp *http.Response) int64 {
	if resp.ContentLength < 0 {
		return 0
	}
	return resp.ContentLength
}

func readChunks(r io.Reader, total int64, progress ProgressFunc) ([]byte, error) {
	capacity := total
	if capacity <= 0 || capacity > ChunkSize*16 {
		capacity = ChunkSize
	}
	content := make([]byte, 0, capacity)
	chunk := make([]byte, ChunkSize)

	for {
		n, err := fill(r, chunk)
		if n > 0 {
			content = append(content, chunk[:n]...)
			if progress != nil {
				progress(int64(len(content)), total)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if total > 0 && int64(len(content)) != total {
		return nil, fmt.Errorf("received %d bytes, expected %d", len(content), total)
	}

	return content, nil
}

// fill reads until buf is full or r fails. Unlike io.ReadFull it returns
// io.EOF itself, so a truncated body stays distinguishable from a clean end.
func fill(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// LocalFetcher reads an archive from a filesystem path. The source passed
// to Fetch is ignored: the archive URL still names the record, but bytes
// come from path.
type LocalFetcher struct {
	fs   afero.Fs
	path string
}

// NewLocalFetcher creates a fetcher reading path from fs
func NewLocalFetcher(fs afero.Fs, path string) *LocalFetcher {
	return &LocalFetcher{fs: fs, path: path}
}

// Fetch reads the whole file
func (f *LocalFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewError(models.ErrFetch, f.path, err)
	}

	logrus.WithField("path", f.path).Debug("Reading local archive")

	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return nil, models.NewError(models.ErrFetch, f.path, fmt.Errorf("failed to read local file: %w", err))
	}

	return data, nil
}
