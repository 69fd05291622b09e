// Package cache implements the content-addressed artifact cache for task files.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const (
	// downloadAttempts is the total number of tries per file.
	downloadAttempts = 2

	// retryPause is the pause between download attempts.
	retryPause = 100 * time.Millisecond

	// maxConcurrentDownloads bounds parallel fetches in EnsureCached.
	maxConcurrentDownloads = 4
)

// Cache stores task files under root/<sha256>/<filename>. A file is only
// visible at its final path once fully written and renamed, so readers never
// observe partial content there.
type Cache struct {
	root    string
	fetcher ports.Fetcher
	logger  ports.Logger
	tracer  ports.Tracer
}

// New creates a cache rooted at the given directory.
func New(root string, fetcher ports.Fetcher, logger ports.Logger, tracer ports.Tracer) *Cache {
	return &Cache{
		root:    root,
		fetcher: fetcher,
		logger:  logger,
		tracer:  tracer,
	}
}

// Path returns the final location of a file, present or not.
func (c *Cache) Path(file domain.FileEntry) string {
	return filepath.Join(c.root, file.SHA256, file.Filename)
}

// IsCached reports whether the file satisfies every cache invariant: the hash
// directory exists, the file exists, its size matches and its content hashes
// to the declared SHA-256. Hashing on every call guards against tampering and
// interrupted earlier downloads.
func (c *Cache) IsCached(file domain.FileEntry) bool {
	dir := filepath.Join(c.root, file.SHA256)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}

	path := c.Path(file)
	finfo, err := os.Stat(path)
	if err != nil || finfo.IsDir() {
		return false
	}

	if finfo.Size() != file.SizeBytes {
		return false
	}

	sum, err := hashFile(path)
	if err != nil {
		return false
	}

	return sum == file.SHA256
}

// EnsureCached downloads every file that is not already cached. Files are
// fetched concurrently; the first failure cancels the rest and is surfaced.
func (c *Cache) EnsureCached(ctx context.Context, files []domain.FileEntry) error {
	ctx, finish := c.tracer.Span(ctx, "cache.ensure")

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentDownloads)

	for _, file := range files {
		eg.Go(func() error {
			if c.IsCached(file) {
				return nil
			}
			return c.Download(ctx, file)
		})
	}

	err := eg.Wait()
	finish(err)
	return err
}

// Download fetches one file into the cache. It tries twice with a short pause
// between attempts and surfaces the error from the final attempt.
func (c *Cache) Download(ctx context.Context, file domain.FileEntry) error {
	var err error

	for attempt := 1; attempt <= downloadAttempts; attempt++ {
		if err = c.download(ctx, file); err == nil {
			return nil
		}

		c.logger.Warn(fmt.Sprintf("download of %s failed, attempt %d of %d", file.Filename, attempt, downloadAttempts))

		if attempt < downloadAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryPause):
			}
		}
	}

	return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "file", file.Filename)
}

func (c *Cache) download(ctx context.Context, file domain.FileEntry) error {
	resp, err := c.fetcher.Get(ctx, requestPath(file.URI), map[string]string{
		"Accept": "application/octet-stream",
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.Code != 200 {
		return zerr.With(zerr.New("unexpected response from server"), "code", resp.Code)
	}

	hashDir := filepath.Join(c.root, file.SHA256)
	if err := os.MkdirAll(hashDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	// Stage the temp file inside the hash directory so the final rename
	// cannot cross filesystems and stays atomic.
	tmp, err := os.CreateTemp(hashDir, ".download-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to write task file")
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to close task file")
	}

	if err := os.Chmod(tmpPath, domain.TaskFilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to set task file mode")
	}

	if err := os.Rename(tmpPath, c.Path(file)); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to install task file")
	}

	return nil
}

// requestPath composes the file's request path from its URI. Parameters are
// appended with "?" unless the path already carries a query, in which case
// "&" joins them.
func requestPath(uri domain.FileURI) string {
	if len(uri.Params) == 0 {
		return uri.Path
	}

	values := url.Values{}
	for k, v := range uri.Params {
		values.Set(k, v)
	}

	sep := "?"
	if strings.Contains(uri.Path, "?") {
		sep = "&"
	}

	return uri.Path + sep + values.Encode()
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is cache root + content hash + filename
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

var _ ports.ArtifactCache = (*Cache)(nil)
