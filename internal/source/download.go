package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mrz1836/specify/internal/constants"
	specerrors "github.com/mrz1836/specify/internal/errors"
)

// ProgressFunc receives the bytes written so far and the total size.
type ProgressFunc func(written, total int64)

// Downloader streams release assets to disk.
type Downloader struct {
	http    HTTPClient
	token   string
	timeout time.Duration
}

// NewDownloader creates a downloader. timeout is an idle limit: the
// download fails when no bytes arrive for that long.
func NewDownloader(httpClient HTTPClient, token string, timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = constants.DefaultDownloadTimeout
	}
	return &Downloader{http: httpClient, token: token, timeout: timeout}
}

// Download streams url into destPath and returns the number of bytes
// written. onProgress is called only when the server reports a
// Content-Length. Any failure removes the partial file. If ctx is canceled
// the context error is returned; every other failure is a
// *errors.NetworkError or an ErrFilesystem error.
func (d *Downloader) Download(ctx context.Context, url, destPath string, onProgress ProgressFunc) (int64, error) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	idle := newIdleTimer(d.timeout, cancel)
	defer idle.stop()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &specerrors.NetworkError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/octet-stream")
	setCommonHeaders(req, d.token)

	resp, err := d.http.Do(req)
	if err != nil {
		return 0, d.transportError(ctx, idle, url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // HTTP response body close

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.DecodeBodyLimit))
		return 0, &specerrors.NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       string(body),
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o750); err != nil {
		return 0, specerrors.Wrap(specerrors.Tag(err, specerrors.ErrFilesystem), "create download directory")
	}
	f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //#nosec G304 -- destination is chosen by the caller
	if err != nil {
		return 0, specerrors.Wrap(specerrors.Tag(err, specerrors.ErrFilesystem), "create archive file")
	}

	written, err := d.stream(f, resp, idle, onProgress)
	closeErr := f.Close()
	if err == nil && closeErr != nil {
		err = specerrors.Wrap(specerrors.Tag(closeErr, specerrors.ErrFilesystem), "close archive file")
	}
	if err != nil {
		_ = os.Remove(destPath)
		var ne *specerrors.NetworkError
		if errors.As(err, &ne) {
			return 0, d.transportError(ctx, idle, url, ne.Err)
		}
		return 0, err
	}
	return written, nil
}

func (d *Downloader) stream(dst io.Writer, resp *http.Response, idle *idleTimer, onProgress ProgressFunc) (int64, error) {
	total := resp.ContentLength
	report := onProgress != nil && total > 0

	buf := make([]byte, constants.DownloadChunkSize)
	var written int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			idle.reset()
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, specerrors.Wrap(specerrors.Tag(err, specerrors.ErrFilesystem), "write archive")
			}
			written += int64(n)
			if report {
				onProgress(written, total)
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, &specerrors.NetworkError{Err: readErr}
		}
	}
}

// transportError prefers the caller's cancellation over a network error and
// reports an idle expiry as a timeout.
func (d *Downloader) transportError(ctx context.Context, idle *idleTimer, url string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if idle.expired() {
		err = fmt.Errorf("no data received for %s: %w", d.timeout, context.DeadlineExceeded)
	}
	return &specerrors.NetworkError{URL: url, Err: err}
}

// idleTimer cancels a request when it is not reset within its timeout.
type idleTimer struct {
	timeout time.Duration
	timer   *time.Timer

	mu    sync.Mutex
	fired bool
}

func newIdleTimer(timeout time.Duration, cancel context.CancelFunc) *idleTimer {
	it := &idleTimer{timeout: timeout}
	it.timer = time.AfterFunc(timeout, func() {
		it.mu.Lock()
		it.fired = true
		it.mu.Unlock()
		cancel()
	})
	return it
}

func (it *idleTimer) reset() {
	it.timer.Reset(it.timeout)
}

func (it *idleTimer) stop() {
	it.timer.Stop()
}

func (it *idleTimer) expired() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.fired
}
