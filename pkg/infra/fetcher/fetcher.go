package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

// ChunkSize is the maximum number of bytes read from the body between two progress reports
const ChunkSize = 1024

type fetcher struct {
	httpClient        *http.Client
	inactivityTimeout time.Duration
	userAgent         string
}

// Option is a functional option for the fetcher
type Option func(*fetcher)

// WithHTTPClient sets the HTTP client used for downloads
func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *fetcher) {
		if httpClient != nil {
			f.httpClient = httpClient
		}
	}
}

// WithInactivityTimeout aborts a transfer when no data arrives for the given duration.
// Zero disables the timeout.
func WithInactivityTimeout(timeout time.Duration) Option {
	return func(f *fetcher) {
		f.inactivityTimeout = timeout
	}
}

// WithUserAgent sets the User-Agent header of download requests
func WithUserAgent(ua string) Option {
	return func(f *fetcher) {
		f.userAgent = ua
	}
}

// New creates a streaming HTTP fetcher
func New(opts ...Option) interfaces.Fetcher {
	f := &fetcher{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url into dest chunk by chunk. dest is truncated first and a
// partially written file is left in place when the transfer fails.
func (f *fetcher) Fetch(ctx context.Context, url, dest string, progress model.ProgressFunc) error {
	ctx, wd := newWatchdog(ctx, f.inactivityTimeout)
	defer wd.Cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return goerr.Wrap(types.WithKind(err, types.ErrNetwork), "failed to create download request",
			goerr.V("url", url))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(types.WithKind(causeOf(ctx, err), types.ErrNetwork), "failed to request download",
			goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return goerr.Wrap(types.WithKind(goerr.New("HTTP "+resp.Status), types.ErrNetwork), "unexpected download status",
			goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return goerr.Wrap(types.WithKind(err, types.ErrNetwork), "failed to open download destination",
			goerr.V("dest", dest))
	}

	total := resp.ContentLength // -1 if server doesn't send Content-Length
	var downloaded int64
	buf := make([]byte, ChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			wd.Kick()
			if _, err := out.Write(buf[:n]); err != nil {
				_ = out.Close()
				return goerr.Wrap(types.WithKind(err, types.ErrNetwork), "failed to write download chunk",
					goerr.V("dest", dest), goerr.V("downloaded", downloaded))
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = out.Close()
			return goerr.Wrap(types.WithKind(causeOf(ctx, readErr), types.ErrNetwork), "failed to read download body",
				goerr.V("url", url),
				goerr.V("downloaded", downloaded),
			)
		}
	}

	if err := out.Close(); err != nil {
		return goerr.Wrap(types.WithKind(err, types.ErrNetwork), "failed to close download destination",
			goerr.V("dest", dest))
	}

	return nil
}

// ErrInactivityTimeout is the cause of a transfer aborted by the inactivity watchdog
var ErrInactivityTimeout = goerr.New("no data received within inactivity timeout")

// causeOf reports the watchdog or cancellation cause instead of the generic transport error
func causeOf(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		if errors.Is(cause, os.ErrDeadlineExceeded) {
			return ErrInactivityTimeout
		}
		return cause
	}
	return err
}
