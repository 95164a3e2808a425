package fetcher_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/rtxtools/remixer/pkg/domain/types"
	"github.com/rtxtools/remixer/pkg/infra/fetcher"
)

type report struct {
	downloaded int64
	total      int64
}

func TestFetch_KnownLength(t *testing.T) {
	payload := bytes.Repeat([]byte("remix"), 1000) // 5000 bytes
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "remix.zip")
	// Stale content must be overwritten
	gt.NoError(t, os.WriteFile(dest, bytes.Repeat([]byte("x"), 9000), 0o644)).Required()

	var reports []report
	f := fetcher.New(fetcher.WithHTTPClient(server.Client()))
	err := f.Fetch(context.Background(), server.URL, dest, func(downloaded, total int64) {
		reports = append(reports, report{downloaded, total})
	})
	gt.NoError(t, err).Required()

	got, err := os.ReadFile(dest)
	gt.NoError(t, err)
	gt.Value(t, got).Equal(payload)

	gt.Number(t, len(reports)).GreaterOrEqual(5)
	var prev int64
	for _, r := range reports {
		gt.Value(t, r.total).Equal(int64(len(payload)))
		gt.Number(t, r.downloaded-prev).LessOrEqual(int64(fetcher.ChunkSize))
		gt.Number(t, r.downloaded).Greater(prev)
		prev = r.downloaded
	}
	gt.Value(t, prev).Equal(int64(len(payload)))
}

func TestFetch_UnknownLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 3; i++ {
			_, _ = w.Write(bytes.Repeat([]byte("a"), 700))
			flusher.Flush()
		}
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "remix.zip")
	var last report
	f := fetcher.New(fetcher.WithHTTPClient(server.Client()))
	err := f.Fetch(context.Background(), server.URL, dest, func(downloaded, total int64) {
		last = report{downloaded, total}
	})
	gt.NoError(t, err).Required()
	gt.Value(t, last.total).Equal(int64(-1))
	gt.Value(t, last.downloaded).Equal(int64(2100))
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "remix.zip")
	f := fetcher.New(fetcher.WithHTTPClient(server.Client()))
	err := f.Fetch(context.Background(), server.URL, dest, nil)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrNetwork))
	gt.String(t, err.Error()).Contains("500 Internal Server Error")

	_, statErr := os.Stat(dest)
	gt.True(t, os.IsNotExist(statErr))
}

func TestFetch_TruncatedBodyLeavesPartialFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "8192")
		_, _ = w.Write(bytes.Repeat([]byte("b"), 3000))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "remix.zip")
	var last report
	f := fetcher.New(fetcher.WithHTTPClient(server.Client()))
	err := f.Fetch(context.Background(), server.URL, dest, func(downloaded, total int64) {
		last = report{downloaded, total}
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrNetwork))
	gt.Number(t, last.downloaded).Less(int64(8192))

	info, statErr := os.Stat(dest)
	gt.NoError(t, statErr).Required()
	gt.Value(t, info.Size()).Equal(last.downloaded)
}

func TestFetch_InactivityTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		_, _ = w.Write([]byte("first"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "remix.zip")
	f := fetcher.New(
		fetcher.WithHTTPClient(server.Client()),
		fetcher.WithInactivityTimeout(100*time.Millisecond),
	)

	start := time.Now()
	err := f.Fetch(context.Background(), server.URL, dest, nil)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrNetwork))
	gt.True(t, errors.Is(err, fetcher.ErrInactivityTimeout))
	gt.String(t, err.Error()).Contains("inactivity timeout")
	gt.True(t, time.Since(start) < 4*time.Second)
}

func TestFetch_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		_, _ = w.Write([]byte("first"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	dest := filepath.Join(t.TempDir(), "remix.zip")
	f := fetcher.New(fetcher.WithHTTPClient(server.Client()))

	err := f.Fetch(ctx, server.URL, dest, func(downloaded, total int64) {
		cancel()
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrNetwork))
	gt.True(t, errors.Is(err, context.Canceled))
}
