package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/rtxtools/remixer/pkg/domain/types"
	githubinfra "github.com/rtxtools/remixer/pkg/infra/github"
)

const latestReleaseBody = `{
  "tag_name": "remix-1.0.0",
  "name": "RTX Remix 1.0.0",
  "assets": [
    {"name": "remix-1.0.0-symbols.zip", "browser_download_url": "https://example.com/remix-1.0.0-symbols.zip"},
    {"name": "remix-1.0.0.zip", "browser_download_url": "https://example.com/remix-1.0.0.zip"}
  ]
}`

func TestClient_GetLatestRelease(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/NVIDIAGameWorks/rtx-remix/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(latestReleaseBody))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(
		githubinfra.WithBaseURL(server.URL),
		githubinfra.WithHTTPClient(server.Client()),
		githubinfra.WithToken("test-token"),
	)
	gt.NoError(t, err).Required()

	release, err := client.GetLatestRelease(context.Background(), "NVIDIAGameWorks", "rtx-remix")
	gt.NoError(t, err).Required()

	gt.Value(t, release.TagName).Equal("remix-1.0.0")
	gt.Value(t, release.Name).Equal("RTX Remix 1.0.0")
	gt.Value(t, len(release.Assets)).Equal(2)
	// API order is preserved
	gt.Value(t, release.Assets[0].Name).Equal("remix-1.0.0-symbols.zip")
	gt.Value(t, release.Assets[1].URL).Equal("https://example.com/remix-1.0.0.zip")
	gt.String(t, gotAuth).Contains("test-token")
}

func TestClient_GetLatestRelease_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(
		githubinfra.WithBaseURL(server.URL+"/"),
		githubinfra.WithHTTPClient(server.Client()),
	)
	gt.NoError(t, err).Required()

	release, err := client.GetLatestRelease(context.Background(), "owner", "repo")
	gt.Error(t, err)
	gt.Value(t, release).Nil()
	gt.True(t, errors.Is(err, types.ErrNetwork))
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := githubinfra.NewClient(githubinfra.WithBaseURL("://bad"))
	gt.Error(t, err)
}
