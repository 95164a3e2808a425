package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

// DefaultBaseURL is the public GitHub API endpoint
const DefaultBaseURL = "https://api.github.com/"

type client struct {
	githubClient *github.Client
}

type config struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a functional option for the release client
type Option func(*config)

// WithBaseURL sets the API base URL (GitHub Enterprise or a test server)
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithToken authenticates API calls, which raises the rate limit
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new GitHub release client
func NewClient(opts ...Option) (interfaces.ReleaseClient, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(cfg.httpClient)
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse GitHub API base URL", goerr.V("base_url", cfg.baseURL))
		}
		githubClient.BaseURL = u
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// GetLatestRelease fetches the latest published release of owner/repo
func (c *client) GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error) {
	release, _, err := c.githubClient.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, goerr.Wrap(types.WithKind(err, types.ErrNetwork), "failed to get latest release",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
		)
	}

	result := &model.Release{
		TagName: release.GetTagName(),
		Name:    release.GetName(),
		Assets:  make([]model.ReleaseAsset, 0, len(release.Assets)),
	}
	for _, asset := range release.Assets {
		result.Assets = append(result.Assets, model.ReleaseAsset{
			Name: asset.GetName(),
			URL:  asset.GetBrowserDownloadURL(),
		})
	}

	return result, nil
}
