package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/infra/github"
	"github.com/rtxtools/remixer/pkg/usecase"
)

// Release holds the release feed configuration
type Release struct {
	Owner         string
	Repo          string
	APIURL        string
	Token         string `masq:"secret"`
	ExcludeMarker string
	FallbackURL   string
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Owner of the repository publishing the package",
			Value:       "NVIDIAGameWorks",
			Destination: &c.Owner,
			Sources:     cli.EnvVars("REMIXER_OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository publishing the package",
			Value:       "rtx-remix",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("REMIXER_REPO"),
		},
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "GitHub API base URL",
			Value:       github.DefaultBaseURL,
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("REMIXER_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for the release API (optional)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("REMIXER_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "exclude-marker",
			Usage:       "Skip release assets whose name contains this marker",
			Value:       usecase.DefaultExcludeMarker,
			Destination: &c.ExcludeMarker,
			Sources:     cli.EnvVars("REMIXER_EXCLUDE_MARKER"),
		},
		&cli.StringFlag{
			Name:        "fallback-url",
			Usage:       "Download URL used when the release query fails (default: latest/download/remix.zip of the repository)",
			Destination: &c.FallbackURL,
			Sources:     cli.EnvVars("REMIXER_FALLBACK_URL"),
		},
	}
}

// Configure creates the release resolver
func (c *Release) Configure() (interfaces.ResolverUseCase, error) {
	opts := []github.Option{github.WithBaseURL(c.APIURL)}
	if c.Token != "" {
		opts = append(opts, github.WithToken(c.Token))
	}

	client, err := github.NewClient(opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release client")
	}

	resolverOpts := []usecase.ResolverOption{usecase.WithExcludeMarker(c.ExcludeMarker)}
	if c.FallbackURL != "" {
		resolverOpts = append(resolverOpts, usecase.WithFallbackURL(c.FallbackURL))
	}
	return usecase.NewResolver(client, resolverOpts...), nil
}
