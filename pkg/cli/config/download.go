package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/types"
	"github.com/rtxtools/remixer/pkg/infra/fetcher"
)

// Download holds transfer configuration
type Download struct {
	InactivityTimeout time.Duration
	UserAgent         string
}

// Flags returns CLI flags for download configuration
func (c *Download) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "inactivity-timeout",
			Usage:       "Abort a download when no data arrives for this long (0 disables)",
			Value:       0,
			Destination: &c.InactivityTimeout,
			Sources:     cli.EnvVars("REMIXER_INACTIVITY_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "user-agent",
			Usage:       "User-Agent header of download requests",
			Value:       "remixer/" + types.Version,
			Destination: &c.UserAgent,
			Sources:     cli.EnvVars("REMIXER_USER_AGENT"),
		},
	}
}

// Configure creates the fetcher
func (c *Download) Configure() interfaces.Fetcher {
	return fetcher.New(
		fetcher.WithInactivityTimeout(c.InactivityTimeout),
		fetcher.WithUserAgent(c.UserAgent),
	)
}
