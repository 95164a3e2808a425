package config

import (
	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/infra/storage"
)

// Workspace holds local file locations
type Workspace struct {
	StateDir   string
	Archive    string
	ExtractDir string
}

// Flags returns CLI flags for workspace configuration
func (c *Workspace) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "state-dir",
			Usage:       "Directory holding installed_games.json and installed_paths.json",
			Value:       ".",
			Destination: &c.StateDir,
			Sources:     cli.EnvVars("REMIXER_STATE_DIR"),
		},
		&cli.StringFlag{
			Name:        "archive",
			Usage:       "Path of the downloaded package archive",
			Value:       "rtx_remix.zip",
			Destination: &c.Archive,
			Sources:     cli.EnvVars("REMIXER_ARCHIVE"),
		},
		&cli.StringFlag{
			Name:        "extract-dir",
			Usage:       "Directory the package archive is extracted into",
			Value:       "rtx_remix",
			Destination: &c.ExtractDir,
			Sources:     cli.EnvVars("REMIXER_EXTRACT_DIR"),
		},
	}
}

// Configure creates the game registry store
func (c *Workspace) Configure() interfaces.RegistryStore {
	return storage.NewFileRegistry(c.StateDir)
}
