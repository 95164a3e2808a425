package cli

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/usecase"
)

func cmdInstall(a *app) *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Copy the extracted package into a game directory",
		ArgsUsage: "<game-dir>",
		Action: func(ctx context.Context, c *cli.Command) error {
			gameDir, err := requireArg(c, "game-dir")
			if err != nil {
				return err
			}
			return a.installPackage(ctx, c.Root().Writer, gameDir)
		},
	}
}

func cmdSetup(a *app) *cli.Command {
	var url string

	return &cli.Command{
		Name:      "setup",
		Usage:     "Download, extract and install the package into a game directory",
		ArgsUsage: "<game-dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "Download this URL instead of resolving the latest release",
				Destination: &url,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			gameDir, err := requireArg(c, "game-dir")
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if _, err := a.fetchPackage(ctx, w, url); err != nil {
				return err
			}
			if err := a.extractPackage(ctx, w); err != nil {
				return err
			}
			return a.installPackage(ctx, w, gameDir)
		},
	}
}

func (a *app) installPackage(ctx context.Context, w io.Writer, gameDir string) error {
	state, err := a.loadState(ctx)
	if err != nil {
		return err
	}
	state.GameDirectory = gameDir

	result, err := usecase.NewInstall(a.workspace.Configure()).Install(ctx, state, a.workspace.ExtractDir)
	if err != nil {
		if result != nil {
			failureColor.Fprintf(w, "Install aborted after %d files in %s\n", len(result.Copied), result.Destination)
		}
		return err
	}
	printInstall(w, result)
	return nil
}
