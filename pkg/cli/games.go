package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/domain/types"
	"github.com/rtxtools/remixer/pkg/infra/opener"
	"github.com/rtxtools/remixer/pkg/usecase"
)

func cmdScan(a *app) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Look for a game directory holding d3d9.dll",
		ArgsUsage: "<root>",
		Action: func(ctx context.Context, c *cli.Command) error {
			root, err := requireArg(c, "root")
			if err != nil {
				return err
			}

			state, err := a.loadState(ctx)
			if err != nil {
				return err
			}

			candidates, err := usecase.NewRegistry(a.workspace.Configure()).Scan(ctx, state, root)
			if err != nil {
				return err
			}
			printCandidates(c.Root().Writer, candidates)
			return nil
		},
	}
}

func cmdList(a *app) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List games the package is installed into",
		Action: func(ctx context.Context, c *cli.Command) error {
			state, err := a.loadState(ctx)
			if err != nil {
				return err
			}
			printRecords(c.Root().Writer, state.Records)
			return nil
		},
	}
}

func cmdOpen(a *app) *cli.Command {
	var root string

	return &cli.Command{
		Name:      "open",
		Usage:     "Open the extraction directory, or the directory of an installed or scanned game",
		ArgsUsage: "[game]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "root",
				Usage:       "Scan this directory for the game when it is not installed yet",
				Destination: &root,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := a.workspace.ExtractDir

			if name := c.Args().First(); name != "" {
				state, err := a.loadState(ctx)
				if err != nil {
					return err
				}
				if _, installed := state.Records[name]; !installed && root != "" {
					if _, err := usecase.NewRegistry(a.workspace.Configure()).Scan(ctx, state, root); err != nil {
						return err
					}
				}
				path, ok := state.GamePath(name)
				if !ok {
					return goerr.Wrap(types.ErrUsage, "unknown game", goerr.V("name", name))
				}
				dir = path
			}

			return opener.New().Open(ctx, dir)
		},
	}
}
