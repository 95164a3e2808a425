package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/cli/config"
	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/domain/types"
	"github.com/rtxtools/remixer/pkg/usecase"
)

// app holds the configuration shared by all commands
type app struct {
	file      config.File
	logger    config.Logger
	release   config.Release
	workspace config.Workspace
	download  config.Download
	sentry    config.Sentry
}

func (a *app) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, a.file.Flags()...)
	flags = append(flags, a.logger.Flags()...)
	flags = append(flags, a.release.Flags()...)
	flags = append(flags, a.workspace.Flags()...)
	flags = append(flags, a.download.Flags()...)
	flags = append(flags, a.sentry.Flags()...)
	return flags
}

// loadState returns a session state holding the persisted game records
func (a *app) loadState(ctx context.Context) (*model.AppState, error) {
	state := model.NewAppState()
	if err := usecase.NewRegistry(a.workspace.Configure()).Load(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var a app
	var logger *slog.Logger

	cmd := &cli.Command{
		Name:    "remixer",
		Usage:   "Download RTX Remix and install it into games",
		Version: types.Version,
		Flags:   a.flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := a.file.Apply(c); err != nil {
				return nil, err
			}

			var err error
			logger, err = a.logger.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := a.sentry.Configure(); err != nil {
				return nil, err
			}

			logger.Debug("Configuration loaded",
				"release", a.release,
				"workspace", a.workspace,
				"download", a.download,
				"sentry", a.sentry,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdRelease(&a),
			cmdDownload(&a),
			cmdExtract(&a),
			cmdInstall(&a),
			cmdSetup(&a),
			cmdScan(&a),
			cmdList(&a),
			cmdOpen(&a),
			cmdServe(&a),
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		a.sentry.Report(err)
		return err
	}

	return nil
}

func requireArg(c *cli.Command, name string) (string, error) {
	v := c.Args().First()
	if v == "" {
		return "", goerr.Wrap(types.ErrUsage, "missing argument", goerr.V("argument", name), goerr.V("command", c.Name))
	}
	return v, nil
}
