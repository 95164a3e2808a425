package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/cli/config"
	controller "github.com/rtxtools/remixer/pkg/controller/http"
	"github.com/rtxtools/remixer/pkg/infra/opener"
	"github.com/rtxtools/remixer/pkg/usecase"
)

func cmdServe(a *app) *cli.Command {
	var serverCfg config.Server

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the local control API",
		Flags:   serverCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, a.file.Apply(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting remixer server",
				slog.String("addr", serverCfg.Addr),
			)

			resolver, err := a.release.Configure()
			if err != nil {
				return err
			}
			state, err := a.loadState(ctx)
			if err != nil {
				return err
			}

			// Create use cases
			store := a.workspace.Configure()
			uc := controller.UseCases{
				Resolver: resolver,
				Download: usecase.NewDownload(a.download.Configure()),
				Extract:  usecase.NewExtract(),
				Install:  usecase.NewInstall(store),
				Registry: usecase.NewRegistry(store),
				Opener:   opener.New(),
			}

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				uc,
				controller.WithAddr(serverCfg.Addr),
				controller.WithRepository(a.release.Owner, a.release.Repo),
				controller.WithWorkspace(a.workspace.Archive, a.workspace.ExtractDir),
				controller.WithState(state),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
