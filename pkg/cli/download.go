package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/rtxtools/remixer/pkg/domain/model"
	"github.com/rtxtools/remixer/pkg/usecase"
)

func cmdRelease(a *app) *cli.Command {
	return &cli.Command{
		Name:  "release",
		Usage: "Show the download URL of the latest package",
		Action: func(ctx context.Context, c *cli.Command) error {
			resolver, err := a.release.Configure()
			if err != nil {
				return err
			}
			printResolution(c.Root().Writer, resolver.Resolve(ctx, a.release.Owner, a.release.Repo))
			return nil
		},
	}
}

func cmdDownload(a *app) *cli.Command {
	var url string

	return &cli.Command{
		Name:  "download",
		Usage: "Download the package archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "Download this URL instead of resolving the latest release",
				Destination: &url,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_, err := a.fetchPackage(ctx, c.Root().Writer, url)
			return err
		},
	}
}

// fetchPackage downloads the package archive, resolving the URL first when empty.
// SIGINT or SIGTERM cancels the transfer.
func (a *app) fetchPackage(ctx context.Context, w io.Writer, url string) (*model.DownloadJob, error) {
	logger := ctxlog.From(ctx)

	if url == "" {
		resolver, err := a.release.Configure()
		if err != nil {
			return nil, err
		}
		resolution := resolver.Resolve(ctx, a.release.Owner, a.release.Repo)
		printResolution(w, resolution)
		url = resolution.URL
	}

	job, err := usecase.NewDownload(a.download.Configure()).Start(ctx, url, a.workspace.Archive)
	if err != nil {
		return nil, err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	interrupted := sigCtx.Done()

	printer := &progressPrinter{w: w}
	var terminal model.ProgressEvent

	events := job.Events()
	for events != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			printer.print(ev)
			if ev.IsTerminal() {
				terminal = ev
			}

		case <-interrupted:
			logger.Warn("Cancelling download", "job_id", job.ID())
			job.Cancel()
			interrupted = nil
		}
	}

	snapshot := job.Wait()
	if terminal.Kind == model.ProgressKindFailed {
		return &snapshot, goerr.Wrap(terminal.Err, "failed to download package",
			goerr.V("url", url), goerr.V("dest", a.workspace.Archive))
	}
	return &snapshot, nil
}

func cmdExtract(a *app) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract the package archive",
		Action: func(ctx context.Context, c *cli.Command) error {
			return a.extractPackage(ctx, c.Root().Writer)
		},
	}
}

func (a *app) extractPackage(ctx context.Context, w io.Writer) error {
	result, err := usecase.NewExtract().Extract(ctx, a.workspace.Archive, a.workspace.ExtractDir)
	if err != nil {
		return err
	}
	okColor.Fprintf(w, "Extracted %d entries into %s (%s)\n", len(result.Files), result.Directory, humanBytes(result.Size))
	return nil
}
