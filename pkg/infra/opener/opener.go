package opener

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/types"
)

type commandFunc func(ctx context.Context, name string, args ...string) error

type opener struct {
	goos string
	run  commandFunc
}

// Option is a functional option for the opener
type Option func(*opener)

// WithGOOS overrides the platform used to pick the file browser command
func WithGOOS(goos string) Option {
	return func(o *opener) {
		o.goos = goos
	}
}

// WithRunner replaces command execution, used by tests
func WithRunner(run func(ctx context.Context, name string, args ...string) error) Option {
	return func(o *opener) {
		o.run = run
	}
}

// New creates an opener launching the desktop file browser
func New(opts ...Option) interfaces.DirectoryOpener {
	o := &opener{
		goos: runtime.GOOS,
		run: func(_ context.Context, name string, args ...string) error {
			// The file browser outlives the command, so it is not bound to ctx
			cmd := exec.Command(name, args...)
			if err := cmd.Start(); err != nil {
				return err
			}
			go func() { _ = cmd.Wait() }()
			return nil
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open shows dir in the file browser. A missing directory is a usage error.
func (o *opener) Open(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return goerr.Wrap(types.ErrUsage, "directory does not exist", goerr.V("dir", dir))
	}

	name, args := command(o.goos, dir)
	if err := o.run(ctx, name, args...); err != nil {
		return goerr.Wrap(err, "failed to open directory", goerr.V("dir", dir), goerr.V("command", name))
	}
	return nil
}

func command(goos, dir string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{dir}
	case "darwin":
		return "open", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}
