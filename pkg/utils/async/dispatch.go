package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch executes handler in a new goroutine and returns a channel that
// receives the handler result exactly once and is then closed.
//
// Behavior:
//   - ctx is passed to handler as is; use Detach to drop the caller's cancellation
//   - a panic in handler is recovered, logged with its stack and delivered as an error
//   - an error returned by handler is logged and delivered
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(ctx).Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
				done <- goerr.New("panic in async handler", goerr.V("recover", r))
			}
		}()

		err := handler(ctx)
		if err != nil {
			ctxlog.From(ctx).Error("error in async handler", "error", err)
		}
		done <- err
	}()

	return done
}

// Detach returns a new background context preserving the ctxlog logger of ctx.
// Cancelling ctx does not affect the returned context.
func Detach(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
