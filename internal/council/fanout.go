package council

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// arrival is one completed model call, success or failure.
type arrival struct {
	Model string
	Reply *reply
	Err   error
}

// reply mirrors the gateway's response shape without binding the fan-out
// machinery to a concrete client.
type reply struct {
	Content          string
	ReasoningDetails any
}

// callFunc performs one model call.
type callFunc func(ctx context.Context, model string) (*reply, error)

// dispatch starts one call per model concurrently and returns a channel
// that yields each result as it arrives, in completion order. Every
// dispatched model yields exactly once, then the channel closes. The
// channel is buffered to len(models) so a consumer that abandons the run
// early never blocks an in-flight call; its result is simply discarded.
func dispatch(ctx context.Context, models []string, call callFunc) <-chan arrival {
	out := make(chan arrival, len(models))

	g := new(errgroup.Group)
	for _, model := range models {
		model := model
		g.Go(func() error {
			r, err := call(ctx, model)
			out <- arrival{Model: model, Reply: r, Err: err}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(out)
	}()

	return out
}
