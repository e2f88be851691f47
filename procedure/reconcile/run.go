package reconcile

import (
	"context"
	"errors"

	"go.scnd.dev/open/treewatch/procedure/watcher"
)

// Handle processes one event. Only creations of directories reach Reconcile.
func (r *Reconciler) Handle(ctx context.Context, event watcher.Event) (*Result, error) {
	switch event.Kind {
	case watcher.KindError:
		r.Console.Error("watch error: %v", event.Err)
		return nil, nil
	case watcher.KindCreated:
		if !event.IsDirectory() {
			r.Console.Debug("ignoring non-directory %s", event.Path)
			return nil, nil
		}
		r.Console.Info("new folder detected: %s", event.Path)
		return r.Reconcile(ctx, event.Path)
	default:
		r.Console.Debug("ignoring %s", event.Path)
		return nil, nil
	}
}

// Run consumes the queue until it is closed and drained or ctx is done.
// Events are handled strictly one after another; a failing event is logged and
// does not stop the loop.
func (r *Reconciler) Run(ctx context.Context, queue *watcher.Queue) error {
	for {
		event, err := queue.Pop(ctx)
		if errors.Is(err, watcher.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := r.Handle(ctx, event); err != nil {
			r.Console.Error("%v", err)
		}
	}
}
