package treewatch

import (
	"context"
	"errors"

	"github.com/bsthun/gut"

	"go.scnd.dev/open/treewatch/package/console"
	"go.scnd.dev/open/treewatch/package/span"
	"go.scnd.dev/open/treewatch/package/telemetry"
	"go.scnd.dev/open/treewatch/procedure/reconcile"
	"go.scnd.dev/open/treewatch/procedure/selector"
	"go.scnd.dev/open/treewatch/procedure/watcher"
)

// Instance wires a watcher, its queue and a reconciler for one document.
type Instance struct {
	Config     *Config
	Console    *console.Console
	Telemetry  *telemetry.Telemetry
	Queue      *watcher.Queue
	Watcher    *watcher.Watcher
	Reconciler *reconcile.Reconciler
}

func New(config *Config) (*Instance, error) {
	if err := gut.Validate(config); err != nil {
		return nil, span.NewError(nil, "invalid configuration", err)
	}

	// * apply defaults
	policy := config.ParentPolicy
	if policy == nil {
		policy = selector.TopLevel{}
	}
	collision := config.Collision
	if collision == "" {
		collision = reconcile.CollisionOverwrite
	}

	// * construct telemetry
	tel, err := telemetry.New(config.Telemetry)
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize telemetry", err)
	}

	// * construct components
	output := console.New(config.Output, config.Verbose)
	queue := watcher.NewQueue()
	queue.OnDepth = func(delta int64) {
		tel.Instrument.QueueDepthAdd(context.Background(), delta)
	}

	w, err := watcher.New(config.WatchRoot, queue, config.Dedupe)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, err
	}

	reconciler := reconcile.New(config.DocumentPath, policy, output, tel.Instrument)
	reconciler.Collision = collision

	return &Instance{
		Config:     config,
		Console:    output,
		Telemetry:  tel,
		Queue:      queue,
		Watcher:    w,
		Reconciler: reconciler,
	}, nil
}

// Start begins observing the watch root. The queue is closed once the watcher
// stops, so Consume returns after draining what was already observed.
func (r *Instance) Start() error {
	if err := r.Watcher.Start(); err != nil {
		return err
	}
	go func() {
		<-r.Watcher.Done()
		r.Queue.Close()
	}()
	r.Console.Info("watching %s for new folders", r.Watcher.Root)
	return nil
}

// Consume reconciles queued folders until ctx is done or the instance is closed.
func (r *Instance) Consume(ctx context.Context) error {
	err := r.Reconciler.Run(ctx, r.Queue)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Run starts the watcher and consumes events until ctx is done.
func (r *Instance) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	defer func() {
		_ = r.Close(context.Background())
	}()
	return r.Consume(ctx)
}

// Reconcile handles one folder immediately, outside the queue.
func (r *Instance) Reconcile(ctx context.Context, folder string) (*reconcile.Result, error) {
	return r.Reconciler.Reconcile(ctx, folder)
}

// Close stops the watcher, closes the queue and flushes telemetry.
func (r *Instance) Close(ctx context.Context) error {
	err := r.Watcher.Close()
	r.Queue.Close()
	return errors.Join(err, r.Telemetry.Shutdown(ctx))
}
