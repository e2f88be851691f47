package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.scnd.dev/open/treewatch/package/console"
	"go.scnd.dev/open/treewatch/package/span"
	"go.scnd.dev/open/treewatch/package/telemetry"
	"go.scnd.dev/open/treewatch/procedure/document"
	"go.scnd.dev/open/treewatch/procedure/resolver"
	"go.scnd.dev/open/treewatch/procedure/selector"
)

// ActionFailed is recorded for reconciliations that end in an error.
const ActionFailed = "failed"

type Result struct {
	Folder     string
	Name       string
	Relative   string
	Candidates []string
	Outcome    *document.Outcome
	Saved      bool
}

// Reconciler applies one folder at a time to the document at DocumentPath.
// The document is read fresh for every folder, read again once the parent is
// chosen, and written only after every earlier step succeeded.
type Reconciler struct {
	DocumentPath string
	Selector     selector.Selector
	Collision    Collision
	Console      *console.Console
	Instrument   *telemetry.Instrument
	OnTransition func(transition Transition)

	layer *span.Layer
	mutex sync.Mutex
	state atomic.Int32
}

func New(documentPath string, selector selector.Selector, console *console.Console, instrument *telemetry.Instrument) *Reconciler {
	return &Reconciler{
		DocumentPath: documentPath,
		Selector:     selector,
		Collision:    CollisionOverwrite,
		Console:      console,
		Instrument:   instrument,
		OnTransition: nil,
		layer:        span.NewLayer("reconcile"),
	}
}

// State is safe to read while Run is consuming events.
func (r *Reconciler) State() State {
	return State(r.state.Load())
}

func (r *Reconciler) transition(to State, folder string) {
	from := State(r.state.Swap(int32(to)))
	if r.OnTransition != nil && from != to {
		r.OnTransition(Transition{
			From:   from,
			To:     to,
			Folder: folder,
		})
	}
}

// Reconcile inserts folder into the document. Warnings, skips and cancellations
// are reported through the result's outcome; only failures return an error.
func (r *Reconciler) Reconcile(ctx context.Context, folder string) (result *Result, err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, ctx := r.layer.With(ctx)
	s.Variable("folder", folder)
	started := time.Now()
	defer func() {
		action := ActionFailed
		if err == nil {
			action = string(result.Outcome.Action)
			s.Variable("action", action)
		}
		s.End()
		r.Instrument.ReconcileRecord(ctx, action, time.Since(started).Milliseconds())
		r.transition(StateIdle, folder)
	}()

	// * load document
	r.transition(StateResolving, folder)
	doc, err := document.Load(r.DocumentPath)
	if err != nil {
		return nil, s.Error("unable to load document", err)
	}

	// * resolve placement inputs
	result = &Result{
		Folder:     folder,
		Name:       filepath.Base(folder),
		Relative:   resolver.Relative(resolver.DocumentBase(r.DocumentPath), folder),
		Candidates: selector.Candidates(doc),
		Outcome:    nil,
		Saved:      false,
	}
	s.Variable("relative", result.Relative)

	if outcome := doc.Target(document.TopLevel); outcome.Action == document.ActionAborted {
		result.Outcome = outcome
		r.report(result)
		return result, nil
	}

	// * ask for the parent
	r.transition(StateAwaitingSelection, folder)
	index, err := r.Selector.Select(ctx, result.Name, result.Candidates)
	if errors.Is(err, selector.ErrCancelled) {
		result.Outcome = &document.Outcome{Action: document.ActionCancelled, Parent: document.TopLevel}
		r.report(result)
		return result, nil
	}
	if err != nil {
		return nil, s.Error("unable to select parent", err)
	}

	parent, err := selector.Parent(result.Candidates, index)
	if err != nil {
		return nil, s.Error("invalid parent selection", err)
	}
	s.Variable("parent", parent.String())

	// * reload, the document may have changed while waiting for the operator
	r.transition(StatePersisting, folder)
	doc, err = document.Load(r.DocumentPath)
	if err != nil {
		return nil, s.Error("unable to reload document", err)
	}

	// * apply collision policy
	if skipped, err := r.keep(ctx, doc, parent, result.Name); err != nil {
		return nil, s.Error("unable to confirm overwrite", err)
	} else if skipped != nil {
		result.Outcome = skipped
		r.report(result)
		return result, nil
	}

	// * insert and persist
	outcome, err := doc.Insert(parent, result.Name, result.Relative)
	if err != nil {
		return nil, s.Error("unable to insert entry", err)
	}
	result.Outcome = outcome

	if outcome.Action.Mutates() {
		if err := doc.Save(r.DocumentPath); err != nil {
			return nil, s.Error("unable to save document", err)
		}
		result.Saved = true
	}

	r.report(result)
	return result, nil
}

// keep returns a non-nil outcome when an existing entry must be left alone.
func (r *Reconciler) keep(ctx context.Context, doc *document.Document, parent document.Parent, name string) (*document.Outcome, error) {
	target := doc.Target(parent)
	if !target.Action.Mutates() || !doc.Has(target.Parent, name) {
		return nil, nil
	}

	switch r.Collision {
	case CollisionSkip:
		return &document.Outcome{Action: document.ActionSkipped, Parent: target.Parent}, nil
	case CollisionConfirm:
		choices := []string{ChoiceOverwrite, ChoiceKeep}
		index, err := r.Selector.Select(ctx, name, choices)
		if errors.Is(err, selector.ErrCancelled) {
			return &document.Outcome{Action: document.ActionCancelled, Parent: target.Parent}, nil
		}
		if err != nil {
			return nil, err
		}
		if err := selector.Validate(choices, index); err != nil {
			return nil, err
		}
		if index != 0 {
			return &document.Outcome{Action: document.ActionSkipped, Parent: target.Parent}, nil
		}
	}

	return nil, nil
}

func (r *Reconciler) report(result *Result) {
	outcome := result.Outcome
	if outcome.Warning != nil {
		r.Console.Warn("%s", *outcome.Warning)
	}

	switch outcome.Action {
	case document.ActionInserted, document.ActionFallback:
		verb := "added"
		if outcome.Replaced {
			verb = "replaced"
		}
		r.Console.Info("%s '%s' under %s with $path %s", verb, result.Name, outcome.Parent, result.Relative)
	case document.ActionSkipped:
		r.Console.Info("kept existing '%s' under %s", result.Name, outcome.Parent)
	case document.ActionCancelled:
		r.Console.Info("selection cancelled, skipping '%s'", result.Name)
	}
}
