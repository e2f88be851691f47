package document

type Action string

const (
	// ActionInserted means the entry was written under the requested parent.
	ActionInserted Action = "inserted"
	// ActionFallback means the requested parent vanished and the entry went to the top level.
	ActionFallback Action = "fallback"
	// ActionRejected means the requested parent is not an object; nothing was written.
	ActionRejected Action = "rejected"
	// ActionAborted means the document has no usable "tree"; nothing was written.
	ActionAborted Action = "aborted"
	// ActionSkipped means an existing entry was kept because of the collision policy.
	ActionSkipped Action = "skipped"
	// ActionCancelled means the parent selection was abandoned.
	ActionCancelled Action = "cancelled"
)

// Mutates reports whether the document changed and has to be saved.
func (r Action) Mutates() bool {
	return r == ActionInserted || r == ActionFallback
}

type Outcome struct {
	Action   Action
	Parent   Parent
	Replaced bool
	Warning  *string
}

func (r *Outcome) warn(warning string) *Outcome {
	r.Warning = &warning
	return r
}
