package reconcile

type State int

const (
	StateIdle State = iota
	StateResolving
	StateAwaitingSelection
	StatePersisting
)

func (r State) String() string {
	switch r {
	case StateResolving:
		return "resolving"
	case StateAwaitingSelection:
		return "awaiting-selection"
	case StatePersisting:
		return "persisting"
	default:
		return "idle"
	}
}

// Transition is reported to OnTransition every time the reconciler changes state.
type Transition struct {
	From   State
	To     State
	Folder string
}

type Collision string

const (
	CollisionOverwrite Collision = "overwrite"
	CollisionSkip      Collision = "skip"
	CollisionConfirm   Collision = "confirm"
)

// Choices offered when CollisionConfirm finds an existing entry. The last one
// keeps the document as is, so non-interactive selectors never overwrite.
var (
	ChoiceOverwrite = "Overwrite"
	ChoiceKeep      = "Keep existing"
)

func (r Collision) Valid() bool {
	switch r {
	case CollisionOverwrite, CollisionSkip, CollisionConfirm:
		return true
	}
	return false
}
