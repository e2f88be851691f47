package selector

import (
	"context"
	"sync"
)

// Func adapts a plain policy function into a Selector.
type Func func(ctx context.Context, folder string, candidates []string) (int, error)

func (r Func) Select(ctx context.Context, folder string, candidates []string) (int, error) {
	return r(ctx, folder, candidates)
}

// TopLevel always chooses the last candidate.
type TopLevel struct{}

func (r TopLevel) Select(ctx context.Context, folder string, candidates []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, ErrCancelled
	}
	return len(candidates) - 1, nil
}

// Named chooses the first real candidate equal to Name, or the top level when
// no such entry exists.
type Named struct {
	Name string
}

func NewNamed(name string) *Named {
	return &Named{
		Name: name,
	}
}

func (r *Named) Select(ctx context.Context, folder string, candidates []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, ErrCancelled
	}
	for i, candidate := range candidates[:len(candidates)-1] {
		if candidate == r.Name {
			return i, nil
		}
	}
	return len(candidates) - 1, nil
}

// Call is one question recorded by Script.
type Call struct {
	Folder     string
	Candidates []string
}

// Script answers with pre-recorded indexes in order and cancels once they run out.
// A negative answer cancels that question.
type Script struct {
	mutex   sync.Mutex
	answers []int
	calls   []Call
}

func NewScript(answers ...int) *Script {
	return &Script{
		answers: answers,
		calls:   make([]Call, 0),
	}
}

func (r *Script) Select(ctx context.Context, folder string, candidates []string) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.calls = append(r.calls, Call{
		Folder:     folder,
		Candidates: append([]string(nil), candidates...),
	})

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(r.answers) == 0 {
		return 0, ErrCancelled
	}

	answer := r.answers[0]
	r.answers = r.answers[1:]
	if answer < 0 {
		return 0, ErrCancelled
	}
	return answer, nil
}

func (r *Script) Calls() []Call {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]Call(nil), r.calls...)
}
