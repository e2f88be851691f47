package watcher

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("queue closed")

// Queue is an unbounded FIFO of events. Push never blocks; Pop blocks until an
// event is available, the queue is closed and drained, or ctx is done.
type Queue struct {
	mutex   sync.Mutex
	items   []Event
	signal  chan struct{}
	closed  chan struct{}
	once    sync.Once
	OnDepth func(delta int64)
}

func NewQueue() *Queue {
	return &Queue{
		items:   make([]Event, 0),
		signal:  make(chan struct{}, 1),
		closed:  make(chan struct{}),
		OnDepth: nil,
	}
}

// Push appends event. Events pushed after Close are dropped and reported false.
func (r *Queue) Push(event Event) bool {
	r.mutex.Lock()
	select {
	case <-r.closed:
		r.mutex.Unlock()
		return false
	default:
	}
	r.items = append(r.items, event)
	r.mutex.Unlock()

	r.depth(1)
	select {
	case r.signal <- struct{}{}:
	default:
	}
	return true
}

func (r *Queue) Pop(ctx context.Context) (Event, error) {
	for {
		r.mutex.Lock()
		if len(r.items) > 0 {
			event := r.items[0]
			r.items[0] = Event{}
			r.items = r.items[1:]
			r.mutex.Unlock()
			r.depth(-1)
			return event, nil
		}
		r.mutex.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-r.closed:
			r.mutex.Lock()
			empty := len(r.items) == 0
			r.mutex.Unlock()
			if empty {
				return Event{}, ErrClosed
			}
		case <-r.signal:
		}
	}
}

func (r *Queue) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.items)
}

// Close stops accepting events. Events already queued can still be popped.
func (r *Queue) Close() {
	r.once.Do(func() {
		r.mutex.Lock()
		close(r.closed)
		r.mutex.Unlock()
	})
}

func (r *Queue) depth(delta int64) {
	if r.OnDepth != nil {
		r.OnDepth(delta)
	}
}
