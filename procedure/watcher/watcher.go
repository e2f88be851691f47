package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"go.scnd.dev/open/treewatch/package/span"
)

// DefaultDedupe is the window in which repeated creations of one path are coalesced.
const DefaultDedupe = 500 * time.Millisecond

const dedupeSize = 256

// Watcher observes the direct children of one root directory and feeds the
// queue. It is not recursive and cannot be restarted once closed.
type Watcher struct {
	Root   string
	queue  *Queue
	source *fsnotify.Watcher
	recent *expirable.LRU[string, struct{}]
	done   chan struct{}
	once   sync.Once
}

func New(root string, queue *Queue, dedupe time.Duration) (*Watcher, error) {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return nil, span.NewError(nil, "unable to resolve watch root", err)
	}

	info, err := os.Stat(absolute)
	if err != nil {
		return nil, span.NewError(nil, "unable to access watch root", err)
	}
	if !info.IsDir() {
		return nil, span.NewError(nil, "watch root is not a directory: "+absolute, nil)
	}

	var recent *expirable.LRU[string, struct{}]
	if dedupe > 0 {
		recent = expirable.NewLRU[string, struct{}](dedupeSize, nil, dedupe)
	}

	return &Watcher{
		Root:   absolute,
		queue:  queue,
		source: nil,
		recent: recent,
		done:   make(chan struct{}),
	}, nil
}

func (r *Watcher) Start() error {
	select {
	case <-r.done:
		return span.NewError(nil, "watcher already closed", nil)
	default:
	}

	source, err := fsnotify.NewWatcher()
	if err != nil {
		return span.NewError(nil, "unable to create filesystem watcher", err)
	}

	if err := source.Add(r.Root); err != nil {
		_ = source.Close()
		return span.NewError(nil, "unable to watch "+r.Root, err)
	}

	r.source = source
	go r.loop(source)

	return nil
}

func (r *Watcher) loop(source *fsnotify.Watcher) {
	defer close(r.done)

	for {
		select {
		case raw, ok := <-source.Events:
			if !ok {
				return
			}
			event := Classify(raw)
			if event.Kind == KindCreated && r.duplicate(event.Path) {
				continue
			}
			r.queue.Push(event)
		case err, ok := <-source.Errors:
			if !ok {
				return
			}
			r.queue.Push(Failure(err))
		}
	}
}

func (r *Watcher) duplicate(path string) bool {
	if r.recent == nil {
		return false
	}
	if r.recent.Contains(path) {
		return true
	}
	r.recent.Add(path, struct{}{})
	return false
}

// Done is closed once the watcher stops delivering events.
func (r *Watcher) Done() <-chan struct{} {
	return r.done
}

func (r *Watcher) Close() error {
	var err error
	r.once.Do(func() {
		if r.source == nil {
			close(r.done)
			return
		}
		if cause := r.source.Close(); cause != nil {
			err = span.NewError(nil, "unable to close filesystem watcher", cause)
		}
	})
	return err
}
