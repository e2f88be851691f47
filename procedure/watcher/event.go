package watcher

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Kind int

const (
	KindOther Kind = iota
	KindCreated
	KindError
)

func (r Kind) String() string {
	switch r {
	case KindCreated:
		return "created"
	case KindError:
		return "error"
	default:
		return "other"
	}
}

type Event struct {
	Kind Kind
	Path string
	Err  error
	Time time.Time
}

// Classify turns a raw notification into an Event. Only creations are
// reported as KindCreated; every other operation is KindOther.
func Classify(raw fsnotify.Event) Event {
	event := Event{
		Kind: KindOther,
		Path: raw.Name,
		Err:  nil,
		Time: time.Now(),
	}
	if raw.Has(fsnotify.Create) {
		event.Kind = KindCreated
	}
	return event
}

func Failure(err error) Event {
	return Event{
		Kind: KindError,
		Path: "",
		Err:  err,
		Time: time.Now(),
	}
}

// IsDirectory reports whether the event's path currently is a directory.
func (r Event) IsDirectory() bool {
	if r.Path == "" {
		return false
	}
	info, err := os.Stat(r.Path)
	return err == nil && info.IsDir()
}
