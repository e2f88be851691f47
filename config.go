package treewatch

import (
	"io"
	"time"

	"go.scnd.dev/open/treewatch/package/telemetry"
	"go.scnd.dev/open/treewatch/procedure/reconcile"
	"go.scnd.dev/open/treewatch/procedure/selector"
)

// Config describes one embedded watch. ParentPolicy answers every placement
// question; nil means always the top level.
type Config struct {
	DocumentPath string              `validate:"required"`
	WatchRoot    string              `validate:"required"`
	ParentPolicy selector.Selector   `validate:"-"`
	Collision    reconcile.Collision `validate:"omitempty,oneof=overwrite skip confirm"`
	Dedupe       time.Duration       `validate:"gte=0"`
	Verbose      bool
	Output       io.Writer         `validate:"-"`
	Telemetry    *telemetry.Config `validate:"-"`
}
