package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLevels(t *testing.T) {
	buf := new(bytes.Buffer)
	c := New(buf, false)

	c.Info("new folder created: %s", "src/widgets")
	c.Warn("'%s' exists but is not an object, skipping", "Shared")
	c.Error("failed to update document: %v", "boom")
	c.Debug("hidden")

	assert.Equal(t, ""+
		"(treewatch) new folder created: src/widgets\n"+
		"(treewatch) warning: 'Shared' exists but is not an object, skipping\n"+
		"(treewatch) error: failed to update document: boom\n", buf.String())
}

func TestConsoleVerboseDebug(t *testing.T) {
	buf := new(bytes.Buffer)
	c := New(buf, true)

	c.Debug("queue depth %d", 3)

	assert.Equal(t, "(treewatch) debug: queue depth 3\n", buf.String())
	assert.True(t, c.Verbose())
}
