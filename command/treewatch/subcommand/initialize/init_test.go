package initialize

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.scnd.dev/open/treewatch/command/treewatch/app"
	"go.scnd.dev/open/treewatch/command/treewatch/common/config"
)

func TestRunWritesLoadableTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultPath)
	a := app.New(false, path)

	require.NoError(t, Run(a, &Command{}))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src", *loaded.Root)
	assert.Equal(t, "prompt", *loaded.Selection.Policy)
	assert.Equal(t, 500*time.Millisecond, *loaded.Dedupe)
	assert.Equal(t, "treewatch", *loaded.Telemetry.Name)
}

func TestRunRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("root: assets\n"), 0o644))
	a := app.New(false, path)

	assert.ErrorContains(t, Run(a, &Command{}), "already exists")

	require.NoError(t, Run(a, &Command{Force: true}))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "collision: overwrite")
}
