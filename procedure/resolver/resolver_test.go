package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeInsideBase(t *testing.T) {
	assert.Equal(t, "src/widgets", Relative("/a/b", "/a/b/src/widgets"))
	assert.Equal(t, "widgets", Relative("/a/b/", "/a/b/widgets/"))
}

func TestRelativeOutsideBase(t *testing.T) {
	assert.Equal(t, "../other", Relative("/a/b", "/a/other"))
	assert.Equal(t, "../../x/y", Relative("/a/b", "/x/y"))
}

func TestRelativeSameDirectory(t *testing.T) {
	assert.Equal(t, ".", Relative("/a/b", "/a/b"))
}

func TestDocumentBase(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/a/b"), DocumentBase("/a/b/default.project.json"))
}

func TestRelativeFollowsSymlinks(t *testing.T) {
	directory := t.TempDir()
	real := filepath.Join(directory, "real")
	require.NoError(t, os.MkdirAll(filepath.Join(real, "src", "widgets"), 0o755))

	link := filepath.Join(directory, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skip("symlinks unavailable")
	}

	assert.Equal(t, "src/widgets", Relative(link, filepath.Join(real, "src", "widgets")))
}

func TestRelativeKeepsLinkedFolderName(t *testing.T) {
	directory := t.TempDir()
	base := filepath.Join(directory, "game")
	elsewhere := filepath.Join(directory, "elsewhere")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "src"), 0o755))
	require.NoError(t, os.Mkdir(elsewhere, 0o755))

	linked := filepath.Join(base, "src", "linked")
	if err := os.Symlink(elsewhere, linked); err != nil {
		t.Skip("symlinks unavailable")
	}

	assert.Equal(t, "src/linked", Relative(base, linked))
	assert.Equal(t, filepath.Join(Absolute(filepath.Join(base, "src")), "linked"), Location(linked))
}

func TestLocationOfFilesystemRoot(t *testing.T) {
	root := filepath.VolumeName(os.TempDir()) + string(filepath.Separator)

	assert.Equal(t, root, Location(root))
}
