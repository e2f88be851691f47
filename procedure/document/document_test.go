package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sample = `{
	"name": "game",
	"servePort": 34872,
	"tree": {
		"$className": "DataModel",
		"ReplicatedStorage": {
			"$className": "ReplicatedStorage",
			"Shared": { "$path": "src/shared", "$ignoreUnknownInstances": true }
		},
		"ServerScriptService": { "$path": "src/server" },
		"Lighting": { "$properties": { "Brightness": 2.50, "Ambient": [0, 0, 0] } }
	}
}`

func parse(t *testing.T, raw string) *Document {
	t.Helper()
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func get(t *testing.T, doc *Document, path ...string) gjson.Result {
	t.Helper()
	value := gjson.ParseBytes(doc.raw)
	for _, name := range path {
		var ok bool
		value, ok = Lookup(value, name)
		require.True(t, ok, "missing %v", path)
	}
	return value
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.project.json"))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	for _, raw := range []string{`{"tree": `, `[1, 2]`, `"tree"`, ``} {
		_, err := Parse([]byte(raw))
		assert.ErrorIs(t, err, ErrParse, "input %q", raw)
	}
}

func TestNamesKeepDocumentOrder(t *testing.T) {
	doc := parse(t, sample)

	assert.Equal(t, []string{"$className", "ReplicatedStorage", "ServerScriptService", "Lighting"}, doc.Names())
}

func TestNodeKinds(t *testing.T) {
	doc := parse(t, sample)

	kinds := make(map[string]Kind)
	for _, entry := range doc.Entries() {
		kinds[entry.Name] = entry.Kind
	}

	assert.Equal(t, KindOther, kinds["$className"])
	assert.Equal(t, KindObject, kinds["ReplicatedStorage"])
	assert.Equal(t, KindLeaf, kinds["ServerScriptService"])
	assert.Equal(t, KindObject, kinds["Lighting"])

	leaf, ok := doc.Entry("ServerScriptService")
	require.True(t, ok)
	require.NotNil(t, leaf.Path)
	assert.Equal(t, "src/server", *leaf.Path)
}

func TestInsertTopLevel(t *testing.T) {
	doc := parse(t, sample)

	outcome, err := doc.Insert(TopLevel, "widgets", "src/widgets")
	require.NoError(t, err)

	assert.Equal(t, ActionInserted, outcome.Action)
	assert.True(t, outcome.Parent.IsTopLevel())
	assert.Nil(t, outcome.Warning)
	assert.False(t, outcome.Replaced)
	assert.Equal(t, `{"$path":"src/widgets"}`, get(t, doc, "tree", "widgets").Raw)
	assert.Equal(t, "widgets", doc.Names()[len(doc.Names())-1])
}

func TestInsertUnderObjectParent(t *testing.T) {
	doc := parse(t, sample)

	outcome, err := doc.Insert(Under("ReplicatedStorage"), "widgets", "src/widgets")
	require.NoError(t, err)

	assert.Equal(t, ActionInserted, outcome.Action)
	assert.Equal(t, "ReplicatedStorage", outcome.Parent.Name)
	assert.Equal(t, "src/widgets", get(t, doc, "tree", "ReplicatedStorage", "widgets", PathKey).String())
	assert.Equal(t, "ReplicatedStorage", get(t, doc, "tree", "ReplicatedStorage", "$className").String())
}

func TestInsertRejectsLeafParent(t *testing.T) {
	doc := parse(t, sample)
	before := doc.Bytes()

	outcome, err := doc.Insert(Under("ServerScriptService"), "widgets", "src/widgets")
	require.NoError(t, err)

	assert.Equal(t, ActionRejected, outcome.Action)
	require.NotNil(t, outcome.Warning)
	assert.Contains(t, *outcome.Warning, "ServerScriptService")
	assert.Equal(t, before, doc.Bytes())
}

func TestInsertRejectsScalarParent(t *testing.T) {
	doc := parse(t, sample)
	before := doc.Bytes()

	outcome, err := doc.Insert(Under("$className"), "widgets", "src/widgets")
	require.NoError(t, err)

	assert.Equal(t, ActionRejected, outcome.Action)
	assert.Equal(t, "'$className' exists but is not an object, skipping", *outcome.Warning)
	assert.Equal(t, before, doc.Bytes())
}

func TestInsertFallsBackWhenParentVanished(t *testing.T) {
	doc := parse(t, sample)

	outcome, err := doc.Insert(Under("Workspace"), "widgets", "src/widgets")
	require.NoError(t, err)

	assert.Equal(t, ActionFallback, outcome.Action)
	assert.True(t, outcome.Parent.IsTopLevel())
	assert.Equal(t, "'Workspace' not found in document, adding at root instead", *outcome.Warning)
	assert.Equal(t, "src/widgets", get(t, doc, "tree", "widgets", PathKey).String())
}

func TestInsertAbortsWithoutTree(t *testing.T) {
	for _, raw := range []string{`{"name": "game"}`, `{"name": "game", "tree": "src"}`} {
		doc := parse(t, raw)
		before := doc.Bytes()

		for _, parent := range []Parent{TopLevel, Under("ReplicatedStorage")} {
			outcome, err := doc.Insert(parent, "widgets", "src/widgets")
			require.NoError(t, err)
			assert.Equal(t, ActionAborted, outcome.Action)
			assert.NotNil(t, outcome.Warning)
		}

		assert.Equal(t, before, doc.Bytes())
		assert.Empty(t, doc.Names())
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	once := parse(t, sample)
	_, err := once.Insert(Under("ReplicatedStorage"), "widgets", "src/widgets")
	require.NoError(t, err)

	twice := parse(t, sample)
	_, err = twice.Insert(Under("ReplicatedStorage"), "widgets", "src/widgets")
	require.NoError(t, err)
	outcome, err := twice.Insert(Under("ReplicatedStorage"), "widgets", "src/widgets")
	require.NoError(t, err)

	assert.True(t, outcome.Replaced)
	assert.Equal(t, once.Bytes(), twice.Bytes())
}

func TestInsertOverwritesCollision(t *testing.T) {
	doc := parse(t, sample)

	outcome, err := doc.Insert(Under("ReplicatedStorage"), "Shared", "lib/shared")
	require.NoError(t, err)

	assert.True(t, outcome.Replaced)
	assert.Equal(t, `{"$path":"lib/shared"}`, get(t, doc, "tree", "ReplicatedStorage", "Shared").Raw)
}

func TestInsertPreservesUntouchedValues(t *testing.T) {
	doc := parse(t, sample)

	_, err := doc.Insert(TopLevel, "widgets", "src/widgets")
	require.NoError(t, err)

	assert.Equal(t, "2.50", get(t, doc, "tree", "Lighting", "$properties", "Brightness").Raw)
	assert.Equal(t, "34872", get(t, doc, "servePort").Raw)
	assert.True(t, get(t, doc, "tree", "ReplicatedStorage", "Shared", "$ignoreUnknownInstances").Bool())
}

func TestInsertLiteralNames(t *testing.T) {
	doc := parse(t, `{"tree": {"Shared.Lib*": {}, "Root (top-level)": {}}}`)

	outcome, err := doc.Insert(Under("Shared.Lib*"), "my.folder?", "src/my.folder?")
	require.NoError(t, err)
	assert.Equal(t, ActionInserted, outcome.Action)
	assert.Equal(t, "src/my.folder?", get(t, doc, "tree", "Shared.Lib*", "my.folder?", PathKey).String())

	outcome, err = doc.Insert(Under(TopLevelLabel), "nested", "nested")
	require.NoError(t, err)
	assert.False(t, outcome.Parent.IsTopLevel())
	assert.Equal(t, "nested", get(t, doc, "tree", TopLevelLabel, "nested", PathKey).String())

	_, err = doc.Insert(TopLevel, "top", "top")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shared.Lib*", TopLevelLabel, "top"}, doc.Names())
}

func TestInsertRejectsEmptyName(t *testing.T) {
	doc := parse(t, sample)

	_, err := doc.Insert(TopLevel, "", "src")

	assert.Error(t, err)
}

func TestSaveWritesPrettyDocument(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "default.project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"game","tree":{"$className":"DataModel"}}`), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	_, err = doc.Insert(TopLevel, "widgets", "src/widgets")
	require.NoError(t, err)
	require.NoError(t, doc.Save(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{
  "name": "game",
  "tree": {
    "$className": "DataModel",
    "widgets": {
      "$path": "src/widgets"
    }
  }
}
`, string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(directory)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveFailsIntoMissingDirectory(t *testing.T) {
	doc := parse(t, sample)

	err := doc.Save(filepath.Join(t.TempDir(), "missing", "default.project.json"))

	assert.ErrorIs(t, err, ErrWrite)
}

func TestNodeChildren(t *testing.T) {
	doc := parse(t, sample)

	node, ok := doc.Entry("ReplicatedStorage")
	require.True(t, ok)

	children := node.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "$className", children[0].Name)
	assert.Equal(t, "Shared", children[1].Name)
	assert.Equal(t, KindLeaf, children[1].Kind)
	assert.Nil(t, NewNode("x", gjson.Parse(`"y"`)).Children())
}

func TestInsertUnderUnnamedParent(t *testing.T) {
	doc := parse(t, `{"tree": {"a": {"$path": "a"}, "": {"$className": "Folder", "n": 1.50}, "b": {}}}`)

	outcome, err := doc.Insert(Under(""), "widgets", "src/widgets")
	require.NoError(t, err)

	assert.Equal(t, ActionInserted, outcome.Action)
	assert.False(t, outcome.Replaced)
	assert.Equal(t, "src/widgets", get(t, doc, "tree", "", "widgets", PathKey).String())
	assert.Equal(t, "1.50", get(t, doc, "tree", "", "n").Raw)
	assert.Equal(t, "a", get(t, doc, "tree", "a", PathKey).String())
	assert.Equal(t, []string{"a", "", "b"}, doc.Names())

	outcome, err = doc.Insert(Under(""), "widgets", "lib/widgets")
	require.NoError(t, err)
	assert.True(t, outcome.Replaced)
	assert.Equal(t, "lib/widgets", get(t, doc, "tree", "", "widgets", PathKey).String())
}
