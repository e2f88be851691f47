package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"go.scnd.dev/open/treewatch/procedure/document"
)

const project = `{
	"tree": {
		"$className": "DataModel",
		"Shared": {
			"$className": "ReplicatedStorage",
			"util": { "$path": "src/util" }
		},
		"Server": { "$path": "src/server" }
	}
}`

func TestPrintTree(t *testing.T) {
	doc, err := document.Parse([]byte(project))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, PrintTree(&out, "game", doc, false))

	assert.Equal(t, "game\n"+
		"├── Shared\n"+
		"│   └── util → src/util\n"+
		"└── Server → src/server\n", out.String())
}

func TestPrintTreeWithProperties(t *testing.T) {
	doc, err := document.Parse([]byte(project))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, PrintTree(&out, "game", doc, true))

	assert.Contains(t, out.String(), `$className = "DataModel"`)
	assert.Contains(t, out.String(), `$className = "ReplicatedStorage"`)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "a", Label(node("a", `{}`)))
	assert.Equal(t, "a → x", Label(node("a", `{"$path": "x"}`)))
	assert.Equal(t, "a → ?", Label(node("a", `{"$path": 1}`)))
	assert.Equal(t, "a = 2", Label(node("a", `2`)))
}

func node(name string, raw string) *document.Node {
	return document.NewNode(name, gjson.Parse(raw))
}
