package printer

import (
	"io"
	"strings"

	"github.com/ddddddO/gtree"

	"go.scnd.dev/open/treewatch/package/span"
	"go.scnd.dev/open/treewatch/procedure/document"
)

// Label renders one node: objects by name, leaves with their $path.
func Label(node *document.Node) string {
	switch node.Kind {
	case document.KindLeaf:
		if node.Path != nil {
			return node.Name + " → " + *node.Path
		}
		return node.Name + " → ?"
	case document.KindObject:
		return node.Name
	default:
		return node.Name + " = " + node.Raw
	}
}

// PrintTree writes the document's tree below a root labelled title. Scalar
// properties (keys starting with "$") are left out unless properties is set.
func PrintTree(w io.Writer, title string, doc *document.Document, properties bool) error {
	root := gtree.NewRoot(title)
	for _, entry := range doc.Entries() {
		add(root, entry, properties)
	}

	if err := gtree.OutputFromRoot(w, root); err != nil {
		return span.NewError(nil, "unable to print tree", err)
	}
	return nil
}

func add(parent *gtree.Node, node *document.Node, properties bool) {
	if !properties && node.Kind == document.KindOther && strings.HasPrefix(node.Name, "$") {
		return
	}

	child := parent.Add(Label(node))
	if node.Kind != document.KindObject {
		return
	}
	for _, member := range node.Children() {
		add(child, member, properties)
	}
}
