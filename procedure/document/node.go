package document

import (
	"github.com/tidwall/gjson"
)

type Kind int

const (
	// KindOther is any value that is not a JSON object.
	KindOther Kind = iota
	// KindObject is a nested mapping of entry names to entries.
	KindObject
	// KindLeaf is an object carrying a "$path" reference.
	KindLeaf
)

func (r Kind) String() string {
	switch r {
	case KindObject:
		return "object"
	case KindLeaf:
		return "leaf"
	default:
		return "other"
	}
}

// Node is one named value of the tree. Raw keeps the value exactly as it appears
// in the document so that untouched fields are written back verbatim.
type Node struct {
	Name string
	Kind Kind
	Path *string
	Raw  string
}

func NewNode(name string, value gjson.Result) *Node {
	node := &Node{
		Name: name,
		Kind: KindOther,
		Path: nil,
		Raw:  value.Raw,
	}

	if !value.IsObject() {
		return node
	}

	ref, ok := Lookup(value, PathKey)
	if !ok {
		node.Kind = KindObject
		return node
	}

	node.Kind = KindLeaf
	if ref.Type == gjson.String {
		path := ref.String()
		node.Path = &path
	}

	return node
}

// Children lists the named values nested in an object or leaf, in document order.
func (r *Node) Children() []*Node {
	if r.Kind == KindOther {
		return nil
	}
	return Members(gjson.Parse(r.Raw))
}

// Members lists the key/value pairs of an object, in document order.
func Members(object gjson.Result) []*Node {
	nodes := make([]*Node, 0)
	if !object.IsObject() {
		return nodes
	}
	object.ForEach(func(key, value gjson.Result) bool {
		nodes = append(nodes, NewNode(key.String(), value))
		return true
	})
	return nodes
}

// Lookup finds a key by exact comparison instead of path syntax, so names
// containing dots or wildcards resolve literally.
func Lookup(object gjson.Result, name string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	object.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found = value
			ok = true
			return false
		}
		return true
	})
	return found, ok
}
