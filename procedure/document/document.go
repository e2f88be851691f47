package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"go.scnd.dev/open/treewatch/package/span"
)

const (
	TreeKey = "tree"
	PathKey = "$path"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrParse    = errors.New("document is not a json object")
	ErrWrite    = errors.New("document could not be written")
)

// Document is the project description held as ordered raw JSON. Reads go through
// gjson and the single mutation through sjson, so key order and every value the
// insertion does not touch stay exactly as loaded.
type Document struct {
	raw []byte
}

func Load(path string) (*Document, error) {
	// * read document file
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, span.NewError(nil, fmt.Sprintf("unable to read %s", path), errors.Join(ErrNotFound, err))
	}

	return Parse(raw)
}

func Parse(raw []byte) (*Document, error) {
	// * validate json
	if !gjson.ValidBytes(raw) {
		return nil, span.NewError(nil, "invalid json", ErrParse)
	}

	// * require object root
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, span.NewError(nil, "document root is not an object", ErrParse)
	}

	return &Document{
		raw: raw,
	}, nil
}

// Tree returns the "tree" value and whether it exists as an object.
func (r *Document) Tree() (gjson.Result, bool) {
	tree, ok := Lookup(gjson.ParseBytes(r.raw), TreeKey)
	if !ok || !tree.IsObject() {
		return tree, false
	}
	return tree, true
}

// Entries lists the top-level tree entries in document order.
func (r *Document) Entries() []*Node {
	tree, ok := r.Tree()
	if !ok {
		return []*Node{}
	}
	return Members(tree)
}

func (r *Document) Names() []string {
	entries := r.Entries()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names
}

func (r *Document) Entry(name string) (*Node, bool) {
	tree, ok := r.Tree()
	if !ok {
		return nil, false
	}
	value, ok := Lookup(tree, name)
	if !ok {
		return nil, false
	}
	return NewNode(name, value), true
}

// Target decides where an entry for parent would land without changing the document.
func (r *Document) Target(parent Parent) *Outcome {
	outcome := &Outcome{
		Action:   ActionInserted,
		Parent:   parent,
		Replaced: false,
		Warning:  nil,
	}

	// * check tree
	if _, ok := r.Tree(); !ok {
		outcome.Action = ActionAborted
		return outcome.warn(fmt.Sprintf("document is missing '%s' key, skipping", TreeKey))
	}

	if parent.IsTopLevel() {
		return outcome
	}

	// * check parent
	node, ok := r.Entry(parent.Name)
	if !ok {
		outcome.Action = ActionFallback
		outcome.Parent = TopLevel
		return outcome.warn(fmt.Sprintf("'%s' not found in document, adding at root instead", parent.Name))
	}

	switch node.Kind {
	case KindObject:
		return outcome
	case KindLeaf:
		outcome.Action = ActionRejected
		return outcome.warn(fmt.Sprintf("'%s' is a path entry, not an object, skipping", parent.Name))
	default:
		outcome.Action = ActionRejected
		return outcome.warn(fmt.Sprintf("'%s' exists but is not an object, skipping", parent.Name))
	}
}

// Has reports whether name already exists under parent.
func (r *Document) Has(parent Parent, name string) bool {
	if parent.IsTopLevel() {
		_, ok := r.Entry(name)
		return ok
	}
	node, ok := r.Entry(parent.Name)
	if !ok || node.Kind != KindObject {
		return false
	}
	_, ok = Lookup(gjson.Parse(node.Raw), name)
	return ok
}

// Insert writes {"$path": relative} as name under parent. An existing entry of the
// same name is replaced. The returned outcome says what happened; only
// ActionInserted and ActionFallback change the document.
func (r *Document) Insert(parent Parent, name string, relative string) (*Outcome, error) {
	if name == "" {
		return nil, span.NewError(nil, "entry name is empty", nil)
	}

	outcome := r.Target(parent)
	if !outcome.Action.Mutates() {
		return outcome, nil
	}

	outcome.Replaced = r.Has(outcome.Parent, name)

	// * construct entry
	entry, err := Entry(relative)
	if err != nil {
		return nil, err
	}

	// * set entry
	var raw []byte
	switch {
	case outcome.Parent.IsTopLevel():
		raw, err = sjson.SetRawBytes(r.raw, TreeKey+"."+gjson.Escape(name), entry)
	case outcome.Parent.Name == "":
		raw, err = r.insertUnnamed(name, entry)
	default:
		raw, err = sjson.SetRawBytes(r.raw, TreeKey+"."+gjson.Escape(outcome.Parent.Name)+"."+gjson.Escape(name), entry)
	}
	if err != nil {
		return nil, span.NewError(nil, fmt.Sprintf("unable to insert '%s'", name), err)
	}
	r.raw = raw

	return outcome, nil
}

// insertUnnamed sets name under the tree entry whose key is empty. Paths cannot
// address an empty key, so the tree object is rebuilt member by member with
// every other member copied verbatim.
func (r *Document) insertUnnamed(name string, entry []byte) ([]byte, error) {
	tree, _ := r.Tree()
	parent, _ := Lookup(tree, "")

	child, err := sjson.SetRawBytes([]byte(parent.Raw), gjson.Escape(name), entry)
	if err != nil {
		return nil, err
	}

	var rebuilt bytes.Buffer
	replaced := false
	rebuilt.WriteByte('{')
	tree.ForEach(func(key, value gjson.Result) bool {
		if rebuilt.Len() > 1 {
			rebuilt.WriteByte(',')
		}
		rebuilt.WriteString(key.Raw)
		rebuilt.WriteByte(':')
		if !replaced && key.String() == "" {
			rebuilt.Write(child)
			replaced = true
		} else {
			rebuilt.WriteString(value.Raw)
		}
		return true
	})
	rebuilt.WriteByte('}')

	return sjson.SetRawBytes(r.raw, gjson.Escape(TreeKey), rebuilt.Bytes())
}

func Entry(relative string) ([]byte, error) {
	entry, err := sjson.SetBytes([]byte("{}"), gjson.Escape(PathKey), relative)
	if err != nil {
		return nil, span.NewError(nil, "unable to construct entry", err)
	}
	return entry, nil
}

// Bytes renders the document pretty-printed with two-space indentation, keeping key order.
func (r *Document) Bytes() []byte {
	return pretty.PrettyOptions(r.raw, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	})
}

// Save replaces the file at path through a temporary sibling and a rename, so a
// failed write leaves the previous content in place.
func (r *Document) Save(path string) error {
	// * resolve file mode
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	// * write temporary file
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return span.NewError(nil, "unable to create temporary file", errors.Join(ErrWrite, err))
	}
	temporary := file.Name()
	defer func() {
		_ = os.Remove(temporary)
	}()

	if _, err := file.Write(r.Bytes()); err != nil {
		_ = file.Close()
		return span.NewError(nil, "unable to write temporary file", errors.Join(ErrWrite, err))
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return span.NewError(nil, "unable to sync temporary file", errors.Join(ErrWrite, err))
	}
	if err := file.Close(); err != nil {
		return span.NewError(nil, "unable to close temporary file", errors.Join(ErrWrite, err))
	}
	if err := os.Chmod(temporary, mode); err != nil {
		return span.NewError(nil, "unable to set file mode", errors.Join(ErrWrite, err))
	}

	// * replace document
	if err := os.Rename(temporary, path); err != nil {
		return span.NewError(nil, fmt.Sprintf("unable to replace %s", path), errors.Join(ErrWrite, err))
	}

	return nil
}
