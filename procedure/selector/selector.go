package selector

import (
	"context"
	"errors"
	"fmt"

	"go.scnd.dev/open/treewatch/procedure/document"
)

// ErrCancelled reports that the operator abandoned the choice.
var ErrCancelled = errors.New("selection cancelled")

// Selector picks one of the candidates for folder and returns its index.
// Implementations block until a choice is made or return ErrCancelled.
type Selector interface {
	Select(ctx context.Context, folder string, candidates []string) (int, error)
}

// Candidates lists the document's tree entries in document order with the
// top-level label appended last.
func Candidates(doc *document.Document) []string {
	candidates := doc.Names()
	return append(candidates, document.TopLevelLabel)
}

// Parent maps a chosen index back to the parent it names. The last index is
// always the top level, even when a real entry carries the same label.
func Parent(candidates []string, index int) (document.Parent, error) {
	if err := Validate(candidates, index); err != nil {
		return document.TopLevel, err
	}
	if index == len(candidates)-1 {
		return document.TopLevel, nil
	}
	return document.Under(candidates[index]), nil
}

func Validate(candidates []string, index int) error {
	if index < 0 || index >= len(candidates) {
		return fmt.Errorf("selection index %d out of range [0, %d)", index, len(candidates))
	}
	return nil
}
