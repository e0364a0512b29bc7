package sections

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dgallion1/headingkit/internal/heading"
)

// DocumentResult describes a document with every sibling group sorted.
type DocumentResult struct {
	Text   string
	Folds  []Fold
	Groups int // Sibling groups that were rewritten
}

type groupKey struct {
	parent int // Parent heading line, -1 for the document root
	level  int
}

// SortDocument sorts every sibling group of text with compare, deepest groups
// first. Sorting a group only permutes lines inside its span, so the line of
// every heading outside it stays put and later groups can be found again by
// their parent's line.
func SortDocument(text string, compare Comparator, folds []Fold) (*DocumentResult, error) {
	tree := heading.NewTree(text, heading.MaxLevel)
	if err := ValidateFolds(folds, tree.LineCount); err != nil {
		return nil, err
	}

	var groups []groupKey
	var walk func(n *heading.Node)
	walk = func(n *heading.Node) {
		for _, c := range n.Children {
			walk(c)
		}
		var levels []int
		for _, c := range n.Children {
			if !slices.Contains(levels, c.Level()) {
				levels = append(levels, c.Level())
			}
		}
		for _, lvl := range levels {
			if len(tree.ChildrenAtLevel(n, lvl)) > 1 {
				groups = append(groups, groupKey{parent: n.Line(), level: lvl})
			}
		}
	}
	walk(tree.Root)

	out := &DocumentResult{Text: text, Folds: folds}
	for _, g := range groups {
		current := heading.NewTree(out.Text, heading.MaxLevel)
		parent := current.Root
		if g.parent >= 0 {
			parent = current.NodeStartingAt(g.parent)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent heading at line %d is gone", ErrSiblingCountMismatch, g.parent)
		}
		children := current.ChildrenAtLevel(parent, g.level)
		if len(children) < 2 {
			return nil, fmt.Errorf("%w: group under line %d has %d", ErrSiblingCountMismatch, g.parent, len(children))
		}

		res, err := SortSiblings(out.Text, children[0].Line(), compare, out.Folds)
		if errors.Is(err, ErrNotEnoughSiblings) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if res.Text != out.Text {
			out.Groups++
		}
		out.Text, out.Folds = res.Text, res.Folds
	}
	return out, nil
}
