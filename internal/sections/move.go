package sections

import (
	"fmt"
	"slices"

	"github.com/dgallion1/headingkit/internal/heading"
)

// MoveSibling moves the section of the heading at line by delta positions
// within its sibling group (negative moves up). Folds follow their sections.
func MoveSibling(text string, line, delta int, folds []Fold) (*Result, error) {
	tree := heading.NewTree(text, heading.MaxLevel)
	siblings, err := siblingGroup(tree, line)
	if err != nil {
		return nil, err
	}

	from := slices.Index(siblings, tree.NodeAtLine(line))
	to := from + delta
	if delta == 0 || to < 0 || to >= len(siblings) {
		return nil, fmt.Errorf("%w: position %d of %d, delta %d", ErrAtBoundary, from, len(siblings), delta)
	}

	order := make([]int, 0, len(siblings))
	for i := range siblings {
		if i != from {
			order = append(order, i)
		}
	}
	order = slices.Insert(order, to, from)

	return reorder(text, tree, siblings, order, folds)
}
