package sections

import "errors"

var (
	// ErrNoHeading means the reference line precedes the first heading.
	ErrNoHeading = errors.New("no heading at line")

	// ErrNotEnoughSiblings means the sibling group has fewer than two headings.
	ErrNotEnoughSiblings = errors.New("not enough sibling headings to sort")

	// ErrAtBoundary means a heading cannot move past the first or last sibling.
	ErrAtBoundary = errors.New("heading is already at the edge of its siblings")

	// ErrFoldStraddlesSiblings means a fold region crosses a sibling boundary
	// and cannot follow a single heading through the reorder.
	ErrFoldStraddlesSiblings = errors.New("fold region straddles sibling boundary")

	// ErrInvalidFold means a fold region is inverted or lies outside the
	// document.
	ErrInvalidFold = errors.New("invalid fold region")

	// ErrUnknownSort means no comparator preset has the requested name.
	ErrUnknownSort = errors.New("unknown sort")

	// ErrLineCountMismatch means the rewrite changed the document's line count.
	ErrLineCountMismatch = errors.New("line count mismatch after sorting")

	// ErrSiblingCountMismatch means the rewritten document no longer has the
	// same sibling group.
	ErrSiblingCountMismatch = errors.New("sibling count mismatch after sorting")
)

// IsInternal reports whether err is an invariant violation rather than a
// condition the user can correct.
func IsInternal(err error) bool {
	return errors.Is(err, ErrLineCountMismatch) || errors.Is(err, ErrSiblingCountMismatch)
}
