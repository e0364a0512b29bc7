package sections

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dgallion1/headingkit/internal/heading"
)

// Fold is a folded line range. Both ends are inclusive line numbers.
type Fold struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Result describes a rewritten sibling group.
type Result struct {
	Text        string        // Whole document after the rewrite
	Span        heading.Range // Lines replaced in the original document
	Replacement string        // New text for Span
	Folds       []Fold        // Fold regions for the new document, sorted by From
	Order       []int         // Order[p] is the original index of the sibling now at position p
	Headers     []string      // Sibling header texts in their new order
	OldLines    []int         // OldLines[p] is the first line the sibling now at position p had before
	NewLines    []int         // NewLines[p] is its first line after the rewrite
}

// Follow maps a line inside the group to its line after the rewrite. Lines
// outside the group are returned unchanged.
func (r *Result) Follow(line int) int {
	if !r.Span.Contains(line) {
		return line
	}
	best := -1
	for p, old := range r.OldLines {
		if old <= line && (best < 0 || old > r.OldLines[best]) {
			best = p
		}
	}
	if best < 0 {
		return line
	}
	return r.NewLines[best] + line - r.OldLines[best]
}

// SortSiblings reorders the sibling group of the heading at referenceLine using
// cmp. Each sibling keeps its full section text, and folds inside a sibling
// follow it to its new position.
func SortSiblings(text string, referenceLine int, compare Comparator, folds []Fold) (*Result, error) {
	tree := heading.NewTree(text, heading.MaxLevel)
	siblings, err := siblingGroup(tree, referenceLine)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(siblings)
	slices.SortStableFunc(sorted, compare)

	order := make([]int, len(sorted))
	for p, n := range sorted {
		order[p] = slices.Index(siblings, n)
	}

	return reorder(text, tree, siblings, order, folds)
}

// siblingGroup resolves the heading at line and returns its sibling group.
func siblingGroup(tree *heading.Tree, line int) ([]*heading.Node, error) {
	ref := tree.NodeAtLine(line)
	if ref == nil {
		return nil, fmt.Errorf("%w %d", ErrNoHeading, line)
	}
	siblings := tree.Siblings(ref)
	if len(siblings) < 2 {
		return nil, fmt.Errorf("%w: %q has %d", ErrNotEnoughSiblings, ref.Text(), len(siblings))
	}
	return siblings, nil
}

// ValidateFolds checks that every fold is ordered and lies within a document
// of lineCount lines.
func ValidateFolds(folds []Fold, lineCount int) error {
	for _, f := range folds {
		if f.From < 0 || f.To < f.From || f.To >= lineCount {
			return fmt.Errorf("%w: lines %d-%d in a %d-line document", ErrInvalidFold, f.From, f.To, lineCount)
		}
	}
	return nil
}

// reorder rewrites the contiguous span covered by siblings so that position p
// holds the section of siblings[order[p]].
func reorder(text string, tree *heading.Tree, siblings []*heading.Node, order []int, folds []Fold) (*Result, error) {
	if err := ValidateFolds(folds, tree.LineCount); err != nil {
		return nil, err
	}
	lines := heading.SplitLines(text)

	spans := make([]heading.Range, len(siblings))
	for i, n := range siblings {
		spans[i] = tree.Range(n)
	}
	span := heading.Range{From: spans[0].From, To: spans[len(spans)-1].To}

	untouched, relative, err := captureFolds(folds, span, spans)
	if err != nil {
		return nil, err
	}

	last := len(siblings) - 1
	var b strings.Builder
	for _, i := range order {
		b.WriteString(lineRangeText(lines, spans[i].From, spans[i].To))
		// The final section of a document carries no line terminator; give it
		// one so it can sit between others, and drop the surplus at the end.
		if i == last && spans[last].To == tree.LineCount {
			b.WriteByte('\n')
		}
	}
	replacement := b.String()
	if spans[last].To == tree.LineCount {
		replacement = strings.TrimSuffix(replacement, "\n")
	}

	newText := lineRangeText(lines, 0, span.From) + replacement + lineRangeText(lines, span.To, len(lines))

	newLineCount := len(heading.SplitLines(newText))
	if newLineCount != tree.LineCount {
		return nil, fmt.Errorf("%w: %d before, %d after", ErrLineCountMismatch, tree.LineCount, newLineCount)
	}

	newSiblings, err := regroup(newText, siblings)
	if err != nil {
		return nil, err
	}

	newFolds := untouched
	for p, i := range order {
		start := newSiblings[p].Line()
		for _, f := range relative[i] {
			newFolds = append(newFolds, Fold{From: f.From + start, To: f.To + start})
		}
	}
	slices.SortStableFunc(newFolds, func(a, b Fold) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})

	headers := make([]string, len(newSiblings))
	oldLines := make([]int, len(newSiblings))
	newLines := make([]int, len(newSiblings))
	for p, n := range newSiblings {
		headers[p] = n.Text()
		oldLines[p] = spans[order[p]].From
		newLines[p] = n.Line()
	}

	return &Result{
		Text:        newText,
		Span:        span,
		Replacement: replacement,
		Folds:       newFolds,
		Order:       order,
		Headers:     headers,
		OldLines:    oldLines,
		NewLines:    newLines,
	}, nil
}

// captureFolds splits folds into those unaffected by the rewrite and, per
// sibling, those inside it expressed relative to the sibling's first line.
func captureFolds(folds []Fold, span heading.Range, spans []heading.Range) ([]Fold, [][]Fold, error) {
	var untouched []Fold
	relative := make([][]Fold, len(spans))

	for _, f := range folds {
		// Folds clear of the group, or enclosing all of it, keep their lines.
		if f.To < span.From || f.From >= span.To || (f.From < span.From && f.To >= span.To-1) {
			untouched = append(untouched, f)
			continue
		}
		if f.From < span.From {
			return nil, nil, fmt.Errorf("%w: lines %d-%d", ErrFoldStraddlesSiblings, f.From, f.To)
		}

		owner := -1
		for i, s := range spans {
			if f.From >= s.From && f.To < s.To {
				owner = i
				break
			}
		}
		if owner < 0 {
			return nil, nil, fmt.Errorf("%w: lines %d-%d", ErrFoldStraddlesSiblings, f.From, f.To)
		}
		relative[owner] = append(relative[owner], Fold{
			From: f.From - spans[owner].From,
			To:   f.To - spans[owner].From,
		})
	}

	return untouched, relative, nil
}

// regroup finds the sibling group again in the rewritten text. The parent
// heading precedes the group, so its line is unchanged.
func regroup(newText string, siblings []*heading.Node) ([]*heading.Node, error) {
	tree := heading.NewTree(newText, heading.MaxLevel)

	parent := tree.Root
	if old := siblings[0].Parent(); !old.IsRoot() {
		parent = tree.NodeStartingAt(old.Line())
		if parent == nil {
			return nil, fmt.Errorf("%w: parent heading at line %d is gone", ErrSiblingCountMismatch, old.Line())
		}
	}

	found := tree.ChildrenAtLevel(parent, siblings[0].Level())
	if len(found) != len(siblings) {
		return nil, fmt.Errorf("%w: %d before, %d after", ErrSiblingCountMismatch, len(siblings), len(found))
	}
	return found, nil
}

// lineRangeText returns the text of lines [from, to) the way an editor range
// from {from, 0} to {to, 0} reads it: every line keeps its terminator except
// the document's last.
func lineRangeText(lines []string, from, to int) string {
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return ""
	}
	s := strings.Join(lines[from:to], "\n")
	if to < len(lines) {
		s += "\n"
	}
	return s
}

// SectionText returns the text of lines [from, to) of text.
func SectionText(text string, r heading.Range) string {
	return lineRangeText(heading.SplitLines(text), r.From, r.To)
}
