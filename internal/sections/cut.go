package sections

import (
	"fmt"

	"github.com/dgallion1/headingkit/internal/heading"
)

// Section is a heading together with its full text span.
type Section struct {
	Range      heading.Range `json:"range"`
	Level      int           `json:"level"`
	Header     string        `json:"header"`
	Breadcrumb []string      `json:"breadcrumb"`
	Text       string        `json:"text"`
}

// SectionAt returns the innermost heading section containing line.
func SectionAt(text string, line int) (Section, error) {
	tree := heading.NewTree(text, heading.MaxLevel)
	n := tree.NodeAtLine(line)
	if n == nil {
		return Section{}, fmt.Errorf("%w %d", ErrNoHeading, line)
	}
	r := tree.Range(n)
	return Section{
		Range:      r,
		Level:      n.Level(),
		Header:     n.Text(),
		Breadcrumb: n.Breadcrumb(),
		Text:       SectionText(text, r),
	}, nil
}

// Cut removes the section containing line and returns the remaining text and
// the removed section.
func Cut(text string, line int) (string, Section, error) {
	sec, err := SectionAt(text, line)
	if err != nil {
		return text, Section{}, err
	}
	lines := heading.SplitLines(text)
	rest := lineRangeText(lines, 0, sec.Range.From) + lineRangeText(lines, sec.Range.To, len(lines))
	return rest, sec, nil
}

// FoldsAfterCut returns folds adjusted for the removal of lines r. Folds
// inside r vanish, folds below it move up and folds enclosing it shrink.
// Folds that overlap only part of r are dropped.
func FoldsAfterCut(folds []Fold, r heading.Range) []Fold {
	var out []Fold
	n := r.Len()
	for _, f := range folds {
		switch {
		case f.To < r.From:
			out = append(out, f)
		case f.From >= r.To:
			out = append(out, Fold{From: f.From - n, To: f.To - n})
		case f.From < r.From && f.To >= r.To:
			out = append(out, Fold{From: f.From, To: f.To - n})
		}
	}
	return out
}
