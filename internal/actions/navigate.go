package actions

import (
	"github.com/dgallion1/headingkit/internal/heading"
	"github.com/dgallion1/headingkit/internal/host"
)

// JumpToHeading moves the cursor to the next (dir > 0) or previous (dir < 0)
// heading within the configured level limit. It reports whether a heading
// was found.
func (r *Runner) JumpToHeading(dir int) bool {
	ed := r.svc.Editor
	if ed == nil || dir == 0 {
		return false
	}
	line := ed.GetCursor(host.CursorHead).Line

	tree := heading.NewTree(ed.GetValue(), r.settings.LevelLimit)
	nodes := tree.Flatten(nil, nil)

	target := -1
	if dir > 0 {
		for _, n := range nodes {
			if n.Line() > line {
				target = n.Line()
				break
			}
		}
	} else {
		for _, n := range nodes {
			if n.Line() >= line {
				break
			}
			target = n.Line()
		}
	}
	if target < 0 {
		return false
	}
	r.MoveCursorToLine(target)
	return true
}

// MoveCursorToLine puts the cursor at the start of line. An existing
// selection is extended instead of dropped; in vim mode a downward selection
// covers the first character of the target line.
func (r *Runner) MoveCursorToLine(line int) {
	ed := r.svc.Editor
	if ed == nil {
		return
	}
	target := host.Position{Line: line}
	if !ed.SomethingSelected() {
		ed.SetCursor(target)
		return
	}

	anchor := ed.GetCursor(host.CursorAnchor)
	if r.settings.VimMode && line >= anchor.Line {
		target.Ch = 1
	}
	ed.Transaction(host.Transaction{Selection: &host.Selection{From: anchor, To: &target}})
}
