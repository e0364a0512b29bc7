package actions

import (
	"regexp"
	"strings"

	"github.com/dgallion1/headingkit/internal/host"
)

var (
	// Leading quote, list marker and indentation stay outside the markers.
	strikeLine = regexp.MustCompile(`^((?:\s*>{1,6} )?\s*(?:(?:[-*+]|\d{1,6}\.) )?\s*)(.*?)(\s*)$`)
	strikeSpan = regexp.MustCompile(`(?s)^(\s*)(.*?)(\s*)$`)
)

const strikeMarker = "~~"

// StrikeLine wraps the content of one line in strikethrough markers. Blank
// lines are returned unchanged.
func StrikeLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return line
	}
	return strikeLine.ReplaceAllString(line, "${1}~~${2}~~${3}")
}

// StrikeSpan wraps text in strikethrough markers, keeping surrounding
// whitespace outside them.
func StrikeSpan(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	return strikeSpan.ReplaceAllString(text, "${1}~~${2}~~${3}")
}

// Unstrike removes every strikethrough marker.
func Unstrike(text string) string {
	return strings.ReplaceAll(text, strikeMarker, "")
}

// Strike toggles strikethrough on text the way SmartStrikethrough does for
// the lines it covers.
func Strike(text string, linewise bool) string {
	if strings.Contains(text, strikeMarker) {
		return Unstrike(text)
	}
	if !linewise {
		return StrikeSpan(text)
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = StrikeLine(l)
	}
	return strings.Join(lines, "\n")
}

// SmartStrikethrough toggles strikethrough on the selection or the lines
// under the cursor. Text already containing markers is unstruck; a selection
// within one line is wrapped as is; otherwise every non-blank line is struck
// after its quote, list marker and indentation.
func (r *Runner) SmartStrikethrough() {
	ed := r.svc.Editor
	if ed == nil {
		r.log.Debug("strikethrough: no active editor")
		return
	}

	from := ed.GetCursor(host.CursorFrom)
	to := ed.GetCursor(host.CursorTo)
	oneLineSelection := from.Line == to.Line && ed.SomethingSelected()

	lineFrom := host.Position{Line: from.Line}
	lineTo := host.Position{Line: to.Line, Ch: len(ed.GetLine(to.Line))}

	var change host.Change
	cursor := lineFrom
	switch {
	case oneLineSelection:
		text := ed.GetSelection()
		change = host.Change{From: from, To: to}
		if strings.Contains(text, strikeMarker) {
			change.Text = Unstrike(text)
			cursor = from
		} else {
			change.Text = StrikeSpan(text)
			cursor = host.Position{Line: to.Line, Ch: to.Ch + 2*len(strikeMarker)}
		}
	default:
		change = host.Change{
			Text: Strike(ed.GetRange(lineFrom, lineTo), r.settings.StrikeLinewise),
			From: lineFrom,
			To:   lineTo,
		}
	}

	ed.Transaction(host.Transaction{
		Changes:   []host.Change{change},
		Selection: &host.Selection{From: cursor},
	})
}
