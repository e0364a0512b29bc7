package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgallion1/headingkit/internal/host"
	"github.com/dgallion1/headingkit/internal/sections"
)

// CutHeadingSection removes the section of the heading at the cursor and puts
// its text on the clipboard.
func (r *Runner) CutHeadingSection(ctx context.Context) (*sections.Section, error) {
	ed := r.svc.Editor
	if ed == nil {
		r.log.Debug("cut section: no active editor")
		return nil, nil
	}
	line := ed.GetCursor(host.CursorHead).Line

	sec, err := sections.SectionAt(ed.GetValue(), line)
	if errors.Is(err, sections.ErrNoHeading) {
		r.log.Debug("cut section: no heading at cursor", "line", line)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	folds, err := r.folds()
	if err != nil {
		return nil, fmt.Errorf("cut section: reading folds: %w", err)
	}
	if err := sections.ValidateFolds(folds, ed.LineCount()); err != nil {
		r.svc.Notify(r.settings.NoticeDuration, err.Error())
		return nil, fmt.Errorf("cut section: %w", err)
	}

	// Copy first so a clipboard failure leaves the document intact.
	if r.svc.Clipboard != nil {
		if err := r.svc.Clipboard.WriteText(sec.Text); err != nil {
			return nil, fmt.Errorf("cut section: writing clipboard: %w", err)
		}
	}

	from := host.Position{Line: sec.Range.From}
	ed.ReplaceRange("", from, host.Position{Line: sec.Range.To})
	ed.SetCursor(from)

	if err := r.applyFolds(sections.FoldsAfterCut(folds, sec.Range)); err != nil {
		r.log.Error("applying folds failed", "op", "cutHeadingSection", "error", err)
		return nil, fmt.Errorf("cut section: applying folds: %w", err)
	}

	r.log.Info("cut heading section", "header", sec.Header, "from", sec.Range.From, "to", sec.Range.To)
	return &sec, nil
}
