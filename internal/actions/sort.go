package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgallion1/headingkit/internal/host"
	"github.com/dgallion1/headingkit/internal/sections"
)

// SortSiblingHeadings lets the user pick a sort order and reorders the
// sibling group of the heading at the cursor.
func (r *Runner) SortSiblingHeadings(ctx context.Context) (*sections.Result, error) {
	if r.svc.Editor == nil {
		r.log.Debug("sort siblings: no active editor")
		return nil, nil
	}
	if r.svc.Picker == nil {
		return nil, fmt.Errorf("sort siblings: no picker available")
	}

	presets := sections.Presets()
	idx, ok, err := r.svc.Picker.Pick(ctx, "Sort sibling headings", sections.Labels(presets))
	if err != nil {
		return nil, fmt.Errorf("sort siblings: picking order: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return r.SortSiblingHeadingsBy(ctx, presets[idx].Compare)
}

// SortSiblingHeadingsBy reorders the sibling group at the cursor with cmp.
func (r *Runner) SortSiblingHeadingsBy(ctx context.Context, cmp sections.Comparator) (*sections.Result, error) {
	ed := r.svc.Editor
	if ed == nil {
		r.log.Debug("sort siblings: no active editor")
		return nil, nil
	}
	line := ed.GetCursor(host.CursorHead).Line

	folds, err := r.folds()
	if err != nil {
		return nil, fmt.Errorf("sort siblings: reading folds: %w", err)
	}

	res, err := sections.SortSiblings(ed.GetValue(), line, cmp, folds)
	if err != nil {
		return nil, r.rewriteFailed("sortSiblingHeadings", "sort", line, err)
	}
	if err := r.commit("sortSiblingHeadings", res); err != nil {
		return nil, err
	}

	r.log.Info("sorted sibling headings", "from", res.Span.From, "to", res.Span.To, "count", len(res.Order))
	return res, nil
}

// MoveHeading moves the heading section at the cursor delta places among its
// siblings (negative is up) and keeps the cursor on the moved heading.
func (r *Runner) MoveHeading(ctx context.Context, delta int) (*sections.Result, error) {
	ed := r.svc.Editor
	if ed == nil {
		r.log.Debug("move heading: no active editor")
		return nil, nil
	}
	cursor := ed.GetCursor(host.CursorHead)

	folds, err := r.folds()
	if err != nil {
		return nil, fmt.Errorf("move heading: reading folds: %w", err)
	}

	res, err := sections.MoveSibling(ed.GetValue(), cursor.Line, delta, folds)
	if err != nil {
		return nil, r.rewriteFailed("moveHeading", "move", cursor.Line, err)
	}
	if err := r.commit("moveHeading", res); err != nil {
		return nil, err
	}

	cursor.Line = res.Follow(cursor.Line)
	ed.SetCursor(cursor)
	return res, nil
}

// rewriteFailed maps engine errors onto the host: missing headings are
// silent, user-correctable conditions get a notice, invariant violations
// get a persistent error notice.
func (r *Runner) rewriteFailed(op, verb string, line int, err error) error {
	switch {
	case errors.Is(err, sections.ErrNoHeading):
		r.log.Debug(op+": no heading at cursor", "line", line)
		return nil
	case errors.Is(err, sections.ErrAtBoundary):
		r.log.Debug(op+": already at the edge of its group", "line", line)
		return nil
	case sections.IsInternal(err):
		r.reportInternal(op, err)
	case errors.Is(err, sections.ErrNotEnoughSiblings):
		r.svc.Notify(r.settings.NoticeDuration, "Not enough sibling headings to "+verb+".")
	default:
		r.svc.Notify(r.settings.NoticeDuration, err.Error())
	}
	return err
}

// commit writes a rewrite into the editor, checks the line count against the
// live document and re-applies folds.
func (r *Runner) commit(op string, res *sections.Result) error {
	ed := r.svc.Editor
	before := ed.LineCount()
	ed.ReplaceRange(res.Replacement, host.Position{Line: res.Span.From}, host.Position{Line: res.Span.To})

	if after := ed.LineCount(); after != before {
		err := fmt.Errorf("%w: %d before, %d after", sections.ErrLineCountMismatch, before, after)
		r.reportInternal(op, err)
		return err
	}

	if err := r.applyFolds(res.Folds); err != nil {
		r.log.Error("applying folds failed", "op", op, "error", err)
		return fmt.Errorf("%s: applying folds: %w", op, err)
	}
	return nil
}
