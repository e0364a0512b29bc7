package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/headingkit/internal/host"
	"github.com/dgallion1/headingkit/internal/sections"
)

type fixture struct {
	runner    *Runner
	buf       *host.Buffer
	folds     *host.MemoryFolds
	notices   *host.LogNotifier
	clipboard *host.MemoryClipboard
}

func newFixture(text string, pick int, folds ...sections.Fold) *fixture {
	buf := host.NewBuffer(text)
	f := &fixture{
		buf:       buf,
		folds:     host.NewMemoryFolds(buf, folds...),
		notices:   &host.LogNotifier{},
		clipboard: &host.MemoryClipboard{},
	}
	svc := &host.Services{
		Editor:    buf,
		Folds:     f.folds,
		Notices:   f.notices,
		Picker:    host.FixedPicker{Index: pick},
		Clipboard: f.clipboard,
	}
	f.runner = NewRunner(svc, DefaultSettings())
	return f
}

const fruitDoc = "# Fruits\n## Banana\nyellow\n## Apple\nred\n## Cherry\ndark"

func TestSortSiblingHeadings_PicksPreset(t *testing.T) {
	f := newFixture(fruitDoc, 1) // DESC :: By Header
	f.buf.SetCursor(host.Position{Line: 4})

	res, err := f.runner.SortSiblingHeadings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "# Fruits\n## Cherry\ndark\n## Banana\nyellow\n## Apple\nred", f.buf.GetValue())
	assert.Equal(t, []string{"Cherry", "Banana", "Apple"}, res.Headers)
	assert.Empty(t, f.notices.Notices())
}

func TestSortSiblingHeadings_DismissedPicker(t *testing.T) {
	f := newFixture(fruitDoc, -1)
	f.buf.SetCursor(host.Position{Line: 1})

	res, err := f.runner.SortSiblingHeadings(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, fruitDoc, f.buf.GetValue())
}

func TestSortSiblingHeadingsBy_MovesFolds(t *testing.T) {
	f := newFixture(fruitDoc, 0, sections.Fold{From: 1, To: 2}, sections.Fold{From: 0, To: 6})
	f.buf.SetCursor(host.Position{Line: 1})

	_, err := f.runner.SortSiblingHeadingsBy(context.Background(), sections.ByHeader)
	require.NoError(t, err)

	got, err := f.folds.GetFolds()
	require.NoError(t, err)
	// Banana moved from position 0 to position 1.
	assert.Equal(t, []sections.Fold{{From: 0, To: 6}, {From: 3, To: 4}}, got)
}

func TestSortSiblingHeadingsBy_InvalidFoldLeavesDocument(t *testing.T) {
	f := newFixture(fruitDoc, 0, sections.Fold{From: 2, To: 1})
	f.buf.SetCursor(host.Position{Line: 1})

	_, err := f.runner.SortSiblingHeadingsBy(context.Background(), sections.ByHeader)
	require.ErrorIs(t, err, sections.ErrInvalidFold)

	assert.Equal(t, fruitDoc, f.buf.GetValue())
	got, err := f.folds.GetFolds()
	require.NoError(t, err)
	assert.Equal(t, []sections.Fold{{From: 2, To: 1}}, got)
	require.Len(t, f.notices.Notices(), 1)
}

func TestCutHeadingSection_InvalidFoldLeavesDocument(t *testing.T) {
	f := newFixture(fruitDoc, 0, sections.Fold{From: 5, To: 9})
	f.buf.SetCursor(host.Position{Line: 3})

	_, err := f.runner.CutHeadingSection(context.Background())
	require.ErrorIs(t, err, sections.ErrInvalidFold)
	assert.Equal(t, fruitDoc, f.buf.GetValue())
	assert.Empty(t, f.clipboard.Text)
}

func TestSortSiblingHeadingsBy_NotEnoughSiblings(t *testing.T) {
	doc := "# Only\ntext"
	f := newFixture(doc, 0)

	_, err := f.runner.SortSiblingHeadingsBy(context.Background(), sections.ByHeader)
	require.ErrorIs(t, err, sections.ErrNotEnoughSiblings)

	notices := f.notices.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, []string{"Not enough sibling headings to sort."}, notices[0].Lines)
	assert.False(t, notices[0].Persistent())
	assert.Equal(t, doc, f.buf.GetValue())
}

func TestSortSiblingHeadingsBy_NoHeadingIsSilent(t *testing.T) {
	f := newFixture("plain\ntext\n# A", 0)

	res, err := f.runner.SortSiblingHeadingsBy(context.Background(), sections.ByHeader)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, f.notices.Notices())
}

func TestSortSiblingHeadingsBy_InternalErrorIsPersistent(t *testing.T) {
	// The unclosed fence swallows the following heading once sections move.
	doc := "## b\n## a\n```"
	f := newFixture(doc, 0)

	_, err := f.runner.SortSiblingHeadingsBy(context.Background(), sections.ByHeader)
	require.ErrorIs(t, err, sections.ErrSiblingCountMismatch)
	assert.Equal(t, doc, f.buf.GetValue())

	notices := f.notices.Notices()
	require.Len(t, notices, 1)
	assert.True(t, notices[0].Persistent())
	assert.Contains(t, notices[0].Lines[0], "ERROR(sortSiblingHeadings)")
}

func TestSortSiblingHeadingsBy_NoEditor(t *testing.T) {
	r := NewRunner(&host.Services{}, DefaultSettings())
	res, err := r.SortSiblingHeadingsBy(context.Background(), sections.ByHeader)
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestMoveHeading_FollowsCursor(t *testing.T) {
	f := newFixture(fruitDoc, 0)
	f.buf.SetCursor(host.Position{Line: 2, Ch: 3})

	_, err := f.runner.MoveHeading(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "# Fruits\n## Apple\nred\n## Banana\nyellow\n## Cherry\ndark", f.buf.GetValue())
	assert.Equal(t, host.Position{Line: 4, Ch: 3}, f.buf.GetCursor(host.CursorHead))
}

func TestMoveHeading_AtBoundaryIsSilent(t *testing.T) {
	f := newFixture(fruitDoc, 0)
	f.buf.SetCursor(host.Position{Line: 1})

	res, err := f.runner.MoveHeading(context.Background(), -1)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, fruitDoc, f.buf.GetValue())
}

func TestCutHeadingSection(t *testing.T) {
	f := newFixture(fruitDoc, 0, sections.Fold{From: 3, To: 4}, sections.Fold{From: 5, To: 6})
	f.buf.SetCursor(host.Position{Line: 4})

	sec, err := f.runner.CutHeadingSection(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sec)

	assert.Equal(t, "## Apple\nred\n", f.clipboard.Text)
	assert.Equal(t, "# Fruits\n## Banana\nyellow\n## Cherry\ndark", f.buf.GetValue())
	assert.Equal(t, []string{"Fruits", "Apple"}, sec.Breadcrumb)

	got, err := f.folds.GetFolds()
	require.NoError(t, err)
	assert.Equal(t, []sections.Fold{{From: 3, To: 4}}, got)
}

type failingClipboard struct{}

func (failingClipboard) WriteText(string) error { return errors.New("denied") }

func TestCutHeadingSection_ClipboardFailureKeepsText(t *testing.T) {
	buf := host.NewBuffer(fruitDoc)
	buf.SetCursor(host.Position{Line: 3})
	r := NewRunner(&host.Services{Editor: buf, Clipboard: failingClipboard{}}, DefaultSettings())

	_, err := r.CutHeadingSection(context.Background())
	require.Error(t, err)
	assert.Equal(t, fruitDoc, buf.GetValue())
}

func TestJumpToHeading(t *testing.T) {
	f := newFixture(fruitDoc, 0)
	f.buf.SetCursor(host.Position{Line: 2, Ch: 2})

	require.True(t, f.runner.JumpToHeading(1))
	assert.Equal(t, host.Position{Line: 3}, f.buf.GetCursor(host.CursorHead))

	require.True(t, f.runner.JumpToHeading(-1))
	assert.Equal(t, host.Position{Line: 1}, f.buf.GetCursor(host.CursorHead))

	f.buf.SetCursor(host.Position{Line: 5})
	assert.False(t, f.runner.JumpToHeading(1))
}

func TestJumpToHeading_RespectsLevelLimit(t *testing.T) {
	buf := host.NewBuffer(fruitDoc)
	settings := DefaultSettings()
	settings.LevelLimit = 1
	r := NewRunner(&host.Services{Editor: buf}, settings)

	assert.False(t, r.JumpToHeading(1))
}

func TestMoveCursorToLine_ExtendsSelection(t *testing.T) {
	for _, vim := range []bool{false, true} {
		buf := host.NewBuffer(fruitDoc)
		buf.SetSelection(host.Position{Line: 1}, host.Position{Line: 1, Ch: 2})
		settings := DefaultSettings()
		settings.VimMode = vim
		NewRunner(&host.Services{Editor: buf}, settings).MoveCursorToLine(3)

		want := host.Position{Line: 3}
		if vim {
			want.Ch = 1
		}
		assert.Equal(t, host.Position{Line: 1}, buf.GetCursor(host.CursorAnchor))
		assert.Equal(t, want, buf.GetCursor(host.CursorHead), "vim=%v", vim)
	}
}

func TestShowCurrentDateAndTime(t *testing.T) {
	f := newFixture("", 0)
	now := time.Date(2024, 3, 4, 5, 6, 7, 89_000_000, time.FixedZone("", 2*60*60))

	f.runner.ShowCurrentDateAndTime(now)

	notices := f.notices.Notices()
	require.Len(t, notices, 1)
	assert.True(t, notices[0].Persistent())
	assert.Equal(t, []string{"Monday (UTC+02:00)", "2024-03-04 05:06:07.089"}, notices[0].Lines)
}
