// Package host defines the editor-side capabilities the heading tools run
// against, plus in-memory and disk-backed implementations of them.
package host

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/headingkit/internal/sections"
)

// Position addresses a character in an editor buffer.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Ch < q.Ch)
}

// CursorEnd selects which end of the selection GetCursor returns.
type CursorEnd string

const (
	CursorFrom   CursorEnd = "from"
	CursorTo     CursorEnd = "to"
	CursorHead   CursorEnd = "head"
	CursorAnchor CursorEnd = "anchor"
)

// Change replaces the text between From and To.
type Change struct {
	Text string
	From Position
	To   Position
}

// Selection is a cursor (To nil) or a selected range.
type Selection struct {
	From Position
	To   *Position
}

// Transaction groups changes whose positions all refer to the document
// before any of them is applied.
type Transaction struct {
	Changes   []Change
	Selection *Selection
}

// Editor is a text buffer with a cursor.
type Editor interface {
	GetValue() string
	GetLine(line int) string
	GetRange(from, to Position) string
	ReplaceRange(text string, from, to Position)
	LineCount() int
	GetCursor(end CursorEnd) Position
	SetCursor(pos Position)
	SomethingSelected() bool
	GetSelection() string
	Transaction(tx Transaction)
}

// FoldStore reads and writes the folded line ranges of one document.
type FoldStore interface {
	GetFolds() ([]sections.Fold, error)
	ApplyFolds(folds []sections.Fold, lineCount int) error
}

// Notifier shows a transient multi-line message. A zero duration means the
// message stays until dismissed.
type Notifier interface {
	Notify(lines []string, duration time.Duration)
}

// Picker asks the user to choose one of labels. ok is false when nothing was
// chosen.
type Picker interface {
	Pick(ctx context.Context, placeholder string, labels []string) (index int, ok bool, err error)
}

// Clipboard receives cut text.
type Clipboard interface {
	WriteText(text string) error
}

// Files reads and writes whole documents.
type Files interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path string, text string) error
}

// Services bundles the capabilities of one host environment. Any field may
// be nil when the environment lacks it.
type Services struct {
	Editor    Editor
	Folds     FoldStore
	Notices   Notifier
	Picker    Picker
	Clipboard Clipboard
	Files     Files
	Log       *slog.Logger
}

// Logger returns the configured logger, or a discarding one.
func (s *Services) Logger() *slog.Logger {
	if s.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Log
}

// Notify shows a notice when a notifier is configured.
func (s *Services) Notify(duration time.Duration, lines ...string) {
	if s.Notices != nil {
		s.Notices.Notify(lines, duration)
	}
}
