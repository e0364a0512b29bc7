package host

import (
	"sort"
	"strings"
)

// Buffer is an in-memory Editor. Positions past the end of a line or of the
// document are clipped to the nearest valid position.
type Buffer struct {
	lines  []string
	anchor Position
	head   Position

	watchers []func(fromLine, toLine, delta int)
}

// NewBuffer returns a buffer holding text with the cursor at the start.
func NewBuffer(text string) *Buffer {
	return &Buffer{lines: strings.Split(text, "\n")}
}

// OnReplace registers fn to be called after every replacement with the
// replaced line span and the change in line count.
func (b *Buffer) OnReplace(fn func(fromLine, toLine, delta int)) {
	b.watchers = append(b.watchers, fn)
}

func (b *Buffer) GetValue() string { return strings.Join(b.lines, "\n") }

func (b *Buffer) LineCount() int { return len(b.lines) }

func (b *Buffer) GetLine(line int) string {
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

func (b *Buffer) clip(p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return Position{Line: last, Ch: len(b.lines[last])}
	}
	p.Ch = max(0, min(p.Ch, len(b.lines[p.Line])))
	return p
}

// offset converts a clipped position to a byte offset into GetValue().
func (b *Buffer) offset(p Position) int {
	p = b.clip(p)
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(b.lines[i]) + 1
	}
	return off + p.Ch
}

func ordered(from, to Position) (Position, Position) {
	if to.Before(from) {
		return to, from
	}
	return from, to
}

func (b *Buffer) GetRange(from, to Position) string {
	from, to = ordered(from, to)
	return b.GetValue()[b.offset(from):b.offset(to)]
}

func (b *Buffer) ReplaceRange(text string, from, to Position) {
	from, to = ordered(from, to)
	from, to = b.clip(from), b.clip(to)

	value := b.GetValue()
	before := len(b.lines)
	value = value[:b.offset(from)] + text + value[b.offset(to):]
	b.lines = strings.Split(value, "\n")

	// A range ending at column 0 leaves its last line untouched.
	toLine := to.Line
	if to.Ch == 0 && toLine > from.Line {
		toLine--
	}

	b.anchor, b.head = b.clip(b.anchor), b.clip(b.head)
	for _, fn := range b.watchers {
		fn(from.Line, toLine, len(b.lines)-before)
	}
}

func (b *Buffer) GetCursor(end CursorEnd) Position {
	from, to := ordered(b.anchor, b.head)
	switch end {
	case CursorFrom:
		return from
	case CursorTo:
		return to
	case CursorAnchor:
		return b.anchor
	default:
		return b.head
	}
}

func (b *Buffer) SetCursor(pos Position) {
	pos = b.clip(pos)
	b.anchor, b.head = pos, pos
}

// SetSelection selects from anchor to head.
func (b *Buffer) SetSelection(anchor, head Position) {
	b.anchor, b.head = b.clip(anchor), b.clip(head)
}

func (b *Buffer) SomethingSelected() bool { return b.anchor != b.head }

func (b *Buffer) GetSelection() string { return b.GetRange(b.anchor, b.head) }

// Transaction applies changes back to front so that every position refers to
// the original document.
func (b *Buffer) Transaction(tx Transaction) {
	changes := make([]Change, len(tx.Changes))
	copy(changes, tx.Changes)
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[j].From.Before(changes[i].From)
	})
	for _, c := range changes {
		b.ReplaceRange(c.Text, c.From, c.To)
	}

	if tx.Selection != nil {
		anchor := tx.Selection.From
		head := anchor
		if tx.Selection.To != nil {
			head = *tx.Selection.To
		}
		b.SetSelection(anchor, head)
	}
}
