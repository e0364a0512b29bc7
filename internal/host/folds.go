package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/dgallion1/headingkit/internal/sections"
)

// ErrInvalidFold means a fold region does not fit the document.
var ErrInvalidFold = sections.ErrInvalidFold

func validateFolds(folds []sections.Fold, lineCount int) error {
	return sections.ValidateFolds(folds, lineCount)
}

// MemoryFolds keeps fold state in memory.
type MemoryFolds struct {
	folds []sections.Fold
}

// NewMemoryFolds returns a fold store seeded with folds. When buf is non-nil
// the store tracks its edits: folds touching a replaced span are dropped and
// folds below it shift with the line count.
func NewMemoryFolds(buf *Buffer, folds ...sections.Fold) *MemoryFolds {
	m := &MemoryFolds{folds: slices.Clone(folds)}
	if buf != nil {
		buf.OnReplace(m.invalidate)
	}
	return m
}

func (m *MemoryFolds) invalidate(fromLine, toLine, delta int) {
	kept := m.folds[:0]
	for _, f := range m.folds {
		switch {
		case f.To < fromLine:
			kept = append(kept, f)
		case f.From > toLine:
			kept = append(kept, sections.Fold{From: f.From + delta, To: f.To + delta})
		}
	}
	m.folds = kept
}

func (m *MemoryFolds) GetFolds() ([]sections.Fold, error) {
	return slices.Clone(m.folds), nil
}

func (m *MemoryFolds) ApplyFolds(folds []sections.Fold, lineCount int) error {
	if err := validateFolds(folds, lineCount); err != nil {
		return err
	}
	m.folds = slices.Clone(folds)
	return nil
}

// foldState is the on-disk fold record of one note.
type foldState struct {
	Lines int             `json:"lines"`
	Folds []sections.Fold `json:"folds"`
}

// FoldFile persists fold state in a JSONC sidecar next to a note.
type FoldFile struct {
	Path string
}

// FoldFileFor returns the sidecar store of the note at notePath.
func FoldFileFor(notePath string) *FoldFile {
	return &FoldFile{Path: notePath + ".folds.jsonc"}
}

// GetFolds returns the stored folds; a missing sidecar means no folds.
func (f *FoldFile) GetFolds() ([]sections.Fold, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading folds %s: %w", f.Path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC in %s: %w", f.Path, err)
	}

	var st foldState
	if err := json.Unmarshal(standardized, &st); err != nil {
		return nil, fmt.Errorf("invalid fold state in %s: %w", f.Path, err)
	}
	return st.Folds, nil
}

// ApplyFolds replaces the stored folds.
func (f *FoldFile) ApplyFolds(folds []sections.Fold, lineCount int) error {
	if err := validateFolds(folds, lineCount); err != nil {
		return err
	}
	if folds == nil {
		folds = []sections.Fold{}
	}

	data, err := json.MarshalIndent(foldState{Lines: lineCount, Folds: folds}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding folds: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("// Folded line ranges, 0-based and inclusive.\n")
	buf.Write(data)
	buf.WriteByte('\n')

	if err := atomic.WriteFile(f.Path, &buf); err != nil {
		return fmt.Errorf("writing folds %s: %w", f.Path, err)
	}
	return nil
}
