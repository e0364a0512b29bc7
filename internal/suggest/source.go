package suggest

import (
	"context"
	"errors"

	"github.com/dgallion1/headingkit/internal/heading"
	"github.com/dgallion1/headingkit/internal/host"
)

// ErrNoSource is returned when a Source names no markdown at all.
var ErrNoSource = errors.New("no markdown source")

// Source names where the markdown comes from. The first non-empty of Text,
// Editor and Path wins.
type Source struct {
	Text   string
	Editor host.Editor
	Path   string
}

// Resolve returns the markdown text of src, reading Path through files.
func (src Source) Resolve(ctx context.Context, files host.Files) (string, error) {
	switch {
	case src.Text != "":
		return src.Text, nil
	case src.Editor != nil:
		return src.Editor.GetValue(), nil
	case src.Path != "" && files != nil:
		return files.Read(ctx, src.Path)
	}
	return "", ErrNoSource
}

// Open resolves src and starts a navigator over its headings up to levelLimit.
func Open(ctx context.Context, src Source, files host.Files, levelLimit int, expand bool) (*Navigator, error) {
	text, err := src.Resolve(ctx, files)
	if err != nil {
		return nil, err
	}
	return NewNavigator(heading.NewTree(text, levelLimit), expand), nil
}
