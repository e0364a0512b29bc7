package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dgallion1/headingkit/internal/actions"
	"github.com/dgallion1/headingkit/internal/host"
	"github.com/dgallion1/headingkit/internal/sections"
)

// pendingFolds holds fold updates back from the sidecar until the note they
// describe has been written.
type pendingFolds struct {
	store host.FoldStore

	dirty     bool
	folds     []sections.Fold
	lineCount int
}

func (p *pendingFolds) GetFolds() ([]sections.Fold, error) {
	if p.dirty {
		return p.folds, nil
	}
	return p.store.GetFolds()
}

func (p *pendingFolds) ApplyFolds(folds []sections.Fold, lineCount int) error {
	if err := sections.ValidateFolds(folds, lineCount); err != nil {
		return err
	}
	p.dirty, p.folds, p.lineCount = true, folds, lineCount
	return nil
}

// flush writes the held folds to the sidecar.
func (p *pendingFolds) flush() error {
	if !p.dirty {
		return nil
	}
	if err := p.store.ApplyFolds(p.folds, p.lineCount); err != nil {
		return err
	}
	p.dirty = false
	return nil
}

// document is a note loaded into an in-memory editor, with its fold
// sidecar attached.
type document struct {
	path     string
	original string

	buf     *host.Buffer
	files   host.Files
	folds   *pendingFolds
	notices *host.LogNotifier
	svc     *host.Services
}

func openDocument(ctx context.Context, path string) (*document, error) {
	files := host.DiskFiles{}
	text, err := files.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	log := newLogger()
	buf := host.NewBuffer(text)
	notices := &host.LogNotifier{Log: log}
	folds := &pendingFolds{store: host.FoldFileFor(path)}
	return &document{
		path:     path,
		original: text,
		buf:      buf,
		files:    files,
		folds:    folds,
		notices:  notices,
		svc: &host.Services{
			Editor:    buf,
			Folds:     folds,
			Notices:   notices,
			Clipboard: host.WriterClipboard{W: os.Stdout},
			Files:     files,
			Log:       log,
		},
	}, nil
}

func (d *document) runner() *actions.Runner {
	return actions.NewRunner(d.svc, cfg.Actions())
}

// at places the cursor at the start of line.
func (d *document) at(line int) *document {
	d.buf.SetCursor(host.Position{Line: line})
	return d
}

// save writes the buffer back when a command changed it, then the fold
// sidecar. A failed write leaves both files as they were.
func (d *document) save(ctx context.Context) (bool, error) {
	text := d.buf.GetValue()
	if text == d.original {
		return false, nil
	}
	if err := d.files.Write(ctx, d.path, text); err != nil {
		return false, err
	}
	d.original = text
	if err := d.folds.flush(); err != nil {
		return true, fmt.Errorf("saving folds: %w", err)
	}
	return true, nil
}

// report prints what happened and turns notices into a failure exit when the
// document was left unchanged.
func (d *document) report(ctx context.Context, verb string) error {
	changed, err := d.save(ctx)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(os.Stderr, "%s %s\n", verb, d.path)
		return nil
	}
	if notices := d.notices.Notices(); len(notices) > 0 {
		return fmt.Errorf("%s: %s", d.path, notices[len(notices)-1].Lines[0])
	}
	return nil
}
