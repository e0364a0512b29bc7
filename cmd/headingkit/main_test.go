package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/headingkit/internal/config"
	"github.com/dgallion1/headingkit/internal/sections"
)

func TestChoose(t *testing.T) {
	labels := []string{"ASC  :: By Header :: ASC", "DESC :: By Header :: DESC"}

	tests := []struct {
		answer string
		idx    int
		ok     bool
	}{
		{"1", 0, true},
		{"2", 1, true},
		{"3", 0, false},
		{"0", 0, false},
		{"desc :: by header :: desc", 1, true},
		{"header", 0, false},
	}
	for _, tt := range tests {
		idx, ok := choose(tt.answer, labels)
		assert.Equal(t, tt.ok, ok, tt.answer)
		if tt.ok {
			assert.Equal(t, tt.idx, idx, tt.answer)
		}
	}
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, "Usage", highlight("Usage", nil))
	assert.Equal(t, "[U]sa[g]e", highlight("Usage", []int{0, 3}))
}

func TestDocument_SortAndSave(t *testing.T) {
	cfg = &config.Config{
		Headings: config.HeadingsConfig{LevelLimit: 6},
		Notice:   config.NoticeConfig{Duration: time.Second},
		Logging:  config.LoggingConfig{Level: "error"},
	}
	t.Cleanup(func() { cfg = nil })

	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# P\n## b\nbee\n## a\n"), 0o644))
	require.NoError(t, os.WriteFile(path+".folds.jsonc", []byte("// folds\n{\"lines\": 5, \"folds\": [{\"from\": 1, \"to\": 2},],}\n"), 0o644))

	ctx := t.Context()
	doc, err := openDocument(ctx, path)
	require.NoError(t, err)

	preset, err := sections.PresetByName("header", false)
	require.NoError(t, err)
	_, err = doc.at(2).runner().SortSiblingHeadingsBy(ctx, preset.Compare)
	require.NoError(t, err)
	require.NoError(t, doc.report(ctx, "sorted"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# P\n## a\n## b\nbee\n", string(data))

	folds, err := doc.svc.Folds.GetFolds()
	require.NoError(t, err)
	assert.Equal(t, []sections.Fold{{From: 2, To: 3}}, folds)
}

func TestDocument_ReportNotice(t *testing.T) {
	cfg = &config.Config{
		Headings: config.HeadingsConfig{LevelLimit: 6},
		Logging:  config.LoggingConfig{Level: "error"},
	}
	t.Cleanup(func() { cfg = nil })

	path := filepath.Join(t.TempDir(), "lonely.md")
	require.NoError(t, os.WriteFile(path, []byte("# only\ntext"), 0o644))

	ctx := t.Context()
	doc, err := openDocument(ctx, path)
	require.NoError(t, err)

	_, err = doc.at(1).runner().MoveHeading(ctx, 1)
	require.Error(t, err)
	err = doc.report(ctx, "moved")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not enough sibling headings to move.")
}

func TestDocument_FailedSaveKeepsFolds(t *testing.T) {
	cfg = &config.Config{
		Headings: config.HeadingsConfig{LevelLimit: 6},
		Logging:  config.LoggingConfig{Level: "error"},
	}
	t.Cleanup(func() { cfg = nil })

	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	sidecar := "// folds\n{\"lines\": 4, \"folds\": [{\"from\": 0, \"to\": 1}]}\n"
	require.NoError(t, os.WriteFile(path, []byte("# b\nbee\n# a\nay"), 0o644))
	require.NoError(t, os.WriteFile(path+".folds.jsonc", []byte(sidecar), 0o644))

	ctx := t.Context()
	doc, err := openDocument(ctx, path)
	require.NoError(t, err)

	_, err = doc.at(0).runner().SortSiblingHeadingsBy(ctx, sections.ByHeader)
	require.NoError(t, err)

	// The sidecar is untouched until the note is written.
	data, err := os.ReadFile(path + ".folds.jsonc")
	require.NoError(t, err)
	assert.Equal(t, sidecar, string(data))

	doc.path = filepath.Join(dir, "missing", "note.md")
	require.Error(t, doc.report(ctx, "sorted"))

	data, err = os.ReadFile(path + ".folds.jsonc")
	require.NoError(t, err)
	assert.Equal(t, sidecar, string(data))
}
