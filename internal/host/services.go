package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
)

// Notice is one message shown through a Notifier.
type Notice struct {
	Lines    []string      `json:"lines"`
	Duration time.Duration `json:"duration"`
}

// Persistent reports whether the notice stays until dismissed.
func (n Notice) Persistent() bool { return n.Duration == 0 }

// LogNotifier records notices and mirrors them to a logger.
type LogNotifier struct {
	Log *slog.Logger

	mu      sync.Mutex
	notices []Notice
}

func (l *LogNotifier) Notify(lines []string, duration time.Duration) {
	l.mu.Lock()
	l.notices = append(l.notices, Notice{Lines: lines, Duration: duration})
	l.mu.Unlock()

	if l.Log != nil {
		l.Log.Info("notice",
			"message", strings.Join(lines, " | "),
			"persistent", duration == 0,
		)
	}
}

// Notices returns the notices shown so far.
func (l *LogNotifier) Notices() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notice, len(l.notices))
	copy(out, l.notices)
	return out
}

// FixedPicker always answers with the same choice. A negative Index means
// the user dismissed the picker.
type FixedPicker struct {
	Index int
}

func (p FixedPicker) Pick(_ context.Context, _ string, labels []string) (int, bool, error) {
	if p.Index < 0 || p.Index >= len(labels) {
		return 0, false, nil
	}
	return p.Index, true, nil
}

// MemoryClipboard keeps the last written text.
type MemoryClipboard struct {
	Text string
}

func (c *MemoryClipboard) WriteText(text string) error {
	c.Text = text
	return nil
}

// WriterClipboard writes clipboard text to an io.Writer, such as stdout.
type WriterClipboard struct {
	W io.Writer
}

func (c WriterClipboard) WriteText(text string) error {
	_, err := io.WriteString(c.W, text)
	return err
}

// DiskFiles reads and atomically writes documents on the local filesystem.
type DiskFiles struct{}

func (DiskFiles) Read(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (DiskFiles) Write(_ context.Context, path string, text string) error {
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
