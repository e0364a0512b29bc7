// Package actions implements the editor commands on top of a host.
package actions

import (
	"log/slog"
	"time"

	"github.com/dgallion1/headingkit/internal/host"
	"github.com/dgallion1/headingkit/internal/sections"
)

// Settings are the recognized options of the editor commands.
type Settings struct {
	LevelLimit     int           // Deepest heading level navigation considers
	NoticeDuration time.Duration // How long informational notices stay up
	StrikeLinewise bool          // Strike whole lines unless a single-line selection exists
	VimMode        bool          // Adjust selections the way vim visual mode expects
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		LevelLimit:     6,
		NoticeDuration: 4 * time.Second,
		StrikeLinewise: true,
	}
}

// Runner executes commands against one host environment.
type Runner struct {
	svc      *host.Services
	settings Settings
	log      *slog.Logger
}

// NewRunner binds commands to svc.
func NewRunner(svc *host.Services, settings Settings) *Runner {
	return &Runner{svc: svc, settings: settings, log: svc.Logger()}
}

// folds returns the current fold state, or none when the host keeps no folds.
func (r *Runner) folds() ([]sections.Fold, error) {
	if r.svc.Folds == nil {
		return nil, nil
	}
	return r.svc.Folds.GetFolds()
}

// applyFolds hands folds back to the host.
func (r *Runner) applyFolds(folds []sections.Fold) error {
	if r.svc.Folds == nil {
		return nil
	}
	return r.svc.Folds.ApplyFolds(folds, r.svc.Editor.LineCount())
}

// reportInternal surfaces an invariant violation. The document may already
// be modified; nothing is rolled back.
func (r *Runner) reportInternal(op string, err error) {
	r.log.Error("internal invariant violated", "op", op, "error", err)
	r.svc.Notify(0, "ERROR("+op+"): "+err.Error())
}
