package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// progress tracks the start time of an operation and logs completion with
// elapsed duration. It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// defaultSessionDir returns the per-user session directory for the file
// store, falling back to a relative directory when no config dir exists.
func defaultSessionDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".blockgrid/sessions"
	}
	return filepath.Join(base, appName, "sessions")
}
