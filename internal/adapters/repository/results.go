package repository

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/fantrip/internal/domain/model"
	"github.com/okian/fantrip/internal/domain/planner"
	"github.com/okian/fantrip/pkg/metrics"
)

// Default permissions.
const (
	defaultFileMode fs.FileMode = 0o644
	defaultDirMode  fs.FileMode = 0o755
)

// TeamDir is the directory name of a team's results: the lower-cased name
// with spaces and path separators replaced by underscores.
func TeamDir(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// ResultWriter writes one directory of itinerary files per team.
type ResultWriter struct {
	root     string
	fileMode fs.FileMode
	dirMode  fs.FileMode
}

// NewResultWriter creates a writer rooted at dir. The directory is created
// when missing.
func NewResultWriter(dir string, opts ...Option) (*ResultWriter, error) {
	w := &ResultWriter{root: dir, fileMode: defaultFileMode, dirMode: defaultDirMode}
	for _, opt := range opts {
		opt(w)
	}
	if err := os.MkdirAll(dir, w.dirMode); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return w, nil
}

// Root returns the output directory.
func (w *ResultWriter) Root() string { return w.root }

// Path returns the result file of a team and measure.
func (w *ResultWriter) Path(teamName string, m model.Measure) string {
	return filepath.Join(w.root, TeamDir(teamName), m.FileName())
}

// Save writes the three itinerary files of a plan. All files are staged
// before any is renamed into place, so a plan missing a measure leaves no
// files behind.
func (w *ResultWriter) Save(ctx context.Context, plan *planner.TeamPlan) error {
	for _, m := range model.Measures {
		if _, ok := plan.Itineraries[m]; !ok {
			return fmt.Errorf("%w: team %s has no %s itinerary", ErrIncomplete, plan.Team.ID, m)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(w.root, TeamDir(plan.Team.Name))
	if err := os.MkdirAll(dir, w.dirMode); err != nil {
		return fmt.Errorf("create team directory: %w", err)
	}

	staged := make(map[string]string, len(model.Measures))
	defer func() {
		for tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()
	for _, m := range model.Measures {
		tmp, err := w.stage(dir, m, plan.Itineraries[m].Format())
		if err != nil {
			metrics.RecordErrorByComponent("results", "write")
			return err
		}
		staged[tmp] = filepath.Join(dir, m.FileName())
	}
	for tmp, final := range staged {
		if err := os.Rename(tmp, final); err != nil {
			metrics.RecordErrorByComponent("results", "rename")
			return fmt.Errorf("publish %s: %w", final, err)
		}
		delete(staged, tmp)
	}
	return nil
}

func (w *ResultWriter) stage(dir string, m model.Measure, content string) (string, error) {
	f, err := os.CreateTemp(dir, "."+string(m)+"-*")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", m, err)
	}
	name := f.Name()
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("write %s: %w", m, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("sync %s: %w", m, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close %s: %w", m, err)
	}
	if err := os.Chmod(name, w.fileMode); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("chmod %s: %w", m, err)
	}
	return name, nil
}
