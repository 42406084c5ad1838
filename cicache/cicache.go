// Package cicache remembers which end-to-end tests already passed in the
// current CI job so that a retried job only re-runs what failed.
package cicache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
)

// Marker is the payload of a completion marker file.
type Marker struct {
	Test        string    `toml:"test"`
	CompletedAt time.Time `toml:"completed_at"`
	Backend     string    `toml:"backend"`
}

type Cache struct {
	dir     string
	ci      bool
	backend config.Backend
}

// New returns a cache keeping markers in dir. Outside CI the cache never
// reports a test as complete and never writes.
func New(dir string, ci bool) *Cache {
	return &Cache{dir: dir, ci: ci, backend: config.DefaultBackend}
}

func FromConfig(cfg *config.Config) *Cache {
	c := New(cfg.MarkerDir, cfg.IsCI())
	c.backend = cfg.SelectedBackend()
	return c
}

func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) Enabled() bool {
	return c.ci
}

// SanitizeName replaces every rune outside [A-Za-z0-9._-] with '_'. Empty and
// dot-only results get a '_' prefix so they never name the directory itself or
// its parent.
func SanitizeName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, name)
	if strings.Trim(safe, ".") == "" {
		return "_" + safe
	}
	return safe
}

func (c *Cache) markerPath(name string) string {
	return filepath.Join(c.dir, SanitizeName(name))
}

// IsComplete reports whether name was marked complete in this CI job.
func (c *Cache) IsComplete(name string) bool {
	if !c.ci {
		return false
	}
	_, err := os.Stat(c.markerPath(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Debugf("stat marker for %q: %v", name, err)
	}
	return err == nil
}

// MarkComplete records name as passed. It is a no-op outside CI.
func (c *Cache) MarkComplete(name string) error {
	if !c.ci {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create marker dir %s: %w", c.dir, err)
	}
	data, err := toml.Marshal(Marker{
		Test:        name,
		CompletedAt: time.Now().UTC(),
		Backend:     c.backend.String(),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.markerPath(name), data, 0o644); err != nil {
		return fmt.Errorf("write marker for %q: %w", name, err)
	}
	return nil
}

// ReadMarker returns the payload written by MarkComplete.
func (c *Cache) ReadMarker(name string) (*Marker, error) {
	data, err := os.ReadFile(c.markerPath(name))
	if err != nil {
		return nil, err
	}
	var m Marker
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode marker for %q: %w", name, err)
	}
	return &m, nil
}

// TB is the part of testing.TB the cache needs.
type TB interface {
	Helper()
	Name() string
	Logf(format string, args ...any)
	Skipf(format string, args ...any)
	Failed() bool
	Skipped() bool
	Cleanup(func())
}

// Wrap skips t when it already passed in this CI job. Otherwise it runs fn
// and marks t complete once the test has finished without failing or
// skipping. A test that panics or calls FailNow is never marked.
func (c *Cache) Wrap(t TB, fn func()) {
	t.Helper()
	name := t.Name()
	if c.IsComplete(name) {
		t.Logf("[SKIP] %s already passed in this CI job", name)
		t.Skipf("[SKIP] %s completed in a previous attempt", name)
		return
	}

	finished := false
	t.Cleanup(func() {
		if !finished || t.Failed() || t.Skipped() {
			return
		}
		if err := c.MarkComplete(name); err != nil {
			t.Logf("mark %s complete: %v", name, err)
		}
	})
	fn()
	finished = true
}

// Run is Wrap for callers outside the testing package. It reports whether
// fn was skipped and marks name complete only when fn returns nil.
func (c *Cache) Run(name string, fn func() error) (bool, error) {
	if c.IsComplete(name) {
		log.Infof("[SKIP] %s already passed in this CI job", name)
		return true, nil
	}
	if err := fn(); err != nil {
		return false, err
	}
	return false, c.MarkComplete(name)
}
