package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ayusman/airsketch/pkg/logger"
)

// ManifestFile is the manifest name expected in every plugin directory.
const ManifestFile = "plugin.json"

var (
	// ErrPluginNotFound is returned when a requested plugin cannot be found.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrInvalidManifest is returned for manifests that cannot be used.
	ErrInvalidManifest = errors.New("invalid plugin manifest")
)

// Manager discovers plugins below a directory and serves them by name.
type Manager struct {
	dir     string
	log     logger.Logger
	mu      sync.RWMutex
	plugins map[string]*Plugin
}

// NewManager creates a Manager for plugins installed under dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:     dir,
		log:     logger.Named("plugin"),
		plugins: make(map[string]*Plugin),
	}
}

// Discover rescans the plugin directory. Every subdirectory holding a
// plugin.json manifest is a plugin; broken ones are logged and skipped.
// The previous set stays visible to Get until the scan completes.
// A missing directory, or a path that is not one, yields an empty set.
func (m *Manager) Discover() error {
	ctx := context.Background()
	found := make(map[string]*Plugin)

	var entries []os.DirEntry
	info, err := os.Stat(m.dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("stat plugin dir: %w", err)
	case info.IsDir():
		if entries, err = os.ReadDir(m.dir); err != nil {
			return fmt.Errorf("read plugin dir: %w", err)
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := loadPlugin(filepath.Join(m.dir, entry.Name()))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			m.log.Warn(ctx, "skipping plugin", logger.String("dir", entry.Name()), logger.Error(err))
			continue
		}
		if prev, dup := found[p.Manifest.Name]; dup {
			m.log.Warn(ctx, "duplicate plugin name, keeping first",
				logger.String("name", p.Manifest.Name), logger.String("kept", prev.Path))
			continue
		}
		found[p.Manifest.Name] = p
	}

	m.mu.Lock()
	m.plugins = found
	m.mu.Unlock()

	m.log.Info(ctx, "plugins discovered", logger.String("dir", m.dir), logger.Int("count", len(found)))
	return nil
}

// loadPlugin reads the manifest in dir. It returns an error wrapping
// os.ErrNotExist when dir holds no manifest.
func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidManifest)
	}
	if manifest.Executable == "" {
		return nil, fmt.Errorf("%w: missing executable", ErrInvalidManifest)
	}

	exe := filepath.Join(dir, manifest.Executable)
	if rel, err := filepath.Rel(dir, exe); err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%w: executable %q escapes the plugin directory", ErrInvalidManifest, manifest.Executable)
	}
	info, err := os.Stat(exe)
	if err != nil {
		return nil, fmt.Errorf("%w: executable: %v", ErrInvalidManifest, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: executable %q is a directory", ErrInvalidManifest, manifest.Executable)
	}

	return &Plugin{Manifest: manifest, Path: dir, Executable: exe}, nil
}

// Get returns the plugin called name or ErrPluginNotFound.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	return p, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, p := range m.plugins {
		plugins = append(plugins, p)
	}
	m.mu.RUnlock()

	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// PluginDir returns the directory scanned by Discover.
func (m *Manager) PluginDir() string {
	return m.dir
}
