// Package library holds the shading programs the show can switch between,
// keyed by name.
//
// Keys are permanent: once a key has a source it is never replaced, so a
// compiled program cached under that key always matches its source.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/richinsley/goshadervj/shader"
)

// ErrNotFound is returned for keys the library does not hold.
var ErrNotFound = errors.New("shader not found")

// BlackKey is the built-in program that draws nothing.
const BlackKey = "black"

var extensions = map[string]bool{
	".glsl": true,
	".frag": true,
	".fs":   true,
}

// Library is safe for concurrent use.
type Library struct {
	mu      sync.RWMutex
	sources map[string]string
}

func New() *Library {
	return &Library{sources: map[string]string{BlackKey: shader.BlackBody}}
}

// Add stores src under key. It reports false, leaving the library
// unchanged, if the key is taken or the source is blank.
func (l *Library) Add(key, src string) bool {
	if key == "" || strings.TrimSpace(src) == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sources[key]; ok {
		return false
	}
	l.sources[key] = src
	return true
}

// Source implements renderer.Sources.
func (l *Library) Source(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src, ok := l.sources[key]
	return src, ok
}

// Get is Source with an error for missing keys.
func (l *Library) Get(key string) (string, error) {
	if src, ok := l.Source(key); ok {
		return src, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, key)
}

// Names returns every key in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	names := make([]string, 0, len(l.sources))
	for k := range l.sources {
		names = append(names, k)
	}
	l.mu.RUnlock()
	sort.Strings(names)
	return names
}

// KeyForPath returns the library key for a shader file, or false if the
// file is not a shader.
func KeyForPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if !extensions[ext] {
		return "", false
	}
	key := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if key == "" || strings.HasPrefix(key, ".") {
		return "", false
	}
	return key, true
}

// LoadDir adds every shader file in dir and returns how many were new.
func (l *Library) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read shader directory %s: %w", dir, err)
	}
	added := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if l.loadFile(filepath.Join(dir, e.Name())) {
			added++
		}
	}
	log.Debugf("loaded %d shaders from %s", added, dir)
	return added, nil
}

func (l *Library) loadFile(path string) bool {
	key, ok := KeyForPath(path)
	if !ok {
		return false
	}
	if _, exists := l.Source(key); exists {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("failed to read shader", "path", path, "err", err)
		return false
	}
	return l.Add(key, string(data))
}

// Watch adds shader files as they appear in dir until ctx is done. Files
// whose key is already present are ignored, including edits to them.
func (l *Library) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fs watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	// catch anything created before the watch started
	if _, err := l.LoadDir(dir); err != nil {
		return err
	}

	change := fsnotify.Create | fsnotify.Write
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&change == 0 {
				continue
			}
			if l.loadFile(event.Name) {
				key, _ := KeyForPath(event.Name)
				log.Info("shader added", "key", key)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("fs watcher error", "err", err)
		case <-ctx.Done():
			return nil
		}
	}
}
