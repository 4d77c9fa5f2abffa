package mockagent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ScriptSet holds .sse reply scripts loaded from a directory. A script's file
// stem is its trigger: the script answers any message containing the stem,
// case-insensitively. "cart.sse" answers "show my cart".
//
// The set is safe for concurrent use; Watch reloads it when files change.
type ScriptSet struct {
	dir string
	log *slog.Logger

	mu      sync.RWMutex
	scripts map[string]string
}

// NewScriptSet creates a script set for the given directory. Call Load to
// read the scripts.
func NewScriptSet(dir string, log *slog.Logger) *ScriptSet {
	return &ScriptSet{
		dir:     dir,
		log:     log,
		scripts: make(map[string]string),
	}
}

// Load reads every .sse file in the directory, replacing the current set.
func (s *ScriptSet) Load() error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.sse"))
	if err != nil {
		return fmt.Errorf("globbing scripts: %w", err)
	}

	scripts := make(map[string]string, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading script %s: %w", path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".sse")
		scripts[strings.ToLower(stem)] = string(data)
	}

	s.mu.Lock()
	s.scripts = scripts
	s.mu.Unlock()

	s.log.Debug("loaded reply scripts", "dir", s.dir, "count", len(scripts))
	return nil
}

// Len returns the number of loaded scripts.
func (s *ScriptSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scripts)
}

// Match returns the script body whose trigger appears in the message.
// Longer triggers win so "cart-empty" beats "cart"; ties break
// lexicographically for determinism.
func (s *ScriptSet) Match(message string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stems := make([]string, 0, len(s.scripts))
	for stem := range s.scripts {
		stems = append(stems, stem)
	}
	sort.Slice(stems, func(i, j int) bool {
		if len(stems[i]) != len(stems[j]) {
			return len(stems[i]) > len(stems[j])
		}
		return stems[i] < stems[j]
	})

	lower := strings.ToLower(message)
	for _, stem := range stems {
		if strings.Contains(lower, stem) {
			return s.scripts[stem], true
		}
	}
	return "", false
}

// Watch reloads the set whenever a .sse file in the directory changes.
// Blocks until ctx is cancelled or the watcher fails.
func (s *ScriptSet) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating script watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watching script dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".sse" {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.log.Info("reloading reply scripts", "trigger", event.Name)
			if err := s.Load(); err != nil {
				s.log.Warn("script reload failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("script watcher error", "error", err)
		}
	}
}
