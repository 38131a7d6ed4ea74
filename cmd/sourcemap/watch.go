package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/MadAppGang/sourcemap/internal/config"
	"github.com/MadAppGang/sourcemap/internal/logging"
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCommand(cfg *config.Config, logger logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-validate each *.map file under dir when it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
			w, err := newMapWatcher(args[0], debounce, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			logger.Infof("watching %s for *.map changes (debounce %s)", args[0], debounce)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
}

// mapWatcher re-validates changed *.map files, debounced so a burst of
// writes from one save only triggers one re-check.
type mapWatcher struct {
	watcher *fsnotify.Watcher
	logger  logging.Logger

	mu           sync.Mutex
	pending      map[string]bool
	debounceDur  time.Duration
	debounceTime *time.Timer
	done         chan struct{}
	closed       bool
}

func newMapWatcher(root string, debounce time.Duration, logger logging.Logger) (*mapWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &mapWatcher{
		watcher:     fsw,
		logger:      logger,
		pending:     make(map[string]bool),
		debounceDur: debounce,
		done:        make(chan struct{}),
	}

	if err := w.watchRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.loop()
	return w, nil
}

func (w *mapWatcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warnf("failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
}

func shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	switch base {
	case "node_modules", "vendor", ".git", "dist", "build":
		return true
	}
	return strings.HasPrefix(base, ".") && base != "."
}

func (w *mapWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".map") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *mapWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.debounceTime != nil {
		w.debounceTime.Stop()
	}
	w.debounceTime = time.AfterFunc(w.debounceDur, w.flush)
}

func (w *mapWatcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	for _, path := range paths {
		w.revalidate(path)
	}
}

func (w *mapWatcher) revalidate(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warnf("%s: %v", path, err)
		return
	}
	sm, err := sourcemap.Decode(data)
	if err != nil {
		w.logger.Errorf("%s: invalid: %v", path, err)
		return
	}
	w.logger.Infof("%s: ok (%d tokens, %d sources)", path, sm.LenTokens(), sm.LenSources())
}

func (w *mapWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.watcher.Close()
}
