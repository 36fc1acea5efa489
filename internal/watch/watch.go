// Package watch reruns the build whenever a corpus file changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/fsnotify/fsnotify"
	"github.com/mdforge/mdforge/internal/project"
)

// Run watches the project tree and calls rebuild after each debounced
// burst of changes. It blocks until ctx is canceled. Events for generated
// files (combined doc, TOC, diagram dirs) are ignored, otherwise every
// build would trigger the next one.
func Run(ctx context.Context, conf project.Config, rebuild func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, conf); err != nil {
		return err
	}
	debounce := time.Duration(conf.Watch.DebounceMS) * time.Millisecond
	ancli.Okf("watching '%v' for changes\n", conf.Root)

	// The timer starts drained, a change arms it
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isGenerated(conf, event.Name) {
				continue
			}
			// Atomic saves show up as Create/Rename of a new inode,
			// re-add so subsequent writes keep being seen
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if !relevant(event.Name) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ancli.PrintWarn(fmt.Sprintf("watch error: %v\n", err))
		case <-timer.C:
			if err := rebuild(); err != nil {
				ancli.PrintErr(fmt.Sprintf("rebuild failed: %v\n", err))
			} else {
				ancli.Okf("rebuilt: '%v'\n", conf.Output)
			}
		}
	}
}

// addDirs registers the root and every non-ignored subdirectory.
// fsnotify watches are not recursive.
func addDirs(watcher *fsnotify.Watcher, conf project.Config) error {
	skip := make(map[string]struct{}, len(conf.Ignore.Dirs))
	for _, d := range conf.Ignore.Dirs {
		skip[d] = struct{}{}
	}
	return filepath.WalkDir(conf.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, ignored := skip[d.Name()]; ignored && path != conf.Root {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch '%v': %w", path, err)
		}
		return nil
	})
}

func isGenerated(conf project.Config, path string) bool {
	generated := []string{conf.OutputPath(), conf.TOCPath()}
	for _, g := range generated {
		if path == g || strings.HasPrefix(path, g+".tmp-") {
			return true
		}
	}
	for _, profile := range conf.PDF {
		dir := filepath.Join(conf.Root, profile.DiagramDir)
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant filters the event stream down to markdown + config changes.
func relevant(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".md") || base == project.ConfigFileName
}
