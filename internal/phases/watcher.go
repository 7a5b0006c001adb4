package phases

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ShayCichocki/breathcheck/internal/sequencer"
)

// reloadDebounce absorbs the burst of events editors emit for one save.
const reloadDebounce = 150 * time.Millisecond

// Watch reloads the script at path whenever it changes and hands the result to
// onChange. Parse errors are passed through so the caller can keep the previous
// script. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, since most
// editors save by renaming a temp file over the original.
func Watch(ctx context.Context, path string, onChange func([]sequencer.Phase, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload = time.After(reloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[phases] watcher error: %v", err)
		case <-reload:
			reload = nil
			phases, err := LoadFile(abs)
			if err != nil {
				log.Printf("[phases] reload of %s failed: %v", abs, err)
			} else {
				log.Printf("[phases] reloaded %s: %d phases", abs, len(phases))
			}
			onChange(phases, err)
		}
	}
}
