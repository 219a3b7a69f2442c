package cliconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/buildship/pkg/log"
)

// DefaultReloadDelay is how long WatchFile waits after the last write before
// signalling a reload.
const DefaultReloadDelay = 250 * time.Millisecond

// WatchFile signals on the returned channel whenever the file at path is
// written, created, or replaced. Bursts of writes within delay collapse into
// one signal. The parent directory is watched so editors that save by rename
// are seen. The channel is closed when ctx ends.
func WatchFile(ctx context.Context, path string, delay time.Duration, logger log.Logger) (<-chan struct{}, error) {
	if delay <= 0 {
		delay = DefaultReloadDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	name := filepath.Base(path)

	var mu sync.Mutex
	var timer *time.Timer
	var stopped bool
	fire := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		select {
		case out <- struct{}{}:
		default:
			// a reload is already pending
		}
	}

	go func() {
		defer close(out)
		defer watcher.Close()
		defer func() {
			mu.Lock()
			stopped = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(delay, fire)
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", log.Err(err))
			}
		}
	}()

	return out, nil
}
