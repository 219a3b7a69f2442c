package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/internal/ports"
)

// SourceConfig configures the change sources.
type SourceConfig struct {
	// Filter selects which files produce events.
	Filter domain.FileFilter

	// Debounce collapses repeated writes to one path into a single event.
	// Default: 100 milliseconds. Negative disables debouncing.
	Debounce time.Duration

	// PollInterval is the scan interval of the polling source.
	// Default: 1 second
	PollInterval time.Duration

	// IgnoreDirs are directory names that are never watched.
	// Default: DefaultIgnoreDirs
	IgnoreDirs []string

	// RetryInitial and RetryMax bound the backoff used while a watch root
	// does not exist yet.
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// DefaultSourceConfig returns a SourceConfig with sensible defaults.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Debounce:     100 * time.Millisecond,
		PollInterval: time.Second,
		IgnoreDirs:   DefaultIgnoreDirs,
		RetryInitial: DefaultBackoffInitial,
		RetryMax:     DefaultBackoffMax,
	}
}

func (c SourceConfig) withDefaults() SourceConfig {
	def := DefaultSourceConfig()
	if c.Debounce == 0 {
		c.Debounce = def.Debounce
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.IgnoreDirs == nil {
		c.IgnoreDirs = def.IgnoreDirs
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = def.RetryInitial
	}
	if c.RetryMax <= 0 {
		c.RetryMax = def.RetryMax
	}
	return c
}

// NotifySource implements ports.ChangeSource with fsnotify.
// Every directory below each root is watched; directories created later are
// added as they appear.
type NotifySource struct {
	cfg    SourceConfig
	logger ports.Logger
}

// NewNotifySource creates a NotifySource.
func NewNotifySource(cfg SourceConfig, logger ports.Logger) *NotifySource {
	return &NotifySource{cfg: cfg.withDefaults(), logger: logger}
}

// Watch starts watching roots. Roots that do not exist yet are retried with
// exponential backoff until they appear or ctx ends.
func (s *NotifySource) Watch(ctx context.Context, roots []string) (<-chan domain.ChangeEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	n := newNotifier(ctx, s.cfg, s.logger, watcher)

	for _, root := range roots {
		if err := n.addTree(root); err != nil {
			s.logger.Warn("watch root unavailable, retrying",
				ports.String("root", root),
				ports.Err(err))
			n.retry(root)
			continue
		}
		s.logger.Info("watching", ports.String("root", root))
	}

	go n.run(ctx)
	return n.out, nil
}

type notifier struct {
	cfg     SourceConfig
	logger  ports.Logger
	watcher *fsnotify.Watcher
	ignore  map[string]bool

	// pending maps a path to the time of its latest write. Only touched by run.
	pending map[string]time.Time
	out     chan domain.ChangeEvent

	// retryCtx ends when run returns, so no retry outlives the watcher.
	retryCtx     context.Context
	stopRetrying context.CancelFunc
	retries      sync.WaitGroup
}

func newNotifier(ctx context.Context, cfg SourceConfig, logger ports.Logger, watcher *fsnotify.Watcher) *notifier {
	retryCtx, stopRetrying := context.WithCancel(ctx)
	return &notifier{
		cfg:          cfg,
		logger:       logger,
		watcher:      watcher,
		ignore:       ignoreSet(cfg.IgnoreDirs),
		pending:      make(map[string]time.Time),
		out:          make(chan domain.ChangeEvent, 64),
		retryCtx:     retryCtx,
		stopRetrying: stopRetrying,
	}
}

// addTree watches root and every directory beneath it.
func (n *notifier) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}
	return walkTree(root, n.ignore, func(path string, d iofs.DirEntry) error {
		if !d.IsDir() {
			return nil
		}
		if err := n.watcher.Add(path); err != nil {
			if path == root {
				return err
			}
			n.logger.Warn("watch add failed",
				ports.String("path", path),
				ports.Err(err))
		}
		return nil
	})
}

func (n *notifier) retry(root string) {
	n.retries.Add(1)
	go func() {
		defer n.retries.Done()
		b := newBackoff(n.cfg.RetryInitial, n.cfg.RetryMax)
		for b.Wait(n.retryCtx) {
			err := n.addTree(root)
			if err == nil {
				n.logger.Info("watching", ports.String("root", root))
				return
			}
			n.logger.Debug("watch root still unavailable",
				ports.String("root", root),
				ports.Duration("next_retry", b.Current()),
				ports.Err(err))
		}
	}()
}

func (n *notifier) run(ctx context.Context) {
	defer close(n.out)
	defer n.watcher.Close()
	defer n.retries.Wait()
	defer n.stopRetrying()

	var tick <-chan time.Time
	if n.cfg.Debounce > 0 {
		interval := n.cfg.Debounce / 2
		if interval < 5*time.Millisecond {
			interval = 5 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			n.handle(ctx, event)

		case now := <-tick:
			n.flush(ctx, now)

		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			n.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (n *notifier) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// already gone
		return
	}
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !n.ignore[info.Name()] {
			if err := n.addTree(event.Name); err != nil {
				n.logger.Warn("watch add failed",
					ports.String("path", event.Name),
					ports.Err(err))
			}
		}
		return
	}
	if !n.cfg.Filter.Match(event.Name) {
		return
	}

	if n.cfg.Debounce <= 0 {
		n.emit(ctx, event.Name, time.Now())
		return
	}
	n.pending[event.Name] = time.Now()
}

// flush emits every pending path that has been quiet for the debounce window.
func (n *notifier) flush(ctx context.Context, now time.Time) {
	if len(n.pending) == 0 {
		return
	}
	ready := make([]string, 0, len(n.pending))
	for path, seen := range n.pending {
		if now.Sub(seen) >= n.cfg.Debounce {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	for _, path := range ready {
		delete(n.pending, path)
		n.emit(ctx, path, now)
	}
}

func (n *notifier) emit(ctx context.Context, path string, at time.Time) {
	select {
	case n.out <- domain.ChangeEvent{Path: path, Time: at}:
	case <-ctx.Done():
	}
}

var _ ports.ChangeSource = (*NotifySource)(nil)
