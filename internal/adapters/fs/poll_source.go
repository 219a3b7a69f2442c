package fs

import (
	"context"
	iofs "io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/internal/ports"
)

// PollSource implements ports.ChangeSource by periodically scanning the
// watch roots and comparing modification times and sizes.
type PollSource struct {
	cfg    SourceConfig
	logger ports.Logger
}

// NewPollSource creates a PollSource.
func NewPollSource(cfg SourceConfig, logger ports.Logger) *PollSource {
	return &PollSource{cfg: cfg.withDefaults(), logger: logger}
}

type stamp struct {
	mod  time.Time
	size int64
}

// snapshot is the result of one scan.
type snapshot struct {
	files map[string]stamp
	roots map[string]bool // roots that could be read
}

// Watch takes a baseline scan and then emits an event for every qualifying
// file that is created or modified. Files present when a root is first seen
// never produce events.
func (s *PollSource) Watch(ctx context.Context, roots []string) (<-chan domain.ChangeEvent, error) {
	out := make(chan domain.ChangeEvent, 64)
	ignore := ignoreSet(s.cfg.IgnoreDirs)
	prev := s.scan(roots, ignore)

	for _, root := range roots {
		if prev.roots[root] {
			s.logger.Info("polling", ports.String("root", root), ports.Duration("interval", s.cfg.PollInterval))
		} else {
			s.logger.Warn("watch root unavailable, will keep polling", ports.String("root", root))
		}
	}

	go func() {
		defer close(out)
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				cur := s.scan(roots, ignore)
				for _, path := range changed(prev, cur) {
					select {
					case out <- domain.ChangeEvent{Path: path, Time: now}:
					case <-ctx.Done():
						return
					}
				}
				prev = cur
			}
		}
	}()

	return out, nil
}

func (s *PollSource) scan(roots []string, ignore map[string]bool) snapshot {
	snap := snapshot{
		files: make(map[string]stamp),
		roots: make(map[string]bool, len(roots)),
	}
	for _, root := range roots {
		err := walkTree(root, ignore, func(path string, d iofs.DirEntry) error {
			if d.IsDir() || !s.cfg.Filter.Match(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			snap.files[path] = stamp{mod: info.ModTime(), size: info.Size()}
			return nil
		})
		snap.roots[root] = err == nil
	}
	return snap
}

// changed lists files in cur that are new or modified relative to prev,
// restricted to roots that were readable in both scans.
func changed(prev, cur snapshot) []string {
	var out []string
	for path, st := range cur.files {
		if !knownRoot(prev, cur, path) {
			continue
		}
		if old, ok := prev.files[path]; ok && old.size == st.size && old.mod.Equal(st.mod) {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func knownRoot(prev, cur snapshot, path string) bool {
	for root, ok := range prev.roots {
		if ok && cur.roots[root] && domain.IsUnder(filepath.Clean(root), path) {
			return true
		}
	}
	return false
}
