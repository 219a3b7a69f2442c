package fs

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/internal/ports"
)

// DefaultArtifactDir is the build output directory under each watch root.
const DefaultArtifactDir = "bin"

// Publisher implements ports.ArtifactPublisher by copying the artifact
// directory tree into the project's destination.
type Publisher struct {
	artifactDir string
	logger      ports.Logger
}

// NewPublisher creates a Publisher. artifactDir is the default artifact
// subdirectory, relative to each watch root; empty means DefaultArtifactDir.
func NewPublisher(artifactDir string, logger ports.Logger) *Publisher {
	if artifactDir == "" {
		artifactDir = DefaultArtifactDir
	}
	return &Publisher{artifactDir: artifactDir, logger: logger}
}

// SourceDir returns the artifact directory that will be copied for project.
func (p *Publisher) SourceDir(project domain.Project) string {
	dir := project.ArtifactDir
	if dir == "" {
		dir = p.artifactDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(project.WatchRoot, dir)
}

// Publish copies the artifact directory recursively to the destination,
// creating directories as needed and overwriting existing files.
// A missing artifact directory is an error: the build claimed success but
// produced nothing to publish.
func (p *Publisher) Publish(ctx context.Context, project domain.Project) domain.PublishOutcome {
	src := p.SourceDir(project)
	dst := filepath.Clean(project.ArtifactDestination)

	// Copying into a subtree of src would walk the copies too.
	if domain.IsUnder(src, dst) {
		return failed(0, fmt.Errorf("%w: destination %s is inside artifact directory %s", domain.ErrPublish, dst, src))
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return failed(0, fmt.Errorf("%w: artifact directory %s does not exist", domain.ErrPublish, src))
		}
		return failed(0, fmt.Errorf("%w: %v", domain.ErrPublish, err))
	}
	if !info.IsDir() {
		return failed(0, fmt.Errorf("%w: artifact path %s is not a directory", domain.ErrPublish, src))
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return failed(0, fmt.Errorf("%w: create destination: %v", domain.ErrPublish, err))
	}

	files := 0
	err = filepath.WalkDir(src, func(path string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&iofs.ModeSymlink != 0:
			if err := copySymlink(path, target); err != nil {
				return err
			}
		case d.Type().IsRegular():
			if err := copyFile(path, target); err != nil {
				return err
			}
		default:
			p.logger.Debug("skipping special file", ports.String("path", path))
			return nil
		}
		files++
		return nil
	})
	if err != nil {
		return failed(files, fmt.Errorf("%w: copy %s to %s: %v", domain.ErrPublish, src, dst, err))
	}

	p.logger.Debug("artifacts published",
		ports.String("from", src),
		ports.String("to", dst),
		ports.Int("files", files),
	)
	return domain.PublishOutcome{Success: true, Files: files}
}

func failed(files int, err error) domain.PublishOutcome {
	return domain.PublishOutcome{Files: files, Err: err}
}

// copyFile copies src over dst atomically: write to a temp file beside dst,
// then rename, so a reader never observes a half-written artifact.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		os.Remove(tmpName)
		return err
	}

	// Atomic rename
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func copySymlink(src, dst string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return os.Symlink(link, dst)
}

var _ ports.ArtifactPublisher = (*Publisher)(nil)
