package buildship

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/buildship/internal/domain"
)

// Default configuration values.
const (
	DefaultCommand         = "make"
	DefaultShell           = "/bin/sh"
	DefaultArtifactDir     = "bin"
	DefaultPollInterval    = time.Second
	DefaultDebounce        = 100 * time.Millisecond
	DefaultShutdownTimeout = 30 * time.Second
)

// DefaultPatterns are the file globs that trigger a rebuild when none are configured.
var DefaultPatterns = []string{"*.cpp"}

// ProjectConfig maps a watched source tree to its artifact destination.
type ProjectConfig struct {
	// WatchRoot is the absolute path of the source tree. Required.
	WatchRoot string

	// ArtifactDestination is the absolute path artifacts are copied to.
	// Required unless the project skips publishing.
	ArtifactDestination string

	// Command overrides Config.Command for this project.
	Command string

	// ArtifactDir overrides Config.ArtifactDir for this project.
	ArtifactDir string

	// SkipPublish runs the build without copying artifacts afterwards.
	SkipPublish bool
}

// Config holds configuration for a Buildship instance.
type Config struct {
	// Projects lists the watched source trees. At least one is required.
	// A later entry with the same WatchRoot replaces an earlier one.
	Projects []ProjectConfig

	// Command is the build command run in the watch root. It may reference
	// {file} (the changed path) and {root} (the watch root).
	// Default: "make"
	Command string

	// Shell runs Command as: Shell -c Command.
	// Default: "/bin/sh"
	Shell string

	// ArtifactDir is the directory under each watch root that is published.
	// Default: "bin"
	ArtifactDir string

	// SkipPublish disables artifact publishing for every project, for
	// compilers that write their output in place.
	SkipPublish bool

	// Patterns are base-name globs selecting which changed files trigger a build.
	// Default: ["*.cpp"]
	Patterns []string

	// IgnoreDirs are directory names never watched.
	// Default: .git, .hg, .svn, node_modules
	IgnoreDirs []string

	// Poll selects the polling change source instead of filesystem notifications.
	Poll bool

	// PollInterval is the polling scan interval.
	// Default: 1 second
	PollInterval time.Duration

	// Debounce collapses bursts of writes to one file. Negative disables it.
	// Default: 100 milliseconds
	Debounce time.Duration

	// BuildTimeout kills builds that run longer. Zero means no limit.
	BuildTimeout time.Duration

	// ShutdownTimeout bounds how long Stop waits for in-flight builds.
	// Default: 30 seconds
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with every default applied and no projects.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	if c.ArtifactDir == "" {
		c.ArtifactDir = DefaultArtifactDir
	}
	if len(c.Patterns) == 0 {
		c.Patterns = append([]string(nil), DefaultPatterns...)
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate checks the configuration. Errors match ErrInvalidConfig.
func (c Config) Validate() error {
	if len(c.Projects) == 0 {
		return fmt.Errorf("%w: at least one project is required", domain.ErrInvalidConfig)
	}
	for i, p := range c.Projects {
		if strings.TrimSpace(p.WatchRoot) == "" || !filepath.IsAbs(strings.TrimSpace(p.WatchRoot)) {
			return fmt.Errorf("%w: project %d: watch root %q must be an absolute path",
				domain.ErrInvalidConfig, i, p.WatchRoot)
		}
		dest := strings.TrimSpace(p.ArtifactDestination)
		if dest == "" && (c.SkipPublish || p.SkipPublish) {
			continue
		}
		if dest == "" || !filepath.IsAbs(dest) {
			return fmt.Errorf("%w: project %d: artifact destination %q must be an absolute path",
				domain.ErrInvalidConfig, i, p.ArtifactDestination)
		}
		if c.SkipPublish || p.SkipPublish {
			continue
		}
		if artifacts := c.artifactDir(p); domain.IsUnder(artifacts, filepath.Clean(dest)) {
			return fmt.Errorf("%w: project %d: artifact destination %q is inside artifact directory %q",
				domain.ErrInvalidConfig, i, dest, artifacts)
		}
	}
	if strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("%w: command is required", domain.ErrInvalidConfig)
	}
	if err := domain.NewFileFilter(c.Patterns...).Validate(); err != nil {
		return fmt.Errorf("%w: patterns: %v", domain.ErrInvalidConfig, err)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	if c.BuildTimeout < 0 {
		return fmt.Errorf("%w: build timeout must not be negative", domain.ErrInvalidConfig)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown timeout must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}

// artifactDir returns the cleaned directory published for p.
func (c Config) artifactDir(p ProjectConfig) string {
	dir := p.ArtifactDir
	if dir == "" {
		dir = c.ArtifactDir
	}
	if dir == "" {
		dir = DefaultArtifactDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(strings.TrimSpace(p.WatchRoot), dir)
}
