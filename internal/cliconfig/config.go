package cliconfig

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/pkg/buildship"
	"github.com/bft-labs/buildship/pkg/log"
)

// ProjectDir is one configured watch root and its artifact destination.
// Dest may be empty when the project does not publish.
type ProjectDir struct {
	Root        string
	Dest        string
	Command     string
	ArtifactDir string
	NoPublish   bool
}

// Config holds CLI configuration for buildship.
type Config struct {
	Projects []ProjectDir

	Command     string
	Shell       string
	ArtifactDir string
	NoPublish   bool
	Patterns    []string
	IgnoreDirs  []string

	Poll         bool
	PollInterval time.Duration
	Debounce     time.Duration
	BuildTimeout time.Duration

	LogLevel string

	// WatchConfig restarts with a reloaded configuration when the config file changes.
	WatchConfig bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Command:      buildship.DefaultCommand,
		Shell:        buildship.DefaultShell,
		ArtifactDir:  buildship.DefaultArtifactDir,
		Patterns:     append([]string(nil), buildship.DefaultPatterns...),
		PollInterval: buildship.DefaultPollInterval,
		Debounce:     buildship.DefaultDebounce,
		LogLevel:     "info",
	}
}

// Validate checks the configuration for errors.
// Errors match domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if len(c.Projects) == 0 {
		return fmt.Errorf("%w: no project directories configured (set --project-dirs, PROJECT_DIRS, or [[project]] in the config file)",
			domain.ErrInvalidConfig)
	}
	for _, p := range c.Projects {
		if !filepath.IsAbs(p.Root) {
			return fmt.Errorf("%w: watch root %q must be an absolute path", domain.ErrInvalidConfig, p.Root)
		}
		if p.Dest == "" && (c.NoPublish || p.NoPublish) {
			continue
		}
		if !filepath.IsAbs(p.Dest) {
			return fmt.Errorf("%w: destination %q for %q must be an absolute path", domain.ErrInvalidConfig, p.Dest, p.Root)
		}
	}

	if strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("%w: command is required", domain.ErrInvalidConfig)
	}
	if err := domain.NewFileFilter(c.Patterns...).Validate(); err != nil {
		return fmt.Errorf("%w: patterns: %v", domain.ErrInvalidConfig, err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	if c.BuildTimeout < 0 {
		return fmt.Errorf("%w: build timeout must not be negative", domain.ErrInvalidConfig)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", domain.ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	return nil
}

// Buildship converts c into a library configuration.
func (c Config) Buildship() buildship.Config {
	projects := make([]buildship.ProjectConfig, 0, len(c.Projects))
	for _, p := range c.Projects {
		projects = append(projects, buildship.ProjectConfig{
			WatchRoot:           p.Root,
			ArtifactDestination: p.Dest,
			Command:             p.Command,
			ArtifactDir:         p.ArtifactDir,
			SkipPublish:         p.NoPublish,
		})
	}
	debounce := c.Debounce
	if debounce == 0 {
		// The library treats zero as unset.
		debounce = -1
	}
	return buildship.Config{
		Projects:     projects,
		Command:      c.Command,
		Shell:        c.Shell,
		ArtifactDir:  c.ArtifactDir,
		SkipPublish:  c.NoPublish,
		Patterns:     c.Patterns,
		IgnoreDirs:   c.IgnoreDirs,
		Poll:         c.Poll,
		PollInterval: c.PollInterval,
		Debounce:     debounce,
		BuildTimeout: c.BuildTimeout,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setProjects replaces the project list if not empty and flag not changed.
func (s *configSetter) setProjects(flag string, value []ProjectDir, dst *[]ProjectDir) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]ProjectDir(nil), value...)
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
