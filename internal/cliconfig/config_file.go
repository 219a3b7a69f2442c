package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/buildship/internal/domain"
)

// FileProject is a [[project]] table.
type FileProject struct {
	Root        string `toml:"root"`
	Dest        string `toml:"dest"`
	Command     string `toml:"command"`
	ArtifactDir string `toml:"artifact_dir"`
	NoPublish   bool   `toml:"no_publish"`
}

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ProjectDirs  string        `toml:"project_dirs"`
	Projects     []FileProject `toml:"project"`
	Command      string        `toml:"command"`
	Shell        string        `toml:"shell"`
	ArtifactDir  string        `toml:"artifact_dir"`
	NoPublish    *bool         `toml:"no_publish"`
	Patterns     []string      `toml:"patterns"`
	IgnoreDirs   []string      `toml:"ignore_dirs"`
	Poll         *bool         `toml:"poll"`
	PollInterval string        `toml:"poll_interval"`
	Debounce     string        `toml:"debounce"`
	BuildTimeout string        `toml:"build_timeout"`
	LogLevel     string        `toml:"log_level"`
	WatchConfig  *bool         `toml:"watch_config"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.buildship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".buildship", "config.toml")
	}
	return ""
}

// projects returns the project_dirs entries followed by the [[project]] tables.
func (fc FileConfig) projects() ([]ProjectDir, error) {
	dirs, err := ParseProjectDirs(fc.ProjectDirs)
	if err != nil {
		return nil, err
	}
	for i, p := range fc.Projects {
		root := strings.TrimSpace(p.Root)
		dest := strings.TrimSpace(p.Dest)
		if root == "" {
			return nil, fmt.Errorf("%w: [[project]] %d: root is required", domain.ErrInvalidConfig, i)
		}
		dirs = append(dirs, ProjectDir{
			Root:        root,
			Dest:        dest,
			Command:     p.Command,
			ArtifactDir: p.ArtifactDir,
			NoPublish:   p.NoPublish,
		})
	}
	return dirs, nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	projects, err := fc.projects()
	if err != nil {
		return err
	}
	s.setProjects("project-dirs", projects, &cfg.Projects)

	s.setString("command", fc.Command, &cfg.Command)
	s.setString("shell", fc.Shell, &cfg.Shell)
	s.setString("artifact-dir", fc.ArtifactDir, &cfg.ArtifactDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setStrings("patterns", fc.Patterns, &cfg.Patterns)
	s.setStrings("ignore-dirs", fc.IgnoreDirs, &cfg.IgnoreDirs)

	if err := s.setDuration("poll-interval", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("build-timeout", fc.BuildTimeout, &cfg.BuildTimeout); err != nil {
		return err
	}

	s.setBool("no-publish", fc.NoPublish, &cfg.NoPublish)
	s.setBool("poll", fc.Poll, &cfg.Poll)
	s.setBool("watch-config", fc.WatchConfig, &cfg.WatchConfig)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
