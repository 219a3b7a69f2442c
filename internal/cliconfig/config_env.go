package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "BUILDSHIP_"

// LegacyProjectDirsEnv is the unprefixed project list variable, used when
// BUILDSHIP_PROJECT_DIRS is unset.
const LegacyProjectDirsEnv = "PROJECT_DIRS"

// ApplyEnvConfig applies BUILDSHIP_* environment variables to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	projectDirs := os.Getenv(EnvPrefix + "PROJECT_DIRS")
	if projectDirs == "" {
		projectDirs = os.Getenv(LegacyProjectDirsEnv)
	}
	projects, err := ParseProjectDirs(projectDirs)
	if err != nil {
		return err
	}
	s.setProjects("project-dirs", projects, &cfg.Projects)

	s.setString("command", os.Getenv(EnvPrefix+"COMMAND"), &cfg.Command)
	s.setString("shell", os.Getenv(EnvPrefix+"SHELL"), &cfg.Shell)
	s.setString("artifact-dir", os.Getenv(EnvPrefix+"ARTIFACT_DIR"), &cfg.ArtifactDir)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)
	s.setStrings("patterns", splitList(os.Getenv(EnvPrefix+"PATTERNS")), &cfg.Patterns)
	s.setStrings("ignore-dirs", splitList(os.Getenv(EnvPrefix+"IGNORE_DIRS")), &cfg.IgnoreDirs)

	if err := s.setDuration("poll-interval", os.Getenv(EnvPrefix+"POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv(EnvPrefix+"DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("build-timeout", os.Getenv(EnvPrefix+"BUILD_TIMEOUT"), &cfg.BuildTimeout); err != nil {
		return err
	}

	s.setBoolFromString("no-publish", os.Getenv(EnvPrefix+"NO_PUBLISH"), &cfg.NoPublish)
	s.setBoolFromString("poll", os.Getenv(EnvPrefix+"POLL"), &cfg.Poll)
	s.setBoolFromString("watch-config", os.Getenv(EnvPrefix+"WATCH_CONFIG"), &cfg.WatchConfig)

	return nil
}
