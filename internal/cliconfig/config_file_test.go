package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/buildship/internal/domain"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				ProjectDirs: "/proj1->/dest1",
				Projects: []FileProject{
					{Root: "/proj2", Dest: "/dest2", Command: "ninja", ArtifactDir: "out"},
				},
				Command:      "make all",
				Shell:        "/bin/bash",
				ArtifactDir:  "build",
				Patterns:     []string{"*.c", "*.h"},
				IgnoreDirs:   []string{"vendor"},
				Poll:         &trueVal,
				PollInterval: "3s",
				Debounce:     "250ms",
				BuildTimeout: "5m",
				LogLevel:     "warn",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Projects: []ProjectDir{
					{Root: "/proj1", Dest: "/dest1"},
					{Root: "/proj2", Dest: "/dest2", Command: "ninja", ArtifactDir: "out"},
				},
				Command:      "make all",
				Shell:        "/bin/bash",
				ArtifactDir:  "build",
				Patterns:     []string{"*.c", "*.h"},
				IgnoreDirs:   []string{"vendor"},
				Poll:         true,
				PollInterval: 3 * time.Second,
				Debounce:     250 * time.Millisecond,
				BuildTimeout: 5 * time.Minute,
				LogLevel:     "warn",
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				ProjectDirs: "/file->/file-dest",
				Command:     "file-command",
			},
			changed: map[string]bool{"project-dirs": true},
			initial: Config{
				Projects: []ProjectDir{{Root: "/flag", Dest: "/flag-dest"}},
				Command:  "flag-command",
			},
			expected: Config{
				Projects: []ProjectDir{{Root: "/flag", Dest: "/flag-dest"}}, // unchanged because flag was set
				Command:  "file-command",
			},
		},
		{
			name:       "malformed project dirs",
			fileConfig: FileConfig{ProjectDirs: "/proj1->/dest1->/dest2"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
		{
			name:       "project table without root",
			fileConfig: FileConfig{Projects: []FileProject{{Dest: "/dest1"}}},
			changed:    map[string]bool{},
			wantErr:    true,
		},
		{
			name: "compile-only projects",
			fileConfig: FileConfig{
				ProjectDirs: "/scripts",
				Projects:    []FileProject{{Root: "/wwwroot", NoPublish: true}},
				NoPublish:   &trueVal,
			},
			changed: map[string]bool{},
			expected: Config{
				Projects: []ProjectDir{
					{Root: "/scripts"},
					{Root: "/wwwroot", NoPublish: true},
				},
				NoPublish: true,
			},
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{Debounce: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr {
				assertConfig(t, cfg, tt.expected)
			}
		})
	}
}

func TestApplyFileConfig_ProjectErrorsAreInvalidConfig(t *testing.T) {
	cfg := Config{}
	err := ApplyFileConfig(&cfg, FileConfig{ProjectDirs: "->/dest-only"}, map[string]bool{})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("ApplyFileConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
project_dirs = "/proj1->/dest1"
command = "make -j4"
patterns = ["*.cpp", "*.hpp"]
poll = true
poll_interval = "2s"

[[project]]
root = "/proj2"
dest = "/dest2"
command = "mvc -B /builtins {file}"
artifact_dir = "/proj2/out"

[[project]]
root = "/wwwroot"
no_publish = true
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.ProjectDirs != "/proj1->/dest1" {
		t.Errorf("ProjectDirs = %v, want /proj1->/dest1", fc.ProjectDirs)
	}
	if fc.Command != "make -j4" {
		t.Errorf("Command = %v, want make -j4", fc.Command)
	}
	if len(fc.Patterns) != 2 || fc.Patterns[1] != "*.hpp" {
		t.Errorf("Patterns = %v, want [*.cpp *.hpp]", fc.Patterns)
	}
	if fc.Poll == nil || *fc.Poll != true {
		t.Errorf("Poll = %v, want true", fc.Poll)
	}
	if fc.PollInterval != "2s" {
		t.Errorf("PollInterval = %v, want 2s", fc.PollInterval)
	}
	if len(fc.Projects) != 2 {
		t.Fatalf("Projects = %+v, want 2 tables", fc.Projects)
	}
	if w := fc.Projects[1]; w.Root != "/wwwroot" || w.Dest != "" || !w.NoPublish {
		t.Errorf("Projects[1] = %+v, want compile-only /wwwroot", w)
	}
	p := fc.Projects[0]
	if p.Root != "/proj2" || p.Dest != "/dest2" || p.Command != "mvc -B /builtins {file}" || p.ArtifactDir != "/proj2/out" {
		t.Errorf("Projects[0] = %+v", p)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
command = "make"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".buildship") {
		t.Errorf("DefaultConfigPath() = %v, should contain .buildship", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}

func TestApplyFileConfig_WatchConfig(t *testing.T) {
	trueVal := true

	cfg := Config{}
	if err := ApplyFileConfig(&cfg, FileConfig{WatchConfig: &trueVal}, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if !cfg.WatchConfig {
		t.Error("WatchConfig = false, want true")
	}

	cfg = Config{}
	if err := ApplyFileConfig(&cfg, FileConfig{WatchConfig: &trueVal}, map[string]bool{"watch-config": true}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.WatchConfig {
		t.Error("WatchConfig = true, want flag value false")
	}
}
