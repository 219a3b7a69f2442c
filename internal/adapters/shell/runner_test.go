package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/pkg/log"
)

func newTestRunner(command string) *Runner {
	cfg := DefaultConfig()
	cfg.Command = command
	return NewRunner(cfg, log.NewNoopLogger())
}

func TestRunner_Success(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner("echo built; echo warn >&2; pwd")

	res := r.Run(context.Background(), domain.Project{WatchRoot: root}, filepath.Join(root, "a.cpp"))

	if !res.Success {
		t.Fatalf("Success = false, err = %v", res.Err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil", res.Err)
	}
	if !strings.Contains(res.Stdout, "built") {
		t.Errorf("Stdout = %q, want it to contain built", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "warn" {
		t.Errorf("Stderr = %q, want warn", res.Stderr)
	}

	// working directory is the watch root
	want, _ := filepath.EvalSymlinks(root)
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	got, _ := filepath.EvalSymlinks(lines[len(lines)-1])
	if got != want {
		t.Errorf("working dir = %s, want %s", got, want)
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	r := newTestRunner("echo partial; echo broken >&2; exit 3")

	res := r.Run(context.Background(), domain.Project{WatchRoot: t.TempDir()}, "/x.cpp")

	if res.Success {
		t.Fatal("Success = true, want false")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !errors.Is(res.Err, domain.ErrBuildFailure) {
		t.Errorf("Err = %v, want ErrBuildFailure", res.Err)
	}
	if errors.Is(res.Err, domain.ErrLaunchFailure) {
		t.Errorf("Err = %v, should not be a launch failure", res.Err)
	}
	if !strings.Contains(res.Stdout, "partial") || !strings.Contains(res.Stderr, "broken") {
		t.Errorf("output not captured: stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
}

func TestRunner_LaunchFailure(t *testing.T) {
	tests := []struct {
		name    string
		project domain.Project
		shell   string
	}{
		{"missing working directory", domain.Project{WatchRoot: "/definitely/not/here"}, ""},
		{"missing shell", domain.Project{WatchRoot: os.TempDir()}, "/no/such/shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.shell != "" {
				cfg.Shell = tt.shell
			}
			r := NewRunner(cfg, log.NewNoopLogger())

			res := r.Run(context.Background(), tt.project, "/x.cpp")

			if res.Success {
				t.Fatal("Success = true, want false")
			}
			if !errors.Is(res.Err, domain.ErrLaunchFailure) {
				t.Errorf("Err = %v, want ErrLaunchFailure", res.Err)
			}
			if !errors.Is(res.Err, domain.ErrBuildFailure) {
				t.Errorf("Err = %v, launch failures must also match ErrBuildFailure", res.Err)
			}
		})
	}
}

func TestRunner_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Command = "sleep 5"
	cfg.Timeout = 100 * time.Millisecond
	r := NewRunner(cfg, log.NewNoopLogger())

	start := time.Now()
	res := r.Run(context.Background(), domain.Project{WatchRoot: t.TempDir()}, "/x.cpp")

	if res.Success {
		t.Fatal("Success = true, want false")
	}
	if !errors.Is(res.Err, domain.ErrBuildFailure) {
		t.Errorf("Err = %v, want ErrBuildFailure", res.Err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestRunner_ProjectCommandAndPlaceholders(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner("exit 1")
	project := domain.Project{
		WatchRoot: root,
		Command:   "printf '%s|%s' {file} {root}",
	}
	trigger := filepath.Join(root, "it's here.mv")

	res := r.Run(context.Background(), project, trigger)

	if !res.Success {
		t.Fatalf("project command override not used: %v", res.Err)
	}
	want := trigger + "|" + root
	if res.Stdout != want {
		t.Errorf("Stdout = %q, want %q", res.Stdout, want)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "'plain'"},
		{"with space", "'with space'"},
		{"it's", `'it'\''s'`},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
