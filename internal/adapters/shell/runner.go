// Package shell runs project build commands through a system shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/bft-labs/buildship/internal/domain"
	"github.com/bft-labs/buildship/internal/ports"
)

// Placeholders substituted into build commands before execution.
const (
	FilePlaceholder = "{file}"
	RootPlaceholder = "{root}"
)

// waitDelay bounds how long Wait blocks on output pipes after the build is killed.
const waitDelay = 2 * time.Second

// Config configures the build runner.
type Config struct {
	// Command is the default build command, used when a project has no override.
	// It may reference {file} and {root}.
	Command string

	// Shell and ShellArgs launch the command: Shell ShellArgs... Command.
	Shell     string
	ShellArgs []string

	// Timeout bounds each build. Zero disables the limit.
	Timeout time.Duration
}

// DefaultConfig returns a Config that runs make through /bin/sh.
func DefaultConfig() Config {
	return Config{
		Command:   "make",
		Shell:     "/bin/sh",
		ShellArgs: []string{"-c"},
	}
}

// Runner implements ports.BuildRunner using os/exec.
type Runner struct {
	cfg    Config
	logger ports.Logger
}

// NewRunner creates a Runner. Empty Shell and Command fall back to defaults.
func NewRunner(cfg Config, logger ports.Logger) *Runner {
	def := DefaultConfig()
	if cfg.Shell == "" {
		cfg.Shell = def.Shell
		cfg.ShellArgs = def.ShellArgs
	}
	if cfg.Command == "" {
		cfg.Command = def.Command
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the project's build command in its watch root and waits for it.
// Exit status 0 is success. A non-zero exit wraps domain.ErrBuildFailure; a
// command that cannot be started wraps domain.ErrLaunchFailure.
func (r *Runner) Run(ctx context.Context, project domain.Project, trigger string) domain.BuildResult {
	result := domain.BuildResult{Project: project, ExitCode: -1}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	command := r.commandFor(project, trigger)
	args := append(append([]string{}, r.cfg.ShellArgs...), command)

	cmd := osexec.CommandContext(ctx, r.cfg.Shell, args...)
	cmd.Dir = project.WatchRoot
	cmd.WaitDelay = waitDelay
	isolate(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running build",
		ports.String("project", project.WatchRoot),
		ports.String("command", command),
		ports.String("trigger", trigger),
	)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		result.Duration = time.Since(start)
		result.Err = fmt.Errorf("%w: %s: %v", domain.ErrLaunchFailure, command, err)
		return result
	}
	err := cmd.Wait()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err == nil {
		result.Success = true
		result.ExitCode = 0
		return result
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Err = fmt.Errorf("%w: %s: %v", domain.ErrBuildFailure, command, ctxErr)
		return result
	}
	result.Err = fmt.Errorf("%w: %s: exit status %d", domain.ErrBuildFailure, command, result.ExitCode)
	return result
}

// commandFor returns the project's command with placeholders expanded.
func (r *Runner) commandFor(project domain.Project, trigger string) string {
	command := project.Command
	if command == "" {
		command = r.cfg.Command
	}
	return strings.NewReplacer(
		FilePlaceholder, Quote(trigger),
		RootPlaceholder, Quote(project.WatchRoot),
	).Replace(command)
}

// Quote wraps s in single quotes for POSIX shells.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var _ ports.BuildRunner = (*Runner)(nil)
