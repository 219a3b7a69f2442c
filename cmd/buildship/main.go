package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/buildship/internal/cliconfig"
	"github.com/bft-labs/buildship/pkg/buildship"
	"github.com/bft-labs/buildship/pkg/log"
)

const helpDescription = `
Rebuild and redeploy your projects every time you save a source file.

Highlights:
  - Watches any number of source trees, each mapped to a deploy directory.
  - Runs the project's build (make by default) in the tree that changed.
  - Copies the build output (bin/ by default) to the destination on success.
  - Never runs two builds of one project at once; bursts of saves collapse
    into a single rebuild.
  - Configure via file, env, or flags; PROJECT_DIRS="root->dest|root->dest".
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  buildship --project-dirs '/src/engine->/srv/engine|/src/tools->/srv/tools'
  PROJECT_DIRS='/src/engine->/srv/engine' buildship --poll
  buildship --config $HOME/.buildship/config.toml --watch-config --log-level debug
  buildship --project-dirs /srv/scripts --no-publish --patterns '*.mv' --command 'mvc -B /builtins {file}'
`)

// errReload asks the run loop to restart with a fresh configuration.
var errReload = errors.New("config changed")

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var projectDirs string

	logger := cliconfig.Logger(cfg.LogLevel)

	root := &cobra.Command{
		Use:     "buildship",
		Short:   "Rebuild and redeploy projects when their source files change",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		// Errors are logged once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgPath != "" && !cliconfig.FileExists(cfgPath) {
				return fmt.Errorf("load config: %s does not exist", cfgPath)
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// Flag values and defaults; file and env are layered on each load.
			flagCfg := cfg
			load := func() (cliconfig.Config, error) {
				c := flagCfg
				if changed["project-dirs"] {
					dirs, err := cliconfig.ParseProjectDirs(projectDirs)
					if err != nil {
						return c, err
					}
					c.Projects = dirs
				}
				if cfgFile != "" && cliconfig.FileExists(cfgFile) {
					fc, err := cliconfig.LoadFileConfig(cfgFile)
					if err != nil {
						return c, fmt.Errorf("load config: %w", err)
					}
					if err := cliconfig.ApplyFileConfig(&c, fc, changed); err != nil {
						return c, err
					}
				}
				// Environment overrides the file; flags override both.
				if err := cliconfig.ApplyEnvConfig(&c, changed); err != nil {
					return c, err
				}
				if err := c.Validate(); err != nil {
					return c, err
				}
				return c, nil
			}

			current, err := load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			var reloads <-chan struct{}
			if current.WatchConfig && cfgFile != "" {
				reloads, err = cliconfig.WatchFile(ctx, cfgFile, cliconfig.DefaultReloadDelay,
					log.NewZerologAdapterWithLogger(logger))
				if err != nil {
					return err
				}
			}

			for {
				logger = cliconfig.Logger(current.LogLevel)
				err := run(ctx, current, logger, sigCh, reloads)
				if !errors.Is(err, errReload) {
					return err
				}

				next, loadErr := load()
				if loadErr != nil {
					logger.Error().Err(loadErr).Msg("config reload failed, keeping current configuration")
					continue
				}
				logger.Info().Str("path", cfgFile).Msg("configuration reloaded")
				current = next
			}
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.buildship/config.toml)")
	root.Flags().StringVar(&projectDirs, "project-dirs", "", `projects to watch as "root->dest|root->dest"`)

	root.Flags().StringVar(&cfg.Command, "command", cfg.Command, "build command run in the watch root; may use {file} and {root}")
	root.Flags().StringVar(&cfg.Shell, "shell", cfg.Shell, "shell used to run the build command")
	root.Flags().StringVar(&cfg.ArtifactDir, "artifact-dir", cfg.ArtifactDir, "build output directory, relative to the watch root, copied to the destination")
	root.Flags().BoolVar(&cfg.NoPublish, "no-publish", cfg.NoPublish, "only run the build; copy nothing (destinations become optional)")
	root.Flags().StringSliceVar(&cfg.Patterns, "patterns", cfg.Patterns, "file name globs that trigger a build")
	root.Flags().StringSliceVar(&cfg.IgnoreDirs, "ignore-dirs", cfg.IgnoreDirs, "directory names never watched (default: .git,.hg,.svn,node_modules)")

	root.Flags().BoolVar(&cfg.Poll, "poll", cfg.Poll, "poll the filesystem instead of using change notifications")
	root.Flags().DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "scan interval when polling")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "collapse repeated writes to one file within this window (0 disables)")
	root.Flags().DurationVar(&cfg.BuildTimeout, "build-timeout", cfg.BuildTimeout, "kill builds that run longer (0 = no limit)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().BoolVar(&cfg.WatchConfig, "watch-config", cfg.WatchConfig, "restart with the new configuration when the config file changes")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("buildship")
		os.Exit(1)
	}
}

// run starts one buildship instance for cfg and blocks until a signal,
// a crash, or a config reload. Returns errReload for the latter.
func run(ctx context.Context, cfg cliconfig.Config, logger zerolog.Logger, sigCh <-chan os.Signal, reloads <-chan struct{}) error {
	logger.Info().
		Str("project_dirs", cliconfig.FormatProjectDirs(cfg.Projects)).
		Str("command", cfg.Command).
		Str("artifact_dir", cfg.ArtifactDir).
		Strs("patterns", cfg.Patterns).
		Bool("no_publish", cfg.NoPublish).
		Bool("poll", cfg.Poll).
		Msg("configuration")

	b, err := buildship.New(cfg.Buildship(),
		buildship.WithLogger(log.NewZerologAdapterWithLogger(logger)),
	)
	if err != nil {
		return fmt.Errorf("create buildship: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := b.Start(runCtx); err != nil {
		return fmt.Errorf("start buildship: %w", err)
	}

	doneCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				status := b.Status()
				if status == buildship.StateStopped || status == buildship.StateCrashed {
					close(doneCh)
					return
				}
			}
		}
	}()

	var result error
	select {
	case <-sigCh:
		logger.Info().Msg("received signal, stopping...")
	case <-reloads:
		logger.Info().Msg("config file changed, restarting...")
		result = errReload
	case <-doneCh:
		if b.Status() == buildship.StateCrashed {
			return fmt.Errorf("buildship crashed")
		}
		return nil
	}

	if err := b.Stop(); err != nil {
		return fmt.Errorf("stop buildship: %w", err)
	}
	return result
}
