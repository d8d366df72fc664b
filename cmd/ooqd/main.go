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

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/ooqd"
	"github.com/bft-labs/ooqd/internal/cliconfig"
)

const longHelp = `Run queued measurement commands, one line at a time.

Producers append lines to QUEUE. ooqd renames QUEUE to QUEUE.curr, runs every
line through its built-in command table and comes back for more. While QUEUE
is absent it sleeps (60s by default, or until --watch sees the file appear).

A line is a command name followed by arguments. Double quotes group an
argument containing spaces; a trailing >FILE or >>FILE sends the command's
output to FILE. Lines starting with # are ignored.

Commands: ping, ping6, httpget, httppost, traceroute, condmv, tdig, dfrm,
nslookup.`

var exampleUsage = strings.TrimSpace(`
  ooqd /var/spool/ooqd/queue
  ooqd --watch --status-dir /var/lib/ooqd /var/spool/ooqd/queue
  ooqd --once --log-format json /var/spool/ooqd/queue
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "ooqd [flags] QUEUE",
		Short:   "One-shot command queue daemon",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// OOQD_* override the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			cfg.QueuePath = args[0]

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return ooqd.Run(ctx, cfg)
		},
	}

	// Run reports its own diagnostics; everything else is logged below.
	root.SilenceErrors = true

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.ooqd/config.toml)")
	root.Flags().DurationVar(&cfg.IdleInterval, "idle", cfg.IdleInterval, "sleep between checks while the queue is absent")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "wake up early when the queue file is created")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "drain the queue at most once and exit")
	root.Flags().StringVar(&cfg.StatusDir, "status-dir", cfg.StatusDir, "write the last drain summary to status.json in this directory")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "diagnostic format (plain, console, json)")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "timeout for httpget and httppost")
	root.Flags().DurationVar(&cfg.ExecTimeout, "exec-timeout", cfg.ExecTimeout, "timeout for ping, ping6 and traceroute (0 = none)")

	if err := root.Execute(); err != nil {
		if !errors.Is(err, ooqd.ErrFatalRename) && !errors.Is(err, ooqd.ErrPathTooLong) {
			log.Error().Err(err).Msg("ooqd")
		}
		os.Exit(1)
	}
}
