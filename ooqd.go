// Package ooqd runs a one-shot command queue daemon.
//
// Producers append command lines to a queue file. The daemon atomically
// renames the queue to QUEUE.curr, runs each line through a fixed table of
// handlers, and goes back for more; while the queue is absent it sleeps.
//
// Example usage:
//
//	cfg := ooqd.DefaultConfig()
//	cfg.QueuePath = "/var/spool/ooqd/queue"
//	if err := ooqd.Run(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
package ooqd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	fsAdapter "github.com/bft-labs/ooqd/internal/adapters/fs"
	logAdapter "github.com/bft-labs/ooqd/internal/adapters/log"
	"github.com/bft-labs/ooqd/internal/app"
	"github.com/bft-labs/ooqd/internal/cliconfig"
	"github.com/bft-labs/ooqd/internal/domain"
	"github.com/bft-labs/ooqd/internal/handlers"
	"github.com/bft-labs/ooqd/internal/ports"
	"github.com/bft-labs/ooqd/internal/registry"
)

// Config holds the configuration for the queue daemon.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// DefaultConfig returns a Config with default values.
// QueuePath must be set before calling Run.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Errors callers may want to test for with errors.Is.
var (
	ErrFatalRename = domain.ErrFatalRename
	ErrPathTooLong = domain.ErrPathTooLong
)

// Option configures optional behavior of Run.
type Option func(*options)

type options struct {
	fs         afero.Fs
	stdout     io.Writer
	stderr     io.Writer
	httpClient ports.HTTPClient
	registry   *registry.Registry
}

func defaultOptions() options {
	return options{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithFs replaces the filesystem the daemon renames, reads and redirects on.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithOutput sets the default handler output and the diagnostic stream.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithHTTPClient sets the client used by httpget and httppost.
func WithHTTPClient(client ports.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithRegistry replaces the built-in handler table.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// Run starts the daemon and blocks until ctx is canceled, the queue hand-off
// fails, or, with cfg.Once, after at most one drain. Cancellation is not an
// error.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	zl, err := cliconfig.NewLogger(o.stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logAdapter.NewZerologAdapterWithLogger(zl)
	report := newReporter(cfg.LogFormat, o.stderr, zl)

	if err := domain.CheckQueuePath(cfg.QueuePath); err != nil {
		report.Report("filename too long ('%s')", cfg.QueuePath)
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	reg := o.registry
	if reg == nil {
		reg = handlers.Default(handlers.Options{
			HTTPClient:  o.httpClient,
			HTTPTimeout: cfg.HTTPTimeout,
			ExecTimeout: cfg.ExecTimeout,
			Logger:      logger,
		})
	}

	harness := app.NewHarness(o.fs, o.stdout, report, logger)
	drainer := app.NewDrainer(reg, harness, report, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var supOpts []app.SupervisorOption
	if cfg.StatusDir != "" {
		supOpts = append(supOpts, app.WithStatusRepository(fsAdapter.NewStatusFileRepository(o.fs, cfg.StatusDir)))
	}

	var wg sync.WaitGroup
	if cfg.Watch && !cfg.Once {
		watcher := app.NewQueueWatcher(cfg.QueuePath, logger)
		supOpts = append(supOpts, app.WithWake(watcher.Wake()))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("queue watcher stopped", ports.Err(err))
			}
		}()
	}

	sup := app.NewSupervisor(app.SupervisorConfig{
		QueuePath:    cfg.QueuePath,
		IdleInterval: cfg.IdleInterval,
		Once:         cfg.Once,
	}, o.fs, drainer, report, logger, supOpts...)

	logger.Info("ooqd started",
		ports.String("queue", cfg.QueuePath),
		ports.String("current", sup.CurrentPath()),
		ports.Bool("once", cfg.Once),
		ports.Bool("watch", cfg.Watch),
		ports.Strings("commands", reg.Names()),
	)

	err = sup.Run(ctx)
	cancel()
	wg.Wait()

	if errors.Is(err, context.Canceled) {
		logger.Info("ooqd stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("supervisor: %w", err)
	}
	return nil
}

func newReporter(format string, stderr io.Writer, zl zerolog.Logger) ports.Reporter {
	if format == cliconfig.LogFormatPlain {
		return logAdapter.NewPlainReporter(stderr)
	}
	return logAdapter.NewZerologReporter(zl)
}
