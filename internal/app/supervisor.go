// Package app contains the queue daemon's control flow: the supervisor that
// takes ownership of the queue by rename, the drain loop that walks the
// current-work file, and the harness that runs each handler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/afero"

	"github.com/bft-labs/ooqd/internal/domain"
	"github.com/bft-labs/ooqd/internal/ports"
)

// DefaultIdleInterval is how long the supervisor sleeps when the queue is absent.
const DefaultIdleInterval = 60 * time.Second

// SupervisorConfig contains configuration for the supervisor loop.
type SupervisorConfig struct {
	QueuePath    string
	IdleInterval time.Duration

	// Once makes Run return after the first drain, or immediately when the
	// queue is absent.
	Once bool
}

// Supervisor owns the rename hand-off from producers to the drain loop.
type Supervisor struct {
	config  SupervisorConfig
	fs      afero.Fs
	drainer *Drainer
	report  ports.Reporter
	logger  ports.Logger
	status  ports.StatusRepository
	wake    <-chan struct{}
}

// SupervisorOption configures optional behavior of a Supervisor.
type SupervisorOption func(*Supervisor)

// WithStatusRepository persists the summary of every drain.
func WithStatusRepository(repo ports.StatusRepository) SupervisorOption {
	return func(s *Supervisor) {
		s.status = repo
	}
}

// WithWake ends the idle wait early whenever ch receives.
func WithWake(ch <-chan struct{}) SupervisorOption {
	return func(s *Supervisor) {
		s.wake = ch
	}
}

// NewSupervisor creates a supervisor for cfg.QueuePath.
func NewSupervisor(cfg SupervisorConfig, fs afero.Fs, drainer *Drainer, report ports.Reporter, logger ports.Logger, opts ...SupervisorOption) *Supervisor {
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = DefaultIdleInterval
	}
	s := &Supervisor{
		config:  cfg,
		fs:      fs,
		drainer: drainer,
		report:  report,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentPath returns the current-work path the supervisor drains from.
func (s *Supervisor) CurrentPath() string {
	return domain.CurrentPath(s.config.QueuePath)
}

// Run loops forever: rename the queue to the current-work path, drain it,
// repeat; sleep while the queue is absent. It returns an error wrapping
// domain.ErrFatalRename when the rename fails for any reason other than the
// queue not existing, and ctx.Err() once ctx is canceled.
//
// The current-work file is never removed; the next rename replaces it.
func (s *Supervisor) Run(ctx context.Context) error {
	curr := s.CurrentPath()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.fs.Rename(s.config.QueuePath, curr); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.report.ReportErr(err, "rename failed")
				return fmt.Errorf("%w: %w", domain.ErrFatalRename, err)
			}
			if s.config.Once {
				return nil
			}
			if err := s.idle(ctx); err != nil {
				return err
			}
			continue
		}

		s.drainCurrent(ctx, curr)

		if s.config.Once {
			return nil
		}
	}
}

// drainCurrent opens and drains the current-work file. Failures stay here.
func (s *Supervisor) drainCurrent(ctx context.Context, curr string) {
	f, err := s.fs.Open(curr)
	if err != nil {
		s.report.ReportErr(err, "open '%s' failed", curr)
		return
	}

	stats, err := s.drainer.Drain(ctx, f)
	if cerr := f.Close(); cerr != nil {
		s.logger.Warn("close current-work file", ports.Err(cerr))
	}
	stats.QueuePath = s.config.QueuePath

	fields := []ports.Field{
		ports.String("id", stats.ID),
		ports.Int("lines", stats.Lines),
		ports.Int("executed", stats.Executed),
		ports.Int("skipped", stats.Skipped),
		ports.Duration("duration", stats.Duration()),
	}
	if err != nil {
		fields = append(fields, ports.String("aborted", stats.Aborted), ports.Err(err))
	}
	s.logger.Info("drain finished", fields...)

	if s.status != nil {
		if err := s.status.Save(ctx, stats); err != nil {
			s.logger.Error("failed to save drain status", ports.Err(err))
		}
	}
}

// idle waits for the idle interval, a wake signal, or cancellation.
func (s *Supervisor) idle(ctx context.Context) error {
	s.logger.Debug("queue absent, idling",
		ports.String("queue", s.config.QueuePath),
		ports.Duration("interval", s.config.IdleInterval),
	)

	timer := time.NewTimer(s.config.IdleInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	case <-s.wake:
		return nil
	}
}
