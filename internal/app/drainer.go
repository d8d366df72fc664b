package app

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/ooqd/internal/domain"
	"github.com/bft-labs/ooqd/internal/parser"
	"github.com/bft-labs/ooqd/internal/ports"
	"github.com/bft-labs/ooqd/internal/registry"
)

// Drainer executes the lines of one current-work file in order.
type Drainer struct {
	registry *registry.Registry
	harness  *Harness
	report   ports.Reporter
	logger   ports.Logger
	now      func() time.Time
}

// NewDrainer creates a drainer dispatching through reg and h.
func NewDrainer(reg *registry.Registry, h *Harness, report ports.Reporter, logger ports.Logger) *Drainer {
	return &Drainer{
		registry: reg,
		harness:  h,
		report:   report,
		logger:   logger,
		now:      time.Now,
	}
}

// Drain reads r line by line and runs each command. It stops at end of file
// or at the first line that makes the rest of the file untrustworthy (an
// over-long line, an unknown command, or a redirection that cannot be
// opened); the returned error names the cause and the rest of r is
// discarded. Lines with an unterminated string or too many arguments are
// reported and skipped.
func (d *Drainer) Drain(ctx context.Context, r io.Reader) (domain.DrainStats, error) {
	stats := domain.DrainStats{
		ID:        uuid.NewString(),
		StartedAt: d.now(),
	}
	err := d.drain(ctx, r, &stats)
	stats.FinishedAt = d.now()
	return stats, err
}

func (d *Drainer) drain(ctx context.Context, r io.Reader, stats *domain.DrainStats) error {
	br := bufio.NewReaderSize(r, domain.LineWindow)

	for {
		if err := ctx.Err(); err != nil {
			stats.Aborted = domain.AbortCanceled
			return err
		}

		raw, rerr := br.ReadSlice('\n')
		if len(raw) == 0 && errors.Is(rerr, io.EOF) {
			return nil
		}
		if rerr != nil && !errors.Is(rerr, io.EOF) && !errors.Is(rerr, bufio.ErrBufferFull) {
			d.report.ReportErr(rerr, "read failed")
			stats.Aborted = domain.AbortReadError
			return rerr
		}
		stats.Lines++

		if rerr != nil || len(raw) > domain.MaxLineLen {
			window := raw
			if len(window) > domain.MaxLineLen {
				window = window[:domain.MaxLineLen]
			}
			d.report.Report("line '%s' too long", window)
			stats.Aborted = domain.AbortLineTooLong
			return domain.ErrLineTooLong
		}

		cp := parser.SkipSpace(string(raw))
		if cp == "" || cp[0] == '#' {
			continue
		}

		entry, ok := d.registry.Match(cp)
		if !ok {
			d.report.Report("nothing found for '%s'", parser.TrimRightSpace(cp))
			stats.Aborted = domain.AbortUnknownCommand
			return domain.ErrUnknownCommand
		}

		cp = parser.TrimRightSpace(cp)
		inv, err := parser.Parse(cp)
		if err != nil {
			d.rejectLine(cp, err)
			stats.Skipped++
			continue
		}

		for i, arg := range inv.Argv {
			d.report.Report("argv[%d] = '%s'", i, arg)
		}

		status, err := d.harness.Invoke(ctx, entry, inv)
		if err != nil {
			stats.Aborted = domain.AbortRedirect
			return err
		}
		stats.Executed++

		d.logger.Debug("handler returned",
			ports.String("command", entry.Name),
			ports.Int("status", status),
		)
	}
}

func (d *Drainer) rejectLine(line string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnterminatedString):
		d.report.Report("command line '%s', end of string not found", line)
	case errors.Is(err, domain.ErrTooManyArguments):
		d.report.Report("command line '%s', too many arguments", line)
	default:
		d.report.Report("command line '%s', %v", line, err)
	}
}
