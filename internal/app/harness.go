package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/afero"

	"github.com/bft-labs/ooqd/internal/domain"
	"github.com/bft-labs/ooqd/internal/ports"
	"github.com/bft-labs/ooqd/internal/registry"
)

// Harness runs one handler, routing its output to the line's redirection
// target when there is one.
//
// The daemon's own standard output is never swapped: a redirected handler
// gets the target file as its Env.Stdout, everything else gets the writer
// the harness was built with.
type Harness struct {
	fs     afero.Fs
	stdout io.Writer
	report ports.Reporter
	logger ports.Logger
}

// NewHarness creates a harness. stdout is the default handler output,
// usually os.Stdout.
func NewHarness(fs afero.Fs, stdout io.Writer, report ports.Reporter, logger ports.Logger) *Harness {
	return &Harness{fs: fs, stdout: stdout, report: report, logger: logger}
}

// Stdout returns the default handler output.
func (h *Harness) Stdout() io.Writer {
	return h.stdout
}

// Invoke runs entry's handler with inv. It returns the handler status, or an
// error wrapping domain.ErrRedirect when the redirection target cannot be
// opened; in that case the handler is not run.
func (h *Harness) Invoke(ctx context.Context, entry registry.Entry, inv domain.Invocation) (int, error) {
	if !inv.HasOutfile {
		return h.call(ctx, entry, inv, h.stdout), nil
	}

	h.report.Report("sending output to '%s'", inv.Outfile)
	f, err := h.open(inv)
	if err != nil {
		h.report.ReportErr(err, "unable to create output file '%s'", inv.Outfile)
		return 0, fmt.Errorf("%w: %w", domain.ErrRedirect, err)
	}

	w := bufio.NewWriter(f)
	status := h.call(ctx, entry, inv, w)

	if err := w.Flush(); err != nil {
		h.report.ReportErr(err, "write to '%s' failed", inv.Outfile)
	}
	if err := f.Close(); err != nil {
		h.report.ReportErr(err, "close '%s' failed", inv.Outfile)
	}
	return status, nil
}

// open creates or opens the target for writing. Without append the file is
// not truncated: output overlays existing content from offset 0.
func (h *Harness) open(inv domain.Invocation) (afero.File, error) {
	if inv.Outfile == "" {
		return nil, &os.PathError{Op: "open", Path: inv.Outfile, Err: syscall.ENOENT}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if inv.Append {
		flags |= os.O_APPEND
	}
	return h.fs.OpenFile(inv.Outfile, flags, 0o644)
}

// call runs the handler. A panicking handler is reported and yields -1.
func (h *Harness) call(ctx context.Context, entry registry.Entry, inv domain.Invocation, out io.Writer) (status int) {
	defer func() {
		if r := recover(); r != nil {
			h.report.Report("%s: handler panicked: %v", inv.Name(), r)
			status = -1
		}
	}()

	env := &registry.Env{
		Stdout: out,
		Report: h.report,
		Logger: h.logger,
		Fs:     h.fs,
	}
	return entry.Handler(ctx, env, inv.Argv)
}
