package log

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/bft-labs/ooqd/internal/ports"
)

// Prefix starts every diagnostic line.
const Prefix = "ooqd: "

// PlainReporter implements ports.Reporter with the classic one-line format:
//
//	ooqd: <message>
//	ooqd: <message>: <system error>
type PlainReporter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ ports.Reporter = (*PlainReporter)(nil)

// NewPlainReporter creates a reporter writing to w, usually os.Stderr.
func NewPlainReporter(w io.Writer) *PlainReporter {
	return &PlainReporter{w: w}
}

// Report writes "ooqd: <message>\n".
func (r *PlainReporter) Report(format string, args ...interface{}) {
	r.write(Prefix + fmt.Sprintf(format, args...) + "\n")
}

// ReportErr writes "ooqd: <message>: <system error>\n".
func (r *PlainReporter) ReportErr(err error, format string, args ...interface{}) {
	text := ErrText(err)
	r.write(Prefix + fmt.Sprintf(format, args...) + ": " + text + "\n")
}

// write emits the whole line with a single Write call.
func (r *PlainReporter) write(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, line)
}

// ZerologReporter implements ports.Reporter on top of zerolog, for
// deployments that collect structured logs instead of plain stderr lines.
type ZerologReporter struct {
	logger zerolog.Logger
}

var _ ports.Reporter = (*ZerologReporter)(nil)

// NewZerologReporter wraps logger.
func NewZerologReporter(logger zerolog.Logger) *ZerologReporter {
	return &ZerologReporter{logger: logger.With().Str("component", "ooqd").Logger()}
}

// Report logs the message at info level.
func (r *ZerologReporter) Report(format string, args ...interface{}) {
	r.logger.Info().Msgf(format, args...)
}

// ReportErr logs the message at error level with the system error text.
func (r *ZerologReporter) ReportErr(err error, format string, args ...interface{}) {
	r.logger.Error().Str("error", ErrText(err)).Msgf(format, args...)
}

// ErrText returns the text of the system error carried by err, falling back
// to the innermost wrapped error. Path and link errors are unwrapped so the
// result is the bare message, e.g. "no such file or directory".
func ErrText(err error) string {
	if err == nil {
		return "success"
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno.Error()
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
