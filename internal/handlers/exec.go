package handlers

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/bft-labs/ooqd/internal/ports"
	"github.com/bft-labs/ooqd/internal/registry"
)

// Exec delegates to a system binary. The handler output becomes the child's
// standard output; standard error is inherited. prefix is inserted before
// the queued arguments.
func Exec(binary string, timeout time.Duration, prefix ...string) registry.Handler {
	return func(ctx context.Context, env *registry.Env, argv []string) int {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		args := append(append([]string(nil), prefix...), argv[1:]...)
		cmd := exec.CommandContext(ctx, binary, args...)
		cmd.Stdout = env.Stdout
		cmd.Stderr = os.Stderr

		err := cmd.Run()
		if err == nil {
			return 0
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			env.Logger.Debug("child exited",
				ports.String("command", argv[0]),
				ports.Int("status", exitErr.ExitCode()),
			)
			return exitErr.ExitCode()
		}

		env.Report.ReportErr(err, "%s: unable to run '%s'", argv[0], binary)
		return 127
	}
}
