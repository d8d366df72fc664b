package handlers

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/bft-labs/ooqd/internal/registry"
)

// CondMv moves FROM to TO unless TO already exists. With -A the string is
// appended to FROM, followed by a newline, before the move.
//
//	condmv [-f] [-A string] FROM TO
func CondMv(ctx context.Context, env *registry.Env, argv []string) int {
	cmd := newCommand("condmv [-f] [-A string] FROM TO")
	force := cmd.flags.BoolLong("force", 'f', "move even if TO exists")
	appendStr := cmd.flags.StringLong("append", 'A', "", "append string to FROM first")

	args, ok := cmd.parse(env, argv, 2, 2)
	if !ok {
		return 1
	}
	from, to := args[0], args[1]

	if !*force {
		exists, err := afero.Exists(env.Fs, to)
		if err != nil {
			env.Report.ReportErr(err, "%s: stat '%s' failed", argv[0], to)
			return 1
		}
		if exists {
			env.Report.Report("%s: not moving, destination '%s' exists", argv[0], to)
			return 1
		}
	}

	if *appendStr != "" {
		f, err := env.Fs.OpenFile(from, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			env.Report.ReportErr(err, "%s: unable to append to '%s'", argv[0], from)
			return 1
		}
		_, werr := f.WriteString(*appendStr + "\n")
		cerr := f.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			env.Report.ReportErr(werr, "%s: unable to append to '%s'", argv[0], from)
			return 1
		}
	}

	if err := env.Fs.Rename(from, to); err != nil {
		env.Report.ReportErr(err, "%s: unable to move '%s' to '%s'", argv[0], from, to)
		return 1
	}
	return 0
}

// DfRm removes each named file. It keeps going after a failure and
// returns 1 if any removal failed.
//
//	dfrm FILE...
func DfRm(ctx context.Context, env *registry.Env, argv []string) int {
	cmd := newCommand("dfrm FILE...")
	args, ok := cmd.parse(env, argv, 1, -1)
	if !ok {
		return 1
	}

	status := 0
	for _, name := range args {
		if err := env.Fs.Remove(name); err != nil {
			env.Report.ReportErr(err, "%s: unable to remove '%s'", argv[0], name)
			status = 1
		}
	}
	return status
}
