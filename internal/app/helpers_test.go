package app

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/spf13/afero"

	logAdapter "github.com/bft-labs/ooqd/internal/adapters/log"
	"github.com/bft-labs/ooqd/internal/registry"
)

// recorder records every handler call in order.
type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) handler(output string) registry.Handler {
	return func(ctx context.Context, env *registry.Env, argv []string) int {
		r.mu.Lock()
		r.calls = append(r.calls, append([]string(nil), argv...))
		r.mu.Unlock()
		if output != "" {
			io.WriteString(env.Stdout, output)
		}
		return 0
	}
}

func (r *recorder) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

// fixture wires a drainer over an in-memory filesystem.
type fixture struct {
	fs      afero.Fs
	stdout  *bytes.Buffer
	diag    *bytes.Buffer
	rec     *recorder
	harness *Harness
	drainer *Drainer
}

func newFixture(t *testing.T, fs afero.Fs, extra ...registry.Entry) *fixture {
	t.Helper()

	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	f := &fixture{
		fs:     fs,
		stdout: &bytes.Buffer{},
		diag:   &bytes.Buffer{},
		rec:    &recorder{},
	}

	entries := []registry.Entry{
		{Name: "ping", Handler: f.rec.handler("")},
		{Name: "ping6", Handler: f.rec.handler("")},
		{Name: "httpget", Handler: f.rec.handler("body\n")},
		{Name: "tdig", Handler: f.rec.handler("answer\n")},
	}
	entries = append(entries, extra...)
	reg, err := registry.New(entries...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	report := logAdapter.NewPlainReporter(f.diag)
	logger := logAdapter.NewNoopLogger()
	f.harness = NewHarness(fs, f.stdout, report, logger)
	f.drainer = NewDrainer(reg, f.harness, report, logger)
	return f
}
