// Package registry holds the fixed table of in-process command handlers.
package registry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/bft-labs/ooqd/internal/ports"
)

// Env is what a handler may touch while it runs.
type Env struct {
	// Stdout receives the handler's output. It is the redirection target when
	// the line carried one, otherwise the daemon's standard output.
	Stdout io.Writer

	// Report is the daemon's diagnostic sink.
	Report ports.Reporter

	// Logger receives structured debug output.
	Logger ports.Logger

	// Fs is the filesystem handlers operate on.
	Fs afero.Fs
}

// Handler runs one queued command. argv[0] is the command name. The return
// value is an exit status; the daemon does not interpret it.
type Handler func(ctx context.Context, env *Env, argv []string) int

// Entry binds a command name to its handler.
type Entry struct {
	Name    string
	Handler Handler
}

// Registry is an ordered, immutable set of entries.
type Registry struct {
	entries []Entry
}

// New builds a registry. Entries keep their order, which decides Match
// precedence.
func New(entries ...Entry) (*Registry, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("registry: empty command name")
		case strings.IndexFunc(e.Name, isSpaceRune) >= 0:
			return nil, fmt.Errorf("registry: command name %q contains whitespace", e.Name)
		case e.Handler == nil:
			return nil, fmt.Errorf("registry: command %q has no handler", e.Name)
		case seen[e.Name]:
			return nil, fmt.Errorf("registry: duplicate command %q", e.Name)
		}
		seen[e.Name] = true
	}

	return &Registry{entries: append([]Entry(nil), entries...)}, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(entries ...Entry) *Registry {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Match returns the first entry whose name is a prefix of line and is
// followed by a single space.
func (r *Registry) Match(line string) (Entry, bool) {
	for _, e := range r.entries {
		n := len(e.Name)
		if len(line) > n && line[n] == ' ' && line[:n] == e.Name {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup returns the entry with exactly the given name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names lists command names in table order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

func isSpaceRune(r rune) bool {
	return r < 0x80 && (r == ' ' || (r >= '\t' && r <= '\r'))
}
