// Package handlers provides the commands a queue line may name: network
// probes, HTTP fetches, DNS lookups and small file utilities.
package handlers

import (
	"context"
	"net"
	"net/http"
	"time"

	getopt "github.com/pborman/getopt/v2"

	httpAdapter "github.com/bft-labs/ooqd/internal/adapters/http"
	logAdapter "github.com/bft-labs/ooqd/internal/adapters/log"
	"github.com/bft-labs/ooqd/internal/ports"
	"github.com/bft-labs/ooqd/internal/registry"
)

// Options configures the default handler table.
type Options struct {
	// HTTPClient is used by httpget and httppost. Defaults to an
	// *http.Client with HTTPTimeout.
	HTTPClient ports.HTTPClient

	// HTTPTimeout bounds each fetch when HTTPClient is nil.
	HTTPTimeout time.Duration

	// Resolver is used by nslookup and tdig. Defaults to net.DefaultResolver.
	Resolver Resolver

	// ExecTimeout bounds ping, ping6 and traceroute. Zero means no limit.
	ExecTimeout time.Duration

	// Logger receives debug output. Defaults to a no-op logger.
	Logger ports.Logger
}

// Default returns the built-in table. Order matters for prefix matching.
func Default(opts Options) *registry.Registry {
	if opts.Logger == nil {
		opts.Logger = logAdapter.NewNoopLogger()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.HTTPTimeout}
	}
	if opts.Resolver == nil {
		opts.Resolver = net.DefaultResolver
	}

	fetcher := httpAdapter.NewFetcher(opts.HTTPClient, opts.Logger)

	return registry.MustNew(
		registry.Entry{Name: "ping", Handler: Exec("ping", opts.ExecTimeout)},
		registry.Entry{Name: "ping6", Handler: Exec("ping", opts.ExecTimeout, "-6")},
		registry.Entry{Name: "httpget", Handler: HTTPGet(fetcher)},
		registry.Entry{Name: "httppost", Handler: HTTPPost(fetcher)},
		registry.Entry{Name: "traceroute", Handler: Exec("traceroute", opts.ExecTimeout)},
		registry.Entry{Name: "condmv", Handler: CondMv},
		registry.Entry{Name: "tdig", Handler: TDig(opts.Resolver)},
		registry.Entry{Name: "dfrm", Handler: DfRm},
		registry.Entry{Name: "nslookup", Handler: NSLookup(opts.Resolver)},
	)
}

// command parses handler options.
type command struct {
	use   string
	flags *getopt.Set
}

func newCommand(use string) *command {
	return &command{use: use, flags: getopt.New()}
}

// parse runs getopt over argv and returns the operands. On a usage error it
// reports and returns false.
func (c *command) parse(env *registry.Env, argv []string, minArgs, maxArgs int) ([]string, bool) {
	if err := c.flags.Getopt(argv, nil); err != nil {
		env.Report.Report("%s: %v (usage: %s)", argv[0], err, c.use)
		return nil, false
	}
	args := c.flags.Args()
	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		env.Report.Report("%s: wrong number of arguments (usage: %s)", argv[0], c.use)
		return nil, false
	}
	return args, true
}

// lookupContext bounds a DNS lookup.
func lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 30*time.Second)
}
