package handlers

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/bft-labs/ooqd/internal/registry"
)

// Resolver is the subset of *net.Resolver the DNS handlers use.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// NSLookup resolves a host name and prints its addresses.
//
//	nslookup NAME
func NSLookup(res Resolver) registry.Handler {
	return func(ctx context.Context, env *registry.Env, argv []string) int {
		cmd := newCommand("nslookup NAME")
		args, ok := cmd.parse(env, argv, 1, 1)
		if !ok {
			return 1
		}

		ctx, cancel := lookupContext(ctx)
		defer cancel()

		addrs, err := res.LookupHost(ctx, args[0])
		if err != nil {
			env.Report.ReportErr(err, "%s: lookup '%s' failed", argv[0], args[0])
			return 1
		}

		fmt.Fprintf(env.Stdout, "Name:\t%s\n", args[0])
		for _, a := range addrs {
			fmt.Fprintf(env.Stdout, "Address: %s\n", a)
		}
		return 0
	}
}

// TDig queries a single record type and prints one record per line in
// zone-file style.
//
//	tdig [-t TYPE] NAME [TYPE]
//
// A quoted "NAME TYPE" operand is accepted as well.
func TDig(res Resolver) registry.Handler {
	return func(ctx context.Context, env *registry.Env, argv []string) int {
		cmd := newCommand("tdig [-t TYPE] NAME [TYPE]")
		qtype := cmd.flags.StringLong("type", 't', "A", "record type (A, AAAA, MX, NS, TXT, CNAME, PTR)")

		args, ok := cmd.parse(env, argv, 1, 2)
		if !ok {
			return 1
		}
		fields := strings.Fields(strings.Join(args, " "))
		if len(fields) == 0 || len(fields) > 2 {
			env.Report.Report("%s: wrong number of arguments (usage: %s)", argv[0], cmd.use)
			return 1
		}
		name := fields[0]
		if len(fields) == 2 {
			*qtype = fields[1]
		}

		ctx, cancel := lookupContext(ctx)
		defer cancel()

		records, err := query(ctx, res, name, strings.ToUpper(*qtype))
		if err != nil {
			env.Report.ReportErr(err, "%s: %s %s failed", argv[0], name, strings.ToUpper(*qtype))
			return 1
		}
		for _, r := range records {
			fmt.Fprintln(env.Stdout, r)
		}
		return 0
	}
}

func query(ctx context.Context, res Resolver, name, qtype string) ([]string, error) {
	var out []string
	switch qtype {
	case "A", "AAAA":
		addrs, err := res.LookupIPAddr(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, a := range addrs {
			is4 := a.IP.To4() != nil
			if is4 == (qtype == "A") {
				out = append(out, fmt.Sprintf("%s\tIN\t%s\t%s", name, qtype, a.IP))
			}
		}
	case "MX":
		mxs, err := res.LookupMX(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, mx := range mxs {
			out = append(out, fmt.Sprintf("%s\tIN\tMX\t%d %s", name, mx.Pref, mx.Host))
		}
	case "NS":
		nss, err := res.LookupNS(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, ns := range nss {
			out = append(out, fmt.Sprintf("%s\tIN\tNS\t%s", name, ns.Host))
		}
	case "TXT":
		txts, err := res.LookupTXT(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, txt := range txts {
			out = append(out, fmt.Sprintf("%s\tIN\tTXT\t%q", name, txt))
		}
	case "CNAME":
		cname, err := res.LookupCNAME(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, fmt.Sprintf("%s\tIN\tCNAME\t%s", name, cname))
	case "PTR":
		names, err := res.LookupAddr(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			out = append(out, fmt.Sprintf("%s\tIN\tPTR\t%s", name, n))
		}
	default:
		return nil, fmt.Errorf("unsupported record type %q", qtype)
	}
	return out, nil
}
