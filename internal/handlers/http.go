package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"

	httpAdapter "github.com/bft-labs/ooqd/internal/adapters/http"
	"github.com/bft-labs/ooqd/internal/registry"
)

// HTTPGet fetches a URL and writes the body to the handler output.
//
//	httpget [-i] [-A agent] [-H name:value] URL
func HTTPGet(f *httpAdapter.Fetcher) registry.Handler {
	return func(ctx context.Context, env *registry.Env, argv []string) int {
		cmd := newCommand("httpget [-i] [-A agent] [-H name:value] URL")
		include := cmd.flags.BoolLong("include", 'i', "write status line and headers")
		agent := cmd.flags.StringLong("user-agent", 'A', "", "User-Agent header")
		header := cmd.flags.StringLong("header", 'H', "", "extra request header")

		args, ok := cmd.parse(env, argv, 1, 1)
		if !ok {
			return 1
		}

		req := httpAdapter.Request{
			Method:         http.MethodGet,
			URL:            args[0],
			Header:         requestHeader(*header, *agent),
			IncludeHeaders: *include,
		}
		return fetch(ctx, f, env, argv[0], req)
	}
}

// HTTPPost posts inline data or a file and writes the response body to the
// handler output.
//
//	httppost [-i] [-T type] [-H name:value] [-d data | -f file] URL
func HTTPPost(f *httpAdapter.Fetcher) registry.Handler {
	return func(ctx context.Context, env *registry.Env, argv []string) int {
		cmd := newCommand("httppost [-i] [-T type] [-H name:value] [-d data | -f file] URL")
		include := cmd.flags.BoolLong("include", 'i', "write status line and headers")
		contentType := cmd.flags.StringLong("content-type", 'T', "application/octet-stream", "request Content-Type")
		header := cmd.flags.StringLong("header", 'H', "", "extra request header")
		data := cmd.flags.StringLong("data", 'd', "", "inline request body")
		file := cmd.flags.StringLong("file", 'f', "", "read request body from file")

		args, ok := cmd.parse(env, argv, 1, 1)
		if !ok {
			return 1
		}
		if *data != "" && *file != "" {
			env.Report.Report("%s: -d and -f are mutually exclusive", argv[0])
			return 1
		}

		var body io.Reader = strings.NewReader(*data)
		if *file != "" {
			b, err := afero.ReadFile(env.Fs, *file)
			if err != nil {
				env.Report.ReportErr(err, "%s: unable to read '%s'", argv[0], *file)
				return 1
			}
			body = bytes.NewReader(b)
		}

		req := httpAdapter.Request{
			Method:         http.MethodPost,
			URL:            args[0],
			Header:         requestHeader(*header, ""),
			Body:           body,
			ContentType:    *contentType,
			IncludeHeaders: *include,
		}
		return fetch(ctx, f, env, argv[0], req)
	}
}

func fetch(ctx context.Context, f *httpAdapter.Fetcher, env *registry.Env, name string, req httpAdapter.Request) int {
	status, err := f.Fetch(ctx, req, env.Stdout)
	if err != nil {
		env.Report.ReportErr(err, "%s: %s failed", name, req.URL)
		return 1
	}
	if status/100 != 2 {
		env.Report.Report("%s: %s returned %d", name, req.URL, status)
		return 1
	}
	return 0
}

// requestHeader builds headers from a "Name: value" option and a user agent.
func requestHeader(raw, agent string) http.Header {
	h := http.Header{}
	if name, value, ok := strings.Cut(raw, ":"); ok && strings.TrimSpace(name) != "" {
		h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	if agent != "" {
		h.Set("User-Agent", agent)
	}
	return h
}
