package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sort"

	"github.com/bft-labs/ooqd/internal/ports"
)

// Request describes a single fetch.
type Request struct {
	Method      string
	URL         string
	Header      http.Header
	Body        io.Reader
	ContentType string

	// IncludeHeaders writes the status line and response headers before the body.
	IncludeHeaders bool
}

// Fetcher performs HTTP requests on behalf of the fetch handlers and copies
// the response to an output sink.
type Fetcher struct {
	client    ports.HTTPClient
	logger    ports.Logger
	userAgent string
}

// NewFetcher creates a new HTTP fetcher.
func NewFetcher(client ports.HTTPClient, logger ports.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		logger:    logger,
		userAgent: "ooqd (" + runtime.GOOS + "/" + runtime.GOARCH + ")",
	}
}

// Fetch sends req and writes the response to w. It returns the HTTP status
// code. Non-2xx responses are not errors; the body is still written.
func (f *Fetcher) Fetch(ctx context.Context, req Request, w io.Writer) (int, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, req.Body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if req.IncludeHeaders {
		fmt.Fprintf(w, "%s %s\n", resp.Proto, resp.Status)
		keys := make([]string, 0, len(resp.Header))
		for k := range resp.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range resp.Header[k] {
				fmt.Fprintf(w, "%s: %s\n", k, v)
			}
		}
		fmt.Fprintln(w)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	f.logger.Debug("fetched",
		ports.String("method", method),
		ports.String("url", req.URL),
		ports.Int("status", resp.StatusCode),
		ports.Int("bytes", int(n)),
	)

	return resp.StatusCode, nil
}
