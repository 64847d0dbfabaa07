package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rssrelay/internal/shared/logger"
	"rssrelay/proxypool/model"
)

// Status classifies the outcome of one proxied fetch attempt.
type Status int

const (
	// StatusSuccess means the transport worked and the payload passed the
	// content validity check.
	StatusSuccess Status = iota

	// StatusInvalid means the transport worked but the payload failed the
	// validity check. Many proxies answer with captcha or block pages and a
	// misleading 200, so a 2xx alone proves nothing.
	StatusInvalid

	// StatusNetworkFailure covers connect errors, DNS failures, timeouts
	// and non-2xx responses through the proxy.
	StatusNetworkFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalid:
		return "invalid"
	default:
		return "network_failure"
	}
}

// Result is the outcome of a single attempt. Content is set only on
// success; Reason carries the validity diagnostic; Err the transport cause.
type Result struct {
	Status  Status
	Content string
	Reason  string
	Err     error
}

// Fetcher performs one bounded GET through a given proxy and validates the
// payload against a literal marker substring.
type Fetcher struct {
	timeout time.Duration
	marker  string
}

// New creates a Fetcher. The marker is the substring whose presence
// distinguishes genuine feed content from interstitial pages.
func New(timeout time.Duration, marker string) *Fetcher {
	return &Fetcher{
		timeout: timeout,
		marker:  marker,
	}
}

// Attempt issues one GET to targetURL through the proxy. The proxy's scheme
// selects the outbound tunnel protocol and is applied to both http and
// https traffic toward the target.
func (f *Fetcher) Attempt(ctx context.Context, targetURL string, p model.Proxy) Result {
	l := logger.WithComponent("Fetcher")
	l.Debug().Str("proxy", p.URL()).Str("target", targetURL).Msg("Trying proxy...")

	transport, err := f.transportFor(p)
	if err != nil {
		return Result{Status: StatusNetworkFailure, Err: fmt.Errorf("failed to build transport for %s: %w", p.URL(), err)}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return Result{Status: StatusNetworkFailure, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Status: StatusNetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Status: StatusNetworkFailure, Err: fmt.Errorf("received non-successful status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: StatusNetworkFailure, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	content := string(body)
	if !strings.Contains(content, f.marker) {
		return Result{Status: StatusInvalid, Reason: fmt.Sprintf("missing %s marker", f.marker)}
	}

	return Result{Status: StatusSuccess, Content: content}
}
