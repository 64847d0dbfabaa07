package scraper

import (
	"context"
	"net/http"
	"time"

	"rssrelay/proxypool/model"
)

// Source is one external provider of candidate proxies.
type Source interface {
	// Scrape fetches and parses the provider's current listing. An error is
	// returned only for whole-source transport failure; payload-shape
	// problems (layout changes, malformed rows) degrade to a smaller or
	// empty batch with a logged diagnostic.
	Scrape(ctx context.Context) ([]model.Proxy, error)

	// Name returns the source's name, used for logs and the fallback-order
	// configuration.
	Name() string
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

func newClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}

func newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return req, nil
}
