package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"rssrelay/proxypool/model"
)

func newProxyScrapeForTest(t *testing.T, handler http.HandlerFunc) *ProxyScrapeSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewProxyScrapeSource("JP")
	s.baseURL = server.URL
	return s
}

func TestProxyScrape_AllProtocols(t *testing.T) {
	listings := map[string]string{
		"http":   "203.0.113.1:8080\n203.0.113.2:3128\n",
		"socks4": "203.0.113.3:1080\n",
		"socks5": "203.0.113.4:1080\nmalformed-line\n\n",
	}

	s := newProxyScrapeForTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "displayproxies", r.URL.Query().Get("request"))
		require.Equal(t, "JP", r.URL.Query().Get("country"))
		fmt.Fprint(w, listings[r.URL.Query().Get("protocol")])
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Proxy{
		{Address: "203.0.113.1", Port: 8080, Scheme: model.SchemeHTTP},
		{Address: "203.0.113.2", Port: 3128, Scheme: model.SchemeHTTP},
		{Address: "203.0.113.3", Port: 1080, Scheme: model.SchemeSOCKS4},
		{Address: "203.0.113.4", Port: 1080, Scheme: model.SchemeSOCKS5},
	}, proxies)
}

func TestProxyScrape_OneProtocolFails(t *testing.T) {
	s := newProxyScrapeForTest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("protocol") == "socks4" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "203.0.113.1:8080\n")
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, proxies, 2) // http and socks5 still collected
}

func TestProxyScrape_EmptyListing(t *testing.T) {
	s := newProxyScrapeForTest(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "")
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Empty(t, proxies)
}
