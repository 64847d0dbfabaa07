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

func newPubProxyForTest(t *testing.T, handler http.HandlerFunc) *PubProxySource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewPubProxySource("JP")
	s.baseURL = server.URL
	return s
}

func TestPubProxy_AllTiers(t *testing.T) {
	s := newPubProxyForTest(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("type") {
		case "http":
			require.Equal(t, "true", r.URL.Query().Get("https"))
			fmt.Fprint(w, `{"data": [{"ipPort": "203.0.113.1:8080"}, {"ipPort": "no-colon"}]}`)
		case "socks4":
			fmt.Fprint(w, `{"data": [{"ipPort": "203.0.113.2:1080"}]}`)
		case "socks5":
			fmt.Fprint(w, `{"data": [{"ipPort": "203.0.113.3:1080"}]}`)
		}
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Proxy{
		{Address: "203.0.113.1", Port: 8080, Scheme: model.SchemeHTTP},
		{Address: "203.0.113.2", Port: 1080, Scheme: model.SchemeSOCKS4},
		{Address: "203.0.113.3", Port: 1080, Scheme: model.SchemeSOCKS5},
	}, proxies)
}

func TestPubProxy_TierFailureDoesNotAbort(t *testing.T) {
	s := newPubProxyForTest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") == "http" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data": [{"ipPort": "203.0.113.2:1080"}]}`)
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, proxies, 2)
}

func TestPubProxy_EmptyData(t *testing.T) {
	s := newPubProxyForTest(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Empty(t, proxies)
}
