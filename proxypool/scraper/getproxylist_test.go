package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"rssrelay/proxypool/model"
)

func newGetProxyListForTest(t *testing.T, requests int, handler http.HandlerFunc) *GetProxyListSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewGetProxyListSource("JP", requests)
	s.baseURL = server.URL
	return s
}

func TestGetProxyList_AccumulatesAcrossCalls(t *testing.T) {
	var calls atomic.Int32
	s := newGetProxyListForTest(t, 3, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		fmt.Fprintf(w, `{"ip": "203.0.113.%d", "port": 1080, "protocols": ["socks5"]}`, n)
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
	require.Len(t, proxies, 3)
	require.Equal(t, model.SchemeSOCKS5, proxies[0].Scheme)
}

func TestGetProxyList_MultipleProtocolsPerResponse(t *testing.T) {
	s := newGetProxyListForTest(t, 1, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ip": "203.0.113.1", "port": 8080, "protocols": ["http", "https", "socks5", "ftp"]}`)
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	// http, https->http, socks5; ftp filtered out.
	require.Equal(t, []model.Proxy{
		{Address: "203.0.113.1", Port: 8080, Scheme: model.SchemeHTTP},
		{Address: "203.0.113.1", Port: 8080, Scheme: model.SchemeHTTP},
		{Address: "203.0.113.1", Port: 8080, Scheme: model.SchemeSOCKS5},
	}, proxies)
}

func TestGetProxyList_SingularProtocolFallback(t *testing.T) {
	s := newGetProxyListForTest(t, 1, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ip": "203.0.113.1", "port": 1080, "protocol": "socks4"}`)
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Proxy{
		{Address: "203.0.113.1", Port: 1080, Scheme: model.SchemeSOCKS4},
	}, proxies)
}

func TestGetProxyList_PerCallFailureContinues(t *testing.T) {
	var calls atomic.Int32
	s := newGetProxyListForTest(t, 4, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1)%2 == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"ip": "203.0.113.1", "port": 8080, "protocols": ["http"]}`)
	})

	proxies, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(4), calls.Load())
	require.Len(t, proxies, 2)
}
