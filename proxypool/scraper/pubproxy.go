package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"rssrelay/internal/shared/logger"
	"rssrelay/proxypool/model"
)

// PubProxySource queries the PubProxy API once per protocol tier. The
// response nests combined "ip:port" strings under a data array.
type PubProxySource struct {
	client  *http.Client
	baseURL string
	country string
}

type pubProxyResponse struct {
	Data []struct {
		IPPort string `json:"ipPort"`
	} `json:"data"`
}

// NewPubProxySource creates a new PubProxySource instance.
func NewPubProxySource(country string) *PubProxySource {
	return &PubProxySource{
		client:  newClient(),
		baseURL: "http://pubproxy.com",
		country: country,
	}
}

// Name returns the source's name.
func (s *PubProxySource) Name() string {
	return "pubproxy"
}

// Scrape collects the http, socks4 and socks5 tiers. Only HTTP proxies that
// also support HTTPS are requested for the http tier. A failed tier is
// logged and does not abort the others.
func (s *PubProxySource) Scrape(ctx context.Context) ([]model.Proxy, error) {
	l := logger.WithComponent("Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	tiers := []struct {
		query  string
		scheme string
	}{
		{"type=http&https=true", "http"},
		{"type=socks4", "socks4"},
		{"type=socks5", "socks5"},
	}

	var proxies []model.Proxy
	for _, tier := range tiers {
		url := fmt.Sprintf("%s/api/proxy?country=%s&limit=20&%s&format=json", s.baseURL, s.country, tier.query)
		batch, err := s.scrapeTier(ctx, url, tier.scheme)
		if err != nil {
			l.Warn().Err(err).Str("tier", tier.scheme).Str("source", s.Name()).Msg("Tier query failed, skipping.")
			continue
		}
		proxies = append(proxies, batch...)
	}

	l.Info().Int("count", len(proxies)).Str("source", s.Name()).Msg("Scrape finished.")
	return proxies, nil
}

func (s *PubProxySource) scrapeTier(ctx context.Context, url, scheme string) ([]model.Proxy, error) {
	req, err := newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("received non-200 status code (%d)", resp.StatusCode)
	}

	var body pubProxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var proxies []model.Proxy
	for _, item := range body.Data {
		ip, port, ok := strings.Cut(item.IPPort, ":")
		if !ok {
			continue
		}
		p, err := model.New(ip, port, scheme)
		if err != nil {
			continue
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}
