package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"rssrelay/internal/shared/logger"
	"rssrelay/proxypool/model"
)

// ProxyScanSource fetches the Proxyscan.io JSON listing in a single call.
type ProxyScanSource struct {
	client  *http.Client
	baseURL string
	country string
}

// proxyScanEntry mirrors one element of the Proxyscan JSON array. Port is a
// json.Number so it round-trips back to a string without float formatting.
type proxyScanEntry struct {
	IP   string      `json:"Ip"`
	Port json.Number `json:"Port"`
	Type string      `json:"Type"`
}

// NewProxyScanSource creates a new ProxyScanSource instance.
func NewProxyScanSource(country string) *ProxyScanSource {
	return &ProxyScanSource{
		client:  newClient(),
		baseURL: "https://www.proxyscan.io",
		country: country,
	}
}

// Name returns the source's name.
func (s *ProxyScanSource) Name() string {
	return "proxyscan"
}

// Scrape fetches and parses the JSON listing. Entries with missing fields
// are skipped; an "https" type is coerced to http by model.New.
func (s *ProxyScanSource) Scrape(ctx context.Context) ([]model.Proxy, error) {
	l := logger.WithComponent("Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	url := fmt.Sprintf("%s/api/proxy?country=%s&type=http,https,socks4,socks5&limit=20&format=json", s.baseURL, s.country)
	req, err := newRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", s.Name(), err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing for %s: %w", s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("received non-200 status code (%d) from %s", resp.StatusCode, s.Name())
	}

	var entries []proxyScanEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		l.Warn().Err(err).Str("source", s.Name()).Msg("Failed to decode listing JSON.")
		return nil, nil
	}

	var proxies []model.Proxy
	for _, entry := range entries {
		p, err := model.New(entry.IP, entry.Port.String(), entry.Type)
		if err != nil {
			l.Debug().Str("ip", entry.IP).Str("source", s.Name()).Err(err).Msg("Skipping entry.")
			continue
		}
		proxies = append(proxies, p)
	}

	l.Info().Int("count", len(proxies)).Str("source", s.Name()).Msg("Scrape finished.")
	return proxies, nil
}
