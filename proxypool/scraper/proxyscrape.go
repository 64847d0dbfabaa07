package scraper

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"rssrelay/internal/shared/logger"
	"rssrelay/proxypool/model"
)

// ProxyScrapeSource queries the ProxyScrape display endpoint once per
// protocol and parses the newline-delimited ip:port listings.
type ProxyScrapeSource struct {
	client  *http.Client
	baseURL string
	country string
}

// NewProxyScrapeSource creates a new ProxyScrapeSource instance.
func NewProxyScrapeSource(country string) *ProxyScrapeSource {
	return &ProxyScrapeSource{
		client:  newClient(),
		baseURL: "https://api.proxyscrape.com",
		country: country,
	}
}

// Name returns the source's name.
func (s *ProxyScrapeSource) Name() string {
	return "proxyscrape"
}

// Scrape issues one query per protocol. A failed protocol query is logged
// and skipped; the remaining protocols are still fetched.
func (s *ProxyScrapeSource) Scrape(ctx context.Context) ([]model.Proxy, error) {
	l := logger.WithComponent("Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	var proxies []model.Proxy
	for _, protocol := range []string{"http", "socks4", "socks5"} {
		url := fmt.Sprintf("%s/v2/?request=displayproxies&country=%s&timeout=10000&anonymity=all&protocol=%s",
			s.baseURL, s.country, protocol)

		batch, err := s.scrapeProtocol(ctx, url, protocol)
		if err != nil {
			l.Warn().Err(err).Str("protocol", protocol).Str("source", s.Name()).Msg("Protocol query failed, skipping.")
			continue
		}
		proxies = append(proxies, batch...)
	}

	l.Info().Int("count", len(proxies)).Str("source", s.Name()).Msg("Scrape finished.")
	return proxies, nil
}

func (s *ProxyScrapeSource) scrapeProtocol(ctx context.Context, url, protocol string) ([]model.Proxy, error) {
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

	var proxies []model.Proxy
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		ip, port, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		p, err := model.New(ip, port, protocol)
		if err != nil {
			continue
		}
		proxies = append(proxies, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return proxies, nil
}
