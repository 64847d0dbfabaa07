package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rssrelay/internal/shared/logger"
	"rssrelay/proxypool/model"
)

// FreeProxyWorldSource scrapes the freeproxy.world country listing page.
type FreeProxyWorldSource struct {
	client  *http.Client
	baseURL string
	country string
}

// NewFreeProxyWorldSource creates a new FreeProxyWorldSource instance.
func NewFreeProxyWorldSource(country string) *FreeProxyWorldSource {
	return &FreeProxyWorldSource{
		client:  newClient(),
		baseURL: "https://www.freeproxy.world",
		country: country,
	}
}

// Name returns the source's name.
func (s *FreeProxyWorldSource) Name() string {
	return "freeproxy.world"
}

// Scrape fetches the listing page and extracts proxies from its table.
// A missing table or table body means the site layout changed; that is
// logged and yields an empty batch, not an error.
func (s *FreeProxyWorldSource) Scrape(ctx context.Context) ([]model.Proxy, error) {
	l := logger.WithComponent("Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	url := fmt.Sprintf("%s/?country=%s", s.baseURL, s.country)
	req, err := newRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", s.Name(), err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page for %s: %w", s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("received non-200 status code (%d) from %s", resp.StatusCode, s.Name())
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for %s: %w", s.Name(), err)
	}

	table := doc.Find("table.layui-table")
	if table.Length() == 0 {
		l.Warn().Str("source", s.Name()).Msg("Proxy table not found, site layout may have changed.")
		return nil, nil
	}
	tbody := table.Find("tbody")
	if tbody.Length() == 0 {
		l.Warn().Str("source", s.Name()).Msg("Table body not found, site layout may have changed.")
		return nil, nil
	}

	var proxies []model.Proxy
	tbody.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		ip := strings.TrimSpace(row.Find("td.show-ip-div").Text())
		if ip == "" {
			ip = strings.TrimSpace(cells.Eq(0).Text())
		}
		port := strings.TrimSpace(cells.Eq(1).Text())

		// The type cell reads like "http (elite)"; only the first token matters.
		proxyType := strings.TrimSpace(cells.Eq(5).Text())
		if fields := strings.Fields(proxyType); len(fields) > 0 {
			proxyType = fields[0]
		}

		p, err := model.New(ip, port, proxyType)
		if err != nil {
			l.Debug().Str("ip", ip).Str("port", port).Str("source", s.Name()).Err(err).Msg("Skipping row.")
			return
		}
		proxies = append(proxies, p)
	})

	l.Info().Int("count", len(proxies)).Str("source", s.Name()).Msg("Scrape finished.")
	return proxies, nil
}
