package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"rssrelay/internal/shared/logger"
	"rssrelay/proxypool/model"
)

// GetProxyListSource accumulates a batch from the GetProxyList API, which
// hands out one proxy per call. The endpoint is hit Requests times; one
// response can still yield several records when it advertises multiple
// protocols.
type GetProxyListSource struct {
	client   *http.Client
	baseURL  string
	country  string
	requests int
}

type getProxyListResponse struct {
	IP        string      `json:"ip"`
	Port      json.Number `json:"port"`
	Protocols []string    `json:"protocols"`
	Protocol  string      `json:"protocol"`
}

// NewGetProxyListSource creates a new GetProxyListSource instance.
func NewGetProxyListSource(country string, requests int) *GetProxyListSource {
	if requests <= 0 {
		requests = 10
	}
	return &GetProxyListSource{
		client:   newClient(),
		baseURL:  "https://api.getproxylist.com",
		country:  country,
		requests: requests,
	}
}

// Name returns the source's name.
func (s *GetProxyListSource) Name() string {
	return "getproxylist"
}

// Scrape repeats the single-proxy call. Per-call failures are logged and
// the loop continues, so one bad response never discards the rest.
func (s *GetProxyListSource) Scrape(ctx context.Context) ([]model.Proxy, error) {
	l := logger.WithComponent("Scraper")
	l.Info().Str("source", s.Name()).Int("requests", s.requests).Msg("Starting scrape...")

	url := fmt.Sprintf("%s/proxy?country[]=%s", s.baseURL, s.country)

	var proxies []model.Proxy
	for i := 0; i < s.requests; i++ {
		if err := ctx.Err(); err != nil {
			return proxies, err
		}

		batch, err := s.scrapeOnce(ctx, url)
		if err != nil {
			l.Warn().Err(err).Str("source", s.Name()).Msg("Single request failed, continuing.")
			continue
		}
		proxies = append(proxies, batch...)
	}

	l.Info().Int("count", len(proxies)).Str("source", s.Name()).Msg("Scrape finished.")
	return proxies, nil
}

func (s *GetProxyListSource) scrapeOnce(ctx context.Context, url string) ([]model.Proxy, error) {
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

	var body getProxyListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	protocols := body.Protocols
	if len(protocols) == 0 && body.Protocol != "" {
		protocols = []string{body.Protocol}
	}

	var proxies []model.Proxy
	for _, protocol := range protocols {
		p, err := model.New(body.IP, body.Port.String(), protocol)
		if err != nil {
			continue
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}
