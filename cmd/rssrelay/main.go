package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rssrelay/internal/fetch"
	"rssrelay/internal/publish"
	"rssrelay/internal/relay"
	"rssrelay/internal/shared/config"
	"rssrelay/internal/shared/logger"
	"rssrelay/internal/shared/types"
	"rssrelay/proxypool/scraper"
)

func main() {
	configDir := flag.String("configdir", "configs", "Path to config directory")
	flag.Parse()

	iniPath := filepath.Join(*configDir, "rssrelay.ini")

	cfg := new(types.Config)
	if err := config.LoadIni(cfg, iniPath); err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", iniPath, err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.RelayConf.TargetURL == "" {
		logger.Fatal().Msg("No target_url configured in [relay].")
	}
	if cfg.PublishConf.Token == "" {
		logger.Fatal().Msg("No publish token available; set GITHUB_TOKEN.")
	}

	specs, err := buildSpecs(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build source list.")
	}

	fetcher := fetch.New(time.Duration(cfg.RelayConf.TimeoutSeconds)*time.Second, cfg.RelayConf.Marker)
	pipeline := relay.New(specs, fetcher)

	ctx := context.Background()
	content, err := pipeline.Run(ctx, cfg.RelayConf.TargetURL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch a valid feed through any proxy.")
		os.Exit(1)
	}

	result, err := publish.NewClient(cfg.PublishConf).Publish(ctx, content)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to publish feed.")
		os.Exit(1)
	}
	if result == publish.ResultRejected {
		logger.Error().Msg("Publish rejected: stored revision changed since read.")
		os.Exit(1)
	}

	logger.Info().Str("result", result.String()).Str("path", cfg.PublishConf.Path).Msg("Feed published.")
}

// buildSpecs turns the configured fallback order into bound source specs.
func buildSpecs(cfg *types.Config) ([]relay.SourceSpec, error) {
	order := cfg.SourcesConf.SourceOrder()
	if len(order) == 0 {
		return nil, fmt.Errorf("empty source order")
	}
	budgets := cfg.SourcesConf.AttemptBudgets(len(order), 2)

	specs := make([]relay.SourceSpec, 0, len(order))
	for i, name := range order {
		src, err := newSource(name, cfg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, relay.SourceSpec{
			Name:     name,
			Attempts: budgets[i],
			Source:   src,
		})
	}
	return specs, nil
}

func newSource(name string, cfg *types.Config) (scraper.Source, error) {
	country := cfg.SourcesConf.Country
	switch name {
	case "freeproxy.world":
		return scraper.NewFreeProxyWorldSource(country), nil
	case "proxyscrape":
		return scraper.NewProxyScrapeSource(country), nil
	case "proxyscan":
		return scraper.NewProxyScanSource(country), nil
	case "pubproxy":
		return scraper.NewPubProxySource(country), nil
	case "getproxylist":
		return scraper.NewGetProxyListSource(country, cfg.SourcesConf.GetProxyListRequests), nil
	default:
		return nil, fmt.Errorf("unknown proxy source %q", name)
	}
}
