package config

import (
	"os"

	"gopkg.in/ini.v1"

	"rssrelay/internal/shared/types"
)

// Built-in defaults matching the fallback order the pipeline shipped with.
const (
	DefaultMarker         = "<dc:date>"
	DefaultTimeoutSeconds = 15
	DefaultCountry        = "JP"
	DefaultRepeatRequests = 10
	DefaultAPIURL         = "https://api.github.com"
	DefaultBranch         = "master"
	DefaultPath           = "rss.xml"
	DefaultOrder          = "freeproxy.world,proxyscrape,proxyscan,pubproxy,getproxylist"
	DefaultAttempts       = "3,2,2,2,2"
)

// LoadIni loads the rssrelay.ini behavior configuration, fills in defaults
// for omitted keys and applies environment overrides. The publish token is
// never compiled in: GITHUB_TOKEN always wins over the ini value.
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}

	applyDefaults(cfg)
	overrideFromEnv(&cfg.PublishConf.Token, "GITHUB_TOKEN")
	overrideFromEnv(&cfg.LogConf.Level, "RSSRELAY_LOG_LEVEL")
	return nil
}

func applyDefaults(cfg *types.Config) {
	if cfg.RelayConf.Marker == "" {
		cfg.RelayConf.Marker = DefaultMarker
	}
	if cfg.RelayConf.TimeoutSeconds <= 0 {
		cfg.RelayConf.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.SourcesConf.Order == "" {
		cfg.SourcesConf.Order = DefaultOrder
	}
	if cfg.SourcesConf.Attempts == "" {
		cfg.SourcesConf.Attempts = DefaultAttempts
	}
	if cfg.SourcesConf.Country == "" {
		cfg.SourcesConf.Country = DefaultCountry
	}
	if cfg.SourcesConf.GetProxyListRequests <= 0 {
		cfg.SourcesConf.GetProxyListRequests = DefaultRepeatRequests
	}
	if cfg.PublishConf.APIURL == "" {
		cfg.PublishConf.APIURL = DefaultAPIURL
	}
	if cfg.PublishConf.Branch == "" {
		cfg.PublishConf.Branch = DefaultBranch
	}
	if cfg.PublishConf.Path == "" {
		cfg.PublishConf.Path = DefaultPath
	}
	if cfg.LogConf.Level == "" {
		cfg.LogConf.Level = "info"
	}
}

func overrideFromEnv(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}
