package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rssrelay/internal/shared/types"
)

func writeIni(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rssrelay.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadIni_MapsSections(t *testing.T) {
	path := writeIni(t, `
[relay]
target_url = http://feed.example/rss
marker = <dc:creator>
timeout_seconds = 20

[sources]
order = proxyscan,pubproxy
attempts = 5,4
country = KR
getproxylist_requests = 3

[publish]
owner = acme
repo = feeds
path = feed.xml
branch = main
token = ini-token

[log]
level = debug
`)

	cfg := new(types.Config)
	require.NoError(t, LoadIni(cfg, path))

	require.Equal(t, "http://feed.example/rss", cfg.RelayConf.TargetURL)
	require.Equal(t, "<dc:creator>", cfg.RelayConf.Marker)
	require.Equal(t, 20, cfg.RelayConf.TimeoutSeconds)
	require.Equal(t, []string{"proxyscan", "pubproxy"}, cfg.SourcesConf.SourceOrder())
	require.Equal(t, "KR", cfg.SourcesConf.Country)
	require.Equal(t, 3, cfg.SourcesConf.GetProxyListRequests)
	require.Equal(t, "acme", cfg.PublishConf.Owner)
	require.Equal(t, "main", cfg.PublishConf.Branch)
	require.Equal(t, "ini-token", cfg.PublishConf.Token)
	require.Equal(t, "debug", cfg.LogConf.Level)
}

func TestLoadIni_Defaults(t *testing.T) {
	path := writeIni(t, `
[relay]
target_url = http://feed.example/rss
`)

	cfg := new(types.Config)
	require.NoError(t, LoadIni(cfg, path))

	require.Equal(t, DefaultMarker, cfg.RelayConf.Marker)
	require.Equal(t, DefaultTimeoutSeconds, cfg.RelayConf.TimeoutSeconds)
	require.Equal(t, DefaultCountry, cfg.SourcesConf.Country)
	require.Equal(t, DefaultRepeatRequests, cfg.SourcesConf.GetProxyListRequests)
	require.Equal(t, DefaultAPIURL, cfg.PublishConf.APIURL)
	require.Equal(t, DefaultBranch, cfg.PublishConf.Branch)
	require.Equal(t, DefaultPath, cfg.PublishConf.Path)

	order := cfg.SourcesConf.SourceOrder()
	require.Equal(t, []string{"freeproxy.world", "proxyscrape", "proxyscan", "pubproxy", "getproxylist"}, order)
	require.Equal(t, []int{3, 2, 2, 2, 2}, cfg.SourcesConf.AttemptBudgets(len(order), 2))
}

func TestLoadIni_EnvTokenOverride(t *testing.T) {
	path := writeIni(t, `
[relay]
target_url = http://feed.example/rss

[publish]
token = ini-token
`)

	t.Setenv("GITHUB_TOKEN", "env-token")

	cfg := new(types.Config)
	require.NoError(t, LoadIni(cfg, path))
	require.Equal(t, "env-token", cfg.PublishConf.Token)
}

func TestLoadIni_MissingFile(t *testing.T) {
	cfg := new(types.Config)
	require.Error(t, LoadIni(cfg, filepath.Join(t.TempDir(), "absent.ini")))
}
