package types

import (
	"strconv"
	"strings"
)

// RelayConf holds the fetch-side behavior configuration.
type RelayConf struct {
	TargetURL      string `ini:"target_url"`
	Marker         string `ini:"marker"`
	TimeoutSeconds int    `ini:"timeout_seconds"`
}

// SourcesConf configures the proxy-source fallback order and budgets.
// Order is a comma-separated list of source names; Attempts is a
// comma-separated list of per-source round budgets aligned with Order.
type SourcesConf struct {
	Order                string `ini:"order"`
	Attempts             string `ini:"attempts"`
	Country              string `ini:"country"`
	GetProxyListRequests int    `ini:"getproxylist_requests"`
}

// PublishConf configures the GitHub contents-API target. Token is normally
// left empty here and supplied via the GITHUB_TOKEN environment variable.
type PublishConf struct {
	APIURL string `ini:"api_url"`
	Owner  string `ini:"owner"`
	Repo   string `ini:"repo"`
	Path   string `ini:"path"`
	Branch string `ini:"branch"`
	Token  string `ini:"token"`
}

// LogConf contains logging specific configuration.
type LogConf struct {
	Level string `ini:"level"`
}

// Config is the unified behavior configuration mapped from rssrelay.ini.
type Config struct {
	RelayConf   `ini:"relay"`
	SourcesConf `ini:"sources"`
	PublishConf `ini:"publish"`
	LogConf     `ini:"log"`
}

// SourceOrder returns the configured fallback order as a clean name list.
func (c *SourcesConf) SourceOrder() []string {
	var names []string
	for _, part := range strings.Split(c.Order, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// AttemptBudgets returns the per-source round budgets aligned with
// SourceOrder. Missing or malformed entries fall back to def.
func (c *SourcesConf) AttemptBudgets(count, def int) []int {
	budgets := make([]int, count)
	parts := strings.Split(c.Attempts, ",")
	for i := 0; i < count; i++ {
		budgets[i] = def
		if i < len(parts) {
			if n, err := strconv.Atoi(strings.TrimSpace(parts[i])); err == nil && n >= 1 {
				budgets[i] = n
			}
		}
	}
	return budgets
}
