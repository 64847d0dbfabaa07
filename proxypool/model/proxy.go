package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheme is the tunnel protocol spoken to a proxy. It governs how the
// outbound request reaches the target, for both http and https traffic.
type Scheme string

const (
	SchemeHTTP   Scheme = "http"
	SchemeSOCKS4 Scheme = "socks4"
	SchemeSOCKS5 Scheme = "socks5"
)

// ParseScheme normalizes a provider-reported proxy type. Providers label
// CONNECT-capable proxies as "https"; those tunnel over the same endpoint as
// plain HTTP, so the label is coerced to http.
func ParseScheme(s string) (Scheme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "http", "https":
		return SchemeHTTP, true
	case "socks4":
		return SchemeSOCKS4, true
	case "socks5":
		return SchemeSOCKS5, true
	default:
		return "", false
	}
}

// Proxy holds the network coordinates of one candidate relay. It is a plain
// value: freely copyable, compared by value, never mutated after New.
type Proxy struct {
	Address string
	Port    int
	Scheme  Scheme
}

// New builds a validated Proxy from raw provider fields. Anything malformed
// (empty address, port outside 1-65535, unknown scheme) is rejected here so
// that scraped batches only ever contain usable records.
func New(address, port, scheme string) (Proxy, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Proxy{}, fmt.Errorf("empty address")
	}

	p, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return Proxy{}, fmt.Errorf("invalid port %q: %w", port, err)
	}
	if p < 1 || p > 65535 {
		return Proxy{}, fmt.Errorf("port %d out of range", p)
	}

	sch, ok := ParseScheme(scheme)
	if !ok {
		return Proxy{}, fmt.Errorf("unsupported scheme %q", scheme)
	}

	return Proxy{Address: address, Port: p, Scheme: sch}, nil
}

// HostPort returns "address:port".
func (p Proxy) HostPort() string {
	return fmt.Sprintf("%s:%d", p.Address, p.Port)
}

// URL returns "scheme://address:port", the form handed to transports.
func (p Proxy) URL() string {
	return fmt.Sprintf("%s://%s:%d", p.Scheme, p.Address, p.Port)
}
