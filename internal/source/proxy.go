package source

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/platewatch/platewatch/internal/model"
)

// proxyFunc selects the outbound proxy for the feed clients. Explicit
// proxy URLs from the HTTP config win over the standard environment
// variables; hosts on the no_proxy list always connect directly.
func proxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if hostExcluded(req.URL.Hostname(), cfg.NoProxy) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && cfg.HTTPSProxy != "" {
			return url.Parse(cfg.HTTPSProxy)
		}
		if cfg.HTTPProxy != "" {
			return url.Parse(cfg.HTTPProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// hostExcluded reports whether host matches an entry of the
// comma-separated no_proxy list, exactly or as a domain suffix.
func hostExcluded(host, noProxy string) bool {
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(entry), "."))
		if entry == "" {
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
