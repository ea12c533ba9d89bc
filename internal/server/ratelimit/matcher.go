package ratelimit

import (
	"strings"
)

// unlimited is returned for health checks that must never be throttled.
var unlimited = EndpointConfig{}

var exemptPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint returns the configuration for a request, or nil when the
// default limit applies. An exact path wins over a prefix entry (a path
// ending in "/"), and among prefixes the longest one wins, so
// "/applications/ats-score" is not shadowed by "/applications/".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && exemptPaths[path] {
		cfg := unlimited
		return &cfg
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
