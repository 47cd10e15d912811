// Package playback resolves the playback URLs the backend hands out into
// addresses the device can actually reach. Backends running behind local
// development setups return relative paths or loopback origins; the
// rewrite rules are configuration, not policy.
package playback

import (
	"strings"

	"github.com/Poper173/Kilamix/internal/models"
)

// Rules configures how raw playback URLs are adapted to the environment.
type Rules struct {
	// Origin is the device-reachable scheme://host:port that relative
	// paths and rewritten loopback addresses are joined to.
	Origin string
	// LoopbackOrigins are full origins (e.g. "http://localhost:8000")
	// replaced with Origin wherever they appear as a URL prefix.
	LoopbackOrigins []string
	// DowngradeTLS rewrites https:// to http:// before loopback
	// replacement. Only sensible for local-development backends.
	DowngradeTLS bool
}

// Resolve picks the playable URL for a video and applies the rules.
// It prefers the streaming URL over the direct file URL; an empty result
// means the video carries no playable address.
func (r Rules) Resolve(v models.Video) string {
	raw := ""
	if v.VideoURL != nil && *v.VideoURL != "" {
		raw = *v.VideoURL
	} else if v.VideoFileURL != nil && *v.VideoFileURL != "" {
		raw = *v.VideoFileURL
	}
	if raw == "" {
		return ""
	}
	return r.rewrite(raw)
}

func (r Rules) rewrite(raw string) string {
	origin := strings.TrimSuffix(r.Origin, "/")

	switch {
	case strings.HasPrefix(raw, "/"):
		return origin + raw
	case strings.HasPrefix(raw, "api/"):
		return origin + "/" + raw
	}

	if r.DowngradeTLS && strings.HasPrefix(raw, "https://") {
		raw = "http://" + strings.TrimPrefix(raw, "https://")
	}

	for _, loopback := range r.LoopbackOrigins {
		loopback = strings.TrimSuffix(loopback, "/")
		if strings.HasPrefix(raw, loopback+"/") || raw == loopback {
			return origin + strings.TrimPrefix(raw, loopback)
		}
	}

	return raw
}
