package serp

import (
	"net/url"
	"strings"
)

// NormalizedURL is the canonical (host, path) form of a URL used for
// rank comparison. Two URLs that normalize equal are treated as the
// same page; scheme, "www." prefix, trailing slash, query string and
// fragment are deliberately ignored.
type NormalizedURL struct {
	Host string
	Path string
}

// Normalize canonicalizes a raw URL string. It never fails: input that
// cannot be parsed as a URL goes through a manual scheme-stripping
// fallback so a best-effort (host, path) pair always comes back.
func Normalize(raw string) NormalizedURL {
	raw = strings.TrimSpace(raw)

	parsed, err := url.Parse(raw)
	if err == nil && parsed.Hostname() != "" {
		return NormalizedURL{
			Host: normalizeHost(parsed.Hostname()),
			Path: normalizePath(parsed.EscapedPath()),
		}
	}

	// Manual fallback for strings url.Parse rejects or parses without
	// a host (e.g. "example.com/foo" ends up entirely in Path).
	rest := raw
	rest = strings.TrimPrefix(rest, "https://")
	rest = strings.TrimPrefix(rest, "http://")

	host := rest
	path := ""
	if i := strings.Index(rest, "/"); i >= 0 {
		host = rest[:i]
		path = rest[i:]
	}

	return NormalizedURL{
		Host: normalizeHost(host),
		Path: normalizePath(path),
	}
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
