// Package apiurl resolves the pledge backend base URL.
package apiurl

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	apiSuffix = "/api"

	// DefaultDevPort is where the backend listens during local development.
	DefaultDevPort = 8099

	// DefaultFallback is used when nothing else resolves.
	DefaultFallback = "http://localhost:8099/api"
)

// OverrideSource supplies the operator's manually stored base URL.
type OverrideSource interface {
	APIOverride(ctx context.Context) (string, error)
}

// Normalize trims whitespace and trailing slashes, then appends /api unless
// the value already ends with it (any case).
func Normalize(raw string) (string, bool) {
	v := strings.TrimRight(strings.TrimSpace(raw), "/")
	if v == "" {
		return "", false
	}
	if strings.HasSuffix(strings.ToLower(v), apiSuffix) {
		return v, true
	}
	return v + apiSuffix, true
}

// IsHTTPURL reports whether raw is an absolute http or https URL with a host.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Resolver picks the backend base URL. The zero value resolves with the
// default dev port and fallback.
type Resolver struct {
	EnvURL   string
	DevPort  int
	Fallback string
}

// Resolve returns the first usable candidate of: stored override, env value,
// page-derived URL, fallback. It never fails; override read errors are logged
// and skipped. page may be nil when there is no inbound request.
func (r Resolver) Resolve(ctx context.Context, overrides OverrideSource, page *url.URL) string {
	if overrides != nil {
		stored, err := overrides.APIOverride(ctx)
		if err != nil {
			log.WithError(err).Debug("api override unavailable")
		} else if IsHTTPURL(stored) {
			if v, ok := Normalize(stored); ok {
				return v
			}
		}
	}

	if IsHTTPURL(r.EnvURL) {
		if v, ok := Normalize(r.EnvURL); ok {
			return v
		}
	}

	if page != nil && page.Host != "" {
		host := page.Hostname()
		if isLocalHost(host) {
			return "http://" + net.JoinHostPort(host, strconv.Itoa(r.devPort())) + apiSuffix
		}
		scheme := page.Scheme
		if scheme == "" {
			scheme = "http"
		}
		return scheme + "://" + page.Host + apiSuffix
	}

	if v, ok := Normalize(r.Fallback); ok && IsHTTPURL(v) {
		return v
	}
	return DefaultFallback
}

func (r Resolver) devPort() int {
	if r.DevPort > 0 {
		return r.DevPort
	}
	return DefaultDevPort
}

func isLocalHost(host string) bool {
	if host == "localhost" || strings.HasPrefix(host, "127.") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.To4() != nil
}

// PageOrigin derives the origin the browser used to reach us. The scheme
// honours X-Forwarded-Proto from a terminating proxy.
func PageOrigin(r *http.Request) *url.URL {
	if r == nil || r.Host == "" {
		return nil
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	return &url.URL{Scheme: scheme, Host: host}
}
