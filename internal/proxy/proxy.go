// Package proxy forwards backend-bound dashboard traffic to the equity backend
// during local development.
package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/bobmcallan/vire-dashboard/internal/common"
)

// Route maps a path prefix to the backend. With StripPrefix the prefix is
// removed before forwarding, so /api/x reaches the backend as /x.
type Route struct {
	Prefix      string
	StripPrefix bool
}

// DefaultRoutes forwards /api with the prefix stripped, and /eq and
// /portfolio unmodified.
func DefaultRoutes() []Route {
	return []Route{
		{Prefix: "/api", StripPrefix: true},
		{Prefix: "/eq"},
		{Prefix: "/portfolio"},
	}
}

// Proxy is a prefix-routed reverse proxy to a single backend origin.
type Proxy struct {
	target *url.URL
	routes []Route
	rp     *httputil.ReverseProxy
	logger *common.Logger
}

// New creates a proxy to target. Routes with an empty prefix are skipped.
func New(target string, routes []Route, logger *common.Logger) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target %q: %w", target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy target %q: scheme and host required", target)
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	p := &Proxy{target: u, logger: logger}
	for _, r := range routes {
		prefix := "/" + strings.Trim(r.Prefix, "/")
		if prefix == "/" {
			continue
		}
		p.routes = append(p.routes, Route{Prefix: prefix, StripPrefix: r.StripPrefix})
	}

	p.rp = &httputil.ReverseProxy{
		Rewrite:      p.rewrite,
		ErrorHandler: p.errorHandler,
	}
	return p, nil
}

// Routes returns the normalised routes.
func (p *Proxy) Routes() []Route {
	return p.routes
}

// Match returns the route serving path, if any.
func (p *Proxy) Match(path string) (Route, bool) {
	for _, r := range p.routes {
		if path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/") {
			return r, true
		}
	}
	return Route{}, false
}

// ServeHTTP forwards the request when a route matches and answers 404 otherwise.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := p.Match(r.URL.Path); !ok {
		http.NotFound(w, r)
		return
	}
	p.rp.ServeHTTP(w, r)
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	route, _ := p.Match(pr.In.URL.Path)

	// SetURL also rewrites Host to the target's.
	pr.SetURL(p.target)
	pr.SetXForwarded()

	if route.StripPrefix {
		path := strings.TrimPrefix(pr.In.URL.Path, route.Prefix)
		if path == "" {
			path = "/"
		}
		pr.Out.URL.Path = singleJoin(p.target.Path, path)
		pr.Out.URL.RawPath = ""
	}

	p.logger.Debug().
		Str("method", pr.In.Method).
		Str("path", pr.In.URL.Path).
		Str("upstream", pr.Out.URL.String()).
		Msg("proxying request")
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Warn().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("error", err.Error()).
		Msg("backend proxy failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "error",
		"error":  "backend unavailable",
	})
}

func singleJoin(a, b string) string {
	switch {
	case a == "" || a == "/":
		return b
	case strings.HasSuffix(a, "/") && strings.HasPrefix(b, "/"):
		return a + b[1:]
	case !strings.HasSuffix(a, "/") && !strings.HasPrefix(b, "/"):
		return a + "/" + b
	}
	return a + b
}
