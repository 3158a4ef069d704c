package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

type seen struct {
	path  string
	query string
	host  string
}

func newBackend(t *testing.T, got *seen) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.host = r.Host
		w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProxy_StripsAPIPrefix(t *testing.T) {
	var got seen
	backend := newBackend(t, &got)

	p, err := New(backend.URL, DefaultRoutes(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary?x=1", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.path != "/portfolio/summary" {
		t.Errorf("expected stripped path /portfolio/summary, got %s", got.path)
	}
	if got.query != "x=1" {
		t.Errorf("expected query preserved, got %q", got.query)
	}
}

func TestProxy_ForwardsEqAndPortfolioUnmodified(t *testing.T) {
	var got seen
	backend := newBackend(t, &got)
	p, err := New(backend.URL, DefaultRoutes(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, path := range []string{"/eq/getTopGainersAndLosers", "/portfolio/holdings"} {
		rec := httptest.NewRecorder()
		p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if got.path != path {
			t.Errorf("expected %s forwarded unmodified, got %s", path, got.path)
		}
	}
}

func TestProxy_RewritesHost(t *testing.T) {
	var got seen
	backend := newBackend(t, &got)
	p, err := New(backend.URL, DefaultRoutes(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/eq/getMarketSentiment", nil)
	req.Host = "dashboard.local:4241"
	p.ServeHTTP(httptest.NewRecorder(), req)

	u, _ := url.Parse(backend.URL)
	if got.host != u.Host {
		t.Errorf("expected Host %s, got %s", u.Host, got.host)
	}
}

func TestProxy_UnmatchedPathIs404(t *testing.T) {
	var got seen
	backend := newBackend(t, &got)
	p, err := New(backend.URL, DefaultRoutes(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/equities", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if got.path != "" {
		t.Errorf("expected no upstream request, got %s", got.path)
	}
}

func TestProxy_BackendDownIs502(t *testing.T) {
	p, err := New("http://127.0.0.1:1", DefaultRoutes(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eq/getCompanyOverview", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("expected JSON body, got %s", body)
	}
	if payload["error"] != "backend unavailable" {
		t.Errorf("unexpected error payload: %v", payload)
	}
}

func TestNew_InvalidTarget(t *testing.T) {
	for _, target := range []string{"", "localhost:8080", "://"} {
		if _, err := New(target, DefaultRoutes(), nil); err == nil {
			t.Errorf("expected error for target %q", target)
		}
	}
}

func TestMatch_NormalisesPrefixes(t *testing.T) {
	p, err := New("http://localhost:9000", []Route{{Prefix: "eq/"}, {Prefix: "/"}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(p.Routes()) != 1 || p.Routes()[0].Prefix != "/eq" {
		t.Fatalf("unexpected routes %+v", p.Routes())
	}
	if _, ok := p.Match("/eq"); !ok {
		t.Error("expected /eq to match")
	}
	if _, ok := p.Match("/equity"); ok {
		t.Error("expected /equity not to match")
	}
}

func TestSingleJoin(t *testing.T) {
	tests := []struct{ a, b, want string }{
		{"", "/x", "/x"},
		{"/", "/x", "/x"},
		{"/base", "/x", "/base/x"},
		{"/base/", "/x", "/base/x"},
	}
	for _, tt := range tests {
		if got := singleJoin(tt.a, tt.b); got != tt.want {
			t.Errorf("singleJoin(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}
