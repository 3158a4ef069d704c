package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/vire-dashboard/internal/models"
)

func TestGetCompanyOverview_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eq/getCompanyOverview" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("expected symbol AAPL, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":       "Apple Inc.",
			"symbol":     "AAPL",
			"price":      189.25,
			"marketCap":  2.9e12,
			"weekHigh52": 199.62,
			"weekLow52":  164.08,
		})
	}))
	defer srv.Close()

	c := NewEquityClient(srv.URL)
	ov, err := c.GetCompanyOverview(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ov.Name != "Apple Inc." {
		t.Errorf("expected name Apple Inc., got %s", ov.Name)
	}
	if ov.Price != 189.25 {
		t.Errorf("expected price 189.25, got %v", ov.Price)
	}
	if ov.MarketCap != 2.9e12 {
		t.Errorf("expected market cap 2.9e12, got %v", ov.MarketCap)
	}
}

func TestGetTopGainersAndLosers_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eq/getTopGainersAndLosers" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"gainers":[{"symbol":"NVDA","name":"NVIDIA","change":4.2}],"losers":[{"symbol":"INTC","name":"Intel","change":-3.1}]}`))
	}))
	defer srv.Close()

	gl, err := NewEquityClient(srv.URL).GetTopGainersAndLosers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gl.Gainers) != 1 || gl.Gainers[0].Symbol != "NVDA" {
		t.Errorf("unexpected gainers: %+v", gl.Gainers)
	}
	if len(gl.Losers) != 1 || gl.Losers[0].Change != -3.1 {
		t.Errorf("unexpected losers: %+v", gl.Losers)
	}
}

func TestGetMarketSentiment_SendsTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ticker"); got != "SPY" {
			t.Errorf("expected ticker SPY, got %s", got)
		}
		w.Write([]byte(`{"symbol":"SPY","sentiment":"Bearish","description":"d","strength":"Low","confidence":30}`))
	}))
	defer srv.Close()

	s, err := NewEquityClient(srv.URL).GetMarketSentiment(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Sentiment != "Bearish" || s.Confidence != 30 {
		t.Errorf("unexpected sentiment: %+v", s)
	}
}

func TestGet_ServerErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	_, err := NewEquityClient(srv.URL).GetTopGainersAndLosers(context.Background())
	if err == nil {
		t.Fatal("expected error for 503")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if se.Code != http.StatusServiceUnavailable || se.Message != "rate limited" {
		t.Errorf("unexpected status error: %+v", se)
	}
}

func TestGet_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewEquityClient(srv.URL).GetCompanyOverview(context.Background(), "AAPL")
	if err == nil || !strings.Contains(err.Error(), "failed to parse response") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestGet_UnreachableBackend(t *testing.T) {
	_, err := NewEquityClient("http://127.0.0.1:1").GetMarketSentiment(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewEquityClient(srv.URL, WithTimeout(20*time.Millisecond)).GetCompanyOverview(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestSearchStocksByName_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eq/searchStocksByName" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "tesla motors" {
			t.Errorf("expected query in symbol param, got %q", got)
		}
		w.Write([]byte(`[{"symbol":"TSLA","name":"Tesla"}]`))
	}))
	defer srv.Close()

	results, err := NewEquityClient(srv.URL).SearchStocksByName(context.Background(), "tesla motors")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Symbol != "TSLA" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSearchStocksByName_BackendFailureReturnsSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	results, err := NewEquityClient(srv.URL).SearchStocksByName(context.Background(), "apple")
	if err != nil {
		t.Fatalf("expected backend failure to be absorbed, got %v", err)
	}
	if !reflect.DeepEqual(results, models.SampleStockMatches()) {
		t.Errorf("expected sample results, got %+v", results)
	}
}

func TestSearchStocksByName_UnreachableReturnsSample(t *testing.T) {
	results, err := NewEquityClient("http://127.0.0.1:1").SearchStocksByName(context.Background(), "apple")
	if err != nil {
		t.Fatalf("expected network failure to be absorbed, got %v", err)
	}
	if len(results) != 3 || results[0].Symbol != "AAPL" {
		t.Errorf("expected sample results, got %+v", results)
	}
}

func TestSearchStocksByName_TransportFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEquityClient("http://127.0.0.1:1").SearchStocksByName(ctx, "apple"); err == nil {
		t.Error("expected error for cancelled context")
	}

	if _, err := NewEquityClient("http://bad host").SearchStocksByName(context.Background(), "apple"); err == nil {
		t.Error("expected error for an unbuildable request")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewEquityClient(srv.URL + "/")
	if err := c.Ping(context.Background(), "/health"); err != nil {
		t.Errorf("expected healthy backend, got %v", err)
	}
	if err := c.Ping(context.Background(), "/missing"); err == nil {
		t.Error("expected error for 404")
	}
}
