package carteira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// i10 returns a client pointed at a test server, bypassing the disk cache.
func i10(srv *httptest.Server) *Investidor10 {
	return &Investidor10{
		client:   srv.Client(),
		baseURL:  srv.URL,
		session:  "test-session",
		walletID: 42,
	}
}

func TestInvestidor10_TickerID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cookie"); !strings.Contains(got, "laravel_session=test-session") {
			t.Errorf("missing session cookie, got %q", got)
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/buscar/ticker/"):
			fmt.Fprint(w, `[{"id": 271, "name": "PETR4 - Petrobras"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := i10(srv).TickerID("PETR4")
	if err != nil {
		t.Fatalf("TickerID: %v", err)
	}
	want := OnlineTicker{ID: 271, Name: "PETR4 - Petrobras", Kind: kindTicker}
	if got != want {
		t.Errorf("TickerID = %+v, want %+v", got, want)
	}
}

func TestInvestidor10_TickerID_FallsBackToFII(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/buscar/ticker/"):
			fmt.Fprint(w, `[]`) // no stock by that name
		case strings.HasPrefix(r.URL.Path, "/api/buscar/fii/"):
			fmt.Fprint(w, `[{"id": 88, "name": "HGLG11 - CSHG Logística"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := i10(srv).TickerID("HGLG11")
	if err != nil {
		t.Fatalf("TickerID: %v", err)
	}
	if got.Kind != kindFII {
		t.Errorf("Kind = %q, want %q", got.Kind, kindFII)
	}
	if got.ID != 88 {
		t.Errorf("ID = %d, want 88", got.ID)
	}
}

func TestInvestidor10_TickerID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	if _, err := i10(srv).TickerID("NOPE11"); err == nil {
		t.Fatal("expected an error for an unknown ticker")
	}
}

func TestInvestidor10_AddTrade(t *testing.T) {
	var trade i10Trade
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/buscar/ticker/"):
			fmt.Fprint(w, `[{"id": 271, "name": "PETR4 - Petrobras"}]`)
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/minhas-carteiras/lancamentos/42/"):
			if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
				t.Errorf("decoding trade: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tx := NewBuy(on("2024-01-10"), "", "PETR4", Q(10), BRL(28.20))
	if err := i10(srv).AddTrade(tx); err != nil {
		t.Fatalf("AddTrade: %v", err)
	}

	want := i10Trade{
		TickerType:   "Ticker",
		UserWalletID: 42,
		TradeType:    "BUY",
		Source:       "Manual",
		Date:         "10/01/2024",
		Qty:          10,
		Ticker:       271,
		Price:        "28,20000000",
	}
	if trade != want {
		t.Errorf("posted trade = %+v, want %+v", trade, want)
	}
}

func TestInvestidor10_AddTrade_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/buscar/ticker/") {
			fmt.Fprint(w, `[{"id": 271, "name": "PETR4"}]`)
			return
		}
		http.Error(w, "expired session", http.StatusUnauthorized)
	}))
	defer srv.Close()

	tx := NewSell(on("2024-03-01"), "", "PETR4", Q(5), BRL(26.85))
	if err := i10(srv).AddTrade(tx); err == nil {
		t.Fatal("expected an error from a 401 response")
	}
}

func TestI10Price(t *testing.T) {
	tests := []struct {
		in   Money
		want string
	}{
		{BRL(28.20), "28,20000000"},
		{BRL(61.5), "61,50000000"},
		{BRL(7), "7,00000000"},
		{BRL(26.853), "26,85000000"}, // rounded at two digits
	}
	for _, tt := range tests {
		if got := i10Price(tt.in); got != tt.want {
			t.Errorf("i10Price(%s) = %q, want %q", tt.in.Decimal(), got, tt.want)
		}
	}
}
