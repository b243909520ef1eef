package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/limiter"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

func newDchartForTest(t *testing.T, serverUrl string) *DchartAPI {
	t.Helper()
	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	config.Sources.DchartApiUrl = serverUrl
	config.Crawler.MaxRetries = 1
	config.Crawler.RetryBaseDelay = 1

	logger, _ := log.NewCslLogger()
	f, err := fetcher.NewFetcher(config, logger)
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}

	rl := limiter.NewRateLimiter(100, time.Millisecond)
	s, err := NewDchartAPI(config, logger, f, rl, 7, config.Crawler.StockThousandsThreshold)
	if err != nil {
		t.Fatalf("failed to create dchart source: %v", err)
	}
	return s
}

func TestDchartLastBarScaled(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol != "HPG" {
			http.NotFound(w, r)
			return
		}
		// Nến cuối là quan sát của ngày, các nến trước bị bỏ qua
		fmt.Fprintf(w, `{"s":"ok","t":[%d,%d],"c":[25.1,25.4]}`, ts-86400, ts)
	}))
	defer server.Close()

	s := newDchartForTest(t, server.URL)
	quotes := s.Fetch(context.Background(), []string{"HPG"})

	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
	q := quotes[0]
	if q.AssetCode != "HPG" {
		t.Fatalf("asset code %q, want HPG", q.AssetCode)
	}
	// 25.4 dưới ngưỡng nghìn đồng nên được nhân 1000
	if q.Price != 25400 {
		t.Fatalf("price %.2f, want 25400", q.Price)
	}
	if want := time.Unix(ts, 0).Format("2006-01-02"); q.Date != want {
		t.Fatalf("date %q, want %q", q.Date, want)
	}
	if q.Source != "VNDirect" {
		t.Fatalf("source %q, want VNDirect", q.Source)
	}
}

func TestDchartLargePriceNotScaled(t *testing.T) {
	ts := time.Now().Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"s":"ok","t":[%d],"c":[21350]}`, ts)
	}))
	defer server.Close()

	s := newDchartForTest(t, server.URL)
	quotes := s.Fetch(context.Background(), []string{"E1VFVN30"})

	if len(quotes) != 1 || quotes[0].Price != 21350 {
		t.Fatalf("got %+v, want one quote with price 21350", quotes)
	}
}

func TestDchartEmptySeriesTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"s":"no_data","t":[],"c":[]}`)
	}))
	defer server.Close()

	s := newDchartForTest(t, server.URL)
	quotes := s.Fetch(context.Background(), []string{"HPG"})

	if len(quotes) != 0 {
		t.Fatalf("got %d quotes from an empty series, want 0", len(quotes))
	}
}

func TestDchartOneFailingCodeDoesNotBreakBatch(t *testing.T) {
	ts := time.Now().Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "BAD" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"s":"ok","t":[%d],"c":[98.7]}`, ts)
	}))
	defer server.Close()

	s := newDchartForTest(t, server.URL)
	quotes := s.Fetch(context.Background(), []string{"BAD", "FPT"})

	if len(quotes) != 1 || quotes[0].AssetCode != "FPT" {
		t.Fatalf("got %+v, want only FPT", quotes)
	}
	if quotes[0].Price != 98700 {
		t.Fatalf("price %.2f, want 98700", quotes[0].Price)
	}
}
