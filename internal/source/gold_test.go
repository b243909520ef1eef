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

func newGoldTestDeps(t *testing.T) (*cfg.Config, log.Logger, *limiter.RateLimiter) {
	t.Helper()
	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	config.Crawler.MaxRetries = 1
	config.Crawler.RetryBaseDelay = 1
	logger, _ := log.NewCslLogger()
	return config, logger, limiter.NewRateLimiter(100, time.Millisecond)
}

const webgiaPage = `<html><body><table>
<tr><th>Loại vàng</th><th>Mua vào</th><th>Bán ra</th></tr>
<tr><td>Vàng miếng SJC</td><td>86.300.000</td><td>87.800.000</td></tr>
<tr><td>Nhẫn tròn trơn 9999</td><td>77.900.000</td><td>79.200.000</td></tr>
</table></body></html>`

func TestWebgiaParsesSellColumn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, webgiaPage)
	}))
	defer server.Close()

	config, logger, rl := newGoldTestDeps(t)
	config.Sources.WebgiaGoldUrl = server.URL
	f, _ := fetcher.NewFetcher(config, logger)
	s, err := NewWebgiaGold(config, logger, f, rl)
	if err != nil {
		t.Fatalf("failed to create webgia source: %v", err)
	}

	quotes := s.Fetch(context.Background(), []string{"GOLD_SJC", "GOLD_RING"})

	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	byCode := map[string]float64{}
	for _, q := range quotes {
		byCode[q.AssetCode] = q.Price
	}
	// Cột cuối là giá bán ra, không phải giá mua vào
	if byCode["GOLD_SJC"] != 87_800_000 {
		t.Fatalf("GOLD_SJC price %.0f, want 87800000", byCode["GOLD_SJC"])
	}
	if byCode["GOLD_RING"] != 79_200_000 {
		t.Fatalf("GOLD_RING price %.0f, want 79200000", byCode["GOLD_RING"])
	}
}

func TestWebgiaMissingRowTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<table><tr><td>Vàng miếng SJC</td><td>87.800.000</td></tr></table>`)
	}))
	defer server.Close()

	config, logger, rl := newGoldTestDeps(t)
	config.Sources.WebgiaGoldUrl = server.URL
	f, _ := fetcher.NewFetcher(config, logger)
	s, _ := NewWebgiaGold(config, logger, f, rl)

	quotes := s.Fetch(context.Background(), []string{"GOLD_SJC", "GOLD_RING"})

	if len(quotes) != 1 || quotes[0].AssetCode != "GOLD_SJC" {
		t.Fatalf("got %+v, want only GOLD_SJC", quotes)
	}
}

const giavangPage = `<html><body><table>
<tr><td>Vàng SJC 1L</td><td>86,300,000</td><td>87,800,000</td></tr>
<tr><td>Nhẫn tròn trơn</td><td>77.900.000</td><td>79.200.000</td></tr>
<tr><td>Vàng tây 18K</td><td>55.000.000</td><td>56.000.000</td></tr>
</table></body></html>`

func TestGiavangScan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, giavangPage)
	}))
	defer server.Close()

	config, logger, rl := newGoldTestDeps(t)
	config.Sources.GiavangUrl = server.URL
	f, _ := fetcher.NewFetcher(config, logger)
	s, err := NewGiavangScan(config, logger, f, rl)
	if err != nil {
		t.Fatalf("failed to create giavang source: %v", err)
	}

	quotes := s.Fetch(context.Background(), []string{"GOLD_SJC", "GOLD_RING"})

	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	byCode := map[string]float64{}
	for _, q := range quotes {
		byCode[q.AssetCode] = q.Price
	}
	// Nguồn trộn lẫn dấu phẩy và dấu chấm, cả hai đều phải đọc được
	if byCode["GOLD_SJC"] != 87_800_000 {
		t.Fatalf("GOLD_SJC price %.0f, want 87800000", byCode["GOLD_SJC"])
	}
	if byCode["GOLD_RING"] != 79_200_000 {
		t.Fatalf("GOLD_RING price %.0f, want 79200000", byCode["GOLD_RING"])
	}
}

func TestScanRowsSkipsOutOfRangeTokens(t *testing.T) {
	// Token cuối ngoài biên, token trước đó hợp lệ
	html := `<tr><td>Vàng SJC</td><td>87.800.000</td><td>10.000.000</td></tr>`
	price := scanRows(html, []string{"SJC"}, 75_000_000, 95_000_000)
	if price == nil || *price != 87_800_000 {
		t.Fatalf("scanRows = %v, want 87800000", price)
	}
}

func TestScanRowsNoMatch(t *testing.T) {
	if price := scanRows(`<tr><td>Vàng tây</td><td>56.000.000</td></tr>`, []string{"SJC"}, 75_000_000, 95_000_000); price != nil {
		t.Fatalf("scanRows = %v, want nil", *price)
	}
}

func TestDojiFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[
			{"name":"Vàng miếng SJC","buy":"86,300","sell":"87,800"},
			{"name":"Nhẫn Tròn Trơn Hưng Thịnh Vượng 9999","buy":"77,900","sell":"79,200"}
		]}`)
	}))
	defer server.Close()

	config, logger, rl := newGoldTestDeps(t)
	config.Sources.DojiFeedUrl = server.URL
	f, _ := fetcher.NewFetcher(config, logger)
	s, err := NewDojiFeed(config, logger, f, rl)
	if err != nil {
		t.Fatalf("failed to create doji source: %v", err)
	}

	quotes := s.Fetch(context.Background(), []string{"GOLD_SJC", "GOLD_RING"})

	// Feed chỉ phục vụ vàng nhẫn, giá theo nghìn đồng được rescale về đồng
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
	if quotes[0].AssetCode != "GOLD_RING" || quotes[0].Price != 79_200_000 {
		t.Fatalf("got %+v, want GOLD_RING at 79200000", quotes[0])
	}
}

func TestDojiSkippedWithoutRingCode(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	config, logger, rl := newGoldTestDeps(t)
	config.Sources.DojiFeedUrl = server.URL
	f, _ := fetcher.NewFetcher(config, logger)
	s, _ := NewDojiFeed(config, logger, f, rl)

	quotes := s.Fetch(context.Background(), []string{"GOLD_SJC"})

	if len(quotes) != 0 {
		t.Fatalf("got %d quotes, want 0", len(quotes))
	}
	if called {
		t.Fatal("feed requested although no ring code was asked for")
	}
}

func TestIsRingProduct(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Nhẫn Tròn Trơn 9999", true},
		{"Nhan Tron Tron 999.9", true},
		{"Hưng Thịnh Vượng 9999", true},
		{"Nhẫn đính đá", false},
		{"Vàng miếng SJC 9999", false},
	}
	for _, tc := range cases {
		if got := isRingProduct(tc.name); got != tc.want {
			t.Fatalf("isRingProduct(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
