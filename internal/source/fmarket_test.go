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

func TestLookupKeys(t *testing.T) {
	cases := []struct {
		shortName string
		want      []string
	}{
		{"VESAF", []string{"VESAF"}},
		{"VCBF-MGF", []string{"VCBF-MGF", "VCBFMGF"}},
		{"vcbf-mgf", []string{"VCBF-MGF", "VCBFMGF"}},
		{"DC DS", []string{"DC DS", "DCDS"}},
		{" SSISCA ", []string{"SSISCA"}},
	}

	for _, tc := range cases {
		got := lookupKeys(tc.shortName)
		if len(got) != len(tc.want) {
			t.Fatalf("lookupKeys(%q) = %v, want %v", tc.shortName, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("lookupKeys(%q) = %v, want %v", tc.shortName, got, tc.want)
			}
		}
	}
}

func TestMatchCode(t *testing.T) {
	navByKey := map[string]float64{
		"VESAF":    31245.67,
		"VCBF-MGF": 15890.12,
		"DCDS":     68123.0,
	}

	cases := []struct {
		code    string
		want    float64
		wantHit bool
	}{
		{"VESAF", 31245.67, true},
		// Danh mục ghi VCBFMGF nhưng Fmarket công bố VCBF-MGF
		{"VCBFMGF", 15890.12, true},
		{"VCBF-MGF", 15890.12, true},
		{"dcds", 68123.0, true},
		{"VCBFXYZ", 0, false},
	}

	for _, tc := range cases {
		got, hit := matchCode(navByKey, tc.code)
		if hit != tc.wantHit {
			t.Fatalf("matchCode(%q) hit = %v, want %v", tc.code, hit, tc.wantHit)
		}
		if hit && got != tc.want {
			t.Fatalf("matchCode(%q) = %.2f, want %.2f", tc.code, got, tc.want)
		}
	}
}

func TestFmarketFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, `{"data":{"rows":[
			{"shortName":"VESAF","nav":31245.67},
			{"shortName":"VCBF-MGF","nav":15890.12},
			{"shortName":"BROKEN","nav":0}
		]}}`)
	}))
	defer server.Close()

	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	config.Sources.FmarketApiUrl = server.URL
	config.Crawler.MaxRetries = 1
	config.Crawler.RetryBaseDelay = 1

	logger, _ := log.NewCslLogger()
	f, _ := fetcher.NewFetcher(config, logger)
	rl := limiter.NewRateLimiter(100, time.Millisecond)
	s, err := NewFmarketCatalog(config, logger, f, rl, config.Crawler.FundThousandsThreshold)
	if err != nil {
		t.Fatalf("failed to create fmarket source: %v", err)
	}

	quotes := s.Fetch(context.Background(), []string{"VCBFMGF", "VESAF", "DCDS"})

	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	byCode := map[string]float64{}
	for _, q := range quotes {
		byCode[q.AssetCode] = q.Price
	}
	// NAV trên ngưỡng nghìn đồng nên giữ nguyên
	if byCode["VESAF"] != 31245.67 {
		t.Fatalf("VESAF price %.2f, want 31245.67", byCode["VESAF"])
	}
	if byCode["VCBFMGF"] != 15890.12 {
		t.Fatalf("VCBFMGF price %.2f, want 15890.12", byCode["VCBFMGF"])
	}
}
