package source

import (
	"context"
	"testing"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

func TestBrowserSourcesDisabledByDefault(t *testing.T) {
	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	logger, _ := log.NewCslLogger()

	fund, err := NewBrowserFund(config, logger, false, true)
	if err != nil {
		t.Fatalf("failed to create browser fund source: %v", err)
	}
	if quotes := fund.Fetch(context.Background(), []string{"VCBFMGF"}); len(quotes) != 0 {
		t.Fatalf("disabled browser fund source returned %d quotes, want 0", len(quotes))
	}

	gold, err := NewBrowserGold(config, logger, false, true)
	if err != nil {
		t.Fatalf("failed to create browser gold source: %v", err)
	}
	if quotes := gold.Fetch(context.Background(), []string{"GOLD_SJC"}); len(quotes) != 0 {
		t.Fatalf("disabled browser gold source returned %d quotes, want 0", len(quotes))
	}
}

func TestNavPattern(t *testing.T) {
	html := `<div>Giá trị tài sản ròng NAV/CCQ: 31,245.67 VND tại ngày 29/08/2026</div>`
	matches := navPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		t.Fatal("nav pattern did not match a NAV line")
	}
	if matches[0][1] != "31,245" && matches[0][1] != "31,245.67" {
		t.Fatalf("nav pattern captured %q", matches[0][1])
	}
}
