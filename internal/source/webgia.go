// Extractor markup có cấu trúc cho giá vàng trên webgia.com.
// Trang có một bảng giá với các dòng theo thứ tự cố định:
// dòng chứa "SJC" là vàng miếng, dòng chứa "Nhẫn" hoặc "9999" là vàng nhẫn,
// cột cuối của dòng là giá bán ra.
// Selector gắn chặt với markup hiện tại của trang, coi như dễ vỡ và có thể thay.

package source

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/limiter"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/normalize"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

type WebgiaGold struct {
	Logger  log.Logger
	Config  *cfg.Config
	Fetcher *fetcher.Fetcher

	limiter *limiter.RateLimiter
}

func NewWebgiaGold(config *cfg.Config, logger log.Logger, f *fetcher.Fetcher, rl *limiter.RateLimiter) (*WebgiaGold, error) {
	return &WebgiaGold{
		Logger:  logger,
		Config:  config,
		Fetcher: f,
		limiter: rl,
	}, nil
}

func (s *WebgiaGold) Name() string {
	return "Webgia"
}

func (s *WebgiaGold) Fetch(ctx context.Context, codes []string) []model.RawQuote {
	s.limiter.Wait()

	body, err := s.Fetcher.Get(ctx, s.Config.Sources.WebgiaGoldUrl, nil)
	if err != nil {
		s.Logger.Warn(ctx, "Không tải được trang giá vàng webgia: %v", err)
		return []model.RawQuote{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		s.Logger.Warn(ctx, "Không parse được markup webgia: %v", err)
		return []model.RawQuote{}
	}

	// Giá bán theo từng loại vàng tìm thấy trên trang
	prices := map[string]float64{}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("td").First().Text())
		if label == "" {
			return
		}

		// Ô cuối của dòng là giá bán ra, định dạng chấm ngăn cách hàng nghìn
		sellText := strings.TrimSpace(row.Find("td").Last().Text())
		price := normalize.Parse(sellText, normalize.Hint{Sep: normalize.SepDot})
		if price == nil {
			return
		}

		switch {
		case strings.Contains(label, "SJC"):
			if _, ok := prices["GOLD_SJC"]; !ok {
				prices["GOLD_SJC"] = *price
			}
		case strings.Contains(label, "Nhẫn"), strings.Contains(label, "nhẫn"), strings.Contains(label, "9999"):
			if _, ok := prices["GOLD_RING"]; !ok {
				prices["GOLD_RING"] = *price
			}
		}
	})

	quotes := make([]model.RawQuote, 0, len(codes))
	for _, code := range codes {
		price, ok := prices[code]
		if !ok {
			s.Logger.Warn(ctx, "Webgia không có giá cho %s", code)
			continue
		}
		quotes = append(quotes, model.RawQuote{
			AssetCode: code,
			Price:     price,
			Source:    s.Name(),
		})
		s.Logger.Info(ctx, "  %s: %.0f VND (Webgia)", code, price)
	}

	return quotes
}
