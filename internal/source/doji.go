// Extractor feed JSON của DOJI cho vàng nhẫn 9999.
// Feed nhỏ, quét tuyến tính tìm entry có tên sản phẩm chứa từ khóa nhẫn
// cùng dấu hiệu tuổi vàng 9999, đọc trường giá bán ra.
// DOJI báo giá theo nghìn đồng một lượng nên rescale bằng heuristic nghìn đồng.

package source

import (
	"context"
	"strings"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/limiter"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/normalize"
	"github.com/thep200/asset-price-crawler/pkg/log"
	"github.com/tidwall/gjson"
)

// Giá trị nhỏ hơn ngưỡng này chắc chắn là báo theo nghìn đồng một lượng
const dojiThousandsThreshold = 1_000_000

type DojiFeed struct {
	Logger  log.Logger
	Config  *cfg.Config
	Fetcher *fetcher.Fetcher

	limiter *limiter.RateLimiter
}

func NewDojiFeed(config *cfg.Config, logger log.Logger, f *fetcher.Fetcher, rl *limiter.RateLimiter) (*DojiFeed, error) {
	return &DojiFeed{
		Logger:  logger,
		Config:  config,
		Fetcher: f,
		limiter: rl,
	}, nil
}

func (s *DojiFeed) Name() string {
	return "DOJI"
}

func (s *DojiFeed) Fetch(ctx context.Context, codes []string) []model.RawQuote {
	// Feed này chỉ phục vụ vàng nhẫn
	wanted := false
	for _, code := range codes {
		if code == "GOLD_RING" {
			wanted = true
			break
		}
	}
	if !wanted {
		return []model.RawQuote{}
	}

	s.limiter.Wait()

	body, err := s.Fetcher.Get(ctx, s.Config.Sources.DojiFeedUrl, nil)
	if err != nil {
		s.Logger.Warn(ctx, "Không tải được feed DOJI: %v", err)
		return []model.RawQuote{}
	}

	items := gjson.GetBytes(body, "items")
	if !items.Exists() {
		// Một số bản feed bọc items trong data
		items = gjson.GetBytes(body, "data.items")
	}
	if !items.Exists() {
		s.Logger.Warn(ctx, "Feed DOJI không đúng định dạng")
		return []model.RawQuote{}
	}

	var found *float64
	items.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name").String()
		if !isRingProduct(name) {
			return true
		}

		sell := item.Get("sell").String()
		price := normalize.Parse(sell, normalize.Hint{
			Sep:                normalize.SepAny,
			ThousandsThreshold: dojiThousandsThreshold,
		})
		if price == nil {
			return true
		}
		found = price
		return false
	})

	if found == nil {
		s.Logger.Warn(ctx, "Feed DOJI không có entry vàng nhẫn 9999")
		return []model.RawQuote{}
	}

	s.Logger.Info(ctx, "  GOLD_RING: %.0f VND (DOJI)", *found)
	return []model.RawQuote{{
		AssetCode: "GOLD_RING",
		Price:     *found,
		Source:    s.Name(),
	}}
}

// isRingProduct nhận dạng entry vàng nhẫn theo tên sản phẩm và dấu tuổi vàng
func isRingProduct(name string) bool {
	lower := strings.ToLower(name)
	hasRing := strings.Contains(lower, "nhẫn") || strings.Contains(lower, "nhan") ||
		strings.Contains(lower, "hưng thịnh vượng") || strings.Contains(lower, "hung thinh vuong")
	hasPurity := strings.Contains(lower, "9999") || strings.Contains(lower, "999.9")
	return hasRing && hasPurity
}
