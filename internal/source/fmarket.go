// Extractor catalog cho quỹ mở: tải toàn bộ danh mục sản phẩm của Fmarket
// theo từng facet loại quỹ rồi match mã quỹ được yêu cầu vào bảng tra cứu.
// Mã quỹ viết không thống nhất giữa các nơi (VCBF-MGF với VCBFMGF),
// nên bảng tra cứu được đánh khóa theo nhiều dạng chuẩn hóa của shortName.

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

// Các facet loại quỹ được tải, mỗi facet một request
var fmarketFundTypes = []string{"NEW_FUND", "TRADING_FUND"}

type FmarketCatalog struct {
	Logger  log.Logger
	Config  *cfg.Config
	Fetcher *fetcher.Fetcher

	ThousandsThreshold float64

	limiter *limiter.RateLimiter
}

func NewFmarketCatalog(config *cfg.Config, logger log.Logger, f *fetcher.Fetcher, rl *limiter.RateLimiter, thousandsThreshold float64) (*FmarketCatalog, error) {
	return &FmarketCatalog{
		Logger:             logger,
		Config:             config,
		Fetcher:            f,
		ThousandsThreshold: thousandsThreshold,
		limiter:            rl,
	}, nil
}

func (s *FmarketCatalog) Name() string {
	return "Fmarket"
}

func (s *FmarketCatalog) Fetch(ctx context.Context, codes []string) []model.RawQuote {
	// Tải catalog một lần cho cả batch
	navByKey := s.loadCatalog(ctx)
	if len(navByKey) == 0 {
		return []model.RawQuote{}
	}

	quotes := make([]model.RawQuote, 0, len(codes))
	for _, code := range codes {
		nav, ok := matchCode(navByKey, code)
		if !ok {
			s.Logger.Warn(ctx, "Không tìm thấy %s trong catalog Fmarket", code)
			continue
		}

		price := normalize.Scale(nav, normalize.Hint{ThousandsThreshold: s.ThousandsThreshold})
		quotes = append(quotes, model.RawQuote{
			AssetCode: code,
			Price:     price,
			Source:    s.Name(),
		})
		s.Logger.Info(ctx, "  %s: %.0f VND (Fmarket NAV)", code, price)
	}

	return quotes
}

// loadCatalog tải các trang catalog và dựng bảng tra cứu shortName chuẩn hóa -> NAV
func (s *FmarketCatalog) loadCatalog(ctx context.Context) map[string]float64 {
	navByKey := map[string]float64{}

	for _, fundType := range fmarketFundTypes {
		s.limiter.Wait()

		payload := map[string]interface{}{
			"types":     []string{fundType},
			"pageSize":  1000,
			"page":      1,
			"isIpoFund": false,
			"sortOrder": "DESC",
			"sortField": "navToPrevious",
		}

		body, err := s.Fetcher.PostJson(ctx, s.Config.Sources.FmarketApiUrl, payload, map[string]string{
			"Origin":  "https://fmarket.vn",
			"Referer": "https://fmarket.vn/",
		})
		if err != nil {
			s.Logger.Warn(ctx, "Không tải được catalog Fmarket (%s): %v", fundType, err)
			continue
		}

		rows := gjson.GetBytes(body, "data.rows")
		if !rows.Exists() {
			s.Logger.Warn(ctx, "Catalog Fmarket (%s) không có data.rows", fundType)
			continue
		}

		rows.ForEach(func(_, row gjson.Result) bool {
			shortName := row.Get("shortName").String()
			nav := row.Get("nav").Float()
			if shortName == "" || nav <= 0 {
				return true
			}
			for _, key := range lookupKeys(shortName) {
				navByKey[key] = nav
			}
			return true
		})
	}

	return navByKey
}

// lookupKeys sinh các dạng chuẩn hóa của shortName để đánh khóa bảng tra cứu:
// viết hoa, bỏ gạch ngang, bỏ khoảng trắng
func lookupKeys(shortName string) []string {
	upper := strings.ToUpper(strings.TrimSpace(shortName))
	noHyphen := strings.ReplaceAll(upper, "-", "")
	noSpace := strings.ReplaceAll(noHyphen, " ", "")
	keys := []string{upper}
	if noHyphen != upper {
		keys = append(keys, noHyphen)
	}
	if noSpace != noHyphen {
		keys = append(keys, noSpace)
	}
	return keys
}

// matchCode thử lần lượt các biến thể của mã được yêu cầu cho tới khi trúng:
// nguyên dạng, chèn gạch ngang sau tiền tố công ty quản lý, bỏ gạch ngang
func matchCode(navByKey map[string]float64, code string) (float64, bool) {
	upper := strings.ToUpper(strings.TrimSpace(code))

	candidates := []string{upper}
	if !strings.Contains(upper, "-") && len(upper) > 4 {
		candidates = append(candidates, upper[:4]+"-"+upper[4:])
	}
	candidates = append(candidates, strings.ReplaceAll(upper, "-", ""))

	for _, candidate := range candidates {
		if nav, ok := navByKey[candidate]; ok {
			return nav, true
		}
	}
	return 0, false
}
