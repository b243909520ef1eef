// Extractor quét mẫu cho giavang.org, dùng làm fallback khi webgia không trả dữ liệu.
// Trang không có markup ổn định nên đọc thô cả trang, tách theo dòng bảng,
// tìm dòng theo từ khóa nhận dạng loại vàng rồi rút các token số bằng regex.
// Token cuối cùng trong dòng được hiểu là giá bán ra.

package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/limiter"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/normalize"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

// Token giá dạng XX.XXX.XXX hoặc XX,XXX,XXX
var goldPricePattern = regexp.MustCompile(`\d{2}[.,]\d{3}[.,]\d{3}`)

type GiavangScan struct {
	Logger  log.Logger
	Config  *cfg.Config
	Fetcher *fetcher.Fetcher

	limiter *limiter.RateLimiter
}

func NewGiavangScan(config *cfg.Config, logger log.Logger, f *fetcher.Fetcher, rl *limiter.RateLimiter) (*GiavangScan, error) {
	return &GiavangScan{
		Logger:  logger,
		Config:  config,
		Fetcher: f,
		limiter: rl,
	}, nil
}

func (s *GiavangScan) Name() string {
	return "giavang.org"
}

func (s *GiavangScan) Fetch(ctx context.Context, codes []string) []model.RawQuote {
	s.limiter.Wait()

	body, err := s.Fetcher.Get(ctx, s.Config.Sources.GiavangUrl, nil)
	if err != nil {
		s.Logger.Warn(ctx, "Không tải được giavang.org: %v", err)
		return []model.RawQuote{}
	}

	html := string(body)
	quotes := make([]model.RawQuote, 0, len(codes))

	for _, code := range codes {
		var keywords []string
		var lo, hi float64
		switch code {
		case "GOLD_SJC":
			keywords = []string{"SJC"}
			lo, hi = s.Config.Crawler.GoldBarMin, s.Config.Crawler.GoldBarMax
		case "GOLD_RING":
			keywords = []string{"Nhẫn", "nhẫn", "9999"}
			// Bộ lọc thô của bước quét rộng hơn biên lớp một chút,
			// biên chính thức được orchestrator áp sau
			lo, hi = s.Config.Crawler.GoldRingMin, s.Config.Crawler.GoldBarMax
		default:
			continue
		}

		price := scanRows(html, keywords, lo, hi)
		if price == nil {
			s.Logger.Warn(ctx, "giavang.org không có giá hợp lệ cho %s", code)
			continue
		}

		quotes = append(quotes, model.RawQuote{
			AssetCode: code,
			Price:     *price,
			Source:    s.Name(),
		})
		s.Logger.Info(ctx, "  %s: %.0f VND (giavang.org)", code, *price)
	}

	return quotes
}

// scanRows tách trang theo dòng bảng, tìm dòng chứa từ khóa,
// lấy token giá cuối cùng trong dòng vượt qua kiểm tra biên độ
func scanRows(html string, keywords []string, lo, hi float64) *float64 {
	rows := strings.Split(html, "</tr>")
	for _, row := range rows {
		matched := false
		for _, kw := range keywords {
			if strings.Contains(row, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		tokens := goldPricePattern.FindAllString(row, -1)
		for i := len(tokens) - 1; i >= 0; i-- {
			price := normalize.Parse(tokens[i], normalize.Hint{Sep: normalize.SepAny})
			if price != nil && *price > lo && *price < hi {
				return price
			}
		}
	}
	return nil
}
