// Extractor time-series cho cổ phiếu, ETF và một số quỹ niêm yết
// qua API lịch sử giá dchart của VNDirect.
// Lấy nến cuối cùng trong cửa sổ trượt làm quan sát giá của ngày đó.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/limiter"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/normalize"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

// Mapping response của dchart: các mảng song song theo nến
type dchartResponse struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Closes     []float64 `json:"c"`
}

type DchartAPI struct {
	Logger  log.Logger
	Config  *cfg.Config
	Fetcher *fetcher.Fetcher

	// WindowDays là độ rộng cửa sổ truy vấn: 7 ngày cho cổ phiếu/ETF,
	// 30 ngày cho quỹ vì NAV quỹ cập nhật thưa hơn
	WindowDays int

	// Ngưỡng heuristic "giá báo theo nghìn đồng" của lớp tài sản tương ứng
	ThousandsThreshold float64

	limiter *limiter.RateLimiter
}

func NewDchartAPI(config *cfg.Config, logger log.Logger, f *fetcher.Fetcher, rl *limiter.RateLimiter, windowDays int, thousandsThreshold float64) (*DchartAPI, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("window days must be positive, got %d", windowDays)
	}
	return &DchartAPI{
		Logger:             logger,
		Config:             config,
		Fetcher:            f,
		WindowDays:         windowDays,
		ThousandsThreshold: thousandsThreshold,
		limiter:            rl,
	}, nil
}

func (s *DchartAPI) Name() string {
	return "VNDirect"
}

func (s *DchartAPI) Fetch(ctx context.Context, codes []string) []model.RawQuote {
	quotes := make([]model.RawQuote, 0, len(codes))
	to := time.Now().Unix()
	from := to - int64(s.WindowDays)*24*3600

	for _, code := range codes {
		s.limiter.Wait()

		url := fmt.Sprintf("%s?resolution=D&symbol=%s&from=%d&to=%d", s.Config.Sources.DchartApiUrl, code, from, to)
		s.Logger.Info(ctx, "Crawl %s từ dchart", code)

		body, err := s.Fetcher.Get(ctx, url, nil)
		if err != nil {
			s.Logger.Warn(ctx, "Không lấy được dữ liệu dchart cho %s: %v", code, err)
			continue
		}

		var resp dchartResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			s.Logger.Warn(ctx, "Response dchart cho %s không đúng định dạng: %v", code, err)
			continue
		}

		// Series rỗng không phải lỗi, chỉ là mã này không có dữ liệu trong cửa sổ
		if len(resp.Timestamps) == 0 || len(resp.Closes) == 0 {
			s.Logger.Warn(ctx, "Không có nến nào cho %s trong %d ngày", code, s.WindowDays)
			continue
		}

		last := len(resp.Closes) - 1
		if last >= len(resp.Timestamps) {
			last = len(resp.Timestamps) - 1
		}

		price := normalize.Scale(resp.Closes[last], normalize.Hint{ThousandsThreshold: s.ThousandsThreshold})
		date := time.Unix(resp.Timestamps[last], 0).Format("2006-01-02")

		quotes = append(quotes, model.RawQuote{
			AssetCode: code,
			Price:     price,
			Date:      date,
			Source:    s.Name(),
		})
		s.Logger.Info(ctx, "  %s: %.0f VND (%s)", code, price, date)
	}

	return quotes
}
