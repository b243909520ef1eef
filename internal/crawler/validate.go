package crawler

import (
	"fmt"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/model"
)

// PositiveValidator là gate tối thiểu cho cổ phiếu, ETF và quỹ:
// không có biên cứng ngoài giá phải dương
func PositiveValidator(q model.RawQuote) error {
	if q.Price <= 0 {
		return fmt.Errorf("giá %.2f không dương", q.Price)
	}
	return nil
}

// NewGoldValidator dựng gate biên độ hợp lý cho lớp vàng.
// Giá ngoài biên bị loại hẳn (không retry) và mã giữ trạng thái pending,
// bản ghi loại được log kèm giá trị để phân biệt với trường hợp thiếu dữ liệu.
func NewGoldValidator(config *cfg.Config) Validator {
	return func(q model.RawQuote) error {
		var lo, hi float64
		switch q.AssetCode {
		case "GOLD_SJC":
			lo, hi = config.Crawler.GoldBarMin, config.Crawler.GoldBarMax
		case "GOLD_RING":
			lo, hi = config.Crawler.GoldRingMin, config.Crawler.GoldRingMax
		default:
			return PositiveValidator(q)
		}

		if q.Price <= lo || q.Price >= hi {
			return fmt.Errorf("giá %.0f ngoài biên hợp lý (%.0f, %.0f)", q.Price, lo, hi)
		}
		return nil
	}
}
