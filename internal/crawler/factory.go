package crawler

import (
	"fmt"
	"time"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/limiter"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/source"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

// Tham số độ rộng cửa sổ truy vấn lịch sử giá theo lớp tài sản
const (
	stockWindowDays = 7
	fundWindowDays  = 30
)

// Options điều khiển việc dựng chain, chủ yếu cho cơ chế escalation trình duyệt
type Options struct {
	Heavy    bool // bật extractor trình duyệt cho các mã chưa giải quyết được
	Headless bool
}

// FactoryChain dựng orchestrator cho một lớp tài sản với chuỗi nguồn
// theo thứ tự ưu tiên cố định. Thêm bớt hay đảo nguồn chỉ sửa ở đây,
// logic fallback của Chain không đổi.
func FactoryChain(class string, logger log.Logger, config *cfg.Config, f *fetcher.Fetcher, opts Options) (Crawler, error) {
	delay := time.Duration(config.Crawler.RequestDelay) * time.Millisecond
	rl := limiter.NewRateLimiter(config.Crawler.RequestsPerSecond, delay)

	switch class {
	case model.AssetTypeStock, model.AssetTypeEtf:
		dchart, err := source.NewDchartAPI(config, logger, f, rl, stockWindowDays, config.Crawler.StockThousandsThreshold)
		if err != nil {
			return nil, err
		}
		return NewChain(class, logger, PositiveValidator, dchart)

	case model.AssetTypeFund:
		fmarket, err := source.NewFmarketCatalog(config, logger, f, rl, config.Crawler.FundThousandsThreshold)
		if err != nil {
			return nil, err
		}
		dchart, err := source.NewDchartAPI(config, logger, f, rl, fundWindowDays, config.Crawler.FundThousandsThreshold)
		if err != nil {
			return nil, err
		}
		sources := []source.Source{fmarket, dchart}
		if opts.Heavy {
			browser, err := source.NewBrowserFund(config, logger, true, opts.Headless)
			if err != nil {
				return nil, err
			}
			sources = append(sources, browser)
		}
		return NewChain(class, logger, PositiveValidator, sources...)

	case model.AssetTypeGold:
		webgia, err := source.NewWebgiaGold(config, logger, f, rl)
		if err != nil {
			return nil, err
		}
		giavang, err := source.NewGiavangScan(config, logger, f, rl)
		if err != nil {
			return nil, err
		}
		doji, err := source.NewDojiFeed(config, logger, f, rl)
		if err != nil {
			return nil, err
		}
		sources := []source.Source{webgia, giavang, doji}
		if opts.Heavy {
			browser, err := source.NewBrowserGold(config, logger, true, opts.Headless)
			if err != nil {
				return nil, err
			}
			sources = append(sources, browser)
		}
		return NewChain(class, logger, NewGoldValidator(config), sources...)

	default:
		return nil, fmt.Errorf("[ERROR] Unsupported asset class: %s", class)
	}
}
