// Gói runner điều khiển một lần thu thập trọn vẹn:
// load danh mục, chia theo lớp tài sản, gọi orchestrator theo thứ tự cố định,
// enrich kết quả bằng metadata tĩnh rồi đẩy xuống sink.

package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/catalog"
	"github.com/thep200/asset-price-crawler/internal/crawler"
	"github.com/thep200/asset-price-crawler/internal/fetcher"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/sink"
	"github.com/thep200/asset-price-crawler/pkg/kafka"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

// Thứ tự chạy cố định của các lớp, chỉ ảnh hưởng tính ổn định
// của báo cáo chứ không ảnh hưởng kết quả vì các lớp không chia sẻ trạng thái.
// ETF dùng lại orchestrator của stock.
var classOrder = []string{
	model.AssetTypeStock,
	model.AssetTypeEtf,
	model.AssetTypeFund,
	model.AssetTypeGold,
}

// Factory trừu tượng hóa việc dựng orchestrator để test thay được chain giả
type Factory func(class string) (crawler.Crawler, error)

type Runner struct {
	Logger   log.Logger
	Config   *cfg.Config
	Sink     sink.Sink
	Producer *kafka.Producer // nil nghĩa là không publish Kafka
	Factory  Factory
}

func NewRunner(config *cfg.Config, logger log.Logger, f *fetcher.Fetcher, snk sink.Sink, producer *kafka.Producer, opts crawler.Options) (*Runner, error) {
	if snk == nil {
		return nil, fmt.Errorf("runner requires a sink")
	}
	return &Runner{
		Logger:   logger,
		Config:   config,
		Sink:     snk,
		Producer: producer,
		Factory: func(class string) (crawler.Crawler, error) {
			return crawler.FactoryChain(class, logger, config, f, opts)
		},
	}, nil
}

// Run thực hiện một lượt thu thập. Chỉ lỗi load danh mục và lỗi ghi storage
// được phép làm hỏng run, mọi lỗi theo mã hay theo nguồn đã bị hấp thụ ở dưới.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	assets, err := catalog.Load(r.Config.Storage.AssetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset catalog: %w", err)
	}

	lookup := catalog.Lookup(assets)
	parts := catalog.Partition(assets)
	crawlTime := time.Now().Format(time.RFC3339)

	r.Logger.Info(ctx, "Bắt đầu run thu thập giá: %d tài sản, crawl_time=%s", len(assets), crawlTime)

	summary := &Summary{
		CrawlTime:   crawlTime,
		TotalAssets: len(assets),
	}

	// ETF dùng lại orchestrator stock nên chain được cache theo factory class
	chains := map[string]crawler.Crawler{}
	chainClassOf := func(class string) string {
		if class == model.AssetTypeEtf {
			return model.AssetTypeStock
		}
		return class
	}

	var quotes []model.RawQuote
	for _, class := range classOrder {
		classAssets := parts[class]
		if len(classAssets) == 0 {
			continue
		}

		chainClass := chainClassOf(class)
		chain, ok := chains[chainClass]
		if !ok {
			chain, err = r.Factory(chainClass)
			if err != nil {
				return nil, fmt.Errorf("failed to build %s crawler: %w", chainClass, err)
			}
			chains[chainClass] = chain
		}

		result := chain.Crawl(ctx, classAssets)
		quotes = append(quotes, result.Quotes...)
		for _, code := range result.Failed {
			summary.Failed = append(summary.Failed, FailedAsset{Code: code, Class: class})
		}
	}

	// Enrich bằng metadata tĩnh. Quote cho mã không có trong danh mục bị loại
	// tại đây, store không bao giờ chứa mã mồ côi.
	records := make([]model.Price, 0, len(quotes))
	for _, q := range quotes {
		asset, ok := lookup[q.AssetCode]
		if !ok {
			r.Logger.Warn(ctx, "Loại quote cho mã %s không có trong danh mục", q.AssetCode)
			continue
		}
		records = append(records, model.Price{
			Date:      q.Date,
			AssetCode: q.AssetCode,
			Price:     q.Price,
			AssetName: model.TruncateString(asset.AssetName, 255),
			AssetType: asset.AssetType,
			Currency:  model.Currency,
			Source:    q.Source,
			CrawlTime: crawlTime,
		})
		summary.Collected = append(summary.Collected, CollectedAsset{
			Code:   q.AssetCode,
			Class:  asset.AssetType,
			Price:  q.Price,
			Source: q.Source,
		})
	}

	if len(records) > 0 {
		inserted, err := r.Sink.Append(records)
		if err != nil {
			return nil, fmt.Errorf("failed to persist records: %w", err)
		}
		summary.Inserted = inserted
	}

	// Publish Kafka là best-effort, lỗi không làm hỏng run
	if r.Producer != nil && len(records) > 0 {
		msg := model.PriceMessage{CrawlTime: crawlTime, Records: records}
		if err := r.Producer.Publish(ctx, crawlTime, msg); err != nil {
			r.Logger.Warn(ctx, "Không publish được batch giá lên Kafka: %v", err)
		}
	}

	r.Logger.Info(ctx, "Kết thúc run: thu được %d/%d mã, ghi mới %d bản ghi",
		len(summary.Collected), summary.TotalAssets, summary.Inserted)
	return summary, nil
}
