// Gói crawler chứa orchestrator theo lớp tài sản.
// Mỗi lớp có một chuỗi extractor theo thứ tự ưu tiên: extractor sau
// chỉ được gọi cho các mã mà extractor trước chưa giải quyết được.
// Một mã đã RESOLVED trong run thì không bao giờ bị nguồn ưu tiên thấp hơn ghi đè.

package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/source"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

type Crawler interface {
	Crawl(ctx context.Context, assets []model.Asset) *Result
}

// Result là kết quả một lần chạy orchestrator cho một lớp tài sản
type Result struct {
	Quotes []model.RawQuote // các quote đã qua kiểm tra hợp lý, mỗi mã nhiều nhất một quote
	Failed []string         // các mã không nguồn nào giải quyết được
}

// Validator kiểm tra tính hợp lý của một quote trước khi chấp nhận.
// Trả về lỗi mô tả vì sao quote bị loại, nil nghĩa là hợp lệ.
type Validator func(q model.RawQuote) error

// Chain là orchestrator dạng chuỗi fallback dùng chung cho cả ba lớp tài sản
type Chain struct {
	Logger   log.Logger
	Class    string
	Sources  []source.Source
	Validate Validator
}

func NewChain(class string, logger log.Logger, validate Validator, sources ...source.Source) (*Chain, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("chain for %s needs at least one source", class)
	}
	if validate == nil {
		validate = PositiveValidator
	}
	return &Chain{
		Logger:   logger,
		Class:    class,
		Sources:  sources,
		Validate: validate,
	}, nil
}

func (c *Chain) Crawl(ctx context.Context, assets []model.Asset) *Result {
	startTime := time.Now()
	c.Logger.Info(ctx, "Bắt đầu crawl lớp %s với %d mã, %d nguồn", c.Class, len(assets), len(c.Sources))

	// PENDING theo thứ tự danh mục để kết quả ổn định giữa các run
	order := make([]string, 0, len(assets))
	pending := make(map[string]bool, len(assets))
	for _, a := range assets {
		order = append(order, a.AssetCode)
		pending[a.AssetCode] = true
	}

	resolved := make(map[string]model.RawQuote, len(assets))

	for _, src := range c.Sources {
		if len(pending) == 0 {
			break
		}

		codes := make([]string, 0, len(pending))
		for _, code := range order {
			if pending[code] {
				codes = append(codes, code)
			}
		}

		quotes := c.fetchSafe(ctx, src, codes)
		for _, q := range quotes {
			// Quote cho mã không còn PENDING: hoặc đã resolved bởi nguồn
			// ưu tiên cao hơn, hoặc không nằm trong yêu cầu, đều bỏ qua
			if !pending[q.AssetCode] {
				continue
			}

			if err := c.Validate(q); err != nil {
				c.Logger.Warn(ctx, "Loại quote %s từ %s: %v", q.AssetCode, q.Source, err)
				continue
			}

			if q.Date == "" {
				q.Date = time.Now().Format("2006-01-02")
			}

			resolved[q.AssetCode] = q
			delete(pending, q.AssetCode)
		}
	}

	result := &Result{
		Quotes: make([]model.RawQuote, 0, len(resolved)),
		Failed: make([]string, 0, len(pending)),
	}
	for _, code := range order {
		if q, ok := resolved[code]; ok {
			result.Quotes = append(result.Quotes, q)
		} else {
			result.Failed = append(result.Failed, code)
		}
	}

	c.Logger.Info(ctx, "Lớp %s: %d/%d mã giải quyết được trong %v",
		c.Class, len(result.Quotes), len(assets), time.Since(startTime).Round(time.Millisecond))
	return result
}

// fetchSafe gọi một extractor và chặn panic tại biên:
// một extractor hỏng không được kéo các nguồn còn lại trong chain đổ theo
func (c *Chain) fetchSafe(ctx context.Context, src source.Source, codes []string) (quotes []model.RawQuote) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error(ctx, "Phục hồi từ panic trong nguồn %s: %v", src.Name(), r)
			quotes = nil
		}
	}()
	return src.Fetch(ctx, codes)
}
