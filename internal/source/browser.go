// Extractor nặng dùng trình duyệt thật qua chromedp cho các trang chặn request thường
// (VCBF render NAV bằng JavaScript, sjc.com.vn có anti-bot).
// Chỉ chạy khi người dùng bật cờ escalation, không bật thì extractor
// tự báo "không khả dụng" và chain bỏ qua, không phải lỗi cứng.

package source

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/internal/normalize"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

var (
	navPattern     = regexp.MustCompile(`(?i)NAV[^<>]*?(\d{2}[,.]\d{3}(?:\.\d+)?)`)
	goldBarPattern = regexp.MustCompile(`\d{2}[.,]\d{3}[.,]\d{3}`)
)

// BrowserFund lấy NAV quỹ từ trang công ty quản lý bằng trình duyệt thật
type BrowserFund struct {
	Logger   log.Logger
	Config   *cfg.Config
	Enabled  bool
	Headless bool
}

func NewBrowserFund(config *cfg.Config, logger log.Logger, enabled, headless bool) (*BrowserFund, error) {
	return &BrowserFund{
		Logger:   logger,
		Config:   config,
		Enabled:  enabled,
		Headless: headless,
	}, nil
}

func (s *BrowserFund) Name() string {
	return "VCBF (browser)"
}

func (s *BrowserFund) Fetch(ctx context.Context, codes []string) []model.RawQuote {
	if !s.Enabled {
		s.Logger.Debug(ctx, "Extractor trình duyệt chưa bật, bỏ qua %d mã quỹ", len(codes))
		return []model.RawQuote{}
	}

	quotes := make([]model.RawQuote, 0, len(codes))
	for _, code := range codes {
		url, ok := s.Config.Sources.VcbfFundPages[code]
		if !ok {
			continue
		}

		html, err := renderPage(ctx, url, s.Headless, 3*time.Second)
		if err != nil {
			s.Logger.Warn(ctx, "Trình duyệt không render được trang quỹ %s: %v", code, err)
			continue
		}

		matches := navPattern.FindAllStringSubmatch(html, -1)
		for _, m := range matches {
			// Token có cả hai loại dấu nghĩa là phẩy ngăn nghìn, chấm thập phân
			sep := normalize.SepAny
			if strings.Contains(m[1], ",") && strings.Contains(m[1], ".") {
				sep = normalize.SepComma
			}
			price := normalize.Parse(m[1], normalize.Hint{Sep: sep})
			// NAV quỹ mở nằm trong khoảng 10 nghìn tới 100 nghìn đồng một đơn vị
			if price != nil && *price > 10_000 && *price < 100_000 {
				quotes = append(quotes, model.RawQuote{
					AssetCode: code,
					Price:     *price,
					Source:    s.Name(),
				})
				s.Logger.Info(ctx, "  %s: %.0f VND (VCBF browser)", code, *price)
				break
			}
		}
	}

	return quotes
}

// BrowserGold lấy giá vàng miếng từ trang SJC bằng trình duyệt thật
type BrowserGold struct {
	Logger   log.Logger
	Config   *cfg.Config
	Enabled  bool
	Headless bool
}

func NewBrowserGold(config *cfg.Config, logger log.Logger, enabled, headless bool) (*BrowserGold, error) {
	return &BrowserGold{
		Logger:   logger,
		Config:   config,
		Enabled:  enabled,
		Headless: headless,
	}, nil
}

func (s *BrowserGold) Name() string {
	return "SJC (browser)"
}

func (s *BrowserGold) Fetch(ctx context.Context, codes []string) []model.RawQuote {
	if !s.Enabled {
		s.Logger.Debug(ctx, "Extractor trình duyệt chưa bật, bỏ qua giá vàng SJC")
		return []model.RawQuote{}
	}

	wanted := false
	for _, code := range codes {
		if code == "GOLD_SJC" {
			wanted = true
			break
		}
	}
	if !wanted {
		return []model.RawQuote{}
	}

	// Trang SJC render chậm, chờ lâu hơn trang quỹ
	html, err := renderPage(ctx, s.Config.Sources.SjcPageUrl, s.Headless, 5*time.Second)
	if err != nil {
		s.Logger.Warn(ctx, "Trình duyệt không render được trang SJC: %v", err)
		return []model.RawQuote{}
	}

	lo, hi := s.Config.Crawler.GoldBarMin, s.Config.Crawler.GoldBarMax
	for _, token := range goldBarPattern.FindAllString(html, -1) {
		price := normalize.Parse(token, normalize.Hint{Sep: normalize.SepAny})
		if price != nil && *price > lo && *price < hi {
			s.Logger.Info(ctx, "  GOLD_SJC: %.0f VND (SJC browser)", *price)
			return []model.RawQuote{{
				AssetCode: "GOLD_SJC",
				Price:     *price,
				Source:    s.Name(),
			}}
		}
	}

	return []model.RawQuote{}
}

// renderPage mở một trình duyệt mới, điều hướng tới url, chờ trang render xong
// rồi trả về HTML của document
func renderPage(ctx context.Context, url string, headless bool, wait time.Duration) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, 60*time.Second)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(wait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
