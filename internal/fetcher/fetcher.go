// Gói fetcher thực hiện HTTP request tới các nguồn giá với retry và backoff.
// Các trang tài chính Việt Nam chặn IP và rate limit không công bố,
// nên mọi request đều đi qua fetcher với header trình duyệt mặc định
// và timeout chặn trên từng request.

package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Fetcher struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewFetcher(config *cfg.Config, logger log.Logger) (*Fetcher, error) {
	timeout := time.Duration(config.Crawler.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Get tải một URL và trả về body. Hết số lần retry thì trả lỗi,
// caller (extractor) coi đây là "không có dữ liệu" chứ không fail batch.
func (f *Fetcher) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return f.do(ctx, http.MethodGet, url, nil, headers)
}

// PostJson gửi payload dạng JSON, dùng cho các API catalog nhận filter qua body
func (f *Fetcher) PostJson(ctx context.Context, url string, payload interface{}, headers map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return f.do(ctx, http.MethodPost, url, body, headers)
}

func (f *Fetcher) do(ctx context.Context, method, url string, body []byte, headers map[string]string) ([]byte, error) {
	operation := func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		req.Header.Set("User-Agent", defaultUserAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			f.Logger.Warn(ctx, "Request lỗi, sẽ thử lại: %s %s: %v", method, url, err)
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
			// 4xx trừ 429 là lỗi cố định, retry không giúp được gì
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, backoff.Permanent(err)
			}
			f.Logger.Warn(ctx, "Request bị từ chối, sẽ thử lại: %v", err)
			return nil, err
		}

		return io.ReadAll(resp.Body)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = time.Duration(f.Config.Crawler.RetryBaseDelay) * time.Millisecond

	maxTries := f.Config.Crawler.MaxRetries
	if maxTries <= 0 {
		maxTries = 3
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(maxTries)),
	)
	if err != nil {
		f.Logger.Error(ctx, "Request thất bại sau %d lần thử: %s", maxTries, url)
		return nil, err
	}
	return data, nil
}
