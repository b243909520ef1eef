package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

// Thứ tự cột cố định của file giá, header chỉ ghi một lần khi file mới
var csvColumns = []string{"date", "asset_code", "price", "asset_name", "asset_type", "currency", "source", "crawl_time"}

// CsvSink lưu giá vào file CSV append-only, trùng khớp định dạng
// mà các consumer dựng chuỗi thời gian theo asset_code đang đọc
type CsvSink struct {
	Logger log.Logger
	Path   string
}

func NewCsvSink(path string, logger log.Logger) (*CsvSink, error) {
	if path == "" {
		return nil, fmt.Errorf("csv sink requires a file path")
	}
	return &CsvSink{
		Logger: logger,
		Path:   path,
	}, nil
}

func (s *CsvSink) LoadExistingKeys() (map[string]bool, error) {
	keys := make(map[string]bool)

	f, err := os.Open(s.Path)
	if os.IsNotExist(err) {
		return keys, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open price store: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read price store: %w", err)
	}

	// Bỏ header, hai cột đầu là date và asset_code
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		keys[Key(row[0], row[1])] = true
	}

	return keys, nil
}

func (s *CsvSink) Append(records []model.Price) (int, error) {
	ctx := context.Background()

	existing, err := s.LoadExistingKeys()
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	_, statErr := os.Stat(s.Path)
	isNewFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open price store for append: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if isNewFile {
		if err := writer.Write(csvColumns); err != nil {
			return 0, fmt.Errorf("failed to write header: %w", err)
		}
	}

	count := 0
	for _, r := range records {
		key := Key(r.Date, r.AssetCode)
		// Khóa được thêm ngay khi ghi để chặn cả trùng lặp trong cùng một batch
		if existing[key] {
			continue
		}
		row := []string{
			r.Date,
			r.AssetCode,
			strconv.FormatFloat(r.Price, 'f', -1, 64),
			r.AssetName,
			r.AssetType,
			r.Currency,
			r.Source,
			r.CrawlTime,
		}
		if err := writer.Write(row); err != nil {
			return count, fmt.Errorf("failed to write record for %s: %w", r.AssetCode, err)
		}
		existing[key] = true
		count++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, fmt.Errorf("failed to flush price store: %w", err)
	}

	s.Logger.Info(ctx, "Đã ghi %d bản ghi mới vào %s", count, s.Path)
	return count, nil
}
