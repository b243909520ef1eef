package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/thep200/asset-price-crawler/internal/model"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

func newTestCsvSink(t *testing.T) *CsvSink {
	t.Helper()
	logger, _ := log.NewCslLogger()
	s, err := NewCsvSink(filepath.Join(t.TempDir(), "daily_prices.csv"), logger)
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}
	return s
}

func record(date, code string, price float64) model.Price {
	return model.Price{
		Date:      date,
		AssetCode: code,
		Price:     price,
		AssetName: code + " name",
		AssetType: "stock",
		Currency:  "VND",
		Source:    "VNDirect",
		CrawlTime: "2026-08-30T08:00:00+07:00",
	}
}

func TestAppendIdempotent(t *testing.T) {
	s := newTestCsvSink(t)
	records := []model.Price{
		record("2026-08-30", "HPG", 25400),
		record("2026-08-30", "FPT", 98700),
	}

	inserted, err := s.Append(records)
	if err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("first append inserted %d, want 2", inserted)
	}

	// Chạy lại cùng ngày với cùng input phải không ghi thêm gì
	inserted, err = s.Append(records)
	if err != nil {
		t.Fatalf("second append failed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("second append inserted %d, want 0", inserted)
	}

	keys, err := s.LoadExistingKeys()
	if err != nil {
		t.Fatalf("load keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("store has %d keys, want 2", len(keys))
	}
}

func TestAppendIntraBatchDuplicate(t *testing.T) {
	s := newTestCsvSink(t)
	records := []model.Price{
		record("2026-08-30", "HPG", 25400),
		record("2026-08-30", "HPG", 25500), // trùng khóa trong cùng batch
	}

	inserted, err := s.Append(records)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("append inserted %d, want 1", inserted)
	}
}

func TestHeaderWrittenOnce(t *testing.T) {
	s := newTestCsvSink(t)

	if _, err := s.Append([]model.Price{record("2026-08-29", "HPG", 25100)}); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if _, err := s.Append([]model.Price{record("2026-08-30", "HPG", 25400)}); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read store: %v", err)
	}

	// 1 header + 2 bản ghi của hai ngày khác nhau
	if len(rows) != 3 {
		t.Fatalf("store has %d rows, want 3", len(rows))
	}
	if rows[0][0] != "date" || rows[0][1] != "asset_code" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	for _, row := range rows[1:] {
		if row[0] == "date" {
			t.Fatal("header written more than once")
		}
	}
}

func TestLoadExistingKeysMissingFile(t *testing.T) {
	s := newTestCsvSink(t)
	keys, err := s.LoadExistingKeys()
	if err != nil {
		t.Fatalf("load keys on missing file failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("missing file returned %d keys, want 0", len(keys))
	}
}
