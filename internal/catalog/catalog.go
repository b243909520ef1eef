// Gói catalog load danh mục tài sản từ file CSV bên ngoài.
// Danh mục là input read-only của một run, lỗi load danh mục
// là lỗi duy nhất (cùng với lỗi ghi storage) được phép chặn toàn bộ run.

package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/thep200/asset-price-crawler/internal/model"
)

// Load đọc danh mục tài sản, yêu cầu đủ các cột asset_code, asset_name, asset_type
func Load(path string) ([]model.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open assets file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read assets file: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("assets file %s is empty", path)
	}

	// Tìm vị trí cột theo header để không phụ thuộc thứ tự cột
	colIdx := map[string]int{}
	for i, col := range rows[0] {
		colIdx[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, required := range []string{"asset_code", "asset_name", "asset_type"} {
		if _, ok := colIdx[required]; !ok {
			return nil, fmt.Errorf("assets file %s missing column %s", path, required)
		}
	}

	assets := make([]model.Asset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= colIdx["asset_type"] {
			continue
		}
		assets = append(assets, model.Asset{
			AssetCode: strings.TrimSpace(row[colIdx["asset_code"]]),
			AssetName: strings.TrimSpace(row[colIdx["asset_name"]]),
			AssetType: strings.ToLower(strings.TrimSpace(row[colIdx["asset_type"]])),
		})
	}

	return assets, nil
}

// Lookup dựng bảng tra cứu theo asset_code
func Lookup(assets []model.Asset) map[string]model.Asset {
	m := make(map[string]model.Asset, len(assets))
	for _, a := range assets {
		m[a.AssetCode] = a
	}
	return m
}

// Partition chia danh mục theo loại tài sản
func Partition(assets []model.Asset) map[string][]model.Asset {
	m := make(map[string][]model.Asset)
	for _, a := range assets {
		m[a.AssetType] = append(m[a.AssetType], a)
	}
	return m
}
