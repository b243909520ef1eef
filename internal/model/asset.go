package model

// Loại tài sản quyết định orchestrator và biên độ kiểm tra giá được áp dụng
const (
	AssetTypeStock = "stock"
	AssetTypeEtf   = "etf"
	AssetTypeFund  = "fund"
	AssetTypeGold  = "gold"
)

// Asset là định nghĩa tĩnh của một tài sản trong danh mục,
// được load một lần mỗi run và không thay đổi trong run
type Asset struct {
	AssetCode string `json:"asset_code"`
	AssetName string `json:"asset_name"`
	AssetType string `json:"asset_type"`
}

// Currency của toàn bộ danh mục, hệ thống chỉ thu thập giá VND
const Currency = "VND"
