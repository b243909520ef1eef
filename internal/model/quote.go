package model

// RawQuote là kết quả của một source extractor, giá đã được source
// chuẩn hóa về VND nhưng chưa enrich metadata từ danh mục.
// RawQuote chỉ sống trong một lần gọi orchestrator và không bao giờ được persist.
type RawQuote struct {
	AssetCode string
	Price     float64 // đã qua normalize của source, VND / đơn vị hoặc lượng
	Date      string  // YYYY-MM-DD, rỗng nghĩa là dùng ngày hiện tại
	Source    string
}
