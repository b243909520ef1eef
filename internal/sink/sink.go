// Gói sink là nơi duy nhất chịu trách nhiệm cho ràng buộc dedup:
// tối đa một bản ghi cho mỗi cặp (date, asset_code).
// Extractor và orchestrator không cần tự dedup, sink là chốt chặn cuối.

package sink

import (
	"github.com/thep200/asset-price-crawler/internal/model"
)

type Sink interface {
	// LoadExistingKeys đọc toàn bộ store hiện có một lần, trả về tập khóa (date, asset_code)
	LoadExistingKeys() (map[string]bool, error)
	// Append ghi các bản ghi chưa tồn tại, trả về số bản ghi thực sự được ghi.
	// Chạy lại pipeline trong cùng ngày với cùng input thì lần hai ghi 0 bản ghi.
	Append(records []model.Price) (int, error)
}

// Key là khóa dedup chung cho mọi backend
func Key(date, assetCode string) string {
	return date + "|" + assetCode
}
