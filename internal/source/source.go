// Gói source chứa các extractor, mỗi extractor biết cách lấy giá
// từ đúng một nguồn bên ngoài cho một lớp tài sản.
// Hợp đồng chung: Fetch không bao giờ ném lỗi ra ngoài,
// lỗi parse của một mã không được làm hỏng các mã còn lại trong batch,
// kết quả trả về luôn là một danh sách (có thể rỗng), không bao giờ nil-panic.

package source

import (
	"context"

	"github.com/thep200/asset-price-crawler/internal/model"
)

type Source interface {
	// Name là tên nguồn, được gắn vào trường source của bản ghi giá
	Name() string
	// Fetch lấy giá cho các mã được yêu cầu, trả về các quote thu được
	Fetch(ctx context.Context, codes []string) []model.RawQuote
}
