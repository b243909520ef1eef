// Gói normalize chuyển các biểu diễn giá thô của từng nguồn về VND float duy nhất.
// Mỗi nguồn có quy ước riêng về dấu phân tách hàng nghìn và đơn vị
// (giá theo chỉ, giá theo nghìn đồng), normalize gom toàn bộ quy tắc về một chỗ.

package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sep là quy ước dấu phân tách hàng nghìn của nguồn
type Sep int

const (
	SepNone Sep = iota
	SepDot      // 16.730.000
	SepComma    // 16,730,000
	// SepAny bỏ cả hai loại dấu, dùng cho token quét regex khi nguồn
	// trộn lẫn hai quy ước và giá trị luôn là số đồng nguyên
	SepAny
)

// Hint mô tả định dạng và thang đơn vị của giá trị thô
type Hint struct {
	Sep         Sep
	PerChi      bool    // giá báo theo chỉ, 1 lượng = 10 chỉ
	InThousands bool    // giá báo theo nghìn đồng
	// Ngưỡng heuristic: giá trị dương nhỏ hơn ngưỡng được hiểu là báo theo nghìn đồng.
	// 0 nghĩa là không áp dụng heuristic.
	ThousandsThreshold float64
}

// Parse chuyển chuỗi giá thô thành VND float. Trả về nil khi không parse được,
// đây là trường hợp thiếu dữ liệu chứ không phải lỗi, caller bỏ qua asset đó.
func Parse(raw string, hint Hint) *float64 {
	s := strings.TrimSpace(raw)

	// Loại bỏ hậu tố tiền tệ hay gặp trên các trang giá
	for _, suffix := range []string{"VND", "VNĐ", "₫", "đ"} {
		s = strings.ReplaceAll(s, suffix, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	switch hint.Sep {
	case SepDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case SepComma:
		s = strings.ReplaceAll(s, ",", "")
	case SepAny:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}

	v := Scale(d.InexactFloat64(), hint)
	return &v
}

// Scale áp thang đơn vị lên một giá trị đã là số:
// chỉ → lượng trước, rồi nghìn đồng → đồng, cuối cùng là heuristic theo ngưỡng
func Scale(v float64, hint Hint) float64 {
	if hint.PerChi {
		v *= 10
	}
	if hint.InThousands {
		v *= 1000
	}
	if hint.ThousandsThreshold > 0 && v > 0 && v < hint.ThousandsThreshold {
		v *= 1000
	}
	return v
}
