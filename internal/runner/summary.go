package runner

import (
	"fmt"
	"io"
	"sort"
)

type CollectedAsset struct {
	Code   string
	Class  string
	Price  float64
	Source string
}

type FailedAsset struct {
	Code  string
	Class string
}

// Summary là báo cáo cuối run cho người vận hành.
// Mã thất bại là trạng thái bình thường của hệ thống chứ không phải lỗi,
// nên báo cáo kèm gợi ý khắc phục thay vì exit code khác 0.
type Summary struct {
	CrawlTime   string
	TotalAssets int
	Collected   []CollectedAsset
	Failed      []FailedAsset
	Inserted    int
}

func (s *Summary) Print(w io.Writer) {
	line := "============================================================"
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "KẾT QUẢ THU THẬP GIÁ")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Tổng số tài sản trong danh mục: %d\n", s.TotalAssets)
	fmt.Fprintf(w, "Thu thập thành công: %d\n", len(s.Collected))
	fmt.Fprintf(w, "Không thu thập được: %d\n", len(s.Failed))
	fmt.Fprintf(w, "Bản ghi mới đã lưu: %d\n", s.Inserted)

	if len(s.Collected) > 0 {
		collected := make([]CollectedAsset, len(s.Collected))
		copy(collected, s.Collected)
		sort.Slice(collected, func(i, j int) bool { return collected[i].Code < collected[j].Code })

		fmt.Fprintf(w, "\n[OK] Đã thu thập (%d):\n", len(collected))
		for _, c := range collected {
			fmt.Fprintf(w, "     %s: %.0f VND (%s)\n", c.Code, c.Price, c.Source)
		}
	}

	if len(s.Failed) > 0 {
		failed := make([]FailedAsset, len(s.Failed))
		copy(failed, s.Failed)
		sort.Slice(failed, func(i, j int) bool { return failed[i].Code < failed[j].Code })

		fmt.Fprintf(w, "\n[XX] Thất bại (%d):\n", len(failed))
		for _, f := range failed {
			fmt.Fprintf(w, "     %s (%s)\n", f.Code, f.Class)
		}

		fmt.Fprintln(w, "\n[!] Một số tài sản không thu thập được vì:")
		fmt.Fprintln(w, "    - Website công ty quản lý quỹ (VinaCapital, VCBF, SSIAM, Dragon Capital)")
		fmt.Fprintln(w, "      chặn request tự động từ IP này")
		fmt.Fprintln(w, "    - Trang giá vàng (SJC, BTMC) có anti-bot")
		fmt.Fprintln(w, "\n[!] Hướng xử lý:")
		fmt.Fprintln(w, "    1. Chạy lại với cờ -heavy để dùng trình duyệt thật")
		fmt.Fprintln(w, "    2. Dùng proxy dân cư hoặc chạy từ mạng khác")
		fmt.Fprintln(w, "    3. Nhập tay từ nguồn chính thức")
	}

	fmt.Fprintln(w, line)
}
