package limiter

import (
	"sync"
	"time"
)

// Giới hạn số lượng request tới một nguồn trong 1 giây
type RateLimiter struct {
	requestTimes []time.Time
	maxRequests  int
	delay        time.Duration
	mu           sync.Mutex
}

// NewRateLimiter tạo limiter với số request tối đa mỗi giây và độ trễ
// chờ giữa hai lần kiểm tra khi đã chạm ngưỡng
func NewRateLimiter(maxRequests int, delay time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	return &RateLimiter{
		requestTimes: make([]time.Time, 0, maxRequests),
		maxRequests:  maxRequests,
		delay:        delay,
	}
}

// Allow kiểm tra xem có thể thực hiện request mới hay không
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	oneSecondAgo := now.Add(-1 * time.Second)

	// Xóa các request cũ hơn 1 giây
	validTimes := make([]time.Time, 0, len(r.requestTimes))
	for _, t := range r.requestTimes {
		if t.After(oneSecondAgo) {
			validTimes = append(validTimes, t)
		}
	}
	r.requestTimes = validTimes

	// Nếu số lượng request trong 1 giây vừa qua nhỏ hơn giới hạn thì add request mới và cho phép thực hiện
	if len(r.requestTimes) < r.maxRequests {
		r.requestTimes = append(r.requestTimes, now)
		return true
	}

	return false
}

// Wait chặn cho tới khi được phép thực hiện request tiếp theo.
// Đây là chính sách lịch của orchestrator giữa hai request tới cùng một nguồn,
// không phải của tầng transport.
func (r *RateLimiter) Wait() {
	for !r.Allow() {
		time.Sleep(r.delay)
	}
}
