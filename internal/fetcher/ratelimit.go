package fetcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter allows one request per interval to each host, with no burst.
type hostLimiter struct {
	interval time.Duration

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

func newHostLimiter(interval time.Duration) *hostLimiter {
	return &hostLimiter{interval: interval, hosts: make(map[string]*rate.Limiter)}
}

// wait blocks until host may be contacted again or ctx ends. Host names
// compare case-insensitively.
func (h *hostLimiter) wait(ctx context.Context, host string) error {
	host = strings.ToLower(host)
	h.mu.Lock()
	l, ok := h.hosts[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(h.interval), 1)
		h.hosts[host] = l
	}
	h.mu.Unlock()
	return l.Wait(ctx)
}
