package monitor

import "sync"

// history keeps the last size values, oldest first. It starts zero filled
// so graphs have a constant width from the first sample.
type history struct {
	mu     sync.RWMutex
	values []float64
	next   int
}

func newHistory(size int) *history {
	return &history{values: make([]float64, size)}
}

func (h *history) push(v float64) {
	h.mu.Lock()
	h.values[h.next] = v
	h.next = (h.next + 1) % len(h.values)
	h.mu.Unlock()
}

func (h *history) snapshot() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	res := make([]float64, 0, len(h.values))
	res = append(res, h.values[h.next:]...)
	res = append(res, h.values[:h.next]...)

	return res
}
