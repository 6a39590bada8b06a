// Package monitor samples live host counters on a fixed interval, keeps a
// rolling history per device and fans samples out to subscribers.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DeviceCPU     = "cpu"
	DeviceMemory  = "memory"
	DeviceNetwork = "network"

	DefaultInterval    = time.Second
	DefaultHistorySize = 60

	subscriberBuffer = 8
)

var ErrUnknownDevice = errors.New("unknown device")

// Devices lists the devices with a history.
var Devices = []string{DeviceCPU, DeviceMemory, DeviceNetwork}

type Monitor struct {
	src      Source
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	latest    Sample
	hasLatest bool
	prev      *Reading
	prevAt    time.Time

	history map[string]*history

	subsMu sync.Mutex
	subs   map[int]chan Sample
	nextID int
}

// New returns a Monitor reading from src. Non-positive interval or size
// fall back to the defaults.
func New(src Source, log *zap.Logger, interval time.Duration, historySize int) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	if log == nil {
		log = zap.NewNop()
	}

	h := make(map[string]*history, len(Devices))
	for _, d := range Devices {
		h[d] = newHistory(historySize)
	}

	return &Monitor{
		src:      src,
		log:      log,
		interval: interval,
		now:      time.Now,
		history:  h,
		subs:     make(map[int]chan Sample),
	}
}

// Run samples immediately and then once per interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			m.closeSubscribers()
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	if _, err := m.Sample(ctx); err != nil && ctx.Err() == nil {
		m.log.Warn("partial sample", zap.Error(err))
	}
}

// Sample takes one reading, records it and publishes it. A partial reading
// is still recorded; the read error is returned alongside.
func (m *Monitor) Sample(ctx context.Context) (Sample, error) {
	reading, err := m.src.Read(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Sample{}, ctxErr
	}

	now := m.now()

	m.mu.Lock()
	s := buildSample(now, reading, m.prev, now.Sub(m.prevAt))
	// a failed counter read keeps the last good baseline
	if reading.NetOK {
		m.prev = &reading
		m.prevAt = now
	}
	m.latest = s
	m.hasLatest = true
	m.mu.Unlock()

	m.history[DeviceCPU].push(s.CPU.UsagePercent)
	m.history[DeviceMemory].push(s.Memory.UsedPercent)
	m.history[DeviceNetwork].push(s.Network.SentKBps + s.Network.RecvKBps)

	m.publish(s)

	return s, err
}

func (m *Monitor) Latest() (Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.latest, m.hasLatest
}

// History returns the values of device, oldest first.
func (m *Monitor) History(device string) ([]float64, error) {
	h, ok := m.history[device]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, device)
	}

	return h.snapshot(), nil
}

// Subscribe returns a channel receiving every new sample and a function
// that cancels the subscription. Samples are dropped for a subscriber whose
// buffer is full.
func (m *Monitor) Subscribe() (<-chan Sample, func()) {
	ch := make(chan Sample, subscriberBuffer)

	m.subsMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subsMu.Lock()
			defer m.subsMu.Unlock()

			if c, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(c)
			}
		})
	}
}

func (m *Monitor) publish(s Sample) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	for id, ch := range m.subs {
		select {
		case ch <- s:
		default:
			m.log.Debug("subscriber lagging, sample dropped", zap.Int("subscriber", id))
		}
	}
}

func (m *Monitor) closeSubscribers() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
}
