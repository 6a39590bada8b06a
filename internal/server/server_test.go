package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zenithax-cc/hwlens/internal/collector/cpu"
	"github.com/zenithax-cc/hwlens/internal/monitor"
	"github.com/zenithax-cc/hwlens/pkg/collector"
	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
)

type staticSource struct {
	reading monitor.Reading
}

func (s staticSource) Read(context.Context) (monitor.Reading, error) {
	return s.reading, nil
}

func newTestServer(t *testing.T) (*Server, *monitor.Monitor) {
	t.Helper()

	mon := monitor.New(staticSource{reading: monitor.Reading{CPUPercent: 42, MemPercent: 55, Processes: 120}}, zap.NewNop(), time.Second, 5)

	snap := &collector.Snapshot{CollectedAt: time.Now(), CPU: cpu.New(nil)}
	snap.CPU.ModelName = "AMD Ryzen 7 5800X"
	snap.CPU.Codename = "Zen 3 (Ryzen 5000)"

	pt := cpuclass.New(cpuclass.Portuguese)
	srv := New(zap.NewNop(), mon,
		func(context.Context) (*collector.Snapshot, error) { return snap, nil },
		func() *cpuclass.Classifier { return pt },
	)

	return srv, mon
}

func do(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec, body := do(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec, body := do(t, srv.Handler(), "/api/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Zen 3 (Ryzen 5000)", body["cpu"].(map[string]any)["codename"])
}

func TestSnapshotFailure(t *testing.T) {
	t.Parallel()

	srv := New(nil, nil, func(context.Context) (*collector.Snapshot, error) {
		return nil, errors.New("collect failed")
	}, nil)

	rec, body := do(t, srv.Handler(), "/api/snapshot")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "collect failed", body["error"])
}

func TestHistory(t *testing.T) {
	t.Parallel()

	srv, mon := newTestServer(t)
	_, err := mon.Sample(context.Background())
	require.NoError(t, err)

	rec, body := do(t, srv.Handler(), "/api/history/cpu")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cpu", body["device"])
	assert.Equal(t, []any{0.0, 0.0, 0.0, 0.0, 42.0}, body["values"])

	rec, body = do(t, srv.Handler(), "/api/history/gpu")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "unknown device")
}

func TestSample(t *testing.T) {
	t.Parallel()

	srv, mon := newTestServer(t)

	rec, _ := do(t, srv.Handler(), "/api/sample")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	_, err := mon.Sample(context.Background())
	require.NoError(t, err)

	rec, body := do(t, srv.Handler(), "/api/sample")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 120, body["processes"])
}

func TestClassify(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec, body := do(t, srv.Handler(), "/api/classify?brand=Intel+Core+i7-12700K")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alder Lake", body["codename"])
	assert.Equal(t, "LGA1700", body["socket"])
	assert.Equal(t, "12th Gen (Alder Lake)", body["label"])

	_, body = do(t, srv.Handler(), "/api/classify?brand=Intel+Core+i7")
	assert.Equal(t, "Desconhecido", body["codename"])

	rec, _ = do(t, srv.Handler(), "/api/classify")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec, body := do(t, srv.Handler(), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	srv, mon := newTestServer(t)
	sample, err := mon.Sample(context.Background())
	require.NoError(t, err)
	srv.metrics.observeSample(sample)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := rec.Body.String()
	assert.Contains(t, out, "hwlens_cpu_usage_percent 42")
	assert.Contains(t, out, "hwlens_memory_used_percent 55")
	assert.Contains(t, out, `hwlens_network_rate_kbps{direction="sent"} 0`)
	assert.Contains(t, out, `codename="Zen 3 (Ryzen 5000)"`)
}

func TestMetricsWithoutSnapshot(t *testing.T) {
	t.Parallel()

	srv := New(nil, nil,
		func(context.Context) (*collector.Snapshot, error) { return nil, errors.New("collect failed") },
		nil,
	)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hwlens_cpu_info{")
}

func TestWebsocketPushesSamples(t *testing.T) {
	t.Parallel()

	srv, mon := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// keep sampling until the subscription registered on the server side
	// delivers one
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_, _ = mon.Sample(context.Background())
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var sample monitor.Sample
	require.NoError(t, conn.ReadJSON(&sample))
	assert.InDelta(t, 42.0, sample.CPU.UsagePercent, 0.001)
	assert.Equal(t, "warning", sample.CPU.Level)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
