package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zenithax-cc/hwlens/internal/collector/cpu"
	"github.com/zenithax-cc/hwlens/internal/collector/memory"
	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
)

type fakeCollector struct {
	name  string
	err   error
	calls atomic.Int32
}

func (f *fakeCollector) Name() string { return f.name }

func (f *fakeCollector) Collect(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestResolveModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{"empty selects all", nil, Modules, nil},
		{"all", []string{"cpu", "all"}, Modules, nil},
		{"dedupe keeps order", []string{"gpu", "cpu", "gpu"}, []string{"gpu", "cpu"}, nil},
		{"unknown", []string{"cpu", "raid"}, nil, ErrUnknownModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveModules(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	_, err := NewManager(zap.NewNop(), []string{"bogus"}, nil)
	require.ErrorIs(t, err, ErrUnknownModule)

	m, err := NewManager(nil, []string{"cpu"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu"}, m.Modules())
	assert.Equal(t, cpuclass.English, m.Classifier().Markers())

	pt := cpuclass.New(cpuclass.Portuguese)
	m.SetClassifier(pt)
	assert.Same(t, pt, m.Classifier())
}

func TestRunJoinsErrors(t *testing.T) {
	t.Parallel()

	m, err := NewManager(zap.NewNop(), nil, nil)
	require.NoError(t, err)

	errBoom := errors.New("boom")
	ok := &fakeCollector{name: "ok"}
	bad := &fakeCollector{name: "bad", err: errBoom}
	worse := &fakeCollector{name: "worse", err: errors.New("worse")}

	err = m.run(context.Background(), []Collector{ok, bad, worse}, func(ctx context.Context, c Collector) error {
		return c.Collect(ctx)
	})

	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Contains(t, err.Error(), "worse: worse")
	assert.EqualValues(t, 1, ok.calls.Load())
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	m, err := NewManager(zap.NewNop(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = m.run(ctx, []Collector{&fakeCollector{name: "x", err: context.Canceled}}, func(ctx context.Context, c Collector) error {
		return c.Collect(ctx)
	})
	require.ErrorIs(t, err, context.Canceled)
}

func sampleSnapshot() *Snapshot {
	c := cpu.New(nil)
	c.ModelName = "Intel(R) Core(TM) i5-6500 CPU @ 3.20GHz"
	c.Vendor = "Intel"
	c.Codename = "Skylake"
	c.Generation = "6th Gen"
	c.GenerationLabel = "6th Gen (Skylake)"
	c.Cores = 4
	c.Flags = []string{"sse4_2", "avx2"}

	mem := memory.New()
	mem.Total = "16 GiB"
	mem.Channel = "Dual"
	mem.Modules = append(mem.Modules, &memory.Module{Locator: "DIMM_A1", Size: "8 GiB"})

	return &Snapshot{
		CollectedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		CPU:         c,
		Memory:      mem,
	}
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleSnapshot(), "json", false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "cpu")
	assert.Contains(t, decoded, "memory")
	assert.NotContains(t, decoded, "gpu")
	assert.Equal(t, "Skylake", decoded["cpu"].(map[string]any)["codename"])
}

func TestRenderBriefAndDetail(t *testing.T) {
	t.Parallel()

	var brief, detail bytes.Buffer
	require.NoError(t, Render(&brief, sampleSnapshot(), "brief", false))
	require.NoError(t, Render(&detail, sampleSnapshot(), "detail", false))

	assert.Contains(t, brief.String(), "[CPU]")
	assert.Contains(t, brief.String(), "6th Gen (Skylake)")
	assert.NotContains(t, brief.String(), "DIMM_A1")
	assert.NotContains(t, brief.String(), "\033[")

	assert.Contains(t, detail.String(), "DIMM_A1")
	assert.Contains(t, detail.String(), "sse4_2, avx2")
}

func TestRenderUnsupported(t *testing.T) {
	t.Parallel()

	require.Error(t, Render(&bytes.Buffer{}, sampleSnapshot(), "yaml", false))
}

func TestCacheReusesFreshSnapshot(t *testing.T) {
	t.Parallel()

	m, err := NewManager(zap.NewNop(), []string{"gpu"}, nil)
	require.NoError(t, err)

	c := NewCache(m, time.Hour)
	first, _ := c.Get(context.Background())
	require.NotNil(t, first)

	second, _ := c.Get(context.Background())
	assert.Same(t, first, second)

	c.Invalidate()
	third, _ := c.Get(context.Background())
	assert.NotSame(t, first, third)
	assert.NotNil(t, third.GPU)
}
