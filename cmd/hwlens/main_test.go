package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithax-cc/hwlens/internal/config"
	"github.com/zenithax-cc/hwlens/pkg/collector"
	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
)

func defaultConfig(t *testing.T) config.Config {
	t.Helper()

	cfg, err := config.ParseEnviron(map[string]string{})
	require.NoError(t, err)
	return cfg
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlagsOverridesEnv(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)
	cli, err := parseFlags(newFlagSet(), []string{
		"-m", "CPU, memory", "-o", "detail", "-w", "-i", "2s", "-e", "/tmp/out.json", "-brand", "AMD Ryzen 5 5600X",
	}, &cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"cpu", "memory"}, cfg.Modules)
	assert.Equal(t, "detail", cfg.Output)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, "/tmp/out.json", cfg.ExportPath)
	assert.True(t, cli.watch)
	assert.Equal(t, "AMD Ryzen 5 5600X", cli.brand)
}

func TestParseFlagsDefaults(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)
	cli, err := parseFlags(newFlagSet(), nil, &cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"all"}, cfg.Modules)
	assert.Equal(t, "brief", cfg.Output)
	assert.False(t, cli.watch)
}

func TestParseFlagsRejectsUnknownModule(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)
	_, err := parseFlags(newFlagSet(), []string{"-m", "raid"}, &cfg)
	require.ErrorIs(t, err, collector.ErrUnknownModule)
}

func TestRenderBrand(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderBrand(&buf, cpuclass.New(cpuclass.English), "Intel(R) Core(TM) i9-13900K", "json", false))

	var got brandReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Raptor Lake", got.Codename)
	assert.Equal(t, "13th Gen", got.Generation)

	buf.Reset()
	require.NoError(t, renderBrand(&buf, cpuclass.New(cpuclass.Portuguese), "Intel Core i5", "brief", false))
	assert.Contains(t, buf.String(), "Desconhecido")
	assert.Contains(t, buf.String(), "Socket")
}

func TestSplitModules(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"cpu", "gpu"}, splitModules(" cpu ,,GPU"))
	assert.Empty(t, splitModules(""))
}
