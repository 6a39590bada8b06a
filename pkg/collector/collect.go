// Package collector runs the hardware collectors and aggregates their
// results into a Snapshot.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zenithax-cc/hwlens/internal/collector/board"
	"github.com/zenithax-cc/hwlens/internal/collector/cpu"
	"github.com/zenithax-cc/hwlens/internal/collector/disk"
	"github.com/zenithax-cc/hwlens/internal/collector/gpu"
	"github.com/zenithax-cc/hwlens/internal/collector/memory"
	"github.com/zenithax-cc/hwlens/internal/collector/network"
	"github.com/zenithax-cc/hwlens/internal/collector/system"
	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
	"github.com/zenithax-cc/hwlens/pkg/utils"
)

type Collector interface {
	Name() string
	Collect(context.Context) error
}

// Refresher is implemented by collectors with values that change between
// two snapshots, such as usage or clock speed.
type Refresher interface {
	Refresh(context.Context) error
}

const (
	ModuleSystem  = "system"
	ModuleCPU     = "cpu"
	ModuleMemory  = "memory"
	ModuleBoard   = "board"
	ModuleGPU     = "gpu"
	ModuleDisk    = "disk"
	ModuleNetwork = "network"
	ModuleAll     = "all"

	maxConcurrency = 4
)

var ErrUnknownModule = errors.New("unknown module")

// Modules lists the supported module names in display order.
var Modules = []string{ModuleSystem, ModuleCPU, ModuleMemory, ModuleBoard, ModuleGPU, ModuleDisk, ModuleNetwork}

var registry = map[string]func(*Manager, *Snapshot) Collector{
	ModuleSystem: func(_ *Manager, s *Snapshot) Collector {
		s.System = system.New()
		return s.System
	},
	ModuleCPU: func(m *Manager, s *Snapshot) Collector {
		s.CPU = cpu.New(m.Classifier())
		return s.CPU
	},
	ModuleMemory: func(_ *Manager, s *Snapshot) Collector {
		s.Memory = memory.New()
		return s.Memory
	},
	ModuleBoard: func(_ *Manager, s *Snapshot) Collector {
		s.Board = board.New()
		return s.Board
	},
	ModuleGPU: func(_ *Manager, s *Snapshot) Collector {
		s.GPU = gpu.New()
		return s.GPU
	},
	ModuleDisk: func(_ *Manager, s *Snapshot) Collector {
		s.Disk = disk.New()
		return s.Disk
	},
	ModuleNetwork: func(_ *Manager, s *Snapshot) Collector {
		s.Network = network.New()
		return s.Network
	},
}

type Snapshot struct {
	CollectedAt time.Time        `json:"collected_at"`
	System      *system.System   `json:"system,omitempty" name:"System" output:"both"`
	CPU         *cpu.CPU         `json:"cpu,omitempty" name:"CPU" output:"both"`
	Memory      *memory.Memory   `json:"memory,omitempty" name:"Memory" output:"both"`
	Board       *board.Board     `json:"board,omitempty" name:"Mainboard" output:"both"`
	GPU         *gpu.GPU         `json:"gpu,omitempty" name:"GPU" output:"both"`
	Disk        *disk.Disk       `json:"disk,omitempty" name:"Storage" output:"both"`
	Network     *network.Network `json:"network,omitempty" name:"Network" output:"both"`
}

type Manager struct {
	log        *zap.Logger
	modules    []string
	classifier atomic.Pointer[cpuclass.Classifier]
}

// ResolveModules expands "all", drops duplicates and rejects unknown names.
// An empty list selects every module.
func ResolveModules(names []string) ([]string, error) {
	if len(names) == 0 || slices.Contains(names, ModuleAll) {
		return slices.Clone(Modules), nil
	}

	res := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := registry[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
		}
		if !slices.Contains(res, name) {
			res = append(res, name)
		}
	}

	return res, nil
}

func NewManager(log *zap.Logger, modules []string, classifier *cpuclass.Classifier) (*Manager, error) {
	resolved, err := ResolveModules(modules)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}

	m := &Manager{
		log:     log,
		modules: resolved,
	}
	m.SetClassifier(classifier)

	return m, nil
}

func (m *Manager) Modules() []string {
	return slices.Clone(m.modules)
}

// SetClassifier swaps the classifier used by later collections. It is safe
// to call while a collection runs.
func (m *Manager) SetClassifier(c *cpuclass.Classifier) {
	if c == nil {
		c = cpuclass.New(cpuclass.English)
	}
	m.classifier.Store(c)
}

func (m *Manager) Classifier() *cpuclass.Classifier {
	return m.classifier.Load()
}

// Collect runs the selected collectors concurrently. A failing collector
// keeps whatever it gathered in the snapshot; its error is joined into the
// returned error.
func (m *Manager) Collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{CollectedAt: time.Now()}

	collectors := make([]Collector, 0, len(m.modules))
	for _, name := range m.modules {
		collectors = append(collectors, registry[name](m, snap))
	}

	return snap, m.run(ctx, collectors, func(ctx context.Context, c Collector) error {
		return c.Collect(ctx)
	})
}

// Refresh updates the dynamic values of snap in place.
func (m *Manager) Refresh(ctx context.Context, snap *Snapshot) error {
	collectors := make([]Collector, 0, 2)
	if snap.CPU != nil {
		collectors = append(collectors, snap.CPU)
	}
	if snap.Memory != nil {
		collectors = append(collectors, snap.Memory)
	}

	err := m.run(ctx, collectors, func(ctx context.Context, c Collector) error {
		r, ok := c.(Refresher)
		if !ok {
			return nil
		}
		return r.Refresh(ctx)
	})
	snap.CollectedAt = time.Now()

	return err
}

func (m *Manager) run(ctx context.Context, collectors []Collector, fn func(context.Context, Collector) error) error {
	var (
		mu   sync.Mutex
		errs = make([]error, 0, len(collectors))
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for _, c := range collectors {
		g.Go(func() error {
			start := time.Now()
			err := fn(gCtx, c)

			m.log.Debug("collector finished",
				zap.String("module", c.Name()),
				zap.Duration("took", time.Since(start)),
				zap.Error(err),
			)

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
				mu.Unlock()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return utils.CombineErrors(errs)
}

// Render writes snap in the given output mode: brief, detail or json.
func Render(w io.Writer, snap *Snapshot, output string, color bool) error {
	switch output {
	case utils.OutputJSON:
		return utils.WriteJSON(w, snap)
	case utils.OutputBrief, utils.OutputDetail:
		sp := utils.NewStructPrinter(w)
		if !color {
			sp.WithoutColor()
		}
		sp.Print(snap, output)
		return nil
	default:
		return fmt.Errorf("unsupported output %q", output)
	}
}
