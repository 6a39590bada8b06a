package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zenithax-cc/hwlens/internal/config"
	"github.com/zenithax-cc/hwlens/internal/export"
	"github.com/zenithax-cc/hwlens/internal/monitor"
	"github.com/zenithax-cc/hwlens/internal/prefs"
	"github.com/zenithax-cc/hwlens/internal/server"
	"github.com/zenithax-cc/hwlens/pkg/collector"
	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
	"github.com/zenithax-cc/hwlens/pkg/logger"
	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const (
	serviceName = "hwlens"
	clearScreen = "\033[H\033[2J"
	snapshotTTL = 30 * time.Second
)

type cliCfg struct {
	modules string
	brand   string
	watch   bool
}

// parseFlags overlays command line flags on top of the environment
// configuration.
func parseFlags(fs *flag.FlagSet, args []string, cfg *config.Config) (*cliCfg, error) {
	cli := &cliCfg{}

	fs.StringVar(&cli.modules, "m", strings.Join(cfg.Modules, ","), "comma separated modules: "+strings.Join(collector.Modules, ", ")+" or all")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "output: brief, detail or json")
	fs.BoolVar(&cli.watch, "w", false, "refresh cpu and memory every interval")
	fs.DurationVar(&cfg.Interval, "i", cfg.Interval, "refresh and sample interval")
	fs.StringVar(&cfg.ExportPath, "e", cfg.ExportPath, "export the snapshot as JSON to this path")
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "serve the HTTP API on this address, e.g. :9100")
	fs.StringVar(&cfg.PrefsPath, "prefs", cfg.PrefsPath, "preference file")
	fs.StringVar(&cli.brand, "brand", "", "classify a CPU brand string and exit")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Modules = splitModules(cli.modules)

	return cli, cfg.Validate()
}

func splitModules(s string) []string {
	res := make([]string, 0, 4)
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			res = append(res, strings.ToLower(m))
		}
	}
	return res
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "hwlens: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	cli, err := parseFlags(flag.NewFlagSet(serviceName, flag.ContinueOnError), args, &cfg)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		ServiceName: serviceName,
		IsDebug:     cfg.Debug,
		Console:     true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		log.Warn("using default preferences", zap.String("path", cfg.PrefsPath), zap.Error(err))
	}
	classifier := cpuclass.New(p.Markers())
	color := !cfg.NoColor && isTerminal(stdout)

	if cli.brand != "" {
		return renderBrand(stdout, classifier, cli.brand, cfg.Output, color)
	}

	mgr, err := collector.NewManager(log, cfg.Modules, classifier)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Listen != "" {
		return serve(ctx, log, cfg, mgr)
	}

	snap, err := mgr.Collect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		log.Warn("collection incomplete", zap.Error(err))
	}

	if cfg.ExportPath != "" {
		if err := export.WriteJSON(cfg.ExportPath, snap); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		log.Info("snapshot exported", zap.String("path", cfg.ExportPath))
	}

	if err := collector.Render(stdout, snap, cfg.Output, color); err != nil {
		return err
	}

	if !cli.watch {
		return nil
	}

	return watch(ctx, log, cfg, mgr, snap, stdout, color)
}

func watch(ctx context.Context, log *zap.Logger, cfg config.Config, mgr *collector.Manager, snap *collector.Snapshot, stdout io.Writer, color bool) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watchPrefs(gCtx, log, cfg.PrefsPath, mgr, nil)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if err := mgr.Refresh(gCtx, snap); err != nil && gCtx.Err() == nil {
					log.Debug("refresh incomplete", zap.Error(err))
				}
				if snap.CPU != nil {
					snap.CPU.Reclassify(mgr.Classifier())
				}

				fmt.Fprint(stdout, clearScreen)
				if err := collector.Render(stdout, snap, cfg.Output, color); err != nil {
					return err
				}
			}
		}
	})

	return ignoreCanceled(g.Wait())
}

func serve(ctx context.Context, log *zap.Logger, cfg config.Config, mgr *collector.Manager) error {
	mon := monitor.New(monitor.HostSource(), log, cfg.Interval, cfg.HistorySize)
	cache := collector.NewCache(mgr, snapshotTTL)
	srv := server.New(log, mon, cache.Get, mgr.Classifier)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return mon.Run(gCtx) })
	g.Go(func() error { return srv.ListenAndServe(gCtx, cfg.Listen) })
	g.Go(func() error { return watchPrefs(gCtx, log, cfg.PrefsPath, mgr, cache) })

	return ignoreCanceled(g.Wait())
}

// watchPrefs swaps the classifier markers whenever the preference file
// changes. A watcher that cannot start is logged, not fatal.
func watchPrefs(ctx context.Context, log *zap.Logger, path string, mgr *collector.Manager, cache *collector.Cache) error {
	err := prefs.Watch(ctx, path, log, func(p prefs.Prefs, err error) {
		if err != nil {
			log.Warn("reload preferences", zap.Error(err))
		}

		mgr.SetClassifier(cpuclass.New(p.Markers()))
		if cache != nil {
			cache.Invalidate()
		}
		log.Info("preferences reloaded", zap.String("language", p.Language), zap.String("theme", p.Theme))
	})

	if err != nil && ctx.Err() == nil {
		log.Warn("preference watcher stopped", zap.Error(err))
	}

	return nil
}

type brandReport struct {
	Brand       string `json:"brand" name:"Brand" output:"both" color:"DefaultGreen"`
	Codename    string `json:"codename" name:"Codename" output:"both"`
	Lithography string `json:"lithography" name:"Lithography" output:"both"`
	Socket      string `json:"socket" name:"Socket" output:"both"`
	Generation  string `json:"generation" name:"Generation" output:"both"`
}

func renderBrand(w io.Writer, c *cpuclass.Classifier, brand, output string, color bool) error {
	d := c.Classify(brand)
	report := brandReport{
		Brand:       brand,
		Codename:    d.Codename,
		Lithography: d.Lithography,
		Socket:      d.Socket,
		Generation:  d.Generation,
	}

	if output == utils.OutputJSON {
		return utils.WriteJSON(w, report)
	}

	sp := utils.NewStructPrinter(w)
	if !color {
		sp.WithoutColor()
	}
	sp.Print(report, output)

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
