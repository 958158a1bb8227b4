package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/backend"
	_ "github.com/gogpu/imgfx/backend/software"
	"github.com/gogpu/imgfx/favorites"
	"github.com/gogpu/imgfx/internal/config"
)

// app holds state shared by the subcommands of one invocation.
type app struct {
	cfgFile     string
	verbose     bool
	backendName string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "imgfx",
		Short: "Parameterized image filter engine",
		Long: `imgfx applies chains of parameterized filters to images.

Example usage:
  imgfx kinds                                   # List filter kinds and parameters
  imgfx apply in.png --out out.png --filter exposure=0.5
  imgfx apply in.jpg --out out.png --filter grayscale --filter vignette=0.5,0.5,0.3,0.75
  imgfx apply in.png --out out.png --chain look.json --mask region.json
  imgfx favorites save night --filter exposure=-1 --filter hue=200
  imgfx favorites list`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .imgfx.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.backendName, "backend", "", "pixel backend (default: best available)")

	root.AddCommand(
		newKindsCmd(a),
		newApplyCmd(a),
		newFavoritesCmd(a),
	)
	return root
}

// init loads configuration and installs the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level := cfg.SlogLevel()
	if a.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	}
	a.logger = slog.New(h)
	slog.SetDefault(a.logger)
	imgfx.SetLogger(a.logger)

	a.logger.Debug("configuration loaded",
		"cache_entries", cfg.CacheEntries,
		"cache_size", cfg.CacheSize,
		"memory_ceiling", cfg.MemoryCeiling,
		"workers", cfg.Workers,
		"favorites_dir", cfg.FavoritesDir)
	return nil
}

// executor builds an executor from the configuration.
func (a *app) executor() (*imgfx.Executor, error) {
	var (
		b   imgfx.Backend
		err error
	)
	if a.backendName != "" {
		b, err = backend.Get(a.backendName)
	} else {
		b, err = backend.Default()
	}
	if err != nil {
		return nil, err
	}
	if n, ok := b.(backend.Named); ok {
		a.logger.Debug("backend selected", "name", n.Name())
	}

	opts := []imgfx.ExecutorOption{
		imgfx.WithAllocator(imgfx.NewPool(4, 0)),
		imgfx.WithWorkers(a.cfg.Workers),
		imgfx.WithMemoryCeiling(a.cfg.CeilingBytes()),
		imgfx.WithLogger(a.logger),
	}
	if size := a.cfg.CacheBytes(); size > 0 {
		opts = append(opts, imgfx.WithCache(imgfx.NewBufferCache(a.cfg.CacheEntries, size)))
	}
	return imgfx.NewExecutor(b, opts...), nil
}

func (a *app) favorites() (favorites.Store, error) {
	return favorites.NewDir(a.cfg.FavoritesDir)
}
