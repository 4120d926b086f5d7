package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"metpatch/config"
	"metpatch/credits"
	"metpatch/doorlocks"
	"metpatch/game"
	"metpatch/music"
	"metpatch/rom"
	"metpatch/tiles"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "metpatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := ""
	patchPath := ""
	sheetPath := ""
	nWorkers := -1
	flag.StringVar(&configPath, "config", "", "TOML tool configuration")
	flag.StringVar(&patchPath, "patch", "", "YAML patch data (door locks, credits, music)")
	flag.StringVar(&sheetPath, "tilesheet", "", "write a PNG of every minimap tile")
	flag.IntVar(&nWorkers, "n", -1, "number of parallel workers (-1 = config or CPU count)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: metpatch [flags] in.gba out.gba\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if sheetPath != "" {
		cfg.Output.TileSheet = sheetPath
	}
	if nWorkers > 0 {
		cfg.Output.Workers = nWorkers
	} else if cfg.Output.Workers <= 0 {
		cfg.Output.Workers = runtime.NumCPU()
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	args := flag.Args()
	if len(args) != 2 {
		// the tile sheet alone needs no image
		if len(args) == 0 && cfg.Output.TileSheet != "" {
			return writeTileSheet(cfg, tiles.HatchFusion, log)
		}
		flag.Usage()
		return errors.New("expected input and output image paths")
	}

	patch := &config.Patch{}
	if patchPath != "" {
		if patch, err = config.LoadPatch(patchPath); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	r, err := rom.New(data)
	if err != nil {
		return err
	}
	log.Info("image loaded", zap.String("path", args[0]), zap.Stringer("game", r.Game), zap.Int("size", r.Size()))

	if err = apply(r, cfg, patch, log); err != nil {
		return err
	}

	if cfg.Output.TileSheet != "" {
		style := tiles.HatchFusion
		if r.Game == rom.GameZeroMission {
			style = tiles.HatchZeroMission
		}
		if err = writeTileSheet(cfg, style, log); err != nil {
			return err
		}
	}

	if err = os.WriteFile(args[1], r.Data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	fs := r.FreeSpace()
	log.Info("image written",
		zap.String("path", args[1]),
		zap.Int("free_space_used", fs.Used()),
		zap.Int("free_space_left", fs.Remaining()),
	)
	return nil
}

// apply runs every patch step. Patch data is validated before the first byte
// is written.
func apply(r *rom.Rom, cfg *config.Config, patch *config.Patch, log *zap.Logger) error {
	d, err := game.For(r)
	if err != nil {
		return err
	}
	cfg.Addresses.Override(d)

	locks, err := patch.Locks()
	if err != nil {
		return err
	}
	lines, err := patch.CreditLines()
	if err != nil {
		return err
	}
	lib, ok := music.For(r.Game)
	if len(patch.Music) > 0 {
		if !ok {
			return fmt.Errorf("%s has no music library", r.Game)
		}
		if err = lib.Validate(patch.Music); err != nil {
			return err
		}
	}
	if len(locks) > 0 && d.DoorLocks == nil {
		return fmt.Errorf("%s: %w", r.Game, doorlocks.ErrUnsupported)
	}
	if len(lines) > 0 && d.CreditsPtr == 0 {
		return fmt.Errorf("%s: %w", r.Game, credits.ErrUnsupported)
	}

	if len(patch.Music) > 0 {
		if err = music.Replace(r, d.SoundTable, lib, patch.Music, log.Named("music")); err != nil {
			return err
		}
	}

	if len(lines) > 0 {
		if err = credits.Insert(r, d.CreditsPtr, d.CreditsLen, lines, log.Named("credits")); err != nil {
			return err
		}
	}

	if d.DoorLocks != nil {
		res, err := doorlocks.Apply(r, d.DoorLocks, locks, log.Named("doorlocks"))
		if err != nil {
			return err
		}
		log.Info("door locks applied",
			zap.Int("overrides", len(locks)),
			zap.Int("rooms_remapped", len(res.Remaps)),
			zap.Int("events_fixed", res.EventsFixed),
			zap.Int("diagnostics", len(res.Diagnostics)),
		)
	}
	return nil
}

func writeTileSheet(cfg *config.Config, style tiles.HatchStyle, log *zap.Logger) error {
	img, err := tiles.Sheet(tiles.Fusion, tiles.Renderer{Hatch: style}, tiles.SheetOptions{
		Scale:   cfg.Output.TileSheetScale,
		Columns: cfg.Output.Columns,
		Workers: cfg.Output.Workers,
	}, log.Named("tiles"))
	if err != nil {
		return err
	}
	if err = tiles.ExportPNG(cfg.Output.TileSheet, img); err != nil {
		return fmt.Errorf("tile sheet: %w", err)
	}
	log.Info("tile sheet written", zap.String("path", cfg.Output.TileSheet), zap.Int("tiles", tiles.Fusion.Len()))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
