package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/piratesim/config"
	"github.com/milk9111/piratesim/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/piratesim.toml", "path to the TOML config")
	seed := flag.Int64("seed", 0, "random seed (0 keeps the configured seed)")
	pirates := flag.Int("pirates", -1, "number of pirate ships (-1 keeps the configured count)")
	planets := flag.Int("planets", -1, "number of planets (-1 keeps the configured count)")
	debug := flag.Bool("debug", false, "enable debug logging and overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *pirates >= 0 {
		cfg.Simulation.Pirates = *pirates
	}
	if *planets >= 0 {
		cfg.Simulation.Planets = *planets
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	ebiten.SetTPS(cfg.TicksPerSecond())
	ebiten.SetVsyncEnabled(cfg.Simulation.MaxFramerate > 0)

	game, err := NewGame(cfg, logger, *debug)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game exited", zap.Error(err))
	}
}

// loadConfig falls back to the built-in defaults when the file is absent.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Defaults(), nil
	}
	return cfg, err
}
