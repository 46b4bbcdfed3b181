package main

import (
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/piratesim/config"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/render"
	"github.com/milk9111/piratesim/prefabs"
	"github.com/milk9111/piratesim/sim"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

// statusFrames is how long a status message stays on screen.
const statusFrames = 120

type Game struct {
	cfg *config.Config
	log *zap.Logger

	sim      *sim.Simulation
	visuals  *render.Registry
	renderer *render.Renderer
	hud      *HUD
	watcher  *prefabs.Watcher

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI

	clipboardOK bool
	lastUpdate  time.Time

	status      string
	statusTicks int
}

func NewGame(cfg *config.Config, log *zap.Logger, debug bool) (*Game, error) {
	visuals := render.NewRegistry()
	s, err := sim.New(cfg,
		sim.WithLogger(log),
		sim.WithVisuals(visuals),
	)
	if err != nil {
		return nil, err
	}
	s.AddSystem(ecs.PhaseUpdate, render.NewVisualSystem(visuals))

	if _, err := s.SpawnPlanets(cfg.Simulation.Planets); err != nil {
		return nil, err
	}
	if _, err := s.SpawnAgents(cfg.Simulation.Pirates); err != nil {
		return nil, err
	}

	renderer := render.NewRenderer(visuals, log.Named("render"))
	renderer.Debug = debug

	g := &Game{
		cfg:      cfg,
		log:      log,
		sim:      s,
		visuals:  visuals,
		renderer: renderer,
		hud:      NewHUD(debug),
	}
	g.pauseUI = NewPauseUI(g)

	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboardOK = true
	}

	if cfg.Prefabs.Watch && cfg.Prefabs.Dir != "" {
		w, err := prefabs.NewWatcher(prefabs.Source{Dir: cfg.Prefabs.Dir})
		if err != nil {
			log.Warn("prefab hot reload disabled", zap.String("dir", cfg.Prefabs.Dir), zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if g.statusTicks > 0 {
		g.statusTicks--
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyFingerprint()
	}
	g.pollWatcher()

	now := time.Now()
	frameDt := g.sim.FixedDelta()
	if !g.lastUpdate.IsZero() {
		frameDt = now.Sub(g.lastUpdate).Seconds()
	}
	g.lastUpdate = now

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if err := g.sim.FixedUpdate(g.sim.FixedDelta()); err != nil {
		return err
	}
	g.sim.Update(frameDt)
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			reloaded, err := g.sim.ReloadPrefab(name)
			if err != nil {
				g.log.Warn("prefab reload failed", zap.String("file", name), zap.Error(err))
				g.setStatus("reload failed: " + name)
				continue
			}
			if reloaded {
				g.setStatus("reloaded " + name)
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) copyFingerprint() {
	fp := g.sim.Fingerprint()
	g.log.Info("fingerprint", zap.String("fingerprint", fp))
	if !g.clipboardOK {
		g.setStatus(fp)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(fp))
	g.setStatus("copied " + fp)
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTicks = statusFrames
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	g.renderer.Draw(g.sim.World(), screen)

	status := ""
	if g.statusTicks > 0 {
		status = g.status
	}
	g.hud.Draw(screen, g.sim, status)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Screen.Width), float64(g.cfg.Screen.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
