package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/piratesim/ecs"
	"github.com/milk9111/piratesim/ecs/component"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// Renderer draws every entity that has both a Transform and a Sprite.
type Renderer struct {
	reg *Registry
	log *zap.Logger
	// Debug overlays shooting ranges and target lines.
	Debug bool

	failed map[string]bool
}

func NewRenderer(reg *Registry, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{reg: reg, log: log, failed: make(map[string]bool)}
}

func (r *Renderer) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	// creation order keeps overlapping sprites stable between frames
	for _, e := range w.Query(component.TransformComponent, component.SpriteComponent) {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		s, _ := ecs.Get(w, e, component.SpriteComponent)

		img := r.image(s.Image)
		if img == nil {
			continue
		}

		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
		op.GeoM.Rotate(t.Rotation * math.Pi / 180)
		op.GeoM.Translate(t.Position.X, t.Position.Y)
		if p, ok := ecs.Get(w, e, component.ProjectileComponent); ok {
			// shots fade toward the end of their range
			op.ColorScale.ScaleAlpha(float32(1 - 0.6*p.Lifetime.Ratio()))
		}
		screen.DrawImage(img, op)
	}

	if r.Debug {
		r.drawDebug(w, screen)
	}
}

func (r *Renderer) image(key string) *ebiten.Image {
	if key == "" || r.failed[key] {
		return nil
	}
	img, err := r.reg.Image(key)
	if err != nil {
		r.failed[key] = true
		r.log.Warn("image unavailable", zap.String("asset", key), zap.Error(err))
		return nil
	}
	return img
}

var (
	rangeColor  = color.RGBA{R: 255, G: 255, B: 255, A: 40}
	targetColor = colornames.Orangered
)

func (r *Renderer) drawDebug(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach2(w, component.AgentComponent, component.TransformComponent, func(_ ecs.Entity, a *component.Agent, t *component.Transform) {
		x, y := float32(t.Position.X), float32(t.Position.Y)
		vector.StrokeCircle(screen, x, y, float32(a.ShootingRange), 1, rangeColor, true)
		if !a.InRange {
			return
		}
		target, ok := ecs.Get(w, ecs.Entity(a.Target), component.TransformComponent)
		if !ok {
			return
		}
		vector.StrokeLine(screen, x, y, float32(target.Position.X), float32(target.Position.Y), 1, targetColor, true)
	})
}
