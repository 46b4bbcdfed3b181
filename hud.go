package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/piratesim/sim"
	"golang.org/x/image/font/basicfont"
)

const hudLineHeight = 16

// HUD prints simulation counters in the top left corner.
type HUD struct {
	face  ebtext.Face
	debug bool
}

func NewHUD(debug bool) *HUD {
	return &HUD{face: ebtext.NewGoXFace(basicfont.Face7x13), debug: debug}
}

func (h *HUD) Lines(s *sim.Simulation) []string {
	st := s.Stats()
	lines := []string{
		fmt.Sprintf("tick %d   fps %.1f   tps %.1f", st.Tick, ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("pirates %d   planets %d   shots %d", st.Agents, st.Planets, st.Projectiles),
		fmt.Sprintf("fired %d   dropped %d   expired %d", st.Fired, st.Dropped, st.Expired),
	}
	if h.debug {
		lines = append(lines,
			fmt.Sprintf("entities %d/%d", st.Live, st.Capacity),
			s.Fingerprint(),
		)
	}
	return lines
}

func (h *HUD) Draw(screen *ebiten.Image, s *sim.Simulation, status string) {
	lines := h.Lines(s)
	if status != "" {
		lines = append(lines, status)
	}
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(8, float64(8+i*hudLineHeight))
		op.ColorScale.ScaleWithColor(color.White)
		ebtext.Draw(screen, line, h.face, op)
	}
}
