package entity

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/piratesim/common"
	"github.com/milk9111/piratesim/prefabs"
)

// Bounds is the rectangle entities are placed in, anchored at the origin.
type Bounds struct {
	Width  float64
	Height float64
}

func (b Bounds) Center() cp.Vector {
	return cp.Vector{X: b.Width / 2, Y: b.Height / 2}
}

// Placer picks the spawn position of the index-th of count entities.
type Placer interface {
	Place(index, count int) (cp.Vector, error)
}

// RandomPlacer places uniformly over Bounds.
type RandomPlacer struct {
	Bounds Bounds
	Rand   common.Random
}

func (p RandomPlacer) Place(_, _ int) (cp.Vector, error) {
	return cp.Vector{
		X: p.Rand.Float64() * p.Bounds.Width,
		Y: p.Rand.Float64() * p.Bounds.Height,
	}, nil
}

// ScriptPlacer runs a tengo script per placement. The script sees index,
// count, width, height and a rand() function drawing from the simulation's
// random source, and must define x and y.
type ScriptPlacer struct {
	name     string
	compiled *tengo.Compiled
}

func NewScriptPlacer(src prefabs.Source, name string, bounds Bounds, r common.Random) (*ScriptPlacer, error) {
	scriptBytes, err := src.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("placement script %q: %w", name, err)
	}

	script := tengo.NewScript(scriptBytes)
	_ = script.Add("index", 0)
	_ = script.Add("count", 0)
	_ = script.Add("width", bounds.Width)
	_ = script.Add("height", bounds.Height)
	_ = script.Add("rand", &tengo.UserFunction{Name: "rand", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: r.Float64()}, nil
	}})
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("placement script %q: %w", name, err)
	}
	return &ScriptPlacer{name: name, compiled: compiled}, nil
}

func (p *ScriptPlacer) Place(index, count int) (cp.Vector, error) {
	if err := p.compiled.Set("index", index); err != nil {
		return cp.Vector{}, err
	}
	if err := p.compiled.Set("count", count); err != nil {
		return cp.Vector{}, err
	}
	if err := p.compiled.Run(); err != nil {
		return cp.Vector{}, fmt.Errorf("placement script %q: %w", p.name, err)
	}
	x, y := p.compiled.Get("x"), p.compiled.Get("y")
	if x.IsUndefined() || y.IsUndefined() {
		return cp.Vector{}, fmt.Errorf("placement script %q must define x and y", p.name)
	}
	return cp.Vector{X: x.Float(), Y: y.Float()}, nil
}

// NewPlacer returns the script placer a prefab names, or a RandomPlacer.
func NewPlacer(src prefabs.Source, spec prefabs.PlacementSpec, bounds Bounds, r common.Random) (Placer, error) {
	if spec.Script == "" {
		return RandomPlacer{Bounds: bounds, Rand: r}, nil
	}
	return NewScriptPlacer(src, spec.Script, bounds, r)
}
