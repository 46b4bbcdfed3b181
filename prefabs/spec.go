package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpec decodes a YAML prefab from src into T.
func LoadSpec[T any](src Source, filename string) (T, error) {
	var zero T
	data, err := src.Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image string `yaml:"image"`
}

// AgentComponentSpec tunes a pirate ship. RotSpeed is in radians per second.
type AgentComponentSpec struct {
	Speed         float64    `yaml:"speed"`
	RotSpeed      float64    `yaml:"rot_speed"`
	ShootingRange float64    `yaml:"shooting_range"`
	FirePeriod    float64    `yaml:"fire_period"`
	FireJitter    float64    `yaml:"fire_jitter"`
	Direction     VectorSpec `yaml:"direction"`
}

func (s AgentComponentSpec) Validate() error {
	switch {
	case s.Speed < 0:
		return fmt.Errorf("agent speed %v must not be negative", s.Speed)
	case s.RotSpeed < 0:
		return fmt.Errorf("agent rot_speed %v must not be negative", s.RotSpeed)
	case s.ShootingRange <= 0:
		return fmt.Errorf("agent shooting_range %v must be positive", s.ShootingRange)
	case s.FirePeriod <= 0:
		return fmt.Errorf("agent fire_period %v must be positive", s.FirePeriod)
	case s.FireJitter < 0:
		return fmt.Errorf("agent fire_jitter %v must not be negative", s.FireJitter)
	}
	return nil
}

type BodyComponentSpec struct {
	Mass float64 `yaml:"mass"`
	// Orbit starts the body on a circular orbit around the centre.
	Orbit bool `yaml:"orbit"`
}

type ProjectileComponentSpec struct {
	Speed float64 `yaml:"speed"`
}

// PlacementSpec names the script that picks spawn positions. Empty means
// uniform random placement over the screen.
type PlacementSpec struct {
	Script string `yaml:"script"`
}
