package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab file: a name, a component table and an optional
// placement script.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Placement  PlacementSpec  `yaml:"placement"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(src Source, filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](src, filename)
}

// Component decodes the named component table into T. ok is false when the
// prefab does not define it.
func Component[T any](spec EntityBuildSpec, name string) (T, bool, error) {
	var zero T
	raw, ok := spec.Components[name]
	if !ok {
		return zero, false, nil
	}
	out, err := DecodeComponentSpec[T](raw)
	return out, true, err
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}
