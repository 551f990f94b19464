package projectconfig

import (
	"fmt"
	"strings"

	"github.com/brandnamegen/brandcheck/internal/validation"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// ApplyOverrides merges "--set key=value" pairs onto cfg. Keys are dotted
// config paths such as "weights.play" or "providers.play.max_results";
// values are parsed as YAML scalars or flow collections.
func ApplyOverrides(cfg *ProjectConfig, sets []string) error {
	if len(sets) == 0 {
		return nil
	}

	raw := map[string]any{}
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid override %q: expected key=value", s)
		}

		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil || v == nil {
			v = value
		}
		if err := setPath(raw, strings.Split(key, "."), v); err != nil {
			return fmt.Errorf("invalid override %q: %w", s, err)
		}
	}

	doc, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding overrides: %w", err)
	}
	if err := validation.ErrorsToError(validation.ValidateConfigBytes(doc)); err != nil {
		return fmt.Errorf("overrides: %w", err)
	}

	var overlay ProjectConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &overlay,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("creating override decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decoding overrides: %w", err)
	}

	mergeConfig(cfg, &overlay)
	return nil
}

func setPath(m map[string]any, path []string, v any) error {
	for i, p := range path {
		p = strings.TrimSpace(p)
		if p == "" {
			return fmt.Errorf("empty key segment")
		}
		if i == len(path)-1 {
			if _, isMap := m[p].(map[string]any); isMap {
				return fmt.Errorf("%q is a section, not a value", strings.Join(path[:i+1], "."))
			}
			m[p] = v
			return nil
		}
		next, ok := m[p]
		if !ok {
			child := map[string]any{}
			m[p] = child
			m = child
			continue
		}
		child, isMap := next.(map[string]any)
		if !isMap {
			return fmt.Errorf("%q is a value, not a section", strings.Join(path[:i+1], "."))
		}
		m = child
	}
	return nil
}
