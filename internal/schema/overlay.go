package schema

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// OverlayFile customizes the builtin column table. Overlays can change a
// column's default value or required flag, or add extra columns (for
// example site-specific inventory fields). Layers are applied in load
// order; later layers override earlier ones per key.
type OverlayFile struct {
	SchemaVersion string                   `yaml:"schema_version"`
	Columns       map[string]OverlayColumn `yaml:"columns"`
}

type OverlayColumn struct {
	Display  string  `yaml:"display,omitempty"`
	Default  *string `yaml:"default,omitempty"`
	Required *bool   `yaml:"required,omitempty"`
	Kind     string  `yaml:"kind,omitempty"`
}

// ApplyOverlay reads an overlay file and merges it into the registry.
// Unknown keys create new columns; known keys are updated in place.
func (r *Registry) ApplyOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read column overlay: " + path).
			WithCause(err)
	}
	var overlay OverlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse column overlay: " + path).
			WithCause(err)
	}
	if overlay.SchemaVersion == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("column overlay missing schema_version: " + path)
	}
	for key, column := range overlay.Columns {
		normalized := strings.ToUpper(strings.TrimSpace(key))
		if normalized == "" {
			continue
		}
		if err := r.applyOverlayColumn(normalized, column, path); err != nil {
			return err
		}
	}
	log.Debug().
		Str("path", path).
		Int("columns", len(overlay.Columns)).
		Msg("column overlay applied")
	return nil
}

func (r *Registry) applyOverlayColumn(key string, column OverlayColumn, path string) error {
	existing, ok := r.byKey[key]
	if !ok {
		kind := ColumnKind(strings.TrimSpace(column.Kind))
		if kind == "" {
			kind = KindInventory
		}
		if kind != KindConfig && kind != KindInventory {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("column overlay key '" + key + "' has invalid kind '" + column.Kind + "' in " + path)
		}
		spec := ColumnSpec{Key: key, Display: column.Display, Kind: kind}
		if spec.Display == "" {
			spec.Display = key
		}
		if column.Default != nil {
			spec.Default = *column.Default
		}
		if column.Required != nil {
			spec.Required = *column.Required
		}
		r.specs = append(r.specs, spec)
		r.byKey[key] = spec
		return nil
	}

	log.Debug().
		Str("key", key).
		Str("layer", path).
		Msg("column overridden by overlay layer")
	if column.Display != "" {
		existing.Display = column.Display
	}
	if column.Default != nil {
		existing.Default = *column.Default
	}
	if column.Required != nil {
		existing.Required = *column.Required
	}
	r.byKey[key] = existing
	for i := range r.specs {
		if r.specs[i].Key == key {
			r.specs[i] = existing
			break
		}
	}
	return nil
}
