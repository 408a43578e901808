package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads a protocol file (YAML or JSON, chosen by extension) and applies overrides.
// Overrides use "dotted.path=value" syntax; list items are addressed by index,
// as in "reagents.0.total_volume=1400".
func Load(path string, overrides ...string) (*Protocol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol: %w", err)
	}

	p, err := Parse(data, filepath.Ext(path), overrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes protocol data. ext selects the syntax: ".json" for JSON, anything else is YAML.
func Parse(data []byte, ext string, overrides ...string) (*Protocol, error) {
	raw := map[string]any{}

	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	for _, o := range overrides {
		if err := applyOverride(raw, o); err != nil {
			return nil, err
		}
	}

	seedReagentDefaults(raw)

	var p Protocol
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid protocol: %w", err)
	}

	p.applyDefaults()
	return &p, nil
}

// reagentDefaultKeys are the reagent fields that defaults can fill.
var reagentDefaultKeys = []string{"min_height", "reserve_buffer"}

// seedReagentDefaults copies defaults into every reagent that does not set the key itself.
// A reagent with an explicit 0 keeps it.
func seedReagentDefaults(doc map[string]any) {
	defaults, _ := doc["defaults"].(map[string]any)
	reagents, _ := doc["reagents"].([]any)
	if len(defaults) == 0 {
		return
	}
	for _, item := range reagents {
		reagent, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range reagentDefaultKeys {
			value, set := defaults[key]
			if _, own := reagent[key]; set && !own {
				reagent[key] = value
			}
		}
	}
}

// applyOverride sets one "path=value" pair on the raw document.
// Values stay strings; the weakly typed decoder converts them to the field type.
func applyOverride(doc map[string]any, override string) error {
	key, value, ok := strings.Cut(override, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("invalid override %q: expected key=value", override)
	}

	parts := strings.Split(key, ".")
	var cur any = doc
	for i, part := range parts {
		last := i == len(parts)-1

		switch node := cur.(type) {
		case map[string]any:
			if last {
				node[part] = value
				return nil
			}
			next, exists := node[part]
			if !exists {
				next = map[string]any{}
				node[part] = next
			}
			cur = next

		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return fmt.Errorf("invalid override %q: %q is not an index of %s", override, part, strings.Join(parts[:i], "."))
			}
			if last {
				node[idx] = value
				return nil
			}
			cur = node[idx]

		default:
			return fmt.Errorf("invalid override %q: %s is not a section", override, strings.Join(parts[:i], "."))
		}
	}
	return nil
}
