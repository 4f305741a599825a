package ambient

import (
	"fmt"
	"sort"
)

type preset map[string]interface{}

var presets = map[string]preset{
	"deep-space": {
		FieldNoiseType:   "brown",
		FieldSynthWave:   "sine",
		FieldWindVolume:  -18.0,
		FieldFilterSpeed: 0.05,
		FieldFilterDepth: 2.0,
		FieldDensity:     0.25,
	},
	"solar-wind": {
		FieldNoiseType:   "pink",
		FieldSynthWave:   "fatsine",
		FieldWindVolume:  -14.0,
		FieldFilterSpeed: 0.2,
		FieldFilterDepth: 3.5,
		FieldDensity:     0.4,
	},
	"starlight": {
		FieldNoiseType:   "white",
		FieldSynthWave:   "triangle",
		FieldWindVolume:  -32.0,
		FieldSynthVolume: -8.0,
		FieldDensity:     0.7,
	},
}

// Presets returns the preset names in alphabetical order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPreset writes the fields of a named preset into the store.
func LoadPreset(name string, s *Store) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := s.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
