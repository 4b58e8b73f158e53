package pipeline

import (
	"fmt"
	"sort"

	"github.com/ironsheep/linetrace/internal/detection"
)

// DefaultPreset is served by POST / when no other default is configured.
const DefaultPreset = "skeleton-svg"

// BuiltinPresets returns a fresh copy of the built-in presets.
//
//	skeleton-svg        threshold, skeleton, svg (black/2)
//	skeleton-clean-svg  blur, 7x7 cleanup, skeleton, perimeter >= 60, svg (black/1)
//	skeleton-json       blur, skeleton, perimeter >= 60, json
//	hough-json          blur, canny, probabilistic hough, json
//	polygon-json        blur, contours, area >= 10, polygon simplification, json
//	zhangsuen-svg       threshold, zhang-suen thinning, perimeter >= 60, svg (black/2)
func BuiltinPresets() map[string]Options {
	presets := make(map[string]Options, 6)

	presets[DefaultPreset] = DefaultOptions()

	o := DefaultOptions()
	o.BlurRadius = 1
	o.Cleanup = true
	o.CleanupKernel = 7
	o.Filter = detection.FilterPerimeter
	o.StrokeWidth = 1
	presets["skeleton-clean-svg"] = o

	o = DefaultOptions()
	o.BlurRadius = 1
	o.Filter = detection.FilterPerimeter
	o.Encoding = EncodingJSON
	presets["skeleton-json"] = o

	o = DefaultOptions()
	o.BlurRadius = 1
	o.EdgeDetect = true
	o.Strategy = StrategyHough
	o.Encoding = EncodingJSON
	presets["hough-json"] = o

	o = DefaultOptions()
	o.BlurRadius = 1
	o.Strategy = StrategyPolygon
	o.Filter = detection.FilterArea
	o.Encoding = EncodingJSON
	presets["polygon-json"] = o

	o = DefaultOptions()
	o.Strategy = StrategyZhangSuen
	o.Filter = detection.FilterPerimeter
	presets["zhangsuen-svg"] = o

	return presets
}

// Presets is an immutable set of named options with a default entry.
type Presets struct {
	byName      map[string]Options
	defaultName string
}

// NewPresets builds a preset set from the built-ins plus overrides. Entries in
// overrides replace built-ins of the same name. Every preset is validated, and
// defaultName must name one of them (empty selects DefaultPreset).
func NewPresets(defaultName string, overrides map[string]Options) (*Presets, error) {
	byName := BuiltinPresets()
	for name, o := range overrides {
		byName[name] = o
	}

	for _, name := range sortedNames(byName) {
		if err := byName[name].Validate(); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", name, err)
		}
	}

	if defaultName == "" {
		defaultName = DefaultPreset
	}
	if _, ok := byName[defaultName]; !ok {
		return nil, fmt.Errorf("default preset %q is not defined", defaultName)
	}

	return &Presets{byName: byName, defaultName: defaultName}, nil
}

// Lookup returns the options for name.
func (p *Presets) Lookup(name string) (Options, bool) {
	o, ok := p.byName[name]
	return o, ok
}

// Default returns the default preset name and its options.
func (p *Presets) Default() (string, Options) {
	return p.defaultName, p.byName[p.defaultName]
}

// Names returns all preset names in lexical order.
func (p *Presets) Names() []string {
	return sortedNames(p.byName)
}

func sortedNames(m map[string]Options) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
