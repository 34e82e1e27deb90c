package document

import (
	"slices"
	"strings"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Preset is a named canvas size.
type Preset struct {
	Name   string
	Width  float64
	Height float64
	Units  Units
}

// Canvas returns the preset's canvas size.
func (p Preset) Canvas() CanvasSize {
	return CanvasSize{Width: p.Width, Height: p.Height, Units: p.Units}
}

var presets = []Preset{
	{"web", 1920, 1080, Pixels},
	{"web_hd", 1920, 1080, Pixels},
	{"web_4k", 3840, 2160, Pixels},
	{"mobile", 375, 667, Pixels},
	{"tablet", 768, 1024, Pixels},
	{"print_letter", 8.5, 11, Inches},
	{"print_a4", 210, 297, Millimeters},
	{"print_a3", 297, 420, Millimeters},
	{"social_instagram", 1080, 1080, Pixels},
	{"social_facebook", 1200, 630, Pixels},
	{"social_twitter", 1024, 512, Pixels},
}

// Presets returns all known presets.
func Presets() []Preset { return slices.Clone(presets) }

// PresetNames returns the preset names in definition order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, derrors.New(derrors.ErrCodeInvalidPreset,
		"unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
}

// FromPreset creates a new document sized by the named preset. Options are
// applied after the preset, so WithCanvas overrides it.
func FromPreset(name string, opts ...Option) (*Document, error) {
	p, err := LookupPreset(name)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithCanvas(p.Canvas())}, opts...)...)
}
